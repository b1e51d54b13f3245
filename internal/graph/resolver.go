package graph

import "github.com/hmans/shelf/internal/catalogcore"

//go:generate go tool gqlgen generate

// Resolver is the root of the GraphQL resolver tree. Every field resolver
// reads and writes the catalog through Core.
type Resolver struct {
	Core *catalogcore.Core
}

// compactIDs drops the null entries of a [ID] argument. A nil list stays nil
// so that an omitted argument remains distinguishable from an empty one.
func compactIDs(ids []*string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}

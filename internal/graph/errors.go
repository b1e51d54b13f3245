package graph

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/hmans/shelf/internal/catalogcore"
)

// CodeNotFound is reported in the "code" extension of lookup failures.
const CodeNotFound = "NOT_FOUND"

// NewError creates a GraphQL error carrying the given code extension.
func NewError(message string, code string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Extensions: map[string]any{"code": code},
	}
}

// notFound maps a catalog lookup failure to the client-facing error for the
// given kind of record. Other errors pass through unchanged.
func notFound(kind string, err error) error {
	if errors.Is(err, catalogcore.ErrNotFound) {
		return NewError(fmt.Sprintf("This %s does not exist.", kind), CodeNotFound)
	}
	return err
}

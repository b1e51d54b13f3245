package catalogcore

import "strconv"

// findByID returns the first record whose id matches, scanning in order.
func findByID[T any](records []T, id string, idOf func(T) string) (T, bool) {
	for _, r := range records {
		if idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// filterByIDs returns the records whose id is in ids. The result keeps the
// order of records, not the order of ids.
func filterByIDs[T any](records []T, ids []string, idOf func(T) string) []T {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	result := make([]T, 0, len(ids))
	for _, r := range records {
		if idSet[idOf(r)] {
			result = append(result, r)
		}
	}
	return result
}

// nextID derives the id for a record appended to a collection of size n.
func nextID(n int) string {
	return strconv.Itoa(n + 1)
}

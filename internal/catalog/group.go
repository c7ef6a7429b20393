package catalog

import (
	"cmp"
	"slices"
)

// GroupBy indexes rows by key, each group stably sorted by order ascending.
// The result is freshly built on every call and owns its slices.
func GroupBy[T any](rows []T, key func(T) string, order func(T) int) map[string][]T {
	groups := make(map[string][]T)
	for _, r := range rows {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b T) int {
			return cmp.Compare(order(a), order(b))
		})
	}
	return groups
}

package util

import "slices"

// MapOrder returns a copy of items sorted by the position of each item's key in order.
// Keys missing from order sort with index -1, ahead of every ordered item.
// Returns an empty slice when items or order is nil. items is never modified.
func MapOrder[T any](items []T, order []string, key func(T) string) []T {
	if items == nil || order == nil {
		return []T{}
	}

	index := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := index[id]; !seen {
			index[id] = i
		}
	}
	position := func(item T) int {
		if i, ok := index[key(item)]; ok {
			return i
		}
		return -1
	}

	out := make([]T, len(items))
	copy(out, items)
	slices.SortStableFunc(out, func(a, b T) int {
		return position(a) - position(b)
	})
	return out
}

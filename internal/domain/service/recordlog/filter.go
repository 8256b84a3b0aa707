// Package recordlog implements the ordered, filterable logs behind the
// tracker, the discovery list and the script customization list.
package recordlog

import "iter"

// AllCategories is the filter value that disables category filtering
const AllCategories = "all"

// filter yields the items accepted by keep, in order. The returned sequence
// can be ranged over any number of times.
func filter[T any](items []T, keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			if keep != nil && !keep(item) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// byCategory returns a keep func for the given filter value, or nil for "all"
func byCategory[T any](category string, categoryOf func(T) string) func(T) bool {
	if category == AllCategories {
		return nil
	}
	return func(item T) bool {
		return categoryOf(item) == category
	}
}

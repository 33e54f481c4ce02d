// Package rank selects extremes and orders results by a metric.
package rank

import (
	"errors"
	"sort"
)

// ErrEmptyInput is returned when an extremum is requested over zero elements.
var ErrEmptyInput = errors.New("empty input")

// FindBest returns the element preferred by isBetter. It is the iterative
// form of
//
//	best([x])   = x
//	best(x:xs)  = x if isBetter(x, best(xs)) else best(xs)
//
// so on ties the later element (the winner of the rest of the list) is kept.
func FindBest[T any](items []T, isBetter func(a, b T) bool) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyInput
	}
	best := items[len(items)-1]
	for i := len(items) - 2; i >= 0; i-- {
		if isBetter(items[i], best) {
			best = items[i]
		}
	}
	return best, nil
}

// RankDescending returns a copy of items stably sorted by metric, largest
// first. Equal metrics keep their input order.
func RankDescending[T any](items []T, metric func(T) float64) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return metric(out[i]) > metric(out[j]) })
	return out
}

// TopN returns at most n leading elements of RankDescending.
func TopN[T any](items []T, metric func(T) float64, n int) []T {
	ranked := RankDescending(items, metric)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

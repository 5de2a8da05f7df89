package history

import (
	"slices"

	"github.com/moznion/go-optional"
)

// Comparator orders two values the way cmp.Compare does.
type Comparator[T any] func(a, b T) int

// Reverse flips the order of c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

// Map applies f to every value, most recent first.
func Map[T any, R any](s *Series[T], f func(T) R) []R {
	result := make([]R, 0, s.Len())
	for i := range s.Len() {
		result = append(result, f(s.at(i)))
	}

	return result
}

// Filter returns the values matching pred, most recent first.
func Filter[T any](s *Series[T], pred func(T) bool) []T {
	var result []T

	for i := range s.Len() {
		if v := s.at(i); pred(v) {
			result = append(result, v)
		}
	}

	return result
}

// ReduceInt sums extract over the contents.
func ReduceInt[T any](s *Series[T], extract func(T) int) int {
	total := 0
	for i := range s.Len() {
		total += extract(s.at(i))
	}

	return total
}

// ReduceFloat sums extract over the contents.
func ReduceFloat[T any](s *Series[T], extract func(T) float64) float64 {
	total := 0.0
	for i := range s.Len() {
		total += extract(s.at(i))
	}

	return total
}

// CountBy counts the values matching pred.
func CountBy[T any](s *Series[T], pred func(T) bool) int {
	count := 0

	for i := range s.Len() {
		if pred(s.at(i)) {
			count++
		}
	}

	return count
}

// SortBy returns the contents sorted ascending by c. Equal values keep their
// most-recent-first order.
func SortBy[T any](s *Series[T], c Comparator[T]) []T {
	result := s.All()
	slices.SortStableFunc(result, c)

	return result
}

// MaxBy returns the greatest value by c, the most recent one on ties.
func MaxBy[T any](s *Series[T], c Comparator[T]) optional.Option[T] {
	if s.Len() == 0 {
		return optional.None[T]()
	}

	best := s.at(0)
	for i := 1; i < s.Len(); i++ {
		if v := s.at(i); c(v, best) > 0 {
			best = v
		}
	}

	return optional.Some(best)
}

// MinBy returns the smallest value by c, the most recent one on ties.
func MinBy[T any](s *Series[T], c Comparator[T]) optional.Option[T] {
	if s.Len() == 0 {
		return optional.None[T]()
	}

	best := s.at(0)
	for i := 1; i < s.Len(); i++ {
		if v := s.at(i); c(v, best) < 0 {
			best = v
		}
	}

	return optional.Some(best)
}

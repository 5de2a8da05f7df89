// Package history keeps a bounded, most-recent-first view of recent values.
package history

import (
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// Series is a fixed-capacity ring buffer. Index 0 is always the most recently
// viewed value; once the buffer is full each new value evicts the oldest one.
type Series[T any] struct {
	buffer []T
	// head is the slot of the most recent value.
	head   int
	size   int
	viewed int
}

// Window is the series of bars a strategy can look back on.
type Window = Series[types.Candle]

// NewSeries allocates a series holding at most capacity values.
func NewSeries[T any](capacity int) (*Series[T], error) {
	if capacity <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidCapacity, "series capacity %d must be positive", capacity)
	}

	return &Series[T]{
		buffer: make([]T, capacity),
		head:   capacity - 1,
	}, nil
}

// NewWindow allocates a bar window holding at most capacity bars.
func NewWindow(capacity int) (*Window, error) {
	return NewSeries[types.Candle](capacity)
}

// View pushes value to the front, evicting the oldest value when full.
func (s *Series[T]) View(value T) {
	s.head = (s.head + 1) % len(s.buffer)
	s.buffer[s.head] = value

	if s.size < len(s.buffer) {
		s.size++
	}

	s.viewed++
}

// Get returns the value i positions back from the most recent one.
func (s *Series[T]) Get(i int) (T, error) {
	var zero T

	if i < 0 || i >= len(s.buffer) {
		return zero, errors.Newf(errors.ErrCodeIndexOutOfRange,
			"index %d is outside the capacity %d", i, len(s.buffer))
	}

	if i >= s.viewed && s.viewed <= len(s.buffer) {
		return zero, errors.Newf(errors.ErrCodeIndexOutOfRange,
			"index %d is outside the %d viewed values", i, s.viewed)
	}

	return s.at(i), nil
}

func (s *Series[T]) at(i int) T {
	return s.buffer[(s.head-i+len(s.buffer))%len(s.buffer)]
}

// Capacity returns the maximum number of values held.
func (s *Series[T]) Capacity() int {
	return len(s.buffer)
}

// Len returns the number of values currently held.
func (s *Series[T]) Len() int {
	return s.size
}

// Viewed returns how many values were viewed since the last Reset.
func (s *Series[T]) Viewed() int {
	return s.viewed
}

// IsFull reports whether the series holds capacity values.
func (s *Series[T]) IsFull() bool {
	return s.size == len(s.buffer)
}

// All returns a copy of the contents, most recent first.
func (s *Series[T]) All() []T {
	result := make([]T, s.size)
	for i := range s.size {
		result[i] = s.at(i)
	}

	return result
}

// Reset empties the series without reallocating it.
func (s *Series[T]) Reset() {
	var zero T
	for i := range s.buffer {
		s.buffer[i] = zero
	}

	s.head = len(s.buffer) - 1
	s.size = 0
	s.viewed = 0
}

package ell

import "context"

// State is a WaitHandler that carries a value. Calling Set or Update, in a
// task's op, updates the value and wakes every task currently awaiting it.
//
// A State must not be shared by more than one EventLoop.
type State[T any] struct {
	changed WaitHandler
	value   T
}

// NewState creates a State with its initial value set to v.
func NewState[T any](v T) *State[T] {
	return &State[T]{value: v}
}

// Get retrieves the current value of s.
func (s *State[T]) Get() T {
	return s.value
}

// Set updates the value of s and wakes every task awaiting it.
func (s *State[T]) Set(v T) {
	s.value = v
	s.changed.NotifyAll()
}

// Update sets the value of s to f(s.Get()) and wakes every task awaiting it.
func (s *State[T]) Update(f func(v T) T) {
	s.Set(f(s.value))
}

// Await suspends the current task until s is next updated, then returns the
// new value. Callers that need to wait for a specific condition should loop:
// for s.Get() != want { s.Await(ctx) }.
func (s *State[T]) Await(ctx context.Context) T {
	SubscribeCurrentTask(ctx, &s.changed)
	return s.value
}

package ell

import (
	"errors"
	"fmt"
)

// Sentinel errors for the loop's fatal and cooperative failure modes.
// ErrDeadlock and ErrNotRunning are raised wrapped with fmt.Errorf("%w", ...);
// ErrCancelled is stored unwrapped as a cancelled task's outcome. Compare
// against them with errors.Is/errors.As rather than ==.
var (
	// ErrCancelled is stored as a task's outcome when a Cancelled failure is
	// raised at its next suspension-return following a cancel request.
	ErrCancelled = errors.New("ell: task cancelled")

	// ErrDeadlock is raised (as a panic) by RunUntilComplete when the ready
	// queue and sleep heap are both empty but the target task is still
	// incomplete.
	ErrDeadlock = errors.New("ell: deadlock detected")

	// ErrNotRunning is raised when a facade function is called with a
	// context.Context that was not derived from a running Task.
	ErrNotRunning = errors.New("ell: not inside a running loop")
)

// PanicError wraps a value recovered from a task's callable. It is stored as
// the task's outcome in place of a normal return value or error.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("ell: task panicked: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap exposes the recovered value when it is itself an error, so that
// errors.As can reach the original cause.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AggregateError collects the failures of every task an EventLoop ran that
// completed with an error other than ErrCancelled, across calls to
// RunForever or RunUntilComplete. EventLoop.Errors returns one built from
// whatever has accumulated so far.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("ell: 1 task failed: %v", e.Errors[0])
	}
	return fmt.Sprintf("ell: %d tasks failed, first: %v", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every contained error to errors.Is/errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// cancelledSignal is the sentinel panic value suspend() raises inside a
// task's own goroutine when it resumes with pendingCancel set, and that
// subscribe() raises when pendingCancel is already set. It is never
// observed outside task.execute's recover.
type cancelledSignal struct{}

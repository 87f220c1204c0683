package ell

import (
	"context"
	"fmt"
	"time"
)

type taskCtxKey struct{}

// withTask derives a context.Context carrying t, used by a task's own
// goroutine as the "current loop" lookup mechanism. This is the idiomatic
// Go substitute for the source's thread-local current-loop pointer (see
// SPEC_FULL.md §3/§9): the task's goroutine is the only goroutine that ever
// runs its callable, so the association is stable for the task's entire
// lifetime, and multiple independent loops (each driving its own tasks on
// their own goroutines) cannot collide with one another's lookups.
func withTask(ctx context.Context, t *Task) context.Context {
	return context.WithValue(ctx, taskCtxKey{}, t)
}

func taskFromContext(ctx context.Context) *Task {
	t, ok := ctx.Value(taskCtxKey{}).(*Task)
	if !ok || t == nil {
		panic(fmt.Errorf("%w", ErrNotRunning))
	}
	return t
}

// Yield cooperatively suspends the current task, re-queuing it at the tail
// of its loop's ready queue.
func Yield(ctx context.Context) {
	taskFromContext(ctx).yieldToScheduler()
}

// Sleep places the current task in its loop's sleep heap for d and
// suspends. Sleep(ctx, 0) is equivalent to Yield(ctx).
func Sleep(ctx context.Context, d time.Duration) {
	taskFromContext(ctx).sleepFor(d)
}

// Call runs op as a nested task on the current task's loop, suspending the
// caller until it completes, then returns (or re-raises) its result — the
// yield(callable) operation.
func Call(ctx context.Context, op OpFunc) (any, error) {
	return taskFromContext(ctx).call(op)
}

// CallT is the generic, typed convenience form of Call.
func CallT[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	v, err := Call(ctx, func(ctx context.Context) (any, error) {
		return op(ctx)
	})
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return v.(T), nil
}

// CurrentTaskID returns the id of the task running under ctx.
func CurrentTaskID(ctx context.Context) uint64 {
	return taskFromContext(ctx).id
}

func (t *Task) sleepFor(d time.Duration) {
	if d <= 0 {
		t.yieldToScheduler()
		return
	}

	l := t.loop
	l.mu.Lock()
	l.nextSeq++
	t.sleepGen++
	entry := &sleepEntry{
		deadline: time.Now().Add(d),
		seq:      l.nextSeq,
		gen:      t.sleepGen,
		task:     t,
	}
	t.sleeping = true
	t.incWait()
	l.sleeping.Push(entry)
	l.mu.Unlock()

	t.suspend()
}

// SuspendCurrentTask is the EventLoop-method form of Yield.
func (e *EventLoop) SuspendCurrentTask(ctx context.Context) {
	Yield(ctx)
}

// SleepCurrentTask is the EventLoop-method form of Sleep.
func (e *EventLoop) SleepCurrentTask(ctx context.Context, d time.Duration) {
	Sleep(ctx, d)
}

// SubscribeCurrentTask registers the current task on h and suspends;
// on resumption its wait count has already been decremented.
func SubscribeCurrentTask(ctx context.Context, h *WaitHandler) {
	taskFromContext(ctx).subscribe(h)
}

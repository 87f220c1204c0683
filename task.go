package ell

import (
	"context"
	"runtime/debug"
)

// OpFunc is a user callable run as a Task's body. It receives a
// context.Context carrying the identity of the Task itself — the mechanism
// by which Yield, Sleep and Call locate "the current loop" without a
// literal thread-local (see facade.go).
type OpFunc func(ctx context.Context) (any, error)

// Task wraps a user callable as a resumable coroutine with its own stack,
// carrying its own result, wait state and cancellation flags.
//
// The "own stack" is a dedicated goroutine, started at construction and
// parked immediately on resumeC — which supplies the same "primed but not
// started" invariant the source gets from an explicit initialization yield,
// with no separate step required. resumeC/yieldC together form the
// context-switch primitive ("the baton"): resume() and suspend() hand
// control back and forth one message at a time, so that at most one side is
// ever running user code for this task.
type Task struct {
	id   uint64
	loop *EventLoop
	op   OpFunc

	resumeC chan struct{}
	yieldC  chan struct{}

	waitCount     uint32
	pendingCancel bool
	cancelled     bool
	complete      bool

	// waitingOn is the single handler this task is currently subscribed to,
	// tracked only so RequestTaskCancel can remove it before the Cancelled
	// failure propagates, per the queue's failure-semantics requirement.
	waitingOn *WaitHandler

	// sleeping/sleepGen let a cancelled sleeper be force-woken without
	// supporting arbitrary removal from the sleep heap: the stale heap
	// entry is left in place and discarded, by generation mismatch, the
	// next time it would otherwise fire. See loop.go.
	sleeping bool
	sleepGen uint64

	// allocatedStack holds whatever EventLoop.stackAllocator returned for
	// this task, for the lifetime of the task, so a leak-checking allocator
	// has something retained to charge against it. Unused if no allocator
	// is configured.
	allocatedStack []byte

	result ResultHolder
	// done is notified once the task completes; Call/yield(callable) waits
	// on it the same way a Queue waits on not_empty/not_full.
	done WaitHandler
}

func newTask(loop *EventLoop, id uint64, op OpFunc) *Task {
	t := &Task{
		id:      id,
		loop:    loop,
		op:      op,
		resumeC: make(chan struct{}),
		yieldC:  make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Task) run() {
	<-t.resumeC
	ctx := withTask(context.Background(), t)
	t.execute(ctx)
	t.complete = true
	t.done.NotifyAll()
	t.yieldC <- struct{}{}
}

func (t *Task) execute(ctx context.Context) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch r.(type) {
		case cancelledSignal:
			t.cancelled = true
			t.result.StoreFailure(ErrCancelled)
		default:
			pe := &PanicError{Value: r, Stack: debug.Stack()}
			t.result.StoreFailure(pe)
			t.loop.metrics.RecordTaskPanic()
			if h := t.loop.panicHandler; h != nil {
				h.HandlePanic(ctx, t.id, r, pe.Stack)
			}
		}
	}()

	value, err := t.op(ctx)
	if err != nil {
		t.result.StoreFailure(err)
	} else {
		t.result.Store(value)
	}
}

// resume transfers control into the task's goroutine; it blocks until the
// task suspends again or completes. Called only by the EventLoop's
// scheduling loop, with exactly one task resumed at a time.
func (t *Task) resume() {
	t.resumeC <- struct{}{}
	<-t.yieldC
}

// suspend yields back to the scheduler and blocks until resumed again. On
// return it raises the Cancelled failure (by panicking with cancelledSignal,
// caught by execute's recover) if a cancellation was requested while
// suspended. Called only from within the task's own goroutine, directly by
// a facade function.
func (t *Task) suspend() {
	t.yieldC <- struct{}{}
	<-t.resumeC
	if t.pendingCancel {
		panic(cancelledSignal{})
	}
}

func (t *Task) incWait() {
	t.waitCount++
}

func (t *Task) decWait() {
	if t.waitCount == 0 {
		panic("ell: Task: waitCount underflow")
	}
	t.waitCount--
}

// yieldToScheduler implements suspend_current_task(): re-queue at the tail
// of the ready queue, then suspend.
func (t *Task) yieldToScheduler() {
	t.loop.enqueueReady(t)
	t.suspend()
}

// subscribe implements subscribe_current_task(handler): register on h,
// account for the wait, and suspend. Whoever wakes the task (NotifyOne,
// NotifyAll, or RequestTaskCancel) is responsible for clearing waitingOn
// and decrementing waitCount before the task resumes. If a cancellation is
// already pending, the Cancelled failure is raised at once instead, since
// nothing would otherwise wake the task to deliver it.
func (t *Task) subscribe(h *WaitHandler) {
	if t.pendingCancel {
		panic(cancelledSignal{})
	}
	h.subscribe(t)
	t.incWait()
	t.waitingOn = h
	t.suspend()
}

// wake is called by a WaitHandler (already removed from its subscriber
// list) to move t back onto the ready queue.
func (t *Task) wake() {
	t.waitingOn = nil
	t.decWait()
	t.loop.enqueueReady(t)
}

// call implements yield(callable): run op as a nested task to completion,
// suspending this task until it finishes, then return (or re-raise) its
// result. Unlike call_soon, the caller is not re-queued at the tail between
// the call and the subtask's completion — it resumes only once, when the
// subtask is done.
func (t *Task) call(op OpFunc) (any, error) {
	h := t.loop.CallSoon(op)
	for !h.task.complete {
		t.subscribe(&h.task.done)
	}
	return h.task.result.take()
}

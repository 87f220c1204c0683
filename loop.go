package ell

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// sleepEntry is a (deadline, task) pair in the EventLoop's sleep heap,
// ordered by deadline with subscription-order tie-break, per §5's ordering
// guarantee. gen lets a cancelled sleeper be force-woken without requiring
// the heap to support arbitrary removal: see Task.sleeping/sleepGen.
type sleepEntry struct {
	deadline time.Time
	seq      uint64
	gen      uint64
	task     *Task
}

func (e *sleepEntry) less(v *sleepEntry) bool {
	if e.deadline.Equal(v.deadline) {
		return e.seq < v.seq
	}
	return e.deadline.Before(v.deadline)
}

// readyQueue is a strict FIFO of runnable tasks.
type readyQueue struct {
	items []*Task
	head  int
}

func (q *readyQueue) push(t *Task) {
	q.items = append(q.items, t)
}

func (q *readyQueue) pop() *Task {
	t := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return t
}

func (q *readyQueue) empty() bool {
	return q.head >= len(q.items)
}

// EventLoop is the scheduler: it owns the ready queue and the sleep heap,
// drives tasks to completion strictly serially, and honors sleep, wait and
// cancellation semantics.
//
// CallSoon is safe to call from goroutines other than the one running the
// loop (the teacher's "fan-in executing code from goroutines" use case);
// mu guards exactly the ready queue, the sleep heap and the id counter for
// that purpose. Task execution itself never runs concurrently with itself —
// resume() always blocks until the resumed task suspends or completes.
type EventLoop struct {
	mu       sync.Mutex
	ready    readyQueue
	sleeping priorityqueue[*sleepEntry]
	nextID   uint64
	nextSeq  uint64
	stopped  bool
	failures []error

	logger         Logger
	metrics        Metrics
	panicHandler   PanicHandler
	stackSize      int
	stackAllocator func(size int) []byte
}

// NewEventLoop creates an EventLoop configured by opts. See config.go for
// available Options and their defaults.
func NewEventLoop(opts ...Option) *EventLoop {
	e := &EventLoop{
		logger:       NoOpLogger,
		metrics:      NoOpMetrics,
		panicHandler: DefaultPanicHandler,
		stackSize:    4096,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CallSoon wraps op in a Task, adds it to the ready queue, and returns a
// handle to it.
func (e *EventLoop) CallSoon(op OpFunc) *TaskHandle {
	e.mu.Lock()
	if e.nextID == ^uint64(0) {
		e.mu.Unlock()
		panic("ell: EventLoop: task id space exhausted")
	}
	id := e.nextID
	e.nextID++
	e.mu.Unlock()

	t := newTask(e, id, op)
	if e.stackAllocator != nil {
		t.allocatedStack = e.stackAllocator(e.stackSize)
	}

	e.mu.Lock()
	e.ready.push(t)
	qlen := e.ready.len()
	e.mu.Unlock()

	e.metrics.RecordQueueDepth(qlen)
	return &TaskHandle{task: t}
}

func (q *readyQueue) len() int {
	return len(q.items) - q.head
}

func (e *EventLoop) enqueueReady(t *Task) {
	e.mu.Lock()
	e.ready.push(t)
	e.mu.Unlock()
}

// RunUntilComplete runs the loop until h's task has completed. Other tasks
// may remain incomplete afterwards.
func (e *EventLoop) RunUntilComplete(h *TaskHandle) {
	e.run(h.task)
}

// RunForever runs until no runnable tasks and no sleepers remain, or until
// Stop is called.
func (e *EventLoop) RunForever() {
	e.run(nil)
}

// Stop requests that a running RunForever return once its current tick
// finishes.
func (e *EventLoop) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
}

// Errors returns an AggregateError of every task failure (excluding
// cancellation) observed since e was created or since the last call to
// Errors, or nil if none occurred. It is the multi-task failure report a
// caller driving many fire-and-forget tasks through RunForever can poll,
// since individual TaskHandles are often discarded by such callers.
func (e *EventLoop) Errors() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.failures) == 0 {
		return nil
	}
	agg := &AggregateError{Errors: e.failures}
	e.failures = nil
	return agg
}

func (e *EventLoop) run(target *Task) {
	for {
		e.mu.Lock()

		if target != nil && target.complete {
			e.mu.Unlock()
			return
		}
		if e.stopped {
			e.stopped = false
			e.mu.Unlock()
			return
		}

		e.wakeExpiredSleepersLocked(time.Now())

		if !e.ready.empty() {
			task := e.ready.pop()
			e.mu.Unlock()

			start := time.Now()
			task.resume()
			e.metrics.RecordTaskDuration(time.Since(start))
			if task.complete {
				e.logger.Debug("task completed", F("task_id", task.id))
				if err := task.result.peekFailure(); err != nil && !errors.Is(err, ErrCancelled) {
					e.mu.Lock()
					e.failures = append(e.failures, err)
					e.mu.Unlock()
				}
			}
			continue
		}

		// Drop heap entries left behind by sleepers RequestTaskCancel already
		// woke, so they neither delay the loop nor hide a deadlock.
		for !e.sleeping.Empty() {
			top := e.sleeping.Peek()
			if top.task.sleeping && top.task.sleepGen == top.gen {
				break
			}
			e.sleeping.Pop()
		}

		if !e.sleeping.Empty() {
			deadline := e.sleeping.Peek().deadline
			e.mu.Unlock()
			if d := time.Until(deadline); d > 0 {
				time.Sleep(d)
			}
			continue
		}

		e.mu.Unlock()

		if target != nil {
			e.metrics.RecordDeadlock()
			e.logger.Error("deadlock detected",
				F("task_id", target.id))
			panic(fmt.Errorf("%w: run_until_complete target never completed, no ready or sleeping tasks remain", ErrDeadlock))
		}
		return
	}
}

// wakeExpiredSleepersLocked moves every sleeper whose deadline has passed
// onto the ready queue, in non-decreasing deadline order (ties broken by
// subscription order), per §5. Must be called with e.mu held.
func (e *EventLoop) wakeExpiredSleepersLocked(now time.Time) {
	for !e.sleeping.Empty() && !e.sleeping.Peek().deadline.After(now) {
		entry := e.sleeping.Pop()
		t := entry.task
		if !t.sleeping || t.sleepGen != entry.gen {
			continue // stale: already force-woken by RequestTaskCancel.
		}
		t.sleeping = false
		t.decWait()
		e.ready.push(t)
	}
}

// RequestTaskCancel implements request_task_cancel: sets pendingCancel, and
// if t is currently blocked on a wait handler or sleeping, forcibly moves it
// to the ready queue so the Cancelled failure can be delivered at its next
// resume rather than waiting for a notify or a deadline. A task that has
// already completed ignores the request.
func (e *EventLoop) RequestTaskCancel(t *Task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t.complete {
		return
	}
	t.pendingCancel = true

	if t.waitingOn != nil {
		t.waitingOn.unsubscribe(t)
		t.waitingOn = nil
		t.decWait()
		e.ready.push(t)
		return
	}

	if t.sleeping {
		t.sleeping = false
		t.decWait()
		e.ready.push(t)
		return
	}

	// Already ready, or currently running: it will observe pendingCancel at
	// its own next suspension point without any help from us.
}

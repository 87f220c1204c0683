// Package ell is a library for asynchronous programming.
//
// Since Go has already done a great job in bringing green/virtual threads
// into life, this library only implements a single-threaded [EventLoop]
// type, which some refer to as an async runtime. One can create as many
// event loops as they like.
//
// While Go excels at forking, ell, on the other hand, excels at joining.
//
// # Use Case #1: Fan-In Executing Code From Goroutines
//
// Wanted to execute pieces of code from goroutines in a single-threaded way?
//
// An [EventLoop] is designed to be able to run tasks spawned from goroutines
// sequentially, via [EventLoop.CallSoon]. This comes in handy when one wants
// to do a series of operations on a single thread — to read or update state
// that is not safe for concurrent access, to write data to the console or a
// file, to update one's user interface, etc.
//
// Be aware that there is no back pressure. [EventLoop.CallSoon] isn't
// designed to block. If spawning outruns execution, an [EventLoop] can
// easily consume a lot of memory over time. To mitigate, one could introduce
// a [Semaphore] or a bounded [Queue] per hot spot.
//
// # Use Case #2: Event-Driven Reactiveness
//
// A [Task] can be reactive.
//
// A [Task]'s op is an ordinary [OpFunc]. Within it, the op can call [Yield],
// [Sleep], or block on a [WaitHandler] (directly, or through one of the
// primitives built on top of it: [Semaphore], [WaitGroup], [State], [Queue]).
// Each of those suspends the task until the loop resumes it, at which point
// the op simply continues running from where it left off — there is no
// separate "resume" function to write, because the op's own goroutine is
// parked on a channel for the duration.
//
// This is useful when one wants to do something repeatedly: just loop inside
// the op, suspending at each iteration. To exit the loop, return from the op
// function like any other Go function. Simple.
//
// # Calling Nested Work
//
// [Call] runs another [OpFunc] as a task of its own on the same loop,
// suspending the caller until it completes, and returns (or re-raises) its
// result. This is the primitive [Retry] is built from: a retry policy is
// nothing more than a loop of [Call] and [Sleep].
//
// # Spawning Async Tasks vs. Passing Data Over Go Channels
//
// It's not recommended to perform blocking channel operations inside a
// [Task]'s op. For an [EventLoop], if one task blocks outside of the
// facade's suspension points, no other task can run. So instead of passing
// data around over channels, handle data at the place where it becomes
// available — via [Queue], [State], or a [WaitHandler] of one's own.
//
// One of the advantages of passing data over channels is to avoid
// allocation. Unfortunately, tasks always escape to heap: each one owns a
// goroutine and the channels used to resume it. One should stay alert and
// take measures in hot spots, like a [Queue] consumer that spawns a fresh
// task per item instead of reusing one long-lived task.
//
// # The Essentiality of Structured Concurrency
//
// ell encourages non-blocking programming, which makes structured
// concurrency essential to this library. At some point, one might want to
// know when an [EventLoop] stops operating.
//
// [EventLoop.RunUntilComplete] returns once its target [TaskHandle]
// completes — this is the loop's synchronization point. [EventLoop.Stop]
// additionally lets outside code ask a [EventLoop.RunForever] loop to return
// at its next natural opportunity, without waiting on any particular task.
//
// # Cancellation
//
// [EventLoop.RequestTaskCancel] marks a task for cancellation and, if it is
// currently sleeping or blocked on a [WaitHandler], wakes it immediately so
// the cancellation is observed promptly rather than at the next unrelated
// wake. A task's own suspension points are the only place cancellation can
// actually take effect: the next time the task calls [Yield], [Sleep], or
// blocks on a [WaitHandler], its op unwinds with [ErrCancelled] as if it had
// panicked, and [TaskHandle.Cancelled] reports true from then on.
//
// # Panic Propagation
//
// A task's panic is captured, not propagated: it becomes the task's result,
// retrievable via [GetResult] as a [*PanicError], and is also reported
// through the loop's [PanicHandler] (by default, printed to stderr). A
// panicking task never brings down its [EventLoop] or any other task.
package ell

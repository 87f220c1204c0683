package ell

// Option configures an EventLoop at construction time, grounded on the
// TaskSchedulerConfig/DefaultTaskSchedulerConfig pattern of this domain's
// worker-runner cousins, adapted to Go's functional-options idiom.
type Option func(*EventLoop)

// WithLogger sets the EventLoop's structured logger. Default: NoOpLogger.
func WithLogger(l Logger) Option {
	return func(e *EventLoop) { e.logger = l }
}

// WithMetrics sets the EventLoop's metrics sink. Default: NoOpMetrics.
func WithMetrics(m Metrics) Option {
	return func(e *EventLoop) { e.metrics = m }
}

// WithPanicHandler sets the EventLoop's panic observability hook. Default:
// DefaultPanicHandler (prints to stderr).
func WithPanicHandler(h PanicHandler) Option {
	return func(e *EventLoop) { e.panicHandler = h }
}

// WithStackSize sets the advisory per-task stack size, in bytes, default
// 4096. Go goroutine stacks grow and shrink automatically; this value is
// not used to size anything, and exists only for API parity with the
// source's coroutine_stack_size. It is still passed to StackAllocator, if
// one is set.
func WithStackSize(n int) Option {
	return func(e *EventLoop) { e.stackSize = n }
}

// WithStackAllocator installs a pluggable hook, called once per task with
// the configured stack size, whose return value is retained on the Task for
// that task's entire lifetime — charged against it the way a leak-checking
// allocator expects — and released only when the task itself is (it does
// not back the task's real goroutine stack — Go manages that itself). This
// is the hook point the source's pluggable stack allocator occupies; by
// default no allocator is installed and CallSoon performs no such
// allocation.
func WithStackAllocator(f func(size int) []byte) Option {
	return func(e *EventLoop) { e.stackAllocator = f }
}

// ResultHolderInlineSize and ResultHolderInlineAlign mirror the source's
// result_holder_inline_size/result_holder_inline_align configuration. They
// are not implemented as a behavioral knob: see ResultHolder's doc comment
// for why no manual small-buffer storage exists in this port. They are kept
// as named constants, not Options, purely so a caller porting configuration
// from the source has somewhere to see the documented equivalence.
const (
	ResultHolderInlineSize  = 32
	ResultHolderInlineAlign = 8
)

package ell

import (
	"context"
	"fmt"
	"os"
	"time"
)

// PanicHandler is notified whenever a task's callable panics with a value
// other than the internal cancellation sentinel. The panic is always also
// captured into the task's ResultHolder as a *PanicError; the handler is
// purely an observability hook.
type PanicHandler interface {
	HandlePanic(ctx context.Context, taskID uint64, value any, stack []byte)
}

type defaultPanicHandler struct{}

func (defaultPanicHandler) HandlePanic(_ context.Context, taskID uint64, value any, stack []byte) {
	fmt.Fprintf(os.Stderr, "ell: task %d panicked: %v\n%s\n", taskID, value, stack)
}

// DefaultPanicHandler prints the panic and its stack trace to stderr.
var DefaultPanicHandler PanicHandler = defaultPanicHandler{}

type nilPanicHandler struct{}

func (nilPanicHandler) HandlePanic(context.Context, uint64, any, []byte) {}

// NilPanicHandler observes nothing; the panic is still captured as the
// task's outcome regardless.
var NilPanicHandler PanicHandler = nilPanicHandler{}

// Metrics is the ambient metrics hook the EventLoop reports scheduling
// events through. The observability/prometheus subpackage provides an
// implementation backed by github.com/prometheus/client_golang.
type Metrics interface {
	RecordTaskDuration(d time.Duration)
	RecordTaskPanic()
	RecordQueueDepth(depth int)
	RecordDeadlock()
}

type noopMetrics struct{}

func (noopMetrics) RecordTaskDuration(time.Duration) {}
func (noopMetrics) RecordTaskPanic()                 {}
func (noopMetrics) RecordQueueDepth(int)             {}
func (noopMetrics) RecordDeadlock()                  {}

// NoOpMetrics discards everything. It is the EventLoop's default.
var NoOpMetrics Metrics = noopMetrics{}

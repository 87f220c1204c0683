// Package prometheus adapts ell.Metrics to Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/loopkit/ell"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts ell.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds prom.Histogram
	taskPanicTotal      prom.Counter
	deadlockTotal       prom.Counter
	queueDepth          prom.Gauge
}

var _ ell.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for
// ell.Metrics. namespace defaults to "ell" if empty; reg defaults to
// prom.DefaultRegisterer if nil.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "ell"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds, measured from resume to the next suspension or completion.",
		Buckets:   buckets,
	})
	taskPanicVec := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of task callables that panicked and had the panic captured as a failure.",
	})
	deadlockVec := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "deadlock_total",
		Help:      "Total number of times RunUntilComplete found nothing ready or sleeping with its target still incomplete.",
	})
	queueDepthVec := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "ready_queue_depth",
		Help:      "Current depth of the event loop's ready queue at the moment a task was scheduled.",
	})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if taskPanicVec, err = registerCollector(reg, taskPanicVec); err != nil {
		return nil, err
	}
	if deadlockVec, err = registerCollector(reg, deadlockVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: durationVec,
		taskPanicTotal:      taskPanicVec,
		deadlockTotal:       deadlockVec,
		queueDepth:          queueDepthVec,
	}, nil
}

// RecordTaskDuration records how long a single resume-to-suspend span took.
func (m *MetricsExporter) RecordTaskDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.Observe(d.Seconds())
}

// RecordTaskPanic increments the task panic counter.
func (m *MetricsExporter) RecordTaskPanic() {
	if m == nil {
		return
	}
	m.taskPanicTotal.Inc()
}

// RecordQueueDepth records the current ready-queue depth.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// RecordDeadlock increments the deadlock counter.
func (m *MetricsExporter) RecordDeadlock() {
	if m == nil {
		return
	}
	m.deadlockTotal.Inc()
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}

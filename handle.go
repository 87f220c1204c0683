package ell

// TaskHandle is the external, user-facing view of a Task: a shared handle
// used only for result retrieval and cancellation requests. The EventLoop,
// not the holder of a TaskHandle, exclusively owns the underlying Task.
type TaskHandle struct {
	task *Task
}

// ID returns the task's unique, monotonically assigned identifier.
func (h *TaskHandle) ID() uint64 {
	return h.task.id
}

// Cancel requests cooperative cancellation of the task. The Cancelled
// failure is delivered at the task's next suspension-return, not
// immediately; a task that has already completed ignores the request.
func (h *TaskHandle) Cancel() {
	h.task.loop.RequestTaskCancel(h.task)
}

// IsComplete reports whether the task's coroutine has returned (normally,
// by failure, or by cancellation).
func (h *TaskHandle) IsComplete() bool {
	return h.task.complete
}

// Cancelled reports whether the task's outcome is a Cancelled failure that
// has been caught by its wrapper. It only ever transitions false to true.
func (h *TaskHandle) Cancelled() bool {
	return h.task.cancelled
}

package ell

// WaitHandler is the single rendezvous primitive on which all blocking in
// this package is built: a Queue's push/pop, a Semaphore's Acquire, a
// WaitGroup's Await. Tasks subscribe to it; any party may notify it to wake
// subscribers.
//
// Subscription order is preserved (FIFO); NotifyOne wakes the earliest
// subscriber, NotifyAll wakes everyone currently subscribed. Notifying a
// handler with no subscribers is a no-op — WaitHandler is edge-triggered,
// not level-triggered. Primitives that need level semantics (a queue whose
// buffer is already non-empty, say) must consult their own state rather
// than relying on a sticky notification.
//
// A WaitHandler must only be mutated by code running as the currently
// scheduled task of its owning EventLoop; this package's own primitives
// never call into it from any other context.
type WaitHandler struct {
	subscribers []*Task
}

func (w *WaitHandler) subscribe(t *Task) {
	w.subscribers = append(w.subscribers, t)
}

func (w *WaitHandler) unsubscribe(t *Task) bool {
	for i, s := range w.subscribers {
		if s == t {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// NotifyAll wakes every task currently subscribed to w, in subscription
// order.
func (w *WaitHandler) NotifyAll() {
	subs := w.subscribers
	w.subscribers = nil
	for _, t := range subs {
		t.wake()
	}
}

// NotifyOne wakes the earliest subscriber of w, if any.
func (w *WaitHandler) NotifyOne() {
	if len(w.subscribers) == 0 {
		return
	}
	t := w.subscribers[0]
	w.subscribers = w.subscribers[1:]
	t.wake()
}

package ell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitHandlerSubscribeIsFIFO(t *testing.T) {
	var h WaitHandler
	a, b, c := &Task{id: 1}, &Task{id: 2}, &Task{id: 3}

	h.subscribe(a)
	h.subscribe(b)
	h.subscribe(c)

	assert.Equal(t, []*Task{a, b, c}, h.subscribers)
}

func TestWaitHandlerUnsubscribe(t *testing.T) {
	var h WaitHandler
	a := &Task{id: 1}
	b := &Task{id: 2}
	h.subscribe(a)
	h.subscribe(b)

	assert.True(t, h.unsubscribe(a))
	assert.False(t, h.unsubscribe(a))
	assert.Equal(t, []*Task{b}, h.subscribers)
}

func TestWaitHandlerNotifyEmptyIsNoOp(t *testing.T) {
	var h WaitHandler
	assert.NotPanics(t, h.NotifyAll)
	assert.NotPanics(t, h.NotifyOne)
}

func TestWaitHandlerNotifyOneDequeuesEarliestOnly(t *testing.T) {
	e := NewEventLoop()
	var h WaitHandler
	// Each Task carries the wait count its subscription would have added,
	// since waking it decrements that count.
	a, b := &Task{id: 1, loop: e, waitCount: 1}, &Task{id: 2, loop: e, waitCount: 1}
	h.subscribe(a)
	h.subscribe(b)

	// NotifyOne must wake only the earliest subscriber, moving it onto its
	// loop's ready queue and leaving the rest for a future notification.
	h.NotifyOne()
	assert.Same(t, a, e.ready.pop())
	assert.Equal(t, []*Task{b}, h.subscribers)
}

package ell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLoopErrorsAggregatesFailures(t *testing.T) {
	e := NewEventLoop(WithPanicHandler(NilPanicHandler))
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")

	h1 := e.CallSoon(func(ctx context.Context) (any, error) { return nil, boom1 })
	h2 := e.CallSoon(func(ctx context.Context) (any, error) { return nil, boom2 })
	h3 := e.CallSoon(func(ctx context.Context) (any, error) { return "ok", nil })

	e.RunUntilComplete(h1)
	e.RunUntilComplete(h2)
	e.RunUntilComplete(h3)

	err := e.Errors()
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
	assert.ErrorIs(t, err, boom1)
	assert.ErrorIs(t, err, boom2)

	// Drained: a second call with no new failures reports none.
	assert.NoError(t, e.Errors())
}

func TestEventLoopErrorsExcludesCancellation(t *testing.T) {
	e := NewEventLoop()
	var wh WaitHandler
	h := e.CallSoon(func(ctx context.Context) (any, error) {
		SubscribeCurrentTask(ctx, &wh)
		return nil, nil
	})
	h.Cancel()
	e.RunUntilComplete(h)

	assert.NoError(t, e.Errors())
}

func TestEventLoopErrorsNilWhenNoFailures(t *testing.T) {
	e := NewEventLoop()
	h := e.CallSoon(func(ctx context.Context) (any, error) { return "ok", nil })
	e.RunUntilComplete(h)

	assert.NoError(t, e.Errors())
}

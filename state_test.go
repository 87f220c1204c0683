package ell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateGetSet(t *testing.T) {
	s := NewState(1)
	assert.Equal(t, 1, s.Get())
	s.Set(2)
	assert.Equal(t, 2, s.Get())
}

func TestStateUpdate(t *testing.T) {
	s := NewState(10)
	s.Update(func(v int) int { return v + 5 })
	assert.Equal(t, 15, s.Get())
}

func TestStateAwaitWakesOnSet(t *testing.T) {
	e := NewEventLoop()
	s := NewState(0)

	h := e.CallSoon(func(ctx context.Context) (any, error) {
		for {
			if v := s.Await(ctx); v >= 3 {
				return v, nil
			}
		}
	})
	for i := 1; i <= 5; i++ {
		e.CallSoon(func(ctx context.Context) (any, error) {
			s.Set(i)
			return nil, nil
		})
	}

	e.RunUntilComplete(h)

	v, err := GetResult[int](h)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

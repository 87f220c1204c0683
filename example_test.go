package ell_test

import (
	"context"
	"fmt"

	"github.com/loopkit/ell"
)

// This example demonstrates the basic shape of this package: create a loop,
// schedule a task, run it to completion, and retrieve its result.
func Example() {
	loop := ell.NewEventLoop()

	h := loop.CallSoon(func(ctx context.Context) (any, error) {
		return "hello from a task", nil
	})
	loop.RunUntilComplete(h)

	v, err := ell.GetResult[string](h)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(v)

	// Output:
	// hello from a task
}

// This example demonstrates how a reactive State wakes a task that's awaiting
// it, the same pattern a Queue uses for its not-empty/not-full handlers.
func ExampleState_Await() {
	loop := ell.NewEventLoop()
	counter := ell.NewState(0)

	h := loop.CallSoon(func(ctx context.Context) (any, error) {
		for {
			if v := counter.Await(ctx); v >= 3 {
				return v, nil
			}
		}
	})

	for i := 1; i <= 5; i++ {
		loop.CallSoon(func(ctx context.Context) (any, error) {
			counter.Set(i)
			return nil, nil
		})
	}

	loop.RunUntilComplete(h)

	v, _ := ell.GetResult[int](h)
	fmt.Println(v)

	// Output:
	// 3
}

// This example demonstrates nesting work with Call: the outer task suspends
// until the inner one completes, then uses its result.
func ExampleCallT() {
	loop := ell.NewEventLoop()

	h := loop.CallSoon(func(ctx context.Context) (any, error) {
		sum, err := ell.CallT(ctx, func(ctx context.Context) (int, error) {
			return 2 + 2, nil
		})
		if err != nil {
			return nil, err
		}
		return sum, nil
	})
	loop.RunUntilComplete(h)

	v, _ := ell.GetResult[int](h)
	fmt.Println(v)

	// Output:
	// 4
}

// This example demonstrates a bounded Queue applying backpressure: the
// producer blocks until the consumer has made room.
func ExampleQueue() {
	loop := ell.NewEventLoop()
	queue := ell.NewBoundedQueue[int](1)

	queue.TryPush(0) // Fill the queue so the producer below must wait.

	producer := loop.CallSoon(func(ctx context.Context) (any, error) {
		queue.Push(ctx, 1)
		fmt.Println("pushed 1")
		return nil, nil
	})
	loop.CallSoon(func(ctx context.Context) (any, error) {
		v := queue.Pop(ctx)
		fmt.Println("popped", v)
		return nil, nil
	})

	loop.RunUntilComplete(producer)

	// Output:
	// popped 0
	// pushed 1
}

package engine

import (
	"context"
	"testing"
	"time"
)

func TestLoop_RunsTasksSerially(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	// Tasks mutate shared state without locks; serial execution keeps
	// the count exact.
	count := 0
	for i := 0; i < 100; i++ {
		loop.Post(func() { count++ })
	}

	loop.Call(func() {})
	if count != 100 {
		t.Errorf("expected 100 executed tasks, got %d", count)
	}
}

func TestLoop_PostOrderPreserved(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		loop.Post(func() { order = append(order, i) })
	}

	loop.Call(func() {})
	for i, v := range order {
		if v != i {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

func TestLoop_CallReturnsResult(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var got int
	loop.Call(func() { got = 7 })
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestLoop_CallDoesNotHangAfterShutdown(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(ran)
	}()
	cancel()
	<-ran

	done := make(chan struct{})
	go func() {
		loop.Call(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Call blocked after shutdown")
	}
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func runLoop(t *testing.T, l *Loop) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	return cancel, errc
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	l := NewLoop(8)
	cancel, errc := runLoop(t, l)

	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		l.Post(func() { got = append(got, i) })
	}
	l.Post(func() { close(done) })
	<-done

	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestLoopPanicBecomesFault(t *testing.T) {
	l := NewLoop(8)
	_, errc := runLoop(t, l)

	l.Post(func() { panic("boom") })

	select {
	case err := <-errc:
		var fault *FaultError
		if !errors.As(err, &fault) {
			t.Fatalf("Run() = %v, want *FaultError", err)
		}
		if fault.Value != "boom" || len(fault.Stack) == 0 {
			t.Fatalf("fault = %v, stack %d bytes", fault.Value, len(fault.Stack))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopAbort(t *testing.T) {
	l := NewLoop(8)
	_, errc := runLoop(t, l)

	cause := errors.New("malformed frame")
	l.Post(func() { l.Abort(cause) })

	select {
	case err := <-errc:
		if !errors.Is(err, cause) {
			t.Fatalf("Run() = %v, want %v", err, cause)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	// Posting after stop must not block.
	l.Post(func() {})
}

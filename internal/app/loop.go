package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// FaultError stops the event loop: a task panicked or a fault was
// raised through Abort.
type FaultError struct {
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("event loop fault: %v", e.Value)
}

func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Loop runs every task on a single goroutine, one at a time and to
// completion. All bridge state is owned by tasks on the loop.
type Loop struct {
	tasks chan func()
	fault chan error
	done  chan struct{}
	once  sync.Once
}

func NewLoop(backlog int) *Loop {
	return &Loop{
		tasks: make(chan func(), backlog),
		fault: make(chan error, 1),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. Tasks posted after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}

// Abort stops the loop with a fault once the running task returns.
func (l *Loop) Abort(err error) {
	select {
	case l.fault <- &FaultError{Value: err, Stack: debug.Stack()}:
	default:
	}
}

// Run executes tasks until ctx is done or a fault occurs.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	log.Info().Str("module", "app.loop").Msg("event loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.loop").Msg("event loop stopped")
			return nil
		case err := <-l.fault:
			return err
		case fn := <-l.tasks:
			if err := l.exec(fn); err != nil {
				return err
			}
			select {
			case err := <-l.fault:
				return err
			default:
			}
		}
	}
}

func (l *Loop) exec(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Value: r, Stack: debug.Stack()}
			log.Error().Str("module", "app.loop").Interface("panic", r).Msg("task panicked")
		}
	}()
	fn()
	return nil
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

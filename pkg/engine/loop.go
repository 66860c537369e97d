package engine

import (
	"context"
	"sync"
)

// Loop is a single-threaded cooperative scheduler. Every task posted to it
// runs on the one goroutine executing Run, so state owned by the loop needs
// no locking: suspension points exist only between tasks, never inside one.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
}

// NewLoop creates an idle scheduler. Nothing executes until Run is called.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 128),
		quit:  make(chan struct{}),
	}
}

// Run executes posted tasks serially until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.quit) })
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post schedules fn for execution on the loop goroutine. Tasks posted
// after shutdown are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// Call runs fn on the loop goroutine and waits for it to finish. It must
// not be called from a task already running on the loop.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-l.quit:
	}
}

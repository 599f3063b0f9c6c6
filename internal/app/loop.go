package app

import (
	"context"
	"sync/atomic"
)

// Loop is the single thread that owns application state. Background work
// runs on goroutines and hands results back with Post; only functions run
// by the loop may touch the store or the screen.
type Loop struct {
	tasks   chan func()
	quit    chan struct{}
	closed  atomic.Bool
	pending atomic.Int64
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		quit:  make(chan struct{}),
	}
}

// Post schedules fn on the loop. It is safe from any goroutine. After Close
// posted functions are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// Go runs work on a new goroutine and delivers its result to done on the loop.
func Go[T any](l *Loop, work func() T, done func(T)) {
	l.pending.Add(1)
	go func() {
		v := work()
		l.Post(func() {
			defer l.pending.Add(-1)
			done(v)
		})
	}()
}

// Pending returns the number of Go calls whose done callback has not run.
func (l *Loop) Pending() int64 { return l.pending.Load() }

// Run executes posted functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// RunUntilIdle executes posted functions until every Go call has delivered
// its result and the queue is empty.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	for {
		if l.pending.Load() == 0 {
			select {
			case fn := <-l.tasks:
				fn()
				continue
			default:
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Close stops accepting work. Goroutines blocked in Post are released.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.quit)
	}
}

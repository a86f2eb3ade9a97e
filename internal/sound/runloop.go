package sound

import (
	"context"
	"sync"
)

// RunLoop runs functions on behalf of a Service callback.
type RunLoop interface {
	Post(fn func())
}

// RunLoopFunc adapts a function to the RunLoop interface.
type RunLoopFunc func(fn func())

// Post calls f(fn).
func (f RunLoopFunc) Post(fn func()) { f(fn) }

// SerialLoop is a RunLoop that executes posted functions one at a time, in
// the order they were posted, on a single goroutine.
type SerialLoop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// NewRunLoop creates a SerialLoop. Posted functions run once Run is called.
func NewRunLoop() *SerialLoop {
	return &SerialLoop{wake: make(chan struct{}, 1)}
}

// Post queues fn. Functions posted after Stop are dropped.
func (l *SerialLoop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes queued functions until ctx is done or Stop is called.
func (l *SerialLoop) Run(ctx context.Context) {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		stopped := l.stopped
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if stopped {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// Stop makes Run return after draining functions already queued.
func (l *SerialLoop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

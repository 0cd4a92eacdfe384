package readalong

import (
	"context"
	"sync"
)

// Dispatcher marshals work onto the single logical UI thread. Post may be
// called from any goroutine; the posted function runs later on the thread
// that owns the dispatcher.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts an ordinary function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Post calls f(fn).
func (f DispatcherFunc) Post(fn func()) {
	f(fn)
}

// Loop is a FIFO of closures drained by the UI thread, typically from
// Stage.Update. It is the only state in the package shared between
// goroutines.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	spare  []func()
	closed bool
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Post queues fn. Posts after Close are dropped with a warning.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	closed := l.closed
	if !closed {
		l.queue = append(l.queue, fn)
	}
	l.mu.Unlock()
	if closed {
		logger.Warn("post to closed loop dropped; stop schedulers and pollers before closing")
	}
}

// Drain runs every closure queued before the call, in order, and returns how
// many ran. Closures posted while draining run on the next Drain.
func (l *Loop) Drain() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = l.spare[:0]
	l.mu.Unlock()

	for i, fn := range batch {
		fn()
		batch[i] = nil
	}

	l.mu.Lock()
	l.spare = batch[:0]
	l.mu.Unlock()
	return len(batch)
}

// Pending returns the number of queued closures.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Close drops queued closures and rejects further posts. It returns how
// many queued closures were dropped.
func (l *Loop) Close() int {
	l.mu.Lock()
	dropped := len(l.queue)
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
	if dropped > 0 {
		logger.WithField("dropped", dropped).Warn("loop closed with pending work")
	}
	return dropped
}

// postAndWait posts fn to d and blocks until it ran or ctx is done. It
// reports whether fn completed. Timer and poll goroutines use it so that the
// next round is never armed before the previous one finished on the UI
// thread.
func postAndWait(ctx context.Context, d Dispatcher, fn func()) bool {
	done := make(chan struct{})
	d.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

package readalong

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTickInterval is the ~60 Hz animation step.
const DefaultTickInterval = 16 * time.Millisecond

// Scheduler issues fixed-interval ticks on the UI thread.
//
// A timer goroutine waits one interval, posts the tick to the dispatcher and
// waits for it to finish before arming the next interval, so two ticks of the
// same scheduler never overlap. Stop cancels the goroutine and bumps the
// generation; a tick that was already posted checks the generation when it
// runs and does nothing.
//
// A panic raised by the tick function is recovered, logged and counted, and
// the scheduler keeps ticking.
type Scheduler struct {
	Name string

	interval time.Duration
	dispatch Dispatcher
	fn       func(dt time.Duration)

	mu      sync.Mutex
	running bool
	gen     uint64
	cancel  context.CancelFunc
	ticks   uint64
	panics  uint64
}

// NewScheduler creates a stopped scheduler that calls fn(interval) through d
// every interval. A non-positive interval uses DefaultTickInterval.
func NewScheduler(interval time.Duration, d Dispatcher, fn func(dt time.Duration)) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if fn == nil {
		fn = func(time.Duration) {}
	}
	return &Scheduler{Name: "scheduler", interval: interval, dispatch: d, fn: fn}
}

// Interval returns the tick interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start begins ticking. No-op if already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.gen++
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx, s.gen)
}

// Stop halts ticking. Ticks already posted but not yet run become no-ops.
// Safe to call repeatedly and from inside a tick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	s.cancel()
	s.cancel = nil
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Ticks returns how many ticks have run.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Panics returns how many ticks panicked.
func (s *Scheduler) Panics() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panics
}

func (s *Scheduler) run(ctx context.Context, gen uint64) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if !postAndWait(ctx, s.dispatch, func() { s.tick(gen) }) {
			return
		}
		timer.Reset(s.interval)
	}
}

// tick runs on the UI thread.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	active := s.running && s.gen == gen
	if active {
		s.ticks++
	}
	s.mu.Unlock()
	if !active {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.panics++
			s.mu.Unlock()
			logger.WithFields(logrus.Fields{
				"scheduler": s.Name,
				"panic":     r,
			}).Error("tick panicked; continuing")
		}
	}()
	s.fn(s.interval)
}

package readalong

import (
	"testing"
	"time"
)

// pump drains l until cond holds or the timeout passes.
func pump(t *testing.T, l *Loop, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before timeout")
		}
		l.Drain()
		time.Sleep(time.Millisecond)
	}
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewScheduler(0, inlineDispatcher, nil)
	if s.Interval() != DefaultTickInterval {
		t.Errorf("Interval = %v, want %v", s.Interval(), DefaultTickInterval)
	}
	if s.Running() {
		t.Error("new scheduler is running")
	}
}

func TestSchedulerTicksOnLoop(t *testing.T) {
	l := NewLoop()
	var dts []time.Duration
	s := NewScheduler(time.Millisecond, l, func(dt time.Duration) { dts = append(dts, dt) })
	s.Start()
	defer s.Stop()

	pump(t, l, 2*time.Second, func() bool { return len(dts) >= 3 })
	for _, dt := range dts {
		if dt != time.Millisecond {
			t.Errorf("dt = %v, want 1ms", dt)
		}
	}
	if s.Ticks() < 3 {
		t.Errorf("Ticks = %d, want >= 3", s.Ticks())
	}
}

func TestSchedulerStopDropsPostedTick(t *testing.T) {
	l := NewLoop()
	ticks := 0
	s := NewScheduler(time.Millisecond, l, func(time.Duration) { ticks++ })
	s.Start()

	// Wait for a tick to be queued without running it.
	deadline := time.Now().Add(2 * time.Second)
	for l.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no tick posted")
		}
		time.Sleep(time.Millisecond)
	}
	s.Stop()
	l.Drain()
	if ticks != 0 {
		t.Errorf("tick ran after Stop: %d", ticks)
	}
	s.Stop() // idempotent
	if s.Running() {
		t.Error("Running after Stop")
	}
}

func TestSchedulerStartTwiceIsNoop(t *testing.T) {
	l := NewLoop()
	s := NewScheduler(time.Millisecond, l, func(time.Duration) {})
	s.Start()
	s.Start()
	defer s.Stop()
	time.Sleep(20 * time.Millisecond)
	// A single goroutine waits for each tick before posting the next.
	if n := l.Pending(); n > 1 {
		t.Errorf("Pending = %d, want at most 1", n)
	}
}

func TestSchedulerRecoversPanic(t *testing.T) {
	l := NewLoop()
	calls := 0
	s := NewScheduler(time.Millisecond, l, func(time.Duration) {
		calls++
		if calls == 1 {
			panic("boom")
		}
	})
	s.Start()
	defer s.Stop()

	pump(t, l, 2*time.Second, func() bool { return calls >= 2 })
	if s.Panics() != 1 {
		t.Errorf("Panics = %d, want 1", s.Panics())
	}
	if !s.Running() {
		t.Error("scheduler stopped after panic")
	}
}

func TestSchedulerStopInsideTick(t *testing.T) {
	l := NewLoop()
	var s *Scheduler
	calls := 0
	s = NewScheduler(time.Millisecond, l, func(time.Duration) {
		calls++
		s.Stop()
	})
	s.Start()
	pump(t, l, 2*time.Second, func() bool { return calls >= 1 })
	time.Sleep(10 * time.Millisecond)
	l.Drain()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

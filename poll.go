package readalong

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CoverageSource fetches the audio generated so far for one page. It is
// called from the poller's goroutine.
type CoverageSource interface {
	FetchCoverage(ctx context.Context) (Coverage, error)
}

// CoverageSourceFunc adapts an ordinary function to CoverageSource.
type CoverageSourceFunc func(ctx context.Context) (Coverage, error)

// FetchCoverage calls f(ctx).
func (f CoverageSourceFunc) FetchCoverage(ctx context.Context) (Coverage, error) {
	return f(ctx)
}

// Poller repeatedly fetches coverage and merges it into a Synchronizer on
// the UI thread until every region has audio or the attempt cap is reached.
//
// The first fetch happens immediately on Start. Failed fetches are logged and
// count as an attempt. Merges posted before Stop are discarded when they run.
type Poller struct {
	src  CoverageSource
	sync *Synchronizer
	d    Dispatcher
	cfg  PollConfig

	onPartial func(uncovered []int)
	onDone    func()

	mu       sync.Mutex
	running  bool
	gen      uint64
	cancel   context.CancelFunc
	attempts int
}

// NewPoller creates a stopped poller. Zero fields of cfg take the defaults.
func NewPoller(src CoverageSource, s *Synchronizer, d Dispatcher, cfg PollConfig) *Poller {
	def := DefaultPollConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	return &Poller{
		src:       src,
		sync:      s,
		d:         d,
		cfg:       cfg,
		onPartial: func([]int) {},
		onDone:    func() {},
	}
}

// OnPartial sets the callback run on the UI thread when polling gives up
// with regions still lacking audio.
func (p *Poller) OnPartial(fn func(uncovered []int)) {
	if fn == nil {
		fn = func([]int) {}
	}
	p.onPartial = fn
}

// OnCovered sets the callback run on the UI thread once every region has
// audio.
func (p *Poller) OnCovered(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	p.onDone = fn
}

// Start begins polling. No-op if already running.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.gen++
	p.attempts = 0
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(ctx, p.gen)
}

// Stop halts polling and cancels an in-flight fetch. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.gen++
	p.cancel()
	p.cancel = nil
}

// Running reports whether the poller is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Attempts returns how many fetches the current run has made.
func (p *Poller) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

func (p *Poller) active(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running && p.gen == gen
}

// finish marks the run over if it is still the current one.
func (p *Poller) finish(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || p.gen != gen {
		return false
	}
	p.running = false
	p.cancel()
	p.cancel = nil
	return true
}

func (p *Poller) run(ctx context.Context, gen uint64) {
	interval := time.Duration(p.cfg.Interval)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		cov, err := p.fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		p.mu.Lock()
		p.attempts++
		attempt := p.attempts
		p.mu.Unlock()

		log := logger.WithFields(logrus.Fields{"attempt": attempt, "max": p.cfg.MaxAttempts})
		if err != nil {
			log.WithError(err).Warn("coverage fetch failed")
		}

		var stop bool
		ok := postAndWait(ctx, p.d, func() {
			if !p.active(gen) {
				stop = true
				return
			}
			if err == nil {
				p.sync.MergeCoverage(cov)
			}
			switch {
			case p.sync.Covered():
				stop = true
				if p.finish(gen) {
					log.Debug("audio coverage complete")
					p.onDone()
				}
			case attempt >= p.cfg.MaxAttempts:
				stop = true
				if p.finish(gen) {
					p.sync.MarkPartial()
					p.onPartial(p.sync.Uncovered())
				}
			}
		})
		if !ok || stop {
			return
		}
		timer.Reset(interval)
	}
}

func (p *Poller) fetch(ctx context.Context) (Coverage, error) {
	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.RequestTimeout))
		defer cancel()
	}
	return p.src.FetchCoverage(ctx)
}

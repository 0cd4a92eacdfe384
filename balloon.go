package readalong

import (
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// BalloonState is the lifecycle of a labeled balloon.
type BalloonState uint8

const (
	BalloonFloating BalloonState = iota // waiting to be tapped
	BalloonPopping                      // burst animation playing
	BalloonPopped                       // finished; drawn as nothing
)

func (s BalloonState) String() string {
	switch s {
	case BalloonFloating:
		return "floating"
	case BalloonPopping:
		return "popping"
	case BalloonPopped:
		return "popped"
	default:
		return "unknown"
	}
}

// ResultItem describes one reward balloon to install. When Placed is false
// the field picks a pseudo-random on-screen center, and a zero Width or
// Height takes the configured default.
type ResultItem struct {
	Text      string
	LineIndex int
	Color     BalloonColor

	Placed        bool
	X, Y          float64
	Width, Height float64
}

// Balloon is one result-bearing balloon. X and Y are its center.
type Balloon struct {
	X, Y          float64
	Width, Height float64
	Color         BalloonColor
	LineIndex     int

	text  string
	state BalloonState
	pop   *popAnimation
}

// Text returns the result text carried by the balloon.
func (b *Balloon) Text() string { return b.text }

// State returns the balloon's lifecycle state.
func (b *Balloon) State() BalloonState { return b.state }

// Elapsed returns how long the balloon has been popping.
func (b *Balloon) Elapsed() time.Duration {
	if b.pop == nil {
		return 0
	}
	return b.pop.elapsed
}

// Bounds returns the balloon's hit rectangle.
func (b *Balloon) Bounds() Rect {
	return RectCentered(b.X, b.Y, b.Width, b.Height)
}

// BalloonField is the end-of-session reward minigame: a fixed set of
// labeled balloons that the child pops one by one.
//
// All methods must be called from the UI thread. Tick is exported so the
// field can be stepped deterministically without a running scheduler.
type BalloonField struct {
	cfg      BalloonConfig
	rng      *rand.Rand
	balloons []*Balloon
	sched    *Scheduler
	skin     Skin

	onPopped    func(lineIndex int, text string)
	onAllPopped func()
	// armed is set by a non-empty install and cleared once OnAllPopped has
	// fired for that set.
	armed bool
	// gen counts installs so Tick can tell whether a callback replaced the set.
	gen uint64
}

// NewBalloonField creates an empty field. Ticks are delivered through d once
// Start is called.
func NewBalloonField(cfg BalloonConfig, interval time.Duration, d Dispatcher) *BalloonField {
	if cfg.PopDuration <= 0 {
		cfg.PopDuration = Duration(DefaultPopDuration)
	}
	f := &BalloonField{
		cfg:         cfg,
		rng:         newRand(cfg.Seed),
		onPopped:    func(int, string) {},
		onAllPopped: func() {},
	}
	f.sched = NewScheduler(interval, d, f.Tick)
	f.sched.Name = "balloons"
	return f
}

// OnPopped sets the callback fired once per balloon when its pop animation
// completes. A nil fn restores the no-op default.
func (f *BalloonField) OnPopped(fn func(lineIndex int, text string)) {
	if fn == nil {
		fn = func(int, string) {}
	}
	f.onPopped = fn
}

// OnAllPopped sets the callback fired at most once per installed set, after
// the last balloon finished popping. A nil fn restores the no-op default.
func (f *BalloonField) OnAllPopped(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	f.onAllPopped = fn
}

// SetSkin sets the images used by Draw.
func (f *BalloonField) SetSkin(s Skin) {
	f.skin = s
}

// InstallResults replaces every balloon with one floating balloon per item.
// An empty list clears the field and disarms OnAllPopped. Items that repeat
// an already installed line index are dropped.
func (f *BalloonField) InstallResults(items []ResultItem) {
	f.gen++
	f.balloons = nil
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.LineIndex]; dup {
			logger.WithFields(logrus.Fields{
				"line": it.LineIndex,
			}).Warn("duplicate balloon line index dropped")
			continue
		}
		seen[it.LineIndex] = struct{}{}
		f.balloons = append(f.balloons, f.newBalloon(it))
	}
	f.armed = len(f.balloons) > 0
	logger.WithField("count", len(f.balloons)).Debug("balloon results installed")
}

func (f *BalloonField) newBalloon(it ResultItem) *Balloon {
	w, h := it.Width, it.Height
	if w <= 0 {
		w = f.cfg.Width
	}
	if h <= 0 {
		h = f.cfg.Height
	}
	b := &Balloon{
		Width:     w,
		Height:    h,
		Color:     it.Color,
		LineIndex: it.LineIndex,
		text:      it.Text,
		state:     BalloonFloating,
	}
	if it.Placed {
		b.X, b.Y = it.X, it.Y
	} else {
		b.X = randomCenter(f.rng, f.cfg.ViewWidth, w)
		b.Y = randomCenter(f.rng, f.cfg.ViewHeight, h)
	}
	return b
}

// randomCenter picks a center coordinate keeping an extent-sized object
// inside [0, span]. Objects larger than the span are centered.
func randomCenter(rng *rand.Rand, span, extent float64) float64 {
	free := span - extent
	if free <= 0 {
		return span / 2
	}
	return extent/2 + rng.Float64()*free
}

// Balloons returns the installed balloons in draw order. The returned slice
// MUST NOT be mutated.
func (f *BalloonField) Balloons() []*Balloon {
	return f.balloons
}

// Armed reports whether OnAllPopped can still fire for the current set.
func (f *BalloonField) Armed() bool {
	return f.armed
}

// HandleTouch pops the topmost floating balloon under (x, y). It always
// reports the touch as handled, even when nothing was hit.
func (f *BalloonField) HandleTouch(x, y float64) bool {
	if b := hitTopmost(f.balloons, x, y); b != nil {
		b.state = BalloonPopping
		b.pop = newPopAnimation(time.Duration(f.cfg.PopDuration))
		logger.WithField("line", b.LineIndex).Debug("balloon popping")
	}
	return true
}

// hitTopmost scans in reverse draw order so the balloon drawn last wins.
func hitTopmost(balloons []*Balloon, x, y float64) *Balloon {
	for i := len(balloons) - 1; i >= 0; i-- {
		b := balloons[i]
		if b.state == BalloonFloating && b.Bounds().Contains(x, y) {
			return b
		}
	}
	return nil
}

// Tick advances pop animations by dt and fires completion callbacks.
func (f *BalloonField) Tick(dt time.Duration) {
	var finished []*Balloon
	for _, b := range f.balloons {
		if b.state != BalloonPopping {
			continue
		}
		if b.pop.advance(dt) {
			b.state = BalloonPopped
			finished = append(finished, b)
		}
	}

	gen := f.gen
	for _, b := range finished {
		f.onPopped(b.LineIndex, b.text)
	}
	// A callback may have installed a new set; it is judged on its own ticks.
	if !f.armed || f.gen != gen || len(f.balloons) == 0 {
		return
	}
	for _, b := range f.balloons {
		if b.state != BalloonPopped {
			return
		}
	}
	f.armed = false
	logger.WithField("count", len(f.balloons)).Debug("all balloons popped")
	f.onAllPopped()
}

// Start begins ticking through the field's scheduler.
func (f *BalloonField) Start() {
	f.sched.Start()
}

// Stop halts the scheduler. Idempotent; safe with no results installed.
func (f *BalloonField) Stop() {
	f.sched.Stop()
}

// Running reports whether the field's scheduler is ticking.
func (f *BalloonField) Running() bool {
	return f.sched.Running()
}

// Draw renders floating balloons at full opacity with their label, popping
// balloons fading out with their burst frame, and nothing for popped ones.
func (f *BalloonField) Draw(c Canvas) {
	for _, b := range f.balloons {
		switch b.state {
		case BalloonFloating:
			c.SetOpacity(1)
			drawImageOrRect(c, skinBalloon(f.skin, b.Color), b.Bounds(), b.Color.Tint())
			if b.text != "" {
				c.DrawText(b.text, b.Bounds(), labelColor)
			}
		case BalloonPopping:
			c.SetOpacity(b.pop.opacity())
			drawImageOrRect(c, skinBurst(f.skin, b.Color, b.pop.frame()), b.Bounds(), b.Color.Tint())
		}
	}
	c.SetOpacity(1)
}

// Dispose stops the scheduler and destroys every balloon.
func (f *BalloonField) Dispose() {
	f.Stop()
	f.InstallResults(nil)
}

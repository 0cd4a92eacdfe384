package readalong

import (
	"math"
	"math/rand/v2"
	"time"
)

// AmbientState is the lifecycle of a decorative balloon.
type AmbientState uint8

const (
	AmbientRising  AmbientState = iota // drifting upward
	AmbientPopping                     // burst animation playing, removed when done
)

// AmbientBalloon is a textless balloon rising across a loading screen.
// X and Y are its center; Speed is in pixels per second.
type AmbientBalloon struct {
	X, Y          float64
	Width, Height float64
	Speed         float64
	Color         BalloonColor

	state AmbientState
	pop   *popAnimation
}

// State returns the balloon's lifecycle state.
func (b *AmbientBalloon) State() AmbientState { return b.state }

// Bounds returns the balloon's hit rectangle.
func (b *AmbientBalloon) Bounds() Rect {
	return RectCentered(b.X, b.Y, b.Width, b.Height)
}

// extent is the half size used by the spacing heuristic.
func (b *AmbientBalloon) extent() float64 {
	return math.Max(b.Width, b.Height) / 2
}

// AmbientField keeps a stream of balloons rising across the view. Tapped
// balloons burst and disappear; nothing is reported to the caller.
type AmbientField struct {
	cfg      AmbientConfig
	rng      *rand.Rand
	balloons []*AmbientBalloon
	sched    *Scheduler
	skin     Skin

	spawned uint64
	removed uint64
}

// NewAmbientField creates a field already holding cfg.MinCount balloons
// spread over the view. Ticks are delivered through d once Start is called.
func NewAmbientField(cfg AmbientConfig, interval time.Duration, d Dispatcher) *AmbientField {
	def := DefaultAmbientConfig(cfg.ViewWidth, cfg.ViewHeight)
	if cfg.MinCount <= 0 {
		cfg.MinCount = def.MinCount
	}
	if cfg.SpawnAttempts <= 0 {
		cfg.SpawnAttempts = def.SpawnAttempts
	}
	if cfg.SpacingScale <= 0 {
		cfg.SpacingScale = def.SpacingScale
	}
	if cfg.Size.Min <= 0 {
		cfg.Size = def.Size
	}
	if cfg.AspectRatio <= 0 {
		cfg.AspectRatio = def.AspectRatio
	}
	if cfg.Speed.Min <= 0 {
		cfg.Speed = def.Speed
	}
	if cfg.PopDuration <= 0 {
		cfg.PopDuration = def.PopDuration
	}
	f := &AmbientField{cfg: cfg, rng: newRand(cfg.Seed)}
	f.sched = NewScheduler(interval, d, f.Tick)
	f.sched.Name = "ambient"
	f.fill(true)
	return f
}

// SetSkin sets the images used by Draw.
func (f *AmbientField) SetSkin(s Skin) {
	f.skin = s
}

// Balloons returns the live balloons in draw order. The returned slice MUST
// NOT be mutated.
func (f *AmbientField) Balloons() []*AmbientBalloon {
	return f.balloons
}

// Len returns the number of live balloons.
func (f *AmbientField) Len() int {
	return len(f.balloons)
}

// Spawned counts balloons created since construction.
func (f *AmbientField) Spawned() uint64 { return f.spawned }

// Removed counts balloons that left the view or finished popping.
func (f *AmbientField) Removed() uint64 { return f.removed }

// HandleTouch bursts the topmost rising balloon under (x, y). Always
// reports the touch as handled.
func (f *AmbientField) HandleTouch(x, y float64) bool {
	for i := len(f.balloons) - 1; i >= 0; i-- {
		b := f.balloons[i]
		if b.state == AmbientRising && b.Bounds().Contains(x, y) {
			b.state = AmbientPopping
			b.pop = newPopAnimation(time.Duration(f.cfg.PopDuration))
			break
		}
	}
	return true
}

// Tick moves rising balloons up, retires balloons that left the view or
// finished bursting, then tops the field back up to MinCount.
func (f *AmbientField) Tick(dt time.Duration) {
	secs := dt.Seconds()
	live := f.balloons[:0]
	for _, b := range f.balloons {
		switch b.state {
		case AmbientRising:
			b.Y -= b.Speed * secs
			if b.Y+b.Height/2 < 0 {
				f.removed++
				continue
			}
		case AmbientPopping:
			if b.pop.advance(dt) {
				f.removed++
				continue
			}
		}
		live = append(live, b)
	}
	for i := len(live); i < len(f.balloons); i++ {
		f.balloons[i] = nil
	}
	f.balloons = live
	f.fill(false)
}

// fill spawns balloons until MinCount are rising. The initial fill spreads
// balloons over the whole view so the first frame is not empty.
func (f *AmbientField) fill(initial bool) {
	rising := 0
	for _, b := range f.balloons {
		if b.state == AmbientRising {
			rising++
		}
	}
	for ; rising < f.cfg.MinCount; rising++ {
		f.balloons = append(f.balloons, f.spawn(initial))
		f.spawned++
	}
}

// spawn places one balloon, retrying up to SpawnAttempts times to keep it
// clear of other non-popping balloons. The last candidate is accepted even
// if it overlaps.
func (f *AmbientField) spawn(initial bool) *AmbientBalloon {
	w := f.cfg.Size.Random(f.rng)
	h := w * f.cfg.AspectRatio
	c := &AmbientBalloon{
		Width:  w,
		Height: h,
		Speed:  f.cfg.Speed.Random(f.rng),
		Color:  BalloonColor(f.rng.IntN(int(balloonColorCount))),
	}
	for attempt := 0; attempt < f.cfg.SpawnAttempts; attempt++ {
		c.X = randomCenter(f.rng, f.cfg.ViewWidth, w)
		if initial {
			c.Y = h/2 + f.rng.Float64()*(f.cfg.ViewHeight+h)
		} else {
			c.Y = f.cfg.ViewHeight + h/2 + f.rng.Float64()*h
		}
		if f.clear(c) {
			break
		}
	}
	return c
}

// clear reports whether c keeps the minimum spacing to every non-popping
// balloon.
func (f *AmbientField) clear(c *AmbientBalloon) bool {
	for _, o := range f.balloons {
		if o.state == AmbientPopping {
			continue
		}
		min := (c.extent() + o.extent()) * f.cfg.SpacingScale
		if math.Hypot(c.X-o.X, c.Y-o.Y) < min {
			return false
		}
	}
	return true
}

// Start begins ticking through the field's scheduler.
func (f *AmbientField) Start() {
	f.sched.Start()
}

// Stop halts the scheduler. Idempotent.
func (f *AmbientField) Stop() {
	f.sched.Stop()
}

// Running reports whether the field's scheduler is ticking.
func (f *AmbientField) Running() bool {
	return f.sched.Running()
}

// Dispose stops the scheduler and drops every balloon.
func (f *AmbientField) Dispose() {
	f.Stop()
	f.balloons = nil
}

// Draw renders rising balloons at full opacity and bursting ones fading out.
func (f *AmbientField) Draw(c Canvas) {
	for _, b := range f.balloons {
		switch b.state {
		case AmbientRising:
			c.SetOpacity(1)
			drawImageOrRect(c, skinBalloon(f.skin, b.Color), b.Bounds(), b.Color.Tint())
		case AmbientPopping:
			c.SetOpacity(b.pop.opacity())
			drawImageOrRect(c, skinBurst(f.skin, b.Color, b.pop.frame()), b.Bounds(), b.Color.Tint())
		}
	}
	c.SetOpacity(1)
}

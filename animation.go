package readalong

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultPopDuration is how long a burst animation plays before a balloon
// counts as popped.
const DefaultPopDuration = 400 * time.Millisecond

// burstSwitchFraction is the point of the pop animation where the first
// burst frame gives way to the second.
const burstSwitchFraction = 0.4

// BurstFrame selects one of the two burst visuals of a popping balloon.
type BurstFrame uint8

const (
	BurstNone  BurstFrame = iota // not popping
	BurstEarly                   // first 40% of the pop
	BurstLate                    // remainder of the pop
)

// popAnimation tracks the fade of one popping balloon. Elapsed time is kept
// as an exact duration so completion does not depend on float32 drift in the
// tween; the tween only produces the opacity.
type popAnimation struct {
	duration time.Duration
	elapsed  time.Duration
	fade     *gween.Tween
}

func newPopAnimation(duration time.Duration) *popAnimation {
	return &popAnimation{
		duration: duration,
		fade:     gween.New(1, 0, float32(duration.Seconds()), ease.Linear),
	}
}

// advance adds dt and reports whether the pop is complete.
func (p *popAnimation) advance(dt time.Duration) bool {
	if dt > 0 {
		p.elapsed += dt
	}
	return p.done()
}

func (p *popAnimation) done() bool {
	return p.elapsed >= p.duration
}

// opacity returns the current alpha, 1 at the start and 0 at the end.
func (p *popAnimation) opacity() float64 {
	if p.done() {
		return 0
	}
	v, _ := p.fade.Set(float32(p.elapsed.Seconds()))
	return clamp01(float64(v))
}

// frame returns the burst visual for the current elapsed time.
func (p *popAnimation) frame() BurstFrame {
	if float64(p.elapsed) < float64(p.duration)*burstSwitchFraction {
		return BurstEarly
	}
	return BurstLate
}

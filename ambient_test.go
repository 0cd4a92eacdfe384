package readalong

import (
	"math"
	"testing"
	"time"
)

func newTestAmbient() *AmbientField {
	cfg := DefaultAmbientConfig(1080, 1920)
	cfg.Seed = 3
	return NewAmbientField(cfg, tick, inlineDispatcher)
}

func countRising(f *AmbientField) int {
	n := 0
	for _, b := range f.Balloons() {
		if b.State() == AmbientRising {
			n++
		}
	}
	return n
}

func TestAmbientInitialFill(t *testing.T) {
	f := newTestAmbient()
	if f.Len() != 5 || countRising(f) != 5 {
		t.Fatalf("initial len = %d rising = %d, want 5", f.Len(), countRising(f))
	}
	for i, b := range f.Balloons() {
		if b.Width < 120 || b.Width > 180 {
			t.Errorf("balloon %d width = %v", i, b.Width)
		}
		assertNear(t, "aspect", b.Height, b.Width*1.2)
		if b.Speed < 90 || b.Speed > 220 {
			t.Errorf("balloon %d speed = %v", i, b.Speed)
		}
		if b.X-b.Width/2 < 0 || b.X+b.Width/2 > 1080 {
			t.Errorf("balloon %d x = %v outside view", i, b.X)
		}
	}
}

func TestAmbientZeroConfigUsesDefaults(t *testing.T) {
	f := NewAmbientField(AmbientConfig{ViewWidth: 400, ViewHeight: 800, Seed: 1}, tick, inlineDispatcher)
	if f.Len() != 5 {
		t.Errorf("len = %d, want default 5", f.Len())
	}
}

func TestAmbientRise(t *testing.T) {
	f := newTestAmbient()
	b := f.Balloons()[0]
	y0 := b.Y
	f.Tick(time.Second)
	assertNear(t, "y after 1s", b.Y, y0-b.Speed)
}

func TestAmbientMinCountMaintained(t *testing.T) {
	f := newTestAmbient()
	for i := 0; i < 2000; i++ {
		f.Tick(tick)
		if got := countRising(f); got < 5 {
			t.Fatalf("tick %d: rising = %d, want >= 5", i, got)
		}
	}
	if f.Removed() == 0 {
		t.Error("no balloon ever left the view")
	}
	if f.Spawned() != f.Removed()+uint64(f.Len()) {
		t.Errorf("spawned %d != removed %d + live %d", f.Spawned(), f.Removed(), f.Len())
	}
}

func TestAmbientRespawnBelowView(t *testing.T) {
	f := newTestAmbient()
	before := f.Spawned()
	// Long enough for every initial balloon to leave the top.
	f.Tick(30 * time.Second)
	if f.Spawned() == before {
		t.Fatal("nothing respawned")
	}
	for _, b := range f.Balloons() {
		if b.Y-b.Height/2 < 1920 {
			t.Errorf("respawned balloon top %v is inside the view", b.Y-b.Height/2)
		}
	}
}

func TestAmbientTouchBurstsAndRemoves(t *testing.T) {
	f := newTestAmbient()
	target := f.Balloons()[0]
	if !f.HandleTouch(target.X, target.Y) {
		t.Fatal("HandleTouch = false")
	}
	// The hit balloon may be overlapped by a later one; find the popping one.
	var popping *AmbientBalloon
	for _, b := range f.Balloons() {
		if b.State() == AmbientPopping {
			popping = b
		}
	}
	if popping == nil {
		t.Fatal("no balloon popping after touch")
	}
	// Replacement spawns immediately so the rising count stays at MinCount.
	f.Tick(tick)
	if countRising(f) != 5 || f.Len() != 6 {
		t.Fatalf("rising=%d len=%d, want 5 and 6", countRising(f), f.Len())
	}
	tickN(f, 25)
	for _, b := range f.Balloons() {
		if b == popping {
			t.Fatal("burst balloon not removed after pop")
		}
	}
}

func TestAmbientTouchMissConsumed(t *testing.T) {
	f := newTestAmbient()
	f.Tick(30 * time.Second) // every balloon is now below the view
	if !f.HandleTouch(540, 10) {
		t.Error("miss not reported as handled")
	}
	for _, b := range f.Balloons() {
		if b.State() != AmbientRising {
			t.Error("miss changed a balloon")
		}
	}
}

func TestAmbientSpacing(t *testing.T) {
	cfg := DefaultAmbientConfig(4000, 4000)
	cfg.Seed = 9
	cfg.MinCount = 4
	f := NewAmbientField(cfg, tick, inlineDispatcher)
	bs := f.Balloons()
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			d := math.Hypot(bs[i].X-bs[j].X, bs[i].Y-bs[j].Y)
			min := (bs[i].extent() + bs[j].extent()) * cfg.SpacingScale
			if d < min {
				t.Errorf("balloons %d and %d too close: %v < %v", i, j, d, min)
			}
		}
	}
}

func TestAmbientDraw(t *testing.T) {
	f := newTestAmbient()
	skin := newFakeSkin()
	f.SetSkin(skin)
	b := f.Balloons()[4]
	f.HandleTouch(b.X, b.Y)
	c := newFakeCanvas()
	f.Draw(c)
	if got := c.count("image"); got != 5 {
		t.Fatalf("image draws = %d, want 5", got)
	}
	if c.count("text") != 0 {
		t.Error("ambient balloons carry no text")
	}
}

func TestAmbientDispose(t *testing.T) {
	l := NewLoop()
	f := NewAmbientField(DefaultAmbientConfig(1080, 1920), time.Millisecond, l)
	f.Start()
	if !f.Running() {
		t.Fatal("not running after Start")
	}
	f.Dispose()
	l.Drain()
	if f.Running() || f.Len() != 0 {
		t.Errorf("after Dispose: running=%v len=%d", f.Running(), f.Len())
	}
}

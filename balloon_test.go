package readalong

import (
	"testing"
	"time"
)

const tick = 16 * time.Millisecond

func newTestField() *BalloonField {
	cfg := DefaultBalloonConfig(1080, 1920)
	cfg.Seed = 1
	return NewBalloonField(cfg, tick, inlineDispatcher)
}

// threeBalloons places 200x200 balloons centered at x = 100, 300, 500, y = 500.
func threeBalloons() []ResultItem {
	items := make([]ResultItem, 3)
	for i := range items {
		items[i] = ResultItem{
			Text:      []string{"zero", "one", "two"}[i],
			LineIndex: i,
			Placed:    true,
			X:         100 + float64(i)*200,
			Y:         500,
			Width:     200,
			Height:    200,
		}
	}
	return items
}

func tickN(f interface{ Tick(time.Duration) }, n int) {
	for i := 0; i < n; i++ {
		f.Tick(tick)
	}
}

func TestBalloonStateString(t *testing.T) {
	tests := []struct {
		s    BalloonState
		want string
	}{
		{BalloonFloating, "floating"},
		{BalloonPopping, "popping"},
		{BalloonPopped, "popped"},
		{BalloonState(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestInstallResults(t *testing.T) {
	f := newTestField()
	f.InstallResults(threeBalloons())
	if got := len(f.Balloons()); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}
	for i, b := range f.Balloons() {
		if b.State() != BalloonFloating {
			t.Errorf("balloon %d state = %v", i, b.State())
		}
		if b.LineIndex != i {
			t.Errorf("balloon %d line = %d", i, b.LineIndex)
		}
	}
	if !f.Armed() {
		t.Error("not armed after non-empty install")
	}
}

func TestInstallResultsRandomPlacementInView(t *testing.T) {
	f := newTestField()
	items := make([]ResultItem, 50)
	for i := range items {
		items[i] = ResultItem{Text: "x", LineIndex: i}
	}
	f.InstallResults(items)
	for _, b := range f.Balloons() {
		if b.Width != 200 || b.Height != 240 {
			t.Fatalf("default size = %vx%v, want 200x240", b.Width, b.Height)
		}
		r := b.Bounds()
		if r.X < 0 || r.Y < 0 || r.X+r.Width > 1080 || r.Y+r.Height > 1920 {
			t.Fatalf("balloon %d off screen: %+v", b.LineIndex, r)
		}
	}
}

func TestInstallResultsDropsDuplicateLines(t *testing.T) {
	f := newTestField()
	items := threeBalloons()
	items = append(items, ResultItem{Text: "again", LineIndex: 1, Placed: true, X: 900, Y: 900})
	f.InstallResults(items)
	if got := len(f.Balloons()); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}
	if f.Balloons()[1].Text() != "one" {
		t.Errorf("kept %q, want the first occurrence", f.Balloons()[1].Text())
	}
}

func TestInstallEmptyDisarms(t *testing.T) {
	f := newTestField()
	allPopped := 0
	f.OnAllPopped(func() { allPopped++ })
	f.InstallResults(nil)
	tickN(f, 30)
	if f.Armed() || allPopped != 0 {
		t.Errorf("armed=%v allPopped=%d after empty install", f.Armed(), allPopped)
	}
}

func TestHandleTouchPopsHitBalloon(t *testing.T) {
	f := newTestField()
	f.InstallResults(threeBalloons())

	if !f.HandleTouch(500, 500) {
		t.Fatal("HandleTouch = false, want true")
	}
	bs := f.Balloons()
	if bs[2].State() != BalloonPopping {
		t.Errorf("balloon 2 = %v, want popping", bs[2].State())
	}
	if bs[0].State() != BalloonFloating || bs[1].State() != BalloonFloating {
		t.Error("untouched balloons changed state")
	}
}

func TestHandleTouchMissIsConsumed(t *testing.T) {
	f := newTestField()
	f.InstallResults(threeBalloons())
	if !f.HandleTouch(1000, 1800) {
		t.Error("miss not reported as handled")
	}
	for i, b := range f.Balloons() {
		if b.State() != BalloonFloating {
			t.Errorf("balloon %d = %v after miss", i, b.State())
		}
	}
}

func TestHandleTouchTopmostWins(t *testing.T) {
	f := newTestField()
	f.InstallResults([]ResultItem{
		{LineIndex: 0, Placed: true, X: 100, Y: 100, Width: 100, Height: 100},
		{LineIndex: 1, Placed: true, X: 120, Y: 100, Width: 100, Height: 100},
	})
	f.HandleTouch(110, 100)
	bs := f.Balloons()
	if bs[1].State() != BalloonPopping || bs[0].State() != BalloonFloating {
		t.Errorf("states = %v, %v; want floating, popping", bs[0].State(), bs[1].State())
	}
	// Second tap at the same point reaches the balloon underneath.
	f.HandleTouch(110, 100)
	if bs[0].State() != BalloonPopping {
		t.Errorf("lower balloon = %v, want popping", bs[0].State())
	}
}

func TestHandleTouchIgnoresPoppingBalloon(t *testing.T) {
	f := newTestField()
	f.InstallResults(threeBalloons())
	f.HandleTouch(500, 500)
	tickN(f, 5)
	before := f.Balloons()[2].Elapsed()
	f.HandleTouch(500, 500)
	if got := f.Balloons()[2].Elapsed(); got != before {
		t.Errorf("re-tap restarted pop: elapsed %v -> %v", before, got)
	}
}

func TestPopCompletesAfterDuration(t *testing.T) {
	f := newTestField()
	var popped []int
	var texts []string
	f.OnPopped(func(line int, text string) {
		popped = append(popped, line)
		texts = append(texts, text)
	})
	f.InstallResults(threeBalloons())
	f.HandleTouch(500, 500)

	tickN(f, 24) // 384ms
	if len(popped) != 0 {
		t.Fatalf("popped early at 384ms: %v", popped)
	}
	if f.Balloons()[2].State() != BalloonPopping {
		t.Fatalf("state = %v, want popping", f.Balloons()[2].State())
	}
	tickN(f, 1) // 400ms
	if len(popped) != 1 || popped[0] != 2 || texts[0] != "two" {
		t.Fatalf("popped = %v %v, want [2] [two]", popped, texts)
	}
	if f.Balloons()[2].State() != BalloonPopped {
		t.Errorf("state = %v, want popped", f.Balloons()[2].State())
	}
	tickN(f, 30)
	if len(popped) != 1 {
		t.Errorf("OnPopped fired %d times, want 1", len(popped))
	}
}

func TestAllPoppedFiresOnce(t *testing.T) {
	f := newTestField()
	allPopped := 0
	var order []int
	f.OnPopped(func(line int, _ string) { order = append(order, line) })
	f.OnAllPopped(func() {
		allPopped++
		if len(order) != 3 {
			t.Errorf("OnAllPopped before every OnPopped: %v", order)
		}
	})
	f.InstallResults(threeBalloons())

	f.HandleTouch(100, 500)
	tickN(f, 10)
	f.HandleTouch(300, 500)
	f.HandleTouch(500, 500)
	tickN(f, 25)
	if allPopped != 1 {
		t.Fatalf("OnAllPopped = %d, want 1", allPopped)
	}
	tickN(f, 50)
	if allPopped != 1 {
		t.Errorf("OnAllPopped refired: %d", allPopped)
	}
	if f.Armed() {
		t.Error("still armed after OnAllPopped")
	}
}

func TestAllPoppedSameTickCompletions(t *testing.T) {
	f := newTestField()
	popped, all := 0, 0
	f.OnPopped(func(int, string) { popped++ })
	f.OnAllPopped(func() { all++ })
	f.InstallResults(threeBalloons())
	f.HandleTouch(100, 500)
	f.HandleTouch(300, 500)
	f.HandleTouch(500, 500)
	tickN(f, 25)
	if popped != 3 || all != 1 {
		t.Errorf("popped=%d all=%d, want 3 and 1", popped, all)
	}
}

func TestReinstallFromAllPoppedCallback(t *testing.T) {
	f := newTestField()
	all := 0
	f.OnAllPopped(func() {
		all++
		if all == 1 {
			f.InstallResults(threeBalloons())
		}
	})
	f.InstallResults(threeBalloons()[:1])
	f.HandleTouch(100, 500)
	tickN(f, 25)
	if all != 1 {
		t.Fatalf("all = %d, want 1", all)
	}
	if len(f.Balloons()) != 3 || !f.Armed() {
		t.Fatalf("new set not armed: len=%d armed=%v", len(f.Balloons()), f.Armed())
	}
	for _, x := range []float64{100, 300, 500} {
		f.HandleTouch(x, 500)
	}
	tickN(f, 25)
	if all != 2 {
		t.Errorf("all = %d, want 2 after second set", all)
	}
}

func TestReinstallFromPoppedCallbackJudgedOnOwnTicks(t *testing.T) {
	f := newTestField()
	all := 0
	f.OnAllPopped(func() { all++ })
	f.OnPopped(func(line int, _ string) {
		f.InstallResults(threeBalloons())
	})
	f.InstallResults(threeBalloons()[:1])
	f.HandleTouch(100, 500)
	tickN(f, 25)
	if all != 0 {
		t.Errorf("OnAllPopped fired for a replaced set")
	}
	if !f.Armed() {
		t.Error("new set not armed")
	}
}

func TestTickWithoutResults(t *testing.T) {
	f := newTestField()
	tickN(f, 10)
	f.Stop()
	f.Stop()
	if f.Running() {
		t.Error("Running after Stop")
	}
}

func TestBalloonDraw(t *testing.T) {
	f := newTestField()
	skin := newFakeSkin()
	f.SetSkin(skin)
	f.InstallResults(threeBalloons())
	f.HandleTouch(300, 500) // popping
	f.HandleTouch(500, 500)
	tickN(f, 25) // both popped
	f.HandleTouch(100, 500)
	tickN(f, 5) // 80ms into the pop

	c := newFakeCanvas()
	f.Draw(c)
	if got := c.count("image"); got != 1 {
		t.Fatalf("image draws = %d, want 1 (popped balloons draw nothing)", got)
	}
	d := c.calls[0]
	if d.img != skin.early {
		t.Errorf("image = %v, want early burst frame", d.img)
	}
	if d.opacity <= 0 || d.opacity >= 1 {
		t.Errorf("popping opacity = %v, want in (0, 1)", d.opacity)
	}
	if c.count("text") != 0 {
		t.Error("text drawn on popping balloon")
	}
	if c.opacity != 1 {
		t.Errorf("opacity left at %v", c.opacity)
	}
}

func TestBalloonDrawFloatingWithLabel(t *testing.T) {
	f := newTestField()
	f.InstallResults(threeBalloons()[:1])
	c := newFakeCanvas()
	f.Draw(c)
	if c.count("rect") != 1 || c.count("text") != 1 {
		t.Fatalf("calls = %+v, want one rect and one text", c.calls)
	}
	if c.calls[0].opacity != 1 {
		t.Errorf("floating opacity = %v, want 1", c.calls[0].opacity)
	}
	if c.calls[1].text != "zero" {
		t.Errorf("label = %q", c.calls[1].text)
	}
}

func TestBalloonFieldScheduler(t *testing.T) {
	l := NewLoop()
	cfg := DefaultBalloonConfig(1080, 1920)
	f := NewBalloonField(cfg, time.Millisecond, l)
	popped := 0
	f.OnPopped(func(int, string) { popped++ })
	f.InstallResults(threeBalloons())
	f.HandleTouch(100, 500)
	f.Start()
	defer f.Dispose()

	// 400ms of 1ms ticks.
	pump(t, l, 5*time.Second, func() bool { return popped == 1 })
}

func TestBalloonDispose(t *testing.T) {
	f := newTestField()
	all := 0
	f.OnAllPopped(func() { all++ })
	f.InstallResults(threeBalloons())
	f.Start()
	f.Dispose()
	if f.Running() || len(f.Balloons()) != 0 || f.Armed() {
		t.Errorf("after Dispose: running=%v len=%d armed=%v", f.Running(), len(f.Balloons()), f.Armed())
	}
	tickN(f, 30)
	if all != 0 {
		t.Error("OnAllPopped fired after Dispose")
	}
}

func TestDiagonalBalloonsPopInTouchOrder(t *testing.T) {
	items := []ResultItem{
		{Text: "A", LineIndex: 0, Placed: true, X: 100, Y: 100, Width: 200, Height: 200},
		{Text: "B", LineIndex: 1, Placed: true, X: 300, Y: 300, Width: 200, Height: 200},
		{Text: "C", LineIndex: 2, Placed: true, X: 500, Y: 500, Width: 200, Height: 200},
	}
	taps := []struct {
		x, y     float64
		wantLine int
		wantText string
	}{
		{500, 500, 2, "C"},
		{300, 300, 1, "B"},
		{100, 100, 0, "A"},
	}

	popTicks := int(DefaultPopDuration/tick) + 1
	f := newTestField()
	var popped []string
	all := 0
	f.OnPopped(func(_ int, text string) { popped = append(popped, text) })
	f.OnAllPopped(func() { all++ })
	f.InstallResults(items)

	for i, tp := range taps {
		f.HandleTouch(tp.x, tp.y)
		b := f.Balloons()[tp.wantLine]
		if b.State() != BalloonPopping || b.Text() != tp.wantText {
			t.Fatalf("tap %d at (%v, %v): line %d is %v, want popping %q", i, tp.x, tp.y, tp.wantLine, b.State(), tp.wantText)
		}
		for _, other := range f.Balloons()[:tp.wantLine] {
			if other.State() != BalloonFloating {
				t.Fatalf("tap %d popped line %d too", i, other.LineIndex)
			}
		}
		tickN(f, popTicks)
	}
	tickN(f, 30)

	if want := []string{"C", "B", "A"}; len(popped) != 3 || popped[0] != want[0] || popped[1] != want[1] || popped[2] != want[2] {
		t.Errorf("popped = %v, want %v", popped, want)
	}
	if all != 1 {
		t.Errorf("OnAllPopped fired %d times, want 1", all)
	}
}

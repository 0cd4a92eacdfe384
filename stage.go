package readalong

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Layer is one full-view surface of the stage: a balloon field, an ambient
// field or a page overlay.
type Layer interface {
	// HandleTouch reports whether the press at view point (x, y) was
	// consumed. Unconsumed presses fall through to the layer below.
	HandleTouch(x, y float64) bool
	Draw(c Canvas)
}

// EventType identifies an Event.
type EventType uint8

const (
	EventBalloonPopped EventType = iota
	EventAllPopped
	EventPlayback
	EventCoveragePartial
)

func (t EventType) String() string {
	switch t {
	case EventBalloonPopped:
		return "balloon-popped"
	case EventAllPopped:
		return "all-popped"
	case EventPlayback:
		return "playback"
	case EventCoveragePartial:
		return "coverage-partial"
	default:
		return "unknown"
	}
}

// Event is a notable engine outcome forwarded to an EventSink.
type Event struct {
	Type EventType
	// Balloon fields (EventBalloonPopped)
	LineIndex int
	Text      string
	// Page fields (EventPlayback, EventCoveragePartial)
	Page      string
	Region    int
	State     PlayState
	Uncovered []int
}

// EventSink receives stage events. When set on a Stage, wired components
// forward their callbacks to it.
type EventSink interface {
	EmitEvent(e Event)
}

// frameUpdater is anything that needs a per-frame call on the UI thread,
// such as EbitenBackend.
type frameUpdater interface {
	Update()
}

// Stage is the ebiten.Game hosting the engine. It owns the UI-thread Loop
// that timer and poll goroutines post into, routes presses to layers
// top-first and draws layers bottom-up.
type Stage struct {
	// Background fills the screen before layers are drawn.
	Background Color
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string

	width, height int
	loop          *Loop
	layers        []Layer
	sink          EventSink
	target        *RenderTarget
	audio         frameUpdater

	script          *TouchScript
	injectQueue     []Vec2
	presses         []Vec2
	touchIDs        []ebiten.TouchID
	screenshotQueue []string
	debug           bool
}

// NewStage creates a stage with a logical view of width x height pixels.
// font may be nil, in which case labels are not drawn.
func NewStage(width, height int, font *Font) *Stage {
	return &Stage{
		Background:    Color{R: 0.97, G: 0.95, B: 0.9, A: 1},
		ScreenshotDir: "screenshots",
		width:         width,
		height:        height,
		loop:          NewLoop(),
		target:        NewRenderTarget(font),
	}
}

// Loop returns the stage's dispatcher. Pass it to engine constructors.
func (s *Stage) Loop() *Loop {
	return s.loop
}

// Size returns the logical view size.
func (s *Stage) Size() (width, height int) {
	return s.width, s.height
}

// AddLayer puts l on top of the existing layers.
func (s *Stage) AddLayer(l Layer) {
	s.layers = append(s.layers, l)
}

// RemoveLayer removes l. No-op if l is not on the stage.
func (s *Stage) RemoveLayer(l Layer) {
	for i, x := range s.layers {
		if x == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return
		}
	}
}

// Layers returns the stage's layers bottom-up. The returned slice MUST NOT
// be mutated.
func (s *Stage) Layers() []Layer {
	return s.layers
}

// SetEventSink sets the optional event sink.
func (s *Stage) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Emit forwards e to the event sink, if any.
func (s *Stage) Emit(e Event) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}

// SetAudio attaches a backend that must be updated every frame.
func (s *Stage) SetAudio(b *EbitenBackend) {
	if b == nil {
		s.audio = nil
		return
	}
	s.audio = b
}

// WireBalloons forwards a balloon field's callbacks to the event sink,
// chaining onPopped and onAllPopped when non-nil.
func (s *Stage) WireBalloons(f *BalloonField, onPopped func(lineIndex int, text string), onAllPopped func()) {
	f.OnPopped(func(line int, text string) {
		s.Emit(Event{Type: EventBalloonPopped, LineIndex: line, Text: text})
		if onPopped != nil {
			onPopped(line, text)
		}
	})
	f.OnAllPopped(func() {
		s.Emit(Event{Type: EventAllPopped})
		if onAllPopped != nil {
			onAllPopped()
		}
	})
}

// WirePage forwards a page's playback changes and partial coverage to the
// event sink.
func (s *Stage) WirePage(p *Page) {
	p.OnPlayback(func(region int, st PlayState) {
		s.Emit(Event{Type: EventPlayback, Page: p.ID, Region: region, State: st})
	})
	p.Poller().OnPartial(func(uncovered []int) {
		s.Emit(Event{Type: EventCoveragePartial, Page: p.ID, Uncovered: uncovered})
	})
}

// Update implements ebiten.Game.
func (s *Stage) Update() error {
	s.presses = s.pollPresses(s.presses[:0])
	s.step(s.presses)
	return nil
}

// step runs one frame with the given real presses: posted work first, then
// the touch script, then injected or real presses, then audio completion.
func (s *Stage) step(real []Vec2) {
	var stats frameStats
	stats.drained = s.loop.Drain()
	if s.script != nil {
		s.script.step(s)
	}
	if s.processInjected() {
		stats.injected = 1
	} else {
		for _, p := range real {
			s.Dispatch(p.X, p.Y)
		}
		stats.presses = len(real)
	}
	if s.audio != nil {
		s.audio.Update()
	}
	s.debugLog(stats)
}

// Dispatch delivers a press to layers top-first until one consumes it.
func (s *Stage) Dispatch(x, y float64) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].HandleTouch(x, y) {
			return true
		}
	}
	return false
}

// Draw implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	screen.Fill(s.Background.RGBA())
	s.target.Begin(screen)
	s.DrawTo(s.target)
	s.flushScreenshots(screen)
}

// DrawTo renders every layer bottom-up to c.
func (s *Stage) DrawTo(c Canvas) {
	for _, l := range s.layers {
		c.SetOpacity(1)
		l.Draw(c)
	}
}

// Layout implements ebiten.Game with a fixed logical size.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.width, s.height
}

// Close stops accepting posted work. Layers are left to their owners and
// must be stopped first: a scheduler or poller still running afterwards has
// its posts dropped and its goroutine parked until its own Stop.
func (s *Stage) Close() {
	s.loop.Close()
}

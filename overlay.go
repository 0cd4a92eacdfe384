package readalong

import "github.com/sirupsen/logrus"

// OverlayState is the lifecycle of a page overlay.
type OverlayState uint8

const (
	OverlayIdle         OverlayState = iota // no regions yet, or torn down
	OverlayRegionsReady                     // regions placed, audio still arriving
	OverlayPartial                          // polling gave up before every region had audio
	OverlayCovered                          // every region has audio
)

func (s OverlayState) String() string {
	switch s {
	case OverlayIdle:
		return "idle"
	case OverlayRegionsReady:
		return "regions-ready"
	case OverlayPartial:
		return "partial"
	case OverlayCovered:
		return "covered"
	default:
		return "unknown"
	}
}

// Affordance is the rendered state of one region: where it sits on screen,
// whether it carries a play control and what that control shows.
type Affordance struct {
	Region   int
	Text     string
	Bounds   Rect // view coordinates
	Playable bool
	State    PlayState
}

// ControlBounds returns the square play control anchored to the right edge
// of the affordance. Empty when the region is not playable.
func (a Affordance) ControlBounds() Rect {
	if !a.Playable || a.Bounds.Empty() {
		return Rect{}
	}
	side := a.Bounds.Height
	return Rect{X: a.Bounds.X + a.Bounds.Width - side, Y: a.Bounds.Y, Width: side, Height: side}
}

// Synchronizer places the text regions of one page over the displayed image
// and keeps their play controls in step with audio coverage and playback.
//
// All methods must be called from the UI thread.
type Synchronizer struct {
	regions  []TextRegion
	byIndex  map[int]int // region index -> position in regions
	coverage Coverage
	display  Matrix
	affs     []Affordance
	state    OverlayState
	torn     bool

	onRender func(Affordance)
}

// NewSynchronizer creates an idle synchronizer with an identity display
// matrix.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{
		coverage: make(Coverage),
		display:  IdentityMatrix,
		onRender: func(Affordance) {},
	}
}

// OnRender sets the observer called each time an affordance is (re)placed.
func (s *Synchronizer) OnRender(fn func(Affordance)) {
	if fn == nil {
		fn = func(Affordance) {}
	}
	s.onRender = fn
}

// State returns the overlay state.
func (s *Synchronizer) State() OverlayState {
	return s.state
}

// SetRegions stores the page's regions and renders every affordance. Only
// the first call per page takes effect; regions are immutable afterwards.
func (s *Synchronizer) SetRegions(list []TextRegion) {
	if s.torn {
		return
	}
	if s.regions != nil {
		logger.Warn("regions already set for this page; ignoring")
		return
	}
	s.regions = append(make([]TextRegion, 0, len(list)), list...)
	s.byIndex = make(map[int]int, len(list))
	s.affs = make([]Affordance, len(s.regions))
	for i, r := range s.regions {
		s.byIndex[r.Index] = i
	}
	s.state = OverlayRegionsReady
	s.renderAll()
	s.updateCovered()
}

// Regions returns the page's regions. The returned slice MUST NOT be
// mutated.
func (s *Synchronizer) Regions() []TextRegion {
	return s.regions
}

// SetDisplayMatrix sets the image-to-view transform and re-places every
// affordance.
func (s *Synchronizer) SetDisplayMatrix(m Matrix) {
	if s.torn {
		return
	}
	s.display = m
	s.renderAll()
}

// DisplayMatrix returns the current image-to-view transform.
func (s *Synchronizer) DisplayMatrix() Matrix {
	return s.display
}

// MergeCoverage folds newly polled audio into the running coverage and
// re-renders only the regions that gained their first clip. It returns those
// region indexes.
func (s *Synchronizer) MergeCoverage(in Coverage) []int {
	if s.torn {
		return nil
	}
	added := s.coverage.Merge(in)
	var rendered []int
	for _, idx := range added {
		if pos, ok := s.byIndex[idx]; ok {
			s.render(pos)
			rendered = append(rendered, idx)
		}
	}
	if len(added) > 0 {
		logger.WithFields(logrus.Fields{
			"regions": added,
			"covered": len(s.coverage.Regions()),
			"total":   len(s.regions),
		}).Debug("coverage grew")
	}
	s.updateCovered()
	return rendered
}

func (s *Synchronizer) updateCovered() {
	if s.state == OverlayIdle || len(s.regions) == 0 {
		return
	}
	if len(s.Uncovered()) == 0 {
		s.state = OverlayCovered
	}
}

// Covered reports whether every region has audio. A page without regions
// is never covered.
func (s *Synchronizer) Covered() bool {
	return s.state == OverlayCovered
}

// Uncovered returns the indexes of regions still lacking audio, in region
// order.
func (s *Synchronizer) Uncovered() []int {
	var out []int
	for _, r := range s.regions {
		if !s.coverage.Has(r.Index) {
			out = append(out, r.Index)
		}
	}
	return out
}

// Coverage returns a copy of the running coverage.
func (s *Synchronizer) Coverage() Coverage {
	return s.coverage.Clone()
}

// Clips returns the clips known for region, or nil.
func (s *Synchronizer) Clips(region int) []Clip {
	return s.coverage[region]
}

// MarkPartial records that polling stopped before every region had audio.
// Regions without audio simply keep no play control.
func (s *Synchronizer) MarkPartial() {
	if s.torn || s.state != OverlayRegionsReady {
		return
	}
	s.state = OverlayPartial
	logger.WithField("uncovered", s.Uncovered()).Info("audio coverage partial")
}

// SetPlayState updates the play control of region and re-renders it.
func (s *Synchronizer) SetPlayState(region int, st PlayState) {
	if s.torn {
		return
	}
	pos, ok := s.byIndex[region]
	if !ok || s.affs[pos].State == st {
		return
	}
	s.affs[pos].State = st
	s.onRender(s.affs[pos])
}

// Affordances returns the rendered affordances in region order. The
// returned slice MUST NOT be mutated.
func (s *Synchronizer) Affordances() []Affordance {
	return s.affs
}

// Affordance returns the rendered affordance of region.
func (s *Synchronizer) Affordance(region int) (Affordance, bool) {
	pos, ok := s.byIndex[region]
	if !ok {
		return Affordance{}, false
	}
	return s.affs[pos], true
}

// AffordanceAt returns the topmost affordance containing the view point
// (x, y). Later regions draw over earlier ones.
func (s *Synchronizer) AffordanceAt(x, y float64) (Affordance, bool) {
	for i := len(s.affs) - 1; i >= 0; i-- {
		if s.affs[i].Bounds.Contains(x, y) {
			return s.affs[i], true
		}
	}
	return Affordance{}, false
}

// Teardown discards all region and coverage state. Safe to call repeatedly;
// every other method is a no-op afterwards.
func (s *Synchronizer) Teardown() {
	if s.torn {
		return
	}
	s.torn = true
	s.regions = nil
	s.byIndex = nil
	s.affs = nil
	s.coverage = make(Coverage)
	s.state = OverlayIdle
}

// TornDown reports whether Teardown was called.
func (s *Synchronizer) TornDown() bool {
	return s.torn
}

func (s *Synchronizer) renderAll() {
	for i := range s.affs {
		s.render(i)
	}
}

func (s *Synchronizer) render(pos int) {
	r := s.regions[pos]
	a := &s.affs[pos]
	a.Region = r.Index
	a.Text = r.Text
	a.Bounds = s.display.ApplyRect(r.Bounds)
	a.Playable = s.coverage.Has(r.Index)
	s.onRender(*a)
}

// Draw renders every affordance: a translucent panel with the translated
// text and, for regions with audio, a play control showing the playback
// state.
func (s *Synchronizer) Draw(c Canvas, skin Skin) {
	c.SetOpacity(1)
	for _, a := range s.affs {
		c.DrawRect(a.Bounds, regionFill)
		text := a.Bounds
		if ctl := a.ControlBounds(); !ctl.Empty() {
			text.Width -= ctl.Width
			drawImageOrRect(c, skinControl(skin, a.State), ctl, controlTints[a.State])
		}
		c.DrawText(a.Text, text, regionTextColor)
	}
}

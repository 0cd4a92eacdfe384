package readalong

import "github.com/sirupsen/logrus"

// Page is one translated storybook page: the photographed image, the text
// regions laid over it and the audio that reads each region aloud. It is a
// Stage layer.
//
// All methods must be called from the UI thread.
type Page struct {
	ID string

	sync   *Synchronizer
	poller *Poller
	player *Controller
	image  Image
	skin   Skin
	closed bool

	onState func(region int, st PlayState)
}

// NewPage wires a synchronizer, a poller fetching from src and a playback
// controller on backend. Polling does not begin until Start.
func NewPage(id string, img Image, src CoverageSource, backend AudioBackend, d Dispatcher, cfg PollConfig) *Page {
	p := &Page{
		ID:      id,
		sync:    NewSynchronizer(),
		image:   img,
		onState: func(int, PlayState) {},
	}
	p.poller = NewPoller(src, p.sync, d, cfg)
	p.player = NewController(backend, p.sync)
	p.player.OnStateChange(func(region int, st PlayState) {
		p.sync.SetPlayState(region, st)
		p.onState(region, st)
	})
	p.player.OnError(func(region int, err error) {
		p.log().WithFields(logrus.Fields{"region": region}).WithError(err).Warn("region audio unavailable")
	})
	return p
}

// Synchronizer returns the page's overlay synchronizer.
func (p *Page) Synchronizer() *Synchronizer { return p.sync }

// Poller returns the page's coverage poller.
func (p *Page) Poller() *Poller { return p.poller }

// Controller returns the page's playback controller.
func (p *Page) Controller() *Controller { return p.player }

// SetSkin sets the images used for play controls.
func (p *Page) SetSkin(s Skin) { p.skin = s }

// OnPlayback sets an observer for playback state changes, called after the
// affordance has been updated.
func (p *Page) OnPlayback(fn func(region int, st PlayState)) {
	if fn == nil {
		fn = func(int, PlayState) {}
	}
	p.onState = fn
}

// SetRegions installs the page's text regions.
func (p *Page) SetRegions(list []TextRegion) {
	if p.closed {
		return
	}
	p.sync.SetRegions(list)
}

// Fit scales the page image into a view of viewW x viewH and re-places the
// regions accordingly. A page without an image keeps image coordinates.
func (p *Page) Fit(viewW, viewH float64, mode FitMode) {
	if p.closed || p.image == nil {
		return
	}
	b := p.image.Bounds()
	p.sync.SetDisplayMatrix(FitMatrix(float64(b.Dx()), float64(b.Dy()), viewW, viewH, mode))
}

// Start begins polling for audio.
func (p *Page) Start() {
	if p.closed {
		return
	}
	p.poller.Start()
}

// HandleTouch starts or toggles playback when (x, y) lands on a region with
// audio. Presses elsewhere are left for lower layers.
func (p *Page) HandleTouch(x, y float64) bool {
	if p.closed {
		return false
	}
	a, ok := p.sync.AffordanceAt(x, y)
	if !ok {
		return false
	}
	if !a.Playable {
		p.log().WithField("region", a.Region).Debug("region has no audio yet")
		return true
	}
	p.player.Request(a.Region)
	return true
}

// Draw renders the page image under its regions.
func (p *Page) Draw(c Canvas) {
	if p.closed {
		return
	}
	if p.image != nil {
		b := p.image.Bounds()
		dst := p.sync.DisplayMatrix().ApplyRect(Rect{Width: float64(b.Dx()), Height: float64(b.Dy())})
		c.SetOpacity(1)
		c.DrawImageRegion(p.image, b, dst)
	}
	p.sync.Draw(c, p.skin)
}

// Close stops polling, releases audio and tears the overlay down. Safe to
// call repeatedly.
func (p *Page) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.poller.Stop()
	p.player.Release()
	p.sync.Teardown()
	p.log().Debug("page closed")
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool { return p.closed }

func (p *Page) log() logrus.FieldLogger {
	return logger.WithField("page", p.ID)
}

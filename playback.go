package readalong

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PlayState is the visual and logical state of a region's play control.
type PlayState uint8

const (
	PlayIdle    PlayState = iota // no session for the region
	PlayPlaying                  // a clip of the region is playing
	PlayPaused                   // session kept, backend stopped
)

func (s PlayState) String() string {
	switch s {
	case PlayIdle:
		return "idle"
	case PlayPlaying:
		return "playing"
	case PlayPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ErrEmptyClip is returned by backends asked to play a zero-length clip.
var ErrEmptyClip = errors.New("readalong: empty audio clip")

// AudioBackend plays one clip at a time.
//
// Play must release whatever the backend was playing before starting clip.
// onComplete runs on the UI thread when clip finishes on its own, possibly
// before Play returns; it must not run for a clip ended by Stop or replaced
// by another Play.
type AudioBackend interface {
	Play(clip Clip, onComplete func()) error
	Stop()
}

// ClipSource supplies the current clip list of a region.
type ClipSource interface {
	Clips(region int) []Clip
}

// playbackSession is the single live playback. It exists only while a region
// is playing or paused.
type playbackSession struct {
	id     uuid.UUID
	region int
	clip   int
	state  PlayState
	token  uint64
	// shown is the state last reported through onState.
	shown PlayState
}

// Controller sequences the clips of one region at a time and drives the
// play/pause affordance. Only one session exists at any time, so two
// regions can never be playing together.
//
// All methods must be called from the UI thread.
type Controller struct {
	backend AudioBackend
	clips   ClipSource
	session *playbackSession
	token   uint64

	onState func(region int, st PlayState)
	onError func(region int, err error)
}

// NewController creates an idle controller.
func NewController(backend AudioBackend, clips ClipSource) *Controller {
	return &Controller{
		backend: backend,
		clips:   clips,
		onState: func(int, PlayState) {},
		onError: func(int, error) {},
	}
}

// OnStateChange sets the observer told whenever a region's play state
// changes.
func (c *Controller) OnStateChange(fn func(region int, st PlayState)) {
	if fn == nil {
		fn = func(int, PlayState) {}
	}
	c.onState = fn
}

// OnError sets the observer told when a clip fails to play. The session for
// that region has already been reset to idle when it runs.
func (c *Controller) OnError(fn func(region int, err error)) {
	if fn == nil {
		fn = func(int, error) {}
	}
	c.onError = fn
}

// Active returns the region of the live session, if any.
func (c *Controller) Active() (region int, ok bool) {
	if c.session == nil {
		return 0, false
	}
	return c.session.region, true
}

// State returns the live session's region, clip index and state, or
// PlayIdle when there is none.
func (c *Controller) State() (region, clip int, st PlayState) {
	if c.session == nil {
		return 0, 0, PlayIdle
	}
	return c.session.region, c.session.clip, c.session.state
}

// Request handles a tap on region's play control.
//
// A region without clips is ignored. Tapping the active region toggles
// between playing and paused; resuming restarts the current clip. Tapping
// another region resets the active one to idle and starts the new region
// from its first clip.
func (c *Controller) Request(region int) {
	if len(c.clips.Clips(region)) == 0 {
		return
	}
	if s := c.session; s != nil && s.region == region {
		switch s.state {
		case PlayPlaying:
			c.token++
			c.backend.Stop()
			c.setState(PlayPaused)
		case PlayPaused:
			c.playCurrent()
		}
		return
	}
	c.end()
	c.session = &playbackSession{id: uuid.New(), region: region}
	c.log().Debug("playback session started")
	c.playCurrent()
}

// Release stops playback and clears the session. Idempotent.
func (c *Controller) Release() {
	c.end()
}

// end stops the backend and resets the live session's affordance.
func (c *Controller) end() {
	s := c.session
	if s == nil {
		return
	}
	c.token++
	c.backend.Stop()
	c.session = nil
	c.onState(s.region, PlayIdle)
}

// playCurrent (re)starts the session's current clip.
func (c *Controller) playCurrent() {
	s := c.session
	clips := c.clips.Clips(s.region)
	if s.clip >= len(clips) {
		c.end()
		return
	}
	c.token++
	s.token = c.token
	token := s.token
	// Play releases any prior resource itself; stopping first keeps the
	// one-clip rule independent of the backend.
	c.backend.Stop()
	// The clip counts as playing before Play returns so a completion fired
	// from inside Play is honored.
	s.state = PlayPlaying
	err := c.backend.Play(clips[s.clip], func() { c.complete(token) })
	if c.session != s || s.token != token {
		// A synchronous completion already moved the session on.
		return
	}
	if err != nil {
		region := s.region
		c.log().WithError(err).Warn("clip playback failed; session aborted")
		c.end()
		c.onError(region, err)
		return
	}
	c.announce()
}

// complete advances to the next clip or ends the session.
func (c *Controller) complete(token uint64) {
	s := c.session
	if s == nil || s.token != token || s.state != PlayPlaying {
		return
	}
	s.clip++
	if s.clip >= len(c.clips.Clips(s.region)) {
		c.log().Debug("playback session finished")
		c.end()
		return
	}
	c.playCurrent()
}

func (c *Controller) setState(st PlayState) {
	c.session.state = st
	c.announce()
}

// announce reports the session state if it changed since the last report.
func (c *Controller) announce() {
	s := c.session
	if s.shown == s.state {
		return
	}
	s.shown = s.state
	c.onState(s.region, s.state)
}

func (c *Controller) log() logrus.FieldLogger {
	if c.session == nil {
		return logger
	}
	return logger.WithFields(logrus.Fields{
		"session": c.session.id.String(),
		"region":  c.session.region,
		"clip":    c.session.clip,
	})
}

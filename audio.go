package readalong

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate is used when no audio context exists yet.
const DefaultSampleRate = 44100

var (
	// ErrUnknownFormat is returned for clips that are neither WAV nor MP3.
	ErrUnknownFormat = errors.New("readalong: unknown audio format")
	// ErrClosed is returned by a backend after Close.
	ErrClosed = errors.New("readalong: audio backend closed")
)

// ClipFormat identifies how a clip is encoded.
type ClipFormat uint8

const (
	FormatUnknown ClipFormat = iota
	FormatWAV
	FormatMP3
)

// SniffFormat inspects the first bytes of clip.
func SniffFormat(clip Clip) ClipFormat {
	switch {
	case len(clip) >= 12 && bytes.Equal(clip[0:4], []byte("RIFF")) && bytes.Equal(clip[8:12], []byte("WAVE")):
		return FormatWAV
	case len(clip) >= 3 && bytes.Equal(clip[0:3], []byte("ID3")):
		return FormatMP3
	case len(clip) >= 2 && clip[0] == 0xFF && clip[1]&0xE0 == 0xE0:
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// EbitenBackend plays clips through the process-wide Ebitengine audio
// context. Completion is detected in Update, which must be called once per
// frame on the UI thread; Stage does this when the backend is attached.
type EbitenBackend struct {
	ctx        *audio.Context
	player     *audio.Player
	onComplete func()
	closed     bool
}

// NewEbitenBackend uses the current audio context, creating one at
// DefaultSampleRate if none exists.
func NewEbitenBackend() *EbitenBackend {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(DefaultSampleRate)
	}
	return &EbitenBackend{ctx: ctx}
}

// Play decodes clip and starts it, releasing the previous player.
func (b *EbitenBackend) Play(clip Clip, onComplete func()) error {
	if b.closed {
		return ErrClosed
	}
	b.Stop()
	if len(clip) == 0 {
		return ErrEmptyClip
	}
	stream, err := b.decode(clip)
	if err != nil {
		return err
	}
	p, err := b.ctx.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("create audio player: %w", err)
	}
	p.Play()
	b.player = p
	b.onComplete = onComplete
	return nil
}

func (b *EbitenBackend) decode(clip Clip) (io.Reader, error) {
	sr := b.ctx.SampleRate()
	switch SniffFormat(clip) {
	case FormatWAV:
		s, err := wav.DecodeWithSampleRate(sr, bytes.NewReader(clip))
		if err != nil {
			return nil, fmt.Errorf("decode wav clip: %w", err)
		}
		return s, nil
	case FormatMP3:
		s, err := mp3.DecodeWithSampleRate(sr, bytes.NewReader(clip))
		if err != nil {
			return nil, fmt.Errorf("decode mp3 clip: %w", err)
		}
		return s, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// Stop halts and releases the current player without firing its completion.
func (b *EbitenBackend) Stop() {
	if b.player == nil {
		return
	}
	b.player.Pause()
	if err := b.player.Close(); err != nil {
		logger.WithError(err).Debug("close audio player")
	}
	b.player = nil
	b.onComplete = nil
}

// Playing reports whether a clip is loaded and sounding.
func (b *EbitenBackend) Playing() bool {
	return b.player != nil && b.player.IsPlaying()
}

// Update fires the completion callback of a clip that reached its end.
func (b *EbitenBackend) Update() {
	if b.player == nil || b.player.IsPlaying() {
		return
	}
	done := b.onComplete
	b.Stop()
	if done != nil {
		done()
	}
}

// Close stops playback and rejects further clips. Idempotent.
func (b *EbitenBackend) Close() error {
	b.Stop()
	b.closed = true
	return nil
}

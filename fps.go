package readalong

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefreshFrames is how often the FPS readout is redrawn.
const fpsRefreshFrames = 30

// FPSLayer is a debug overlay printing the current FPS and TPS in the top
// left corner. It never consumes presses.
type FPSLayer struct {
	img    *ebiten.Image
	frames int
}

// NewFPSLayer creates the overlay.
func NewFPSLayer() *FPSLayer {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &FPSLayer{img: ebiten.NewImage(100, 32)}
}

// HandleTouch always lets the press through.
func (l *FPSLayer) HandleTouch(x, y float64) bool { return false }

// Draw refreshes the readout every fpsRefreshFrames frames and draws it.
func (l *FPSLayer) Draw(c Canvas) {
	if l.frames%fpsRefreshFrames == 0 {
		l.img.Clear()
		l.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(l.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	l.frames++
	b := l.img.Bounds()
	c.DrawImageRegion(l.img, b, Rect{Width: float64(b.Dx()), Height: float64(b.Dy())})
}

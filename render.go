package readalong

import "image"

// Image is anything with pixel bounds that a Canvas knows how to draw.
// *ebiten.Image satisfies it.
type Image interface {
	Bounds() image.Rectangle
}

// Canvas is the immediate-mode 2D drawing surface every layer renders to.
// Opacity set with SetOpacity applies to all following draws until changed.
type Canvas interface {
	SetOpacity(alpha float64)
	DrawRect(dst Rect, c Color)
	DrawImageRegion(img Image, src image.Rectangle, dst Rect)
	DrawText(s string, dst Rect, c Color)
}

// BalloonColor tags one of the balloon paint variants.
type BalloonColor uint8

const (
	BalloonRed BalloonColor = iota
	BalloonOrange
	BalloonYellow
	BalloonGreen
	BalloonBlue
	BalloonPurple

	balloonColorCount
)

// Skin supplies the images used to draw balloons and play controls. A nil
// image is drawn as a flat tinted rectangle instead.
type Skin interface {
	Balloon(c BalloonColor) Image
	Burst(c BalloonColor, f BurstFrame) Image
	Control(s PlayState) Image
}

// balloonTints backs the flat fallback when a skin has no image.
var balloonTints = [balloonColorCount]Color{
	BalloonRed:    {R: 0.93, G: 0.33, B: 0.35, A: 1},
	BalloonOrange: {R: 0.98, G: 0.6, B: 0.24, A: 1},
	BalloonYellow: {R: 0.99, G: 0.85, B: 0.3, A: 1},
	BalloonGreen:  {R: 0.4, G: 0.8, B: 0.45, A: 1},
	BalloonBlue:   {R: 0.33, G: 0.6, B: 0.95, A: 1},
	BalloonPurple: {R: 0.66, G: 0.45, B: 0.9, A: 1},
}

// Tint returns the flat color for c.
func (c BalloonColor) Tint() Color {
	if c >= balloonColorCount {
		return ColorWhite
	}
	return balloonTints[c]
}

var (
	labelColor      = Color{R: 0.1, G: 0.1, B: 0.15, A: 1}
	regionFill      = Color{R: 1, G: 1, B: 1, A: 0.85}
	regionTextColor = Color{R: 0.08, G: 0.08, B: 0.1, A: 1}
	controlTints    = map[PlayState]Color{
		PlayIdle:    {R: 0.25, G: 0.55, B: 0.95, A: 1},
		PlayPlaying: {R: 0.95, G: 0.45, B: 0.3, A: 1},
		PlayPaused:  {R: 0.55, G: 0.55, B: 0.6, A: 1},
	}
)

// drawImageOrRect draws img stretched over dst, or a flat rect when img is
// nil.
func drawImageOrRect(c Canvas, img Image, dst Rect, fallback Color) {
	if img == nil {
		c.DrawRect(dst, fallback)
		return
	}
	c.DrawImageRegion(img, img.Bounds(), dst)
}

func skinBalloon(s Skin, col BalloonColor) Image {
	if s == nil {
		return nil
	}
	return s.Balloon(col)
}

func skinBurst(s Skin, col BalloonColor, f BurstFrame) Image {
	if s == nil {
		return nil
	}
	return s.Burst(col, f)
}

func skinControl(s Skin, st PlayState) Image {
	if s == nil {
		return nil
	}
	return s.Control(st)
}

package readalong

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RenderTarget is the Canvas implementation backed by an *ebiten.Image.
// Stage points it at the screen at the start of every Draw.
type RenderTarget struct {
	dst   *ebiten.Image
	alpha float64
	font  *Font
}

// NewRenderTarget creates a target that draws labels with font. A nil font
// skips text.
func NewRenderTarget(font *Font) *RenderTarget {
	return &RenderTarget{font: font, alpha: 1}
}

// Begin points the target at dst and resets opacity.
func (t *RenderTarget) Begin(dst *ebiten.Image) {
	t.dst = dst
	t.alpha = 1
}

// SetOpacity sets the alpha multiplier for following draws.
func (t *RenderTarget) SetOpacity(alpha float64) {
	t.alpha = clamp01(alpha)
}

func (t *RenderTarget) faded(c Color) color.RGBA {
	c.A *= t.alpha
	return c.RGBA()
}

// DrawRect fills dst with c.
func (t *RenderTarget) DrawRect(dst Rect, c Color) {
	if t.dst == nil || dst.Empty() {
		return
	}
	vector.DrawFilledRect(t.dst, float32(dst.X), float32(dst.Y), float32(dst.Width), float32(dst.Height), t.faded(c), true)
}

// DrawImageRegion stretches the src sub-rectangle of img over dst. Images
// that are not *ebiten.Image are ignored.
func (t *RenderTarget) DrawImageRegion(img Image, src image.Rectangle, dst Rect) {
	eimg, ok := img.(*ebiten.Image)
	if t.dst == nil || !ok || eimg == nil || src.Empty() || dst.Empty() {
		return
	}
	sub := eimg.SubImage(src).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dst.Width/float64(src.Dx()), dst.Height/float64(src.Dy()))
	op.GeoM.Translate(dst.X, dst.Y)
	op.ColorScale.ScaleAlpha(float32(t.alpha))
	op.Filter = ebiten.FilterLinear
	t.dst.DrawImage(sub, op)
}

// DrawText word-wraps s to the width of dst and centers the block in it.
func (t *RenderTarget) DrawText(s string, dst Rect, c Color) {
	if t.dst == nil || t.font == nil || s == "" || dst.Empty() {
		return
	}
	measure := func(line string) float64 {
		w, _ := t.font.MeasureString(line)
		return w
	}
	lines := wrapLines(s, dst.Width, measure)
	lh := t.font.LineHeight()
	y := dst.Y + (dst.Height-lh*float64(len(lines)))/2
	c.A *= t.alpha
	for _, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(dst.X+(dst.Width-measure(line))/2, y)
		op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
		text.Draw(t.dst, line, t.font.Face(), op)
		y += lh
	}
}

// ProceduralSkin draws balloons, bursts and play controls as vector shapes
// into small cached images, so a stage works without any art assets.
type ProceduralSkin struct {
	size     int
	balloons [balloonColorCount]*ebiten.Image
	bursts   [balloonColorCount][2]*ebiten.Image
	controls map[PlayState]*ebiten.Image
}

// NewProceduralSkin renders every image at size x size pixels.
func NewProceduralSkin(size int) *ProceduralSkin {
	if size <= 0 {
		size = 128
	}
	s := &ProceduralSkin{size: size, controls: make(map[PlayState]*ebiten.Image)}
	for c := BalloonColor(0); c < balloonColorCount; c++ {
		s.balloons[c] = s.drawBalloon(c.Tint())
		s.bursts[c][0] = s.drawBurst(c.Tint(), 0.55)
		s.bursts[c][1] = s.drawBurst(c.Tint(), 0.9)
	}
	for st, tint := range controlTints {
		s.controls[st] = s.drawControl(st, tint)
	}
	return s
}

// Balloon returns the floating image for c.
func (s *ProceduralSkin) Balloon(c BalloonColor) Image {
	if c >= balloonColorCount {
		return nil
	}
	return s.balloons[c]
}

// Burst returns the burst image for c and f.
func (s *ProceduralSkin) Burst(c BalloonColor, f BurstFrame) Image {
	if c >= balloonColorCount || f == BurstNone {
		return nil
	}
	return s.bursts[c][f-BurstEarly]
}

// Control returns the play control image for st.
func (s *ProceduralSkin) Control(st PlayState) Image {
	img, ok := s.controls[st]
	if !ok {
		return nil
	}
	return img
}

func (s *ProceduralSkin) drawBalloon(c Color) *ebiten.Image {
	n := float32(s.size)
	img := ebiten.NewImage(s.size, s.size)
	vector.DrawFilledCircle(img, n/2, n*0.45, n*0.42, c.RGBA(), true)
	vector.DrawFilledRect(img, n*0.47, n*0.85, n*0.06, n*0.15, c.RGBA(), true)
	return img
}

func (s *ProceduralSkin) drawBurst(c Color, spread float32) *ebiten.Image {
	n := float32(s.size)
	img := ebiten.NewImage(s.size, s.size)
	r := n * 0.08
	offsets := [8][2]float32{{0, -1}, {0.7, -0.7}, {1, 0}, {0.7, 0.7}, {0, 1}, {-0.7, 0.7}, {-1, 0}, {-0.7, -0.7}}
	for _, o := range offsets {
		vector.DrawFilledCircle(img, n/2+o[0]*n*0.4*spread, n/2+o[1]*n*0.4*spread, r, c.RGBA(), true)
	}
	return img
}

func (s *ProceduralSkin) drawControl(st PlayState, c Color) *ebiten.Image {
	n := float32(s.size)
	img := ebiten.NewImage(s.size, s.size)
	vector.DrawFilledCircle(img, n/2, n/2, n*0.48, c.RGBA(), true)
	white := ColorWhite.RGBA()
	switch st {
	case PlayPlaying:
		vector.DrawFilledRect(img, n*0.33, n*0.3, n*0.12, n*0.4, white, true)
		vector.DrawFilledRect(img, n*0.55, n*0.3, n*0.12, n*0.4, white, true)
	default:
		var path vector.Path
		path.MoveTo(n*0.38, n*0.28)
		path.LineTo(n*0.72, n*0.5)
		path.LineTo(n*0.38, n*0.72)
		path.Close()
		vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
		for i := range vs {
			vs[i].SrcX, vs[i].SrcY = 1, 1
			vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = 1, 1, 1, 1
		}
		img.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}
	return img
}

var whitePix *ebiten.Image

// whitePixel is the 3x3 white source used for solid triangles.
func whitePixel() *ebiten.Image {
	if whitePix == nil {
		whitePix = ebiten.NewImage(3, 3)
		whitePix.Fill(color.White)
	}
	return whitePix
}

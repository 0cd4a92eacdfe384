package readalong

import "math"

// Quad is an arbitrary quadrilateral, as delivered by OCR for a text line.
// Corner order does not matter.
type Quad [4]Vec2

// Bounds returns the axis-aligned rectangle spanning the four corners.
func (q Quad) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// TextRegion is one translated text line placed over the page image.
// Bounds is in image pixel coordinates. Regions are immutable for the life
// of a page.
type TextRegion struct {
	Index  int
	Text   string
	Bounds Rect
}

// NewTextRegion builds a region from an OCR quadrilateral.
func NewTextRegion(index int, q Quad, text string) TextRegion {
	return TextRegion{Index: index, Text: text, Bounds: q.Bounds()}
}

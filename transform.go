package readalong

import "math"

// Matrix is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// It maps image pixel coordinates to view coordinates for a page overlay.
type Matrix [6]float64

// IdentityMatrix is the identity affine matrix.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// FitMode selects how a page image is placed inside its view.
type FitMode uint8

const (
	FitContain FitMode = iota // scale to fit entirely, letterbox the rest
	FitCover                  // scale to fill, center-crop the overflow
	FitNone                   // draw at 1:1 from the top-left corner
)

// FitMatrix returns the display matrix that places an imageW x imageH image
// inside a viewW x viewH view, centered, using mode. Degenerate sizes yield
// the identity matrix.
func FitMatrix(imageW, imageH, viewW, viewH float64, mode FitMode) Matrix {
	if imageW <= 0 || imageH <= 0 || viewW <= 0 || viewH <= 0 || mode == FitNone {
		return IdentityMatrix
	}
	sx := viewW / imageW
	sy := viewH / imageH
	s := math.Min(sx, sy)
	if mode == FitCover {
		s = math.Max(sx, sy)
	}
	tx := (viewW - imageW*s) / 2
	ty := (viewH - imageH*s) / 2
	return Matrix{s, 0, 0, s, tx, ty}
}

// Multiply returns m * c (c is applied first).
func (m Matrix) Multiply(c Matrix) Matrix {
	return Matrix{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert computes the inverse of m.
// Returns the identity matrix if m is singular (determinant ≈ 0).
func (m Matrix) Invert() Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityMatrix
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyRect transforms the four corners of r and returns their axis-aligned
// bounds.
func (m Matrix) ApplyRect(r Rect) Rect {
	var q Quad
	q[0].X, q[0].Y = m.Apply(r.X, r.Y)
	q[1].X, q[1].Y = m.Apply(r.X+r.Width, r.Y)
	q[2].X, q[2].Y = m.Apply(r.X+r.Width, r.Y+r.Height)
	q[3].X, q[3].Y = m.Apply(r.X, r.Y+r.Height)
	return q.Bounds()
}

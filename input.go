package readalong

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pollPresses appends this frame's new left-button and touch presses to buf,
// in logical view coordinates. Only the press edge counts as a tap; holds,
// drags and releases are ignored.
func (s *Stage) pollPresses(buf []Vec2) []Vec2 {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		buf = append(buf, Vec2{X: float64(x), Y: float64(y)})
	}
	s.touchIDs = inpututil.AppendJustPressedTouchIDs(s.touchIDs[:0])
	for _, id := range s.touchIDs {
		x, y := ebiten.TouchPosition(id)
		buf = append(buf, Vec2{X: float64(x), Y: float64(y)})
	}
	return buf
}

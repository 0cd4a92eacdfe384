package readalong

import (
	"encoding/json"
	"fmt"
)

// touchStep is a single action in a touch script.
type touchStep struct {
	Action string  `json:"action" validate:"oneof=tap wait screenshot"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty" validate:"gte=0"`
}

// touchScript is the top-level JSON structure for a touch script.
type touchScript struct {
	Steps []touchStep `json:"steps" validate:"required,min=1,dive"`
}

// TouchScript replays taps, waits and screenshots across frames, for
// automated runs of a stage. Attach with Stage.SetTouchScript.
//
//	{"steps": [{"action": "wait", "frames": 30}, {"action": "tap", "x": 500, "y": 500}]}
type TouchScript struct {
	steps     []touchStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTouchScript parses and validates a JSON touch script.
func LoadTouchScript(jsonData []byte) (*TouchScript, error) {
	var script touchScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse touch script: %w", err)
	}
	if err := validate.Struct(script); err != nil {
		return nil, fmt.Errorf("parse touch script: %w", err)
	}
	return &TouchScript{steps: script.Steps}, nil
}

// SetTouchScript attaches a script. Its step runs from Stage.Update before
// presses are dispatched.
func (s *Stage) SetTouchScript(script *TouchScript) {
	s.script = script
}

// Done reports whether every step has been executed.
func (r *TouchScript) Done() bool {
	return r.done
}

// step advances the script by one frame.
func (r *TouchScript) step(s *Stage) {
	if r.done {
		return
	}
	// Let injected taps drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "tap":
		s.InjectTap(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

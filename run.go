package readalong

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int // window size; the stage keeps its own logical size
	ShowFPS       bool
	Resizable     bool
}

// Run opens a window and runs stage as the game until the window closes.
// The stage's loop is closed on return.
func Run(stage *Stage, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = stage.Size()
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ShowFPS {
		stage.AddLayer(NewFPSLayer())
	}
	defer stage.Close()
	if err := ebiten.RunGame(stage); err != nil {
		return fmt.Errorf("run stage: %w", err)
	}
	return nil
}

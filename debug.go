package readalong

import "github.com/sirupsen/logrus"

// frameStats holds per-frame counters. Only logged when the stage is in
// debug mode.
type frameStats struct {
	drained  int
	injected int
	presses  int
}

// SetDebugMode enables or disables per-frame debug logging. The package
// logger must be at debug level for the entries to appear.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// debugLog emits a frame's counters when anything happened in it.
func (s *Stage) debugLog(stats frameStats) {
	if !s.debug || stats == (frameStats{}) {
		return
	}
	logger.WithFields(logrus.Fields{
		"drained":  stats.drained,
		"injected": stats.injected,
		"presses":  stats.presses,
		"pending":  s.loop.Pending(),
		"layers":   len(s.layers),
	}).Debug("frame")
}

package readalong

// InjectTap queues a synthetic press at the given view coordinates. Injected
// taps are consumed one per frame; while any are pending, real input is
// skipped.
func (s *Stage) InjectTap(x, y float64) {
	s.injectQueue = append(s.injectQueue, Vec2{X: x, Y: y})
}

// PendingTaps returns the number of injected taps not yet delivered.
func (s *Stage) PendingTaps() int {
	return len(s.injectQueue)
}

// processInjected pops one injected tap and dispatches it. Returns true if a
// tap was consumed.
func (s *Stage) processInjected() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	p := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.Dispatch(p.X, p.Y)
	return true
}

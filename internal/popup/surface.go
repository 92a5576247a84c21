package popup

import "sync"

// frame is a snapshot of what the session asked the popup to show.
type frame struct {
	loading    bool
	result     string
	showResult bool
	resultSeq  uint64
	errMsg     string
	focus      bool
}

// surface is the nudge.View the session drives. Session callbacks arrive
// from the submit goroutine and the dismissal timer, so state lives behind
// a mutex and every change pokes the changed channel for the Bubble Tea
// loop to pick up.
type surface struct {
	mu      sync.Mutex
	current frame
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newSurface() *surface {
	return &surface{
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (s *surface) update(fn func(f *frame)) {
	s.mu.Lock()
	fn(&s.current)
	s.mu.Unlock()

	// Non-blocking: one pending notification is enough.
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *surface) SetLoading(loading bool) {
	s.update(func(f *frame) { f.loading = loading })
}

func (s *surface) ShowResult(text string) {
	s.update(func(f *frame) {
		f.result = text
		f.showResult = true
		f.resultSeq++
	})
}

func (s *surface) HideResult() {
	s.update(func(f *frame) { f.showResult = false })
}

func (s *surface) ShowError(message string) {
	s.update(func(f *frame) { f.errMsg = message })
}

func (s *surface) ClearError() {
	s.update(func(f *frame) { f.errMsg = "" })
}

func (s *surface) FocusInput() {
	s.update(func(f *frame) { f.focus = true })
}

// snapshot returns the current frame and consumes a pending focus request.
func (s *surface) snapshot() frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.current
	s.current.focus = false
	return f
}

// wait blocks until the surface changes or is closed. It reports false
// once closed.
func (s *surface) wait() bool {
	select {
	case <-s.changed:
		return true
	case <-s.done:
		return false
	}
}

func (s *surface) close() {
	s.once.Do(func() { close(s.done) })
}

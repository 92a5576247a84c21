package nudge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// ErrorDismissAfter is how long an error message stays visible when
// nothing else clears it.
const ErrorDismissAfter = 5 * time.Second

// State is the UI state driven by a Session.
type State int

// Session states.
const (
	StateIdle State = iota
	StateLoading
	StateResultShown
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateResultShown:
		return "result"
	case StateErrorShown:
		return "error"
	default:
		return "idle"
	}
}

// View is the UI surface a Session drives. Implementations must not call
// back into the Session from these methods.
type View interface {
	// SetLoading disables the submit control and shows the spinner, or
	// re-enables the control and hides the spinner.
	SetLoading(loading bool)
	// ShowResult displays the hint and scrolls it into view.
	ShowResult(text string)
	// HideResult hides the result region.
	HideResult()
	// ShowError displays message in the error region, replacing any
	// previous message.
	ShowError(message string)
	// ClearError removes the error message, if any.
	ClearError()
	// FocusInput moves focus to the text-entry control.
	FocusInput()
}

// HintSource is anything that can answer a question with a hint.
// *Hinter is the production implementation.
type HintSource interface {
	GetHint(ctx context.Context, text string) (string, error)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock replaces the clock used for error dismissal.
func WithClock(clock clockz.Clock) SessionOption {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithDismissAfter changes how long errors stay visible.
func WithDismissAfter(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.dismissAfter = d
		}
	}
}

// WithDisplay replaces the error-to-message mapping.
func WithDisplay(display Display) SessionOption {
	return func(s *Session) {
		s.display = display
	}
}

// Session is the popup controller: it owns the processing flag, the UI
// state, and the error dismissal timer for as long as the popup is open.
//
// At most one hint request is in flight per Session. Submit while a request
// is outstanding returns ErrInFlight and changes nothing.
type Session struct {
	id           string
	source       HintSource
	view         View
	display      Display
	clock        clockz.Clock
	dismissAfter time.Duration

	processing atomic.Bool

	mu       sync.Mutex
	state    State
	response string
	visible  bool
	errTimer clockz.Timer
	errSeq   uint64
	closed   bool
}

// NewSession creates a Session that asks source for hints and renders
// into view.
func NewSession(source HintSource, view View, opts ...SessionOption) *Session {
	s := &Session{
		id:           uuid.New().String(),
		source:       source,
		view:         view,
		clock:        clockz.RealClock,
		dismissAfter: ErrorDismissAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the unique identifier for this session.
func (s *Session) ID() string {
	return s.id
}

// Processing reports whether a hint request is in flight.
func (s *Session) Processing() bool {
	return s.processing.Load()
}

// State returns the current UI state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Response returns the last hint shown, or "" if none.
func (s *Session) Response() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

// Submit validates text and, if it passes, asks for a hint and drives the
// view through loading to result or error. It blocks until the call
// resolves and returns the hint or the typed error that was displayed.
func (s *Session) Submit(ctx context.Context, text string) (string, error) {
	if s.isClosed() {
		s.reject(ctx, "closed")
		return "", ErrClosed
	}
	if s.processing.Load() {
		s.reject(ctx, "in_flight")
		return "", ErrInFlight
	}

	if err := ValidateInput(text); err != nil {
		s.mu.Lock()
		s.showErrorLocked(ctx, MessageOf(err))
		s.mu.Unlock()
		if MessageOf(err) == MessageEmptyInput {
			s.view.FocusInput()
		}
		s.reject(ctx, "validation")
		return "", err
	}

	if !s.processing.CompareAndSwap(false, true) {
		s.reject(ctx, "in_flight")
		return "", ErrInFlight
	}
	if !s.enterLoading(ctx) {
		s.processing.Store(false)
		s.reject(ctx, "closed")
		return "", ErrClosed
	}
	defer s.finish()

	hint, err := s.call(ctx, strings.TrimSpace(text))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.showErrorLocked(ctx, s.display.Message(err))
		return "", err
	}
	s.response = hint
	s.visible = true
	s.view.ShowResult(hint)
	s.transitionLocked(ctx, StateResultShown)
	return hint, nil
}

// call asks the source for a hint, turning a panic into KindUnexpected.
func (s *Session) call(ctx context.Context, text string) (hint string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindUnexpected, Message: MessageUnexpected, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return s.source.GetHint(ctx, text)
}

// enterLoading reports false when the session was closed before the call
// could start.
func (s *Session) enterLoading(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.stopTimerLocked()
	s.view.SetLoading(true)
	s.hideResultLocked()
	s.view.ClearError()
	s.transitionLocked(ctx, StateLoading)
	return true
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) hideResultLocked() {
	s.visible = false
	s.view.HideResult()
}

// finish clears the processing flag. It runs exactly once per submit cycle.
func (s *Session) finish() {
	s.processing.Store(false)
	s.view.SetLoading(false)
}

// Edit records that the user changed the input. A shown result is hidden
// and any error is cleared so the next attempt starts uncluttered.
func (s *Session) Edit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visible {
		s.hideResultLocked()
	}
	if s.state == StateResultShown {
		s.transitionLocked(ctx, StateIdle)
	}
	s.clearErrorLocked(ctx)
}

// ClearError removes any visible error immediately.
func (s *Session) ClearError(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearErrorLocked(ctx)
}

// ShowError displays an arbitrary message through the same dismissal rules
// as request failures.
func (s *Session) ShowError(ctx context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showErrorLocked(ctx, message)
}

// Close tears the session down. The processing flag is reset and the error
// timer stopped; an in-flight call is left to finish on its own. Submit on
// a closed session returns ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTimerLocked()
	if s.processing.Load() {
		s.processing.Store(false)
		s.view.SetLoading(false)
	}
}

func (s *Session) showErrorLocked(ctx context.Context, message string) {
	s.stopTimerLocked()
	s.errSeq++
	seq := s.errSeq

	s.view.ClearError()
	s.view.ShowError(message)
	s.transitionLocked(ctx, StateErrorShown, DisplayKey.Field(message))

	if s.closed {
		return
	}
	s.errTimer = s.clock.AfterFunc(s.dismissAfter, func() {
		s.dismiss(context.Background(), seq)
	})
}

// dismiss clears the error shown under seq, unless it was already
// replaced or cleared.
func (s *Session) dismiss(ctx context.Context, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.errSeq {
		return
	}
	s.clearErrorLocked(ctx)
}

func (s *Session) clearErrorLocked(ctx context.Context) {
	s.stopTimerLocked()
	s.errSeq++
	s.view.ClearError()
	if s.state == StateErrorShown {
		s.transitionLocked(ctx, StateIdle)
	}
}

func (s *Session) stopTimerLocked() {
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

// transitionLocked moves to state to. Extra fields force an event even
// when the state does not change, so a replaced error is still reported.
func (s *Session) transitionLocked(ctx context.Context, to State, extra ...capitan.Field) {
	from := s.state
	s.state = to
	if from == to && len(extra) == 0 {
		return
	}
	fields := []capitan.Field{
		SessionIDKey.Field(s.id),
		StateFromKey.Field(from.String()),
		StateToKey.Field(to.String()),
	}
	capitan.Info(ctx, StateChanged, append(fields, extra...)...)
}

func (s *Session) reject(ctx context.Context, reason string) {
	capitan.Info(ctx, SubmitRejected,
		SessionIDKey.Field(s.id),
		ErrorKindKey.Field(reason),
	)
}

// MessageOf returns the message carried by a typed error, or err.Error().
func MessageOf(err error) string {
	return rawMessage(err)
}

package nudge

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failure in the submit flow.
type Kind int

// Failure kinds produced by providers, the Hinter, and the Session.
const (
	// KindUnexpected covers anything that does not fit another kind,
	// including recovered panics.
	KindUnexpected Kind = iota
	// KindConfiguration means the credential is missing or unusable.
	KindConfiguration
	// KindHTTP means the service answered with a non-success status.
	KindHTTP
	// KindNetwork means the call itself could not complete.
	KindNetwork
	// KindEmptyResponse means the transport succeeded but the body lacks
	// the candidate/content/parts structure.
	KindEmptyResponse
	// KindValidation means the input was rejected before any call.
	KindValidation
)

// String returns the lowercase name of the kind, used in hook fields.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindEmptyResponse:
		return "empty_response"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

// Error is the typed failure returned across the nudge API.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status for KindHTTP, zero otherwise
	Reason  string // Service-supplied reason code (e.g. "API_KEY_INVALID"), when present
	Message string // Human-readable message
	Err     error  // Underlying cause, when there is one
}

// Sentinel errors for use with errors.Is. They match any *Error of the
// same kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrHTTP          = &Error{Kind: KindHTTP}
	ErrNetwork       = &Error{Kind: KindNetwork}
	ErrEmptyResponse = &Error{Kind: KindEmptyResponse}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrUnexpected    = &Error{Kind: KindUnexpected}
)

// ErrInFlight is returned by Session.Submit when a call is already
// outstanding. The submission is dropped without any state change.
var ErrInFlight = errors.New("a hint request is already in flight")

// ErrClosed is returned by Session.Submit after Close.
var ErrClosed = errors.New("session is closed")

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Status != 0 || t.Message != "" || t.Reason != "" || t.Err != nil {
		return e == t
	}
	return e.Kind == t.Kind
}

// ConfigurationError reports an unusable credential.
func ConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// HTTPError reports a non-success status. When the service supplied no
// message the generic "API Error: <status>" is used.
func HTTPError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("API Error: %d", status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

// NetworkError reports a transport failure.
func NetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
}

// EmptyResponseError reports a success body without usable candidates.
func EmptyResponseError(message string) *Error {
	if message == "" {
		message = "No valid response from Gemini API"
	}
	return &Error{Kind: KindEmptyResponse, Message: message}
}

// ValidationError reports rejected input.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// UnexpectedError wraps a failure that fits no other kind.
func UnexpectedError(err error) *Error {
	return &Error{Kind: KindUnexpected, Err: err}
}

// KindOf returns the kind of err, or KindUnexpected when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

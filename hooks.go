package nudge

import "github.com/zoobzio/capitan"

// Signals for hook events.
const (
	RequestStarted        = capitan.Signal("hint.request.started")
	RequestCompleted      = capitan.Signal("hint.request.completed")
	RequestFailed         = capitan.Signal("hint.request.failed")
	ProviderCallStarted   = capitan.Signal("hint.provider.call.started")
	ProviderCallCompleted = capitan.Signal("hint.provider.call.completed")
	ProviderCallFailed    = capitan.Signal("hint.provider.call.failed")
	SubmitRejected        = capitan.Signal("hint.submit.rejected")
	StateChanged          = capitan.Signal("hint.session.state")
	CredentialMissing     = capitan.Signal("hint.credential.missing")
)

// Keys for hook event fields.
var (
	// Request identification.
	RequestIDKey = capitan.NewStringKey("hint.request.id")
	SessionIDKey = capitan.NewStringKey("hint.session.id")

	// Input/Output data.
	InputLengthKey = capitan.NewIntKey("hint.input.length")
	ResponseKey    = capitan.NewStringKey("hint.response")

	// Error information.
	ErrorKey     = capitan.NewStringKey("hint.error")
	ErrorKindKey = capitan.NewStringKey("hint.error.kind")
	DisplayKey   = capitan.NewStringKey("hint.error.display")

	// Provider information.
	ProviderKey    = capitan.NewStringKey("hint.provider")
	ModelKey       = capitan.NewStringKey("hint.model")
	TemperatureKey = capitan.NewFloat64Key("hint.temperature")

	// Provider metrics.
	PromptTokensKey     = capitan.NewIntKey("hint.tokens.prompt")
	CompletionTokensKey = capitan.NewIntKey("hint.tokens.completion")
	TotalTokensKey      = capitan.NewIntKey("hint.tokens.total")
	DurationMsKey       = capitan.NewIntKey("hint.duration.ms")

	// HTTP/API metadata.
	HTTPStatusCodeKey = capitan.NewIntKey("hint.http.status.code")
	APIErrorReasonKey = capitan.NewStringKey("hint.api.error.reason")

	// Response metadata.
	FinishReasonKey = capitan.NewStringKey("hint.response.finish.reason")

	// Session state transitions.
	StateFromKey = capitan.NewStringKey("hint.state.from")
	StateToKey   = capitan.NewStringKey("hint.state.to")
)

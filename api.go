// Package nudge provides a hint-only tutoring client for the Gemini
// generative-language API.
//
// A user hands nudge a coding problem or a code snippet; nudge forwards it,
// together with a fixed tutoring persona, to a Provider and returns the hint
// text. Around that single call nudge keeps a small UI-state machine
// (idle, loading, result shown, error shown) that any front end can drive
// through the View interface.
//
// The package is built from three pieces:
//
//   - Hinter: the request/response mediator. It runs one pipz pipeline per
//     call, never retries, and reports every failure as a typed *Error.
//   - Session: the controller. It validates input, guards against duplicate
//     submissions with a single processing flag, and drives the View.
//   - Display: maps typed errors to the short messages shown to the user.
//
// Basic usage:
//
//	provider := gemini.New(gemini.Config{APIKey: key})
//	hinter := nudge.NewHinter(provider, nudge.HinterConfig{
//	    Credential: nudge.ResolveCredential(key),
//	})
//	session := nudge.NewSession(hinter, view)
//	defer session.Close()
//	hint, err := session.Submit(ctx, "Why does my two-sum loop time out?")
package nudge

import "context"

// Provider defines the interface for generative-language backends.
// A provider performs exactly one outbound call per invocation and reports
// failures as *Error values so callers never match on message text.
type Provider interface {
	// Call sends the messages with the given generation parameters and
	// returns the text of the first candidate. System messages are sent as
	// the system instruction; user messages become conversation turns.
	Call(ctx context.Context, messages []Message, generation GenerationConfig) (*ProviderResponse, error)

	// Name returns the provider identifier (e.g., "gemini", "genai").
	Name() string
}

// TokenUsage contains token counts from a provider response.
type TokenUsage struct {
	Prompt     int // Tokens used by the prompt/messages
	Completion int // Tokens used by the candidates
	Total      int // Total tokens used
}

// ProviderResponse contains the response from a provider.
type ProviderResponse struct {
	Content      string     // Newline-joined text of every part of the first candidate
	Usage        TokenUsage // Token usage statistics
	FinishReason string     // Why the model stopped, when reported
}

// Message represents a single message sent to a provider.
type Message struct {
	Role    string // RoleUser or RoleSystem
	Content string // The message content
}

// Role constants for message types.
const (
	RoleUser   = "user"
	RoleSystem = "system"
)

// HintRequest flows through the pipz pipeline.
// It contains the user's text, the rendered persona, and response data.
type HintRequest struct {
	// Input fields
	Text       string           // Raw text typed by the user
	Persona    string           // Rendered system instruction
	Generation GenerationConfig // Sampling parameters for this call

	// Metadata fields
	RequestID    string // Unique identifier for this request
	ProviderName string // Name of the provider being used

	// Output fields (populated by pipeline)
	Response     string      // Hint text returned by the provider
	Usage        *TokenUsage // Token usage from provider response
	FinishReason string      // Finish reason from provider response
}

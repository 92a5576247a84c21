package nudge

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// HinterConfig configures a Hinter. Zero fields take defaults.
type HinterConfig struct {
	Credential Credential       // Static API key; an unset credential fails every call
	Persona    *Persona         // System instruction; nil means DefaultPersona
	Generation GenerationConfig // Sampling parameters; zero fields use DefaultGeneration
}

// Hinter is the request/response mediator. Each GetHint builds one
// request, runs it through a pipz pipeline that ends in a single provider
// call, and classifies the outcome.
type Hinter struct {
	pipeline     pipz.Chainable[*HintRequest]
	providerName string
	credential   Credential
	persona      string
	generation   GenerationConfig
}

// NewHinter creates a Hinter around provider.
// Options wrap the terminal provider call in order.
func NewHinter(provider Provider, config HinterConfig, opts ...Option) *Hinter {
	persona := config.Persona
	if persona == nil || persona.Validate() != nil {
		persona = DefaultPersona()
	}

	var pipeline pipz.Chainable[*HintRequest] = NewTerminal(provider)
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}

	return &Hinter{
		pipeline:     pipeline,
		providerName: provider.Name(),
		credential:   config.Credential,
		persona:      persona.Render(),
		generation:   config.Generation.withDefaults(),
	}
}

// NewTerminal creates the terminal processor that calls the provider with
// the persona as system instruction and the user's text as the only turn.
func NewTerminal(provider Provider) pipz.Chainable[*HintRequest] {
	return pipz.Apply("llm-call", func(ctx context.Context, req *HintRequest) (*HintRequest, error) {
		messages := []Message{
			{Role: RoleSystem, Content: req.Persona},
			{Role: RoleUser, Content: req.Text},
		}

		resp, err := provider.Call(ctx, messages, req.Generation)
		if err != nil {
			return req, err
		}
		req.Response = resp.Content
		req.Usage = &resp.Usage
		req.FinishReason = resp.FinishReason
		return req, nil
	})
}

// GetPipeline returns the internal pipeline for composition.
func (h *Hinter) GetPipeline() pipz.Chainable[*HintRequest] {
	return h.pipeline
}

// Generation returns the resolved sampling parameters.
func (h *Hinter) Generation() GenerationConfig {
	return h.generation
}

// Persona returns the rendered system instruction.
func (h *Hinter) Persona() string {
	return h.persona
}

// GetHint sends text to the provider and returns the hint.
//
// An unset credential fails with KindConfiguration before any network
// call. Every other failure is returned as an *Error of the matching kind.
func (h *Hinter) GetHint(ctx context.Context, text string) (string, error) {
	requestID := uuid.New().String()

	if strings.TrimSpace(text) == "" {
		return "", ValidationError(MessageEmptyInput)
	}

	if !h.credential.Valid() {
		err := ConfigurationError("API_KEY not configured")
		h.emitFailed(ctx, requestID, err)
		return "", err
	}

	request := &HintRequest{
		Text:         text,
		Persona:      h.persona,
		Generation:   h.generation,
		RequestID:    requestID,
		ProviderName: h.providerName,
	}

	capitan.Info(ctx, RequestStarted,
		RequestIDKey.Field(requestID),
		ProviderKey.Field(h.providerName),
		InputLengthKey.Field(len(text)),
		TemperatureKey.Field(float64(h.generation.Temperature)),
	)

	processed, err := h.pipeline.Process(ctx, request)
	if err != nil {
		typed := classifyPipelineError(err)
		h.emitFailed(ctx, requestID, typed)
		return "", typed
	}

	capitan.Info(ctx, RequestCompleted,
		RequestIDKey.Field(requestID),
		ProviderKey.Field(h.providerName),
		ResponseKey.Field(processed.Response),
		FinishReasonKey.Field(processed.FinishReason),
	)

	return processed.Response, nil
}

func (h *Hinter) emitFailed(ctx context.Context, requestID string, err *Error) {
	capitan.Error(ctx, RequestFailed,
		RequestIDKey.Field(requestID),
		ProviderKey.Field(h.providerName),
		ErrorKey.Field(err.Error()),
		ErrorKindKey.Field(err.Kind.String()),
	)
}

// classifyPipelineError unwraps pipz errors down to the typed provider
// error. Timeouts and cancellations count as network failures.
func classifyPipelineError(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NetworkError(err)
	}
	return UnexpectedError(err)
}

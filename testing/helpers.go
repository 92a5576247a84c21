// Package testing provides utilities for testing nudge hint flows.
package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/nudge"
)

// Provider name constants for test helpers.
const (
	SequencedProviderName = "sequenced-mock"
	FailingProviderName   = "failing-mock"
	BlockingProviderName  = "blocking-mock"
)

// ResponseBuilder provides a fluent interface for constructing
// generateContent response bodies.
type ResponseBuilder struct {
	parts        []map[string]any
	finishReason string
	usage        map[string]int
	noCandidate  bool
	noContent    bool
}

// NewResponseBuilder creates a new ResponseBuilder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// WithPart appends a text part to the first candidate.
func (b *ResponseBuilder) WithPart(text string) *ResponseBuilder {
	b.parts = append(b.parts, map[string]any{"text": text})
	return b
}

// WithFinishReason sets the candidate finish reason.
func (b *ResponseBuilder) WithFinishReason(reason string) *ResponseBuilder {
	b.finishReason = reason
	return b
}

// WithUsage sets the usage metadata.
func (b *ResponseBuilder) WithUsage(prompt, completion int) *ResponseBuilder {
	b.usage = map[string]int{
		"promptTokenCount":     prompt,
		"candidatesTokenCount": completion,
		"totalTokenCount":      prompt + completion,
	}
	return b
}

// WithoutCandidates produces a body with an empty candidates list.
func (b *ResponseBuilder) WithoutCandidates() *ResponseBuilder {
	b.noCandidate = true
	return b
}

// WithoutContent produces a candidate that has no content block.
func (b *ResponseBuilder) WithoutContent() *ResponseBuilder {
	b.noContent = true
	return b
}

// Build returns the JSON string representation of the response.
func (b *ResponseBuilder) Build() string {
	return string(b.BuildBytes())
}

// BuildBytes returns the JSON bytes of the response.
func (b *ResponseBuilder) BuildBytes() []byte {
	data := map[string]any{}

	if b.noCandidate {
		data["candidates"] = []any{}
	} else {
		candidate := map[string]any{}
		if !b.noContent {
			parts := b.parts
			if parts == nil {
				parts = []map[string]any{}
			}
			candidate["content"] = map[string]any{"role": "model", "parts": parts}
		}
		if b.finishReason != "" {
			candidate["finishReason"] = b.finishReason
		}
		data["candidates"] = []any{candidate}
	}
	if b.usage != nil {
		data["usageMetadata"] = b.usage
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []byte("{}")
	}
	return jsonBytes
}

// ErrorBody builds a Gemini error body.
func ErrorBody(code int, message, reason string) []byte {
	body := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
	if reason != "" {
		body["error"].(map[string]any)["details"] = []map[string]string{{
			"@type":  "type.googleapis.com/google.rpc.ErrorInfo",
			"reason": reason,
		}}
	}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return []byte("{}")
	}
	return jsonBytes
}

// SequencedProvider returns responses in sequence.
// After all responses are exhausted, it returns the last response repeatedly.
type SequencedProvider struct {
	responses []string
	index     atomic.Int64
	mu        sync.Mutex
}

// NewSequencedProvider creates a provider that returns responses in order.
func NewSequencedProvider(responses ...string) *SequencedProvider {
	if len(responses) == 0 {
		responses = []string{"no responses configured"}
	}
	return &SequencedProvider{
		responses: responses,
	}
}

// Call returns the next response in sequence.
func (p *SequencedProvider) Call(_ context.Context, _ []nudge.Message, _ nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	idx := p.index.Add(1) - 1
	p.mu.Lock()
	defer p.mu.Unlock()

	// Clamp to last response if exhausted
	if int(idx) >= len(p.responses) {
		idx = int64(len(p.responses) - 1)
	}

	return &nudge.ProviderResponse{
		Content: p.responses[idx],
		Usage: nudge.TokenUsage{
			Prompt:     100,
			Completion: 50,
			Total:      150,
		},
		FinishReason: "STOP",
	}, nil
}

// Name returns the provider identifier.
func (*SequencedProvider) Name() string {
	return SequencedProviderName
}

// CallCount returns the number of calls made.
func (p *SequencedProvider) CallCount() int {
	return int(p.index.Load())
}

// Reset resets the call counter.
func (p *SequencedProvider) Reset() {
	p.index.Store(0)
}

// FailingProvider fails a specified number of times before succeeding.
type FailingProvider struct {
	failCount    int
	currentCount atomic.Int64
	successResp  string
	failErr      func(attempt int) error
}

// NewFailingProvider creates a provider that fails failCount times then
// succeeds. Failures are network errors unless WithFailError is used.
func NewFailingProvider(failCount int) *FailingProvider {
	return &FailingProvider{
		failCount:   failCount,
		successResp: "💡 Hint: recovered",
		failErr: func(attempt int) error {
			return nudge.NetworkError(fmt.Errorf("simulated provider failure (attempt %d)", attempt))
		},
	}
}

// WithSuccessResponse sets the response returned after failures are exhausted.
func (p *FailingProvider) WithSuccessResponse(response string) *FailingProvider {
	p.successResp = response
	return p
}

// WithFailError sets the error returned for failures.
func (p *FailingProvider) WithFailError(err error) *FailingProvider {
	p.failErr = func(int) error { return err }
	return p
}

// Call fails until failCount is reached, then succeeds.
func (p *FailingProvider) Call(_ context.Context, _ []nudge.Message, _ nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	count := p.currentCount.Add(1)
	if int(count) <= p.failCount {
		return nil, p.failErr(int(count))
	}

	return &nudge.ProviderResponse{
		Content: p.successResp,
		Usage: nudge.TokenUsage{
			Prompt:     100,
			Completion: 50,
			Total:      150,
		},
	}, nil
}

// Name returns the provider identifier.
func (*FailingProvider) Name() string {
	return FailingProviderName
}

// CallCount returns the number of calls made.
func (p *FailingProvider) CallCount() int {
	return int(p.currentCount.Load())
}

// Reset resets the call counter.
func (p *FailingProvider) Reset() {
	p.currentCount.Store(0)
}

// BlockingProvider holds every call until Release is called.
type BlockingProvider struct {
	response string
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
	calls    atomic.Int64
}

// NewBlockingProvider creates a provider that answers response once released.
func NewBlockingProvider(response string) *BlockingProvider {
	return &BlockingProvider{
		response: response,
		started:  make(chan struct{}, 64),
		release:  make(chan struct{}),
	}
}

// Call signals Started and waits for Release or cancellation.
func (p *BlockingProvider) Call(ctx context.Context, _ []nudge.Message, _ nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	p.calls.Add(1)
	select {
	case p.started <- struct{}{}:
	default:
	}

	select {
	case <-p.release:
		return &nudge.ProviderResponse{Content: p.response}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Name returns the provider identifier.
func (*BlockingProvider) Name() string {
	return BlockingProviderName
}

// Started receives once per call that has begun.
func (p *BlockingProvider) Started() <-chan struct{} {
	return p.started
}

// Release lets every pending and future call complete.
func (p *BlockingProvider) Release() {
	p.once.Do(func() { close(p.release) })
}

// CallCount returns the number of calls made.
func (p *BlockingProvider) CallCount() int {
	return int(p.calls.Load())
}

// RecordedCall represents a single call to a provider.
type RecordedCall struct {
	Messages   []nudge.Message
	Generation nudge.GenerationConfig
}

// CallRecorder wraps a provider and records all calls made to it.
type CallRecorder struct {
	provider nudge.Provider
	calls    []RecordedCall
	mu       sync.Mutex
}

// NewCallRecorder wraps a provider with call recording.
func NewCallRecorder(provider nudge.Provider) *CallRecorder {
	return &CallRecorder{
		provider: provider,
		calls:    make([]RecordedCall, 0),
	}
}

// Call delegates to the wrapped provider and records the call.
func (r *CallRecorder) Call(ctx context.Context, messages []nudge.Message, generation nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	// Record the call (copy messages to avoid aliasing)
	msgCopy := make([]nudge.Message, len(messages))
	copy(msgCopy, messages)

	r.mu.Lock()
	r.calls = append(r.calls, RecordedCall{
		Messages:   msgCopy,
		Generation: generation,
	})
	r.mu.Unlock()

	return r.provider.Call(ctx, messages, generation)
}

// Name returns the wrapped provider's name.
func (r *CallRecorder) Name() string {
	return r.provider.Name()
}

// Calls returns a copy of all recorded calls.
func (r *CallRecorder) Calls() []RecordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]RecordedCall, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// CallCount returns the number of calls recorded.
func (r *CallRecorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// LastCall returns the most recent call, or nil if no calls made.
func (r *CallRecorder) LastCall() *RecordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.calls) == 0 {
		return nil
	}
	call := r.calls[len(r.calls)-1]
	return &call
}

// Reset clears all recorded calls.
func (r *CallRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = make([]RecordedCall, 0)
}

// LatencyProvider wraps a provider and adds artificial latency.
type LatencyProvider struct {
	provider nudge.Provider
	delay    time.Duration
}

// NewLatencyProvider wraps a provider with artificial delay.
// The delay is applied before each provider call and respects context cancellation.
func NewLatencyProvider(provider nudge.Provider, delay time.Duration) *LatencyProvider {
	return &LatencyProvider{
		provider: provider,
		delay:    delay,
	}
}

// Call adds latency then delegates to the wrapped provider.
// Respects context cancellation during the delay period.
func (p *LatencyProvider) Call(ctx context.Context, messages []nudge.Message, generation nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
			// Delay completed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.provider.Call(ctx, messages, generation)
}

// Name returns the wrapped provider's name.
func (p *LatencyProvider) Name() string {
	return p.provider.Name()
}

// ViewEvent is one call a Session made on a RecordingView.
type ViewEvent struct {
	Call string // "loading", "result", "hide", "error", "clear", "focus"
	Arg  string // Message or hint text, "true"/"false" for loading
}

// RecordingView is a nudge.View that records every call and tracks the
// visible state.
type RecordingView struct {
	mu      sync.Mutex
	events  []ViewEvent
	loading bool
	result  string
	visible bool
	errMsg  string
}

// NewRecordingView creates an empty RecordingView.
func NewRecordingView() *RecordingView {
	return &RecordingView{}
}

func (v *RecordingView) record(call, arg string) {
	v.events = append(v.events, ViewEvent{Call: call, Arg: arg})
}

// SetLoading records a loading change.
func (v *RecordingView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
	v.record("loading", fmt.Sprint(loading))
}

// ShowResult records a shown hint.
func (v *RecordingView) ShowResult(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = text
	v.visible = true
	v.record("result", text)
}

// HideResult records a hidden result region.
func (v *RecordingView) HideResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = false
	v.record("hide", "")
}

// ShowError records a shown error.
func (v *RecordingView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMsg = message
	v.record("error", message)
}

// ClearError records a cleared error.
func (v *RecordingView) ClearError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMsg = ""
	v.record("clear", "")
}

// FocusInput records a focus request.
func (v *RecordingView) FocusInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("focus", "")
}

// Events returns a copy of every recorded call.
func (v *RecordingView) Events() []ViewEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	events := make([]ViewEvent, len(v.events))
	copy(events, v.events)
	return events
}

// Loading reports whether the loading indicator is on.
func (v *RecordingView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Result returns the visible hint, or "" when the region is hidden.
func (v *RecordingView) Result() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.visible {
		return ""
	}
	return v.result
}

// Error returns the visible error message, or "".
func (v *RecordingView) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// UsageAccumulator tracks total token usage across multiple calls.
type UsageAccumulator struct {
	promptTokens     atomic.Int64
	completionTokens atomic.Int64
	totalTokens      atomic.Int64
	callCount        atomic.Int64
}

// NewUsageAccumulator creates a new usage accumulator.
func NewUsageAccumulator() *UsageAccumulator {
	return &UsageAccumulator{}
}

// AddUsage accumulates usage directly.
func (a *UsageAccumulator) AddUsage(usage *nudge.TokenUsage) {
	if usage != nil {
		a.promptTokens.Add(int64(usage.Prompt))
		a.completionTokens.Add(int64(usage.Completion))
		a.totalTokens.Add(int64(usage.Total))
		a.callCount.Add(1)
	}
}

// PromptTokens returns total prompt tokens.
func (a *UsageAccumulator) PromptTokens() int {
	return int(a.promptTokens.Load())
}

// CompletionTokens returns total completion tokens.
func (a *UsageAccumulator) CompletionTokens() int {
	return int(a.completionTokens.Load())
}

// TotalTokens returns total tokens.
func (a *UsageAccumulator) TotalTokens() int {
	return int(a.totalTokens.Load())
}

// CallCount returns number of calls accumulated.
func (a *UsageAccumulator) CallCount() int {
	return int(a.callCount.Load())
}

// Reset clears all accumulated values.
func (a *UsageAccumulator) Reset() {
	a.promptTokens.Store(0)
	a.completionTokens.Store(0)
	a.totalTokens.Store(0)
	a.callCount.Store(0)
}

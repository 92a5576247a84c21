// Package gemini implements the nudge Provider interface against the
// Gemini generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/nudge"
)

// Defaults for Config.
const (
	DefaultModel     = "gemini-1.5-flash"
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultUserAgent = "nudge/1.0"
)

// Provider implements the nudge Provider interface for the Gemini API.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	name       string
}

// Config holds configuration for the Gemini provider.
type Config struct {
	APIKey    string
	Model     string        // e.g. "gemini-1.5-flash", "gemini-1.5-pro"
	BaseURL   string        // Optional, defaults to DefaultBaseURL
	Timeout   time.Duration // Optional transport timeout; zero means none
	UserAgent string        // Optional, defaults to DefaultUserAgent
}

// New creates a new Gemini provider.
func New(config Config) *Provider {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &Provider{
		apiKey:    config.APIKey,
		model:     config.Model,
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		userAgent: config.UserAgent,
		name:      "gemini",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Model returns the model the provider calls.
func (p *Provider) Model() string {
	return p.model
}

// Call sends messages to Gemini and returns the first candidate's text.
func (p *Provider) Call(ctx context.Context, messages []nudge.Message, generation nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	startTime := time.Now()

	capitan.Info(ctx, nudge.ProviderCallStarted,
		nudge.ProviderKey.Field(p.name),
		nudge.ModelKey.Field(p.model),
	)

	jsonBody, err := json.Marshal(buildRequest(messages, generation))
	if err != nil {
		return nil, p.fail(ctx, startTime, nudge.UnexpectedError(fmt.Errorf("failed to marshal request: %w", err)))
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, p.fail(ctx, startTime, nudge.UnexpectedError(fmt.Errorf("failed to create request: %w", err)))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.fail(ctx, startTime, nudge.NetworkError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.fail(ctx, startTime, nudge.NetworkError(fmt.Errorf("failed to read response: %w", err)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, p.fail(ctx, startTime, parseError(resp.StatusCode, body))
	}

	var generateResp generateContentResponse
	if err := json.Unmarshal(body, &generateResp); err != nil {
		return nil, p.fail(ctx, startTime, nudge.EmptyResponseError(""))
	}

	text, ok := generateResp.text()
	if !ok {
		return nil, p.fail(ctx, startTime, nudge.EmptyResponseError(""))
	}

	duration := time.Since(startTime)
	usage := nudge.TokenUsage{
		Prompt:     generateResp.UsageMetadata.PromptTokenCount,
		Completion: generateResp.UsageMetadata.CandidatesTokenCount,
		Total:      generateResp.UsageMetadata.TotalTokenCount,
	}
	finishReason := generateResp.Candidates[0].FinishReason

	fields := []capitan.Field{
		nudge.ProviderKey.Field(p.name),
		nudge.ModelKey.Field(p.model),
		nudge.PromptTokensKey.Field(usage.Prompt),
		nudge.CompletionTokensKey.Field(usage.Completion),
		nudge.TotalTokensKey.Field(usage.Total),
		nudge.DurationMsKey.Field(int(duration.Milliseconds())),
		nudge.HTTPStatusCodeKey.Field(resp.StatusCode),
	}
	if finishReason != "" {
		fields = append(fields, nudge.FinishReasonKey.Field(finishReason))
	}
	capitan.Info(ctx, nudge.ProviderCallCompleted, fields...)

	return &nudge.ProviderResponse{
		Content:      text,
		Usage:        usage,
		FinishReason: finishReason,
	}, nil
}

// fail emits provider.call.failed and returns err.
func (p *Provider) fail(ctx context.Context, startTime time.Time, err *nudge.Error) error {
	fields := []capitan.Field{
		nudge.ProviderKey.Field(p.name),
		nudge.ModelKey.Field(p.model),
		nudge.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
		nudge.ErrorKey.Field(err.Error()),
		nudge.ErrorKindKey.Field(err.Kind.String()),
	}
	if err.Status != 0 {
		fields = append(fields, nudge.HTTPStatusCodeKey.Field(err.Status))
	}
	if err.Reason != "" {
		fields = append(fields, nudge.APIErrorReasonKey.Field(err.Reason))
	}
	capitan.Error(ctx, nudge.ProviderCallFailed, fields...)
	return err
}

// buildRequest splits system messages into the system instruction and
// sends the rest as conversation turns.
func buildRequest(messages []nudge.Message, generation nudge.GenerationConfig) generateContentRequest {
	var systemParts []string
	var contents []content
	for _, msg := range messages {
		if msg.Role == nudge.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		contents = append(contents, content{
			Role:  msg.Role,
			Parts: []part{{Text: msg.Content}},
		})
	}

	request := generateContentRequest{
		Contents: contents,
		GenerationConfig: &generationConfig{
			Temperature:     generation.Temperature,
			TopK:            generation.TopK,
			TopP:            generation.TopP,
			MaxOutputTokens: generation.MaxOutputTokens,
		},
	}

	if len(systemParts) > 0 {
		request.SystemInstruction = &content{
			Role:  nudge.RoleSystem,
			Parts: []part{{Text: strings.Join(systemParts, "\n\n")}},
		}
	}

	return request
}

// parseError builds the typed error for a non-success status, preferring
// the message from the service's error body.
func parseError(status int, body []byte) *nudge.Error {
	var errorResp errorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == nil {
		return nudge.HTTPError(status, "")
	}

	typed := nudge.HTTPError(status, errorResp.Error.Message)
	for _, d := range errorResp.Error.Details {
		if d.Reason != "" {
			typed.Reason = d.Reason
			break
		}
	}
	return typed
}

// Package sdk implements the nudge Provider interface on top of the
// official Google Gen AI Go SDK.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/nudge"
	"google.golang.org/genai"
)

// DefaultModel is the model used when Config.Model is empty.
const DefaultModel = "gemini-1.5-flash"

// Provider implements the nudge Provider interface via genai.Client.
type Provider struct {
	client *genai.Client
	model  string
	name   string
}

// Config holds configuration for the SDK provider.
type Config struct {
	APIKey  string
	Model   string        // Optional, defaults to DefaultModel
	BaseURL string        // Optional endpoint override
	Timeout time.Duration // Optional transport timeout; zero means none
}

// New creates a provider backed by a Gemini API client.
func New(ctx context.Context, config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, nudge.ConfigurationError("API_KEY is required for the genai provider")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{
		client: client,
		model:  config.Model,
		name:   "genai",
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Model returns the model the provider calls.
func (p *Provider) Model() string {
	return p.model
}

// Call sends messages through the SDK and returns the first candidate's text.
func (p *Provider) Call(ctx context.Context, messages []nudge.Message, generation nudge.GenerationConfig) (*nudge.ProviderResponse, error) {
	startTime := time.Now()

	capitan.Info(ctx, nudge.ProviderCallStarted,
		nudge.ProviderKey.Field(p.name),
		nudge.ModelKey.Field(p.model),
	)

	contents, config := buildRequest(messages, generation)

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, p.fail(ctx, startTime, classify(err))
	}

	text, ok := firstCandidateText(result)
	if !ok {
		return nil, p.fail(ctx, startTime, nudge.EmptyResponseError(""))
	}

	var usage nudge.TokenUsage
	if result.UsageMetadata != nil {
		usage = nudge.TokenUsage{
			Prompt:     int(result.UsageMetadata.PromptTokenCount),
			Completion: int(result.UsageMetadata.CandidatesTokenCount),
			Total:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	finishReason := string(result.Candidates[0].FinishReason)

	capitan.Info(ctx, nudge.ProviderCallCompleted,
		nudge.ProviderKey.Field(p.name),
		nudge.ModelKey.Field(p.model),
		nudge.PromptTokensKey.Field(usage.Prompt),
		nudge.CompletionTokensKey.Field(usage.Completion),
		nudge.TotalTokensKey.Field(usage.Total),
		nudge.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
		nudge.FinishReasonKey.Field(finishReason),
	)

	return &nudge.ProviderResponse{
		Content:      text,
		Usage:        usage,
		FinishReason: finishReason,
	}, nil
}

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
	capitan.Error(ctx, nudge.ProviderCallFailed, fields...)
	return err
}

func buildRequest(messages []nudge.Message, generation nudge.GenerationConfig) ([]*genai.Content, *genai.GenerateContentConfig) {
	var systemParts []string
	var contents []*genai.Content
	for _, msg := range messages {
		if msg.Role == nudge.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(generation.Temperature),
		TopK:            ptr(float32(generation.TopK)),
		TopP:            ptr(generation.TopP),
		MaxOutputTokens: int32(generation.MaxOutputTokens),
	}
	if len(systemParts) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser)
	}
	return contents, config
}

// firstCandidateText joins the text of every part of the first candidate.
func firstCandidateText(result *genai.GenerateContentResponse) (string, bool) {
	if result == nil || len(result.Candidates) == 0 {
		return "", false
	}
	c := result.Candidates[0]
	if c == nil || c.Content == nil || c.Content.Parts == nil {
		return "", false
	}

	texts := make([]string, 0, len(c.Content.Parts))
	for _, part := range c.Content.Parts {
		if part == nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, part.Text)
	}
	return strings.Join(texts, "\n"), true
}

// classify maps SDK and transport errors onto nudge error kinds.
func classify(err error) *nudge.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return nudge.HTTPError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return nudge.HTTPError(apiErrPtr.Code, apiErrPtr.Message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nudge.NetworkError(err)
	}
	return nudge.UnexpectedError(err)
}

func ptr[T any](v T) *T {
	return &v
}

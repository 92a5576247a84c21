package testing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/nudge"
)

func TestResponseBuilder_Parts(t *testing.T) {
	response := NewResponseBuilder().
		WithPart("🔍 Analysis: sliding window").
		WithPart("💡 Hint: track the last index of each character").
		WithFinishReason("STOP").
		Build()

	var data struct {
		Candidates []struct {
			Content struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(data.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(data.Candidates))
	}
	candidate := data.Candidates[0]
	if candidate.Content.Role != "model" {
		t.Errorf("expected role=model, got %q", candidate.Content.Role)
	}
	if len(candidate.Content.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(candidate.Content.Parts))
	}
	if candidate.Content.Parts[1].Text != "💡 Hint: track the last index of each character" {
		t.Errorf("unexpected second part %q", candidate.Content.Parts[1].Text)
	}
	if candidate.FinishReason != "STOP" {
		t.Errorf("expected finishReason=STOP, got %q", candidate.FinishReason)
	}
}

func TestResponseBuilder_Usage(t *testing.T) {
	response := NewResponseBuilder().WithPart("hint").WithUsage(12, 30).BuildBytes()

	var data map[string]any
	if err := json.Unmarshal(response, &data); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	usage, ok := data["usageMetadata"].(map[string]any)
	if !ok {
		t.Fatalf("expected usageMetadata, got %v", data["usageMetadata"])
	}
	if usage["totalTokenCount"] != float64(42) {
		t.Errorf("expected totalTokenCount=42, got %v", usage["totalTokenCount"])
	}
}

func TestResponseBuilder_Empty(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		var data map[string]any
		if err := json.Unmarshal(NewResponseBuilder().WithoutCandidates().BuildBytes(), &data); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		candidates, ok := data["candidates"].([]any)
		if !ok || len(candidates) != 0 {
			t.Errorf("expected empty candidates, got %v", data["candidates"])
		}
	})

	t.Run("no content", func(t *testing.T) {
		var data map[string]any
		if err := json.Unmarshal(NewResponseBuilder().WithoutContent().BuildBytes(), &data); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		candidate := data["candidates"].([]any)[0].(map[string]any)
		if _, ok := candidate["content"]; ok {
			t.Errorf("expected no content block, got %v", candidate)
		}
	})
}

func TestErrorBody(t *testing.T) {
	var data struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Details []struct {
				Reason string `json:"reason"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(ErrorBody(400, "API key not valid", "API_KEY_INVALID"), &data); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	if data.Error.Code != 400 || data.Error.Message != "API key not valid" {
		t.Errorf("unexpected error body %+v", data.Error)
	}
	if len(data.Error.Details) != 1 || data.Error.Details[0].Reason != "API_KEY_INVALID" {
		t.Errorf("unexpected details %+v", data.Error.Details)
	}
}

func TestSequencedProvider(t *testing.T) {
	provider := NewSequencedProvider("first", "second", "third")
	ctx := context.Background()

	for i, expected := range []string{"first", "second", "third"} {
		resp, err := provider.Call(ctx, nil, nudge.DefaultGeneration())
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if resp.Content != expected {
			t.Errorf("call %d: expected %q, got %q", i, expected, resp.Content)
		}
	}

	// Exhausted - should return last
	resp, _ := provider.Call(ctx, nil, nudge.DefaultGeneration())
	if resp.Content != "third" {
		t.Errorf("exhausted: expected 'third', got %q", resp.Content)
	}

	if provider.CallCount() != 4 {
		t.Errorf("expected 4 calls, got %d", provider.CallCount())
	}

	provider.Reset()
	if provider.CallCount() != 0 {
		t.Errorf("expected 0 calls after reset, got %d", provider.CallCount())
	}
}

func TestSequencedProvider_Empty(t *testing.T) {
	provider := NewSequencedProvider()
	resp, err := provider.Call(context.Background(), nil, nudge.DefaultGeneration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "no responses configured" {
		t.Errorf("unexpected response %q", resp.Content)
	}
}

func TestSequencedProvider_Concurrent(t *testing.T) {
	provider := NewSequencedProvider("a", "b", "c")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = provider.Call(ctx, nil, nudge.DefaultGeneration())
		}()
	}
	wg.Wait()

	if provider.CallCount() != 100 {
		t.Errorf("expected 100 calls, got %d", provider.CallCount())
	}
}

func TestFailingProvider(t *testing.T) {
	provider := NewFailingProvider(2).WithSuccessResponse("success")
	ctx := context.Background()

	// First two calls fail
	for i := 0; i < 2; i++ {
		_, err := provider.Call(ctx, nil, nudge.DefaultGeneration())
		if err == nil {
			t.Errorf("call %d: expected error", i)
		}
		if !errors.Is(err, nudge.ErrNetwork) {
			t.Errorf("call %d: expected network error, got %v", i, err)
		}
	}

	// Third call succeeds
	resp, err := provider.Call(ctx, nil, nudge.DefaultGeneration())
	if err != nil {
		t.Fatalf("call 3: unexpected error: %v", err)
	}
	if resp.Content != "success" {
		t.Errorf("expected 'success', got %q", resp.Content)
	}

	if provider.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", provider.CallCount())
	}
}

func TestFailingProvider_WithFailError(t *testing.T) {
	quota := nudge.HTTPError(429, "quota exceeded")
	provider := NewFailingProvider(1).WithFailError(quota)

	_, err := provider.Call(context.Background(), nil, nudge.DefaultGeneration())
	if !errors.Is(err, quota) {
		t.Errorf("expected configured error, got %v", err)
	}
}

func TestBlockingProvider(t *testing.T) {
	provider := NewBlockingProvider("released")

	done := make(chan string, 1)
	go func() {
		resp, err := provider.Call(context.Background(), nil, nudge.DefaultGeneration())
		if err != nil {
			done <- err.Error()
			return
		}
		done <- resp.Content
	}()

	select {
	case <-provider.Started():
	case <-time.After(time.Second):
		t.Fatal("call never started")
	}

	provider.Release()
	select {
	case got := <-done:
		if got != "released" {
			t.Errorf("expected 'released', got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("call never returned")
	}

	// Release is idempotent
	provider.Release()
	if provider.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", provider.CallCount())
	}
}

func TestBlockingProvider_Cancel(t *testing.T) {
	provider := NewBlockingProvider("never")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Call(ctx, nil, nudge.DefaultGeneration())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCallRecorder(t *testing.T) {
	inner := NewSequencedProvider("response1", "response2")
	recorder := NewCallRecorder(inner)
	ctx := context.Background()

	messages1 := []nudge.Message{{Role: nudge.RoleUser, Content: "hello"}}
	messages2 := []nudge.Message{
		{Role: nudge.RoleSystem, Content: "persona"},
		{Role: nudge.RoleUser, Content: "world"},
	}
	generation := nudge.GenerationConfig{Temperature: 0.2, TopK: 10, TopP: 0.5, MaxOutputTokens: 100}

	_, _ = recorder.Call(ctx, messages1, nudge.DefaultGeneration())
	_, _ = recorder.Call(ctx, messages2, generation)

	if recorder.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", recorder.CallCount())
	}

	calls := recorder.Calls()
	if len(calls[0].Messages) != 1 {
		t.Errorf("call 0: expected 1 message, got %d", len(calls[0].Messages))
	}
	if calls[1].Generation != generation {
		t.Errorf("call 1: expected %+v, got %+v", generation, calls[1].Generation)
	}

	last := recorder.LastCall()
	if last == nil || last.Messages[1].Content != "world" {
		t.Errorf("unexpected last call %+v", last)
	}

	if recorder.Name() != SequencedProviderName {
		t.Errorf("expected wrapped name, got %q", recorder.Name())
	}

	recorder.Reset()
	if recorder.CallCount() != 0 {
		t.Errorf("expected 0 calls after reset, got %d", recorder.CallCount())
	}
	if recorder.LastCall() != nil {
		t.Error("expected nil last call after reset")
	}
}

func TestCallRecorder_CopiesMessages(t *testing.T) {
	recorder := NewCallRecorder(NewSequencedProvider("ok"))
	messages := []nudge.Message{{Role: nudge.RoleUser, Content: "original"}}

	_, _ = recorder.Call(context.Background(), messages, nudge.DefaultGeneration())
	messages[0].Content = "mutated"

	if recorder.LastCall().Messages[0].Content != "original" {
		t.Error("recorded messages should not alias the caller's slice")
	}
}

func TestLatencyProvider(t *testing.T) {
	inner := NewSequencedProvider("delayed")
	provider := NewLatencyProvider(inner, 50*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	resp, err := provider.Call(ctx, nil, nudge.DefaultGeneration())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "delayed" {
		t.Errorf("expected 'delayed', got %q", resp.Content)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("expected at least 50ms delay, got %v", elapsed)
	}
}

func TestLatencyProvider_ContextCancellation(t *testing.T) {
	inner := NewSequencedProvider("should not reach")
	provider := NewLatencyProvider(inner, 1*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := provider.Call(ctx, nil, nudge.DefaultGeneration())
	elapsed := time.Since(start)

	if err == nil {
		t.Error("expected context error")
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("expected quick cancellation, took %v", elapsed)
	}
	if inner.CallCount() != 0 {
		t.Errorf("expected 0 inner calls, got %d", inner.CallCount())
	}
}

func TestRecordingView(t *testing.T) {
	view := NewRecordingView()

	view.SetLoading(true)
	view.ShowResult("💡 Hint: binary search the answer")
	view.SetLoading(false)

	if view.Loading() {
		t.Error("expected loading off")
	}
	if view.Result() != "💡 Hint: binary search the answer" {
		t.Errorf("unexpected result %q", view.Result())
	}

	view.HideResult()
	if view.Result() != "" {
		t.Error("hidden result should read as empty")
	}

	view.ShowError("Network error. Please check your connection.")
	if view.Error() == "" {
		t.Error("expected error to be visible")
	}
	view.ClearError()
	if view.Error() != "" {
		t.Error("expected error to be cleared")
	}

	view.FocusInput()
	events := view.Events()
	if len(events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(events))
	}
	if events[0] != (ViewEvent{Call: "loading", Arg: "true"}) {
		t.Errorf("unexpected first event %+v", events[0])
	}
	if events[6].Call != "focus" {
		t.Errorf("expected focus last, got %+v", events[6])
	}
}

func TestUsageAccumulator(t *testing.T) {
	acc := NewUsageAccumulator()

	acc.AddUsage(&nudge.TokenUsage{Prompt: 10, Completion: 5, Total: 15})
	acc.AddUsage(&nudge.TokenUsage{Prompt: 20, Completion: 10, Total: 30})

	if acc.PromptTokens() != 30 {
		t.Errorf("expected 30 prompt tokens, got %d", acc.PromptTokens())
	}
	if acc.CompletionTokens() != 15 {
		t.Errorf("expected 15 completion tokens, got %d", acc.CompletionTokens())
	}
	if acc.TotalTokens() != 45 {
		t.Errorf("expected 45 total tokens, got %d", acc.TotalTokens())
	}
	if acc.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", acc.CallCount())
	}

	acc.Reset()
	if acc.TotalTokens() != 0 {
		t.Errorf("expected 0 after reset, got %d", acc.TotalTokens())
	}
}

func TestUsageAccumulator_NilUsage(t *testing.T) {
	acc := NewUsageAccumulator()
	acc.AddUsage(nil)

	if acc.CallCount() != 0 {
		t.Errorf("expected 0 calls for nil usage, got %d", acc.CallCount())
	}
}

func TestUsageAccumulator_Concurrent(t *testing.T) {
	acc := NewUsageAccumulator()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc.AddUsage(&nudge.TokenUsage{Prompt: 1, Completion: 1, Total: 2})
		}()
	}
	wg.Wait()

	if acc.CallCount() != 100 {
		t.Errorf("expected 100 calls, got %d", acc.CallCount())
	}
	if acc.TotalTokens() != 200 {
		t.Errorf("expected 200 total tokens, got %d", acc.TotalTokens())
	}
}

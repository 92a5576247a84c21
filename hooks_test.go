package nudge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
)

// waitHook waits for a hook to fire.
func waitHook(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for hook")
	}
}

func TestRequestStartedHook(t *testing.T) {
	var (
		requestID string
		inputLen  int
		temp      float64
		once      sync.Once
	)
	done := make(chan struct{})

	listener := capitan.Hook(RequestStarted, func(_ context.Context, e *capitan.Event) {
		if p, _ := ProviderKey.From(e); p != "hooks-started" {
			return
		}
		requestID, _ = RequestIDKey.From(e)
		inputLen, _ = InputLengthKey.From(e)
		temp, _ = TemperatureKey.From(e)
		once.Do(func() { close(done) })
	})
	defer listener.Close()

	hinter := NewHinter(NewMockProviderWithName("hooks-started"), testConfig())
	if _, err := hinter.GetHint(context.Background(), "reverse a linked list"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitHook(t, done)
	if requestID == "" {
		t.Error("expected request id")
	}
	if inputLen != len("reverse a linked list") {
		t.Errorf("expected input length %d, got %d", len("reverse a linked list"), inputLen)
	}
	if temp < 0.69 || temp > 0.71 {
		t.Errorf("expected temperature 0.7, got %v", temp)
	}
}

func TestRequestCompletedHook(t *testing.T) {
	var (
		response string
		once     sync.Once
	)
	done := make(chan struct{})

	listener := capitan.Hook(RequestCompleted, func(_ context.Context, e *capitan.Event) {
		if p, _ := ProviderKey.From(e); p != "mock-fixed" {
			return
		}
		response, _ = ResponseKey.From(e)
		once.Do(func() { close(done) })
	})
	defer listener.Close()

	hinter := NewHinter(NewMockProviderWithResponse("💡 Hint: use a stack"), testConfig())
	if _, err := hinter.GetHint(context.Background(), "valid parentheses"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitHook(t, done)
	if response != "💡 Hint: use a stack" {
		t.Errorf("unexpected response field %q", response)
	}
}

func TestRequestFailedHook(t *testing.T) {
	var (
		kind string
		once sync.Once
	)
	done := make(chan struct{})

	listener := capitan.Hook(RequestFailed, func(_ context.Context, e *capitan.Event) {
		if p, _ := ProviderKey.From(e); p != "hooks-failed" {
			return
		}
		kind, _ = ErrorKindKey.From(e)
		once.Do(func() { close(done) })
	})
	defer listener.Close()

	hinter := NewHinter(NewMockProviderWithName("hooks-failed"), HinterConfig{})
	if _, err := hinter.GetHint(context.Background(), "valid parentheses"); err == nil {
		t.Fatal("expected configuration error")
	}

	waitHook(t, done)
	if kind != "configuration" {
		t.Errorf("expected kind 'configuration', got %q", kind)
	}
}

func TestStateChangedHook(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []string
	)
	done := make(chan struct{})
	var once sync.Once

	session := NewSession(fixedSource("hint"), newRecordingView())
	defer session.Close()

	listener := capitan.Hook(StateChanged, func(_ context.Context, e *capitan.Event) {
		if id, _ := SessionIDKey.From(e); id != session.ID() {
			return
		}
		from, _ := StateFromKey.From(e)
		to, _ := StateToKey.From(e)

		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, from+"->"+to)
		if len(transitions) == 2 {
			once.Do(func() { close(done) })
		}
	})
	defer listener.Close()

	if _, err := session.Submit(context.Background(), "merge k sorted lists"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitHook(t, done)
	mu.Lock()
	defer mu.Unlock()
	if transitions[0] != "idle->loading" || transitions[1] != "loading->result" {
		t.Errorf("unexpected transitions %v", transitions)
	}
}

func TestStateChangedDisplayField(t *testing.T) {
	var (
		mu        sync.Mutex
		displayed []string
	)
	done := make(chan struct{})
	var once sync.Once

	session := NewSession(fixedSource("hint"), newRecordingView())
	defer session.Close()

	listener := capitan.Hook(StateChanged, func(_ context.Context, e *capitan.Event) {
		if id, _ := SessionIDKey.From(e); id != session.ID() {
			return
		}
		msg, ok := DisplayKey.From(e)
		if !ok {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		displayed = append(displayed, msg)
		if len(displayed) == 2 {
			once.Do(func() { close(done) })
		}
	})
	defer listener.Close()

	_, _ = session.Submit(context.Background(), "")
	_, _ = session.Submit(context.Background(), "short")

	waitHook(t, done)
	mu.Lock()
	defer mu.Unlock()
	if displayed[0] != MessageEmptyInput || displayed[1] != MessageShortInput {
		t.Errorf("unexpected displayed messages %v", displayed)
	}
}

func TestSubmitRejectedHook(t *testing.T) {
	var (
		reason string
		once   sync.Once
	)
	done := make(chan struct{})

	session := NewSession(fixedSource("hint"), newRecordingView())
	defer session.Close()

	listener := capitan.Hook(SubmitRejected, func(_ context.Context, e *capitan.Event) {
		if id, _ := SessionIDKey.From(e); id != session.ID() {
			return
		}
		reason, _ = ErrorKindKey.From(e)
		once.Do(func() { close(done) })
	})
	defer listener.Close()

	_, _ = session.Submit(context.Background(), "")

	waitHook(t, done)
	if reason != "validation" {
		t.Errorf("expected reason 'validation', got %q", reason)
	}
}

// TestHooksWithObserver verifies that observers can capture all hook events.
func TestHooksWithObserver(t *testing.T) {
	var (
		mu      sync.Mutex
		signals = map[capitan.Signal]bool{}
	)
	done := make(chan struct{})
	var once sync.Once

	observer := capitan.Observe(func(_ context.Context, e *capitan.Event) {
		if p, _ := ProviderKey.From(e); p != "hooks-observer" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		signals[e.Signal()] = true
		if signals[RequestStarted] && signals[RequestCompleted] {
			once.Do(func() { close(done) })
		}
	})
	defer observer.Close()

	hinter := NewHinter(NewMockProviderWithName("hooks-observer"), testConfig())
	_, _ = hinter.GetHint(context.Background(), "kth largest element")

	waitHook(t, done)
}

package nudge

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zoobzio/pipz"
)

// Option modifies the Hinter pipeline.
// No option retries: a hint request is issued once and runs to completion.
type Option func(pipz.Chainable[*HintRequest]) pipz.Chainable[*HintRequest]

// WithTimeout bounds the whole call. Operations exceeding this duration
// are canceled and reported as network errors.
func WithTimeout(duration time.Duration) Option {
	return func(pipeline pipz.Chainable[*HintRequest]) pipz.Chainable[*HintRequest] {
		return pipz.NewTimeout("timeout", pipeline, duration)
	}
}

// WithCircuitBreaker stops calling the provider after 'failures'
// consecutive failures, until 'recovery' has passed.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(pipeline pipz.Chainable[*HintRequest]) pipz.Chainable[*HintRequest] {
		return pipz.NewCircuitBreaker("circuit-breaker", pipeline, failures, recovery)
	}
}

// WithErrorHandler adds error handling to the pipeline.
// The handler receives the failed request and can log or alert; the error
// still reaches the caller.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*HintRequest]]) Option {
	return func(pipeline pipz.Chainable[*HintRequest]) pipz.Chainable[*HintRequest] {
		return pipz.NewHandle("error-handler", pipeline, handler)
	}
}

// WithDebug writes the outgoing text and the raw hint to w.
func WithDebug(w io.Writer) Option {
	return func(pipeline pipz.Chainable[*HintRequest]) pipz.Chainable[*HintRequest] {
		return pipz.Apply("debug", func(ctx context.Context, req *HintRequest) (*HintRequest, error) {
			fmt.Fprintf(w, "\n=== DEBUG: Input ===\n%s\n====================\n", req.Text)

			processed, err := pipeline.Process(ctx, req)
			if err != nil {
				fmt.Fprintf(w, "\n=== DEBUG: Error ===\n%v\n====================\n\n", err)
				return processed, err
			}

			fmt.Fprintf(w, "\n=== DEBUG: Hint ===\n%s\n===================\n\n", processed.Response)
			return processed, nil
		})
	}
}

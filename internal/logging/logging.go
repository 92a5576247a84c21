// Package logging builds the zap logger and forwards nudge hook events to it.
package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zoobzio/nudge"
)

// signalPrefix selects the events forwarded by Bridge.
const signalPrefix = "hint."

// New builds a production zap logger at level writing to file.
// An empty file writes to stderr.
func New(level, file string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	config.Level = lvl

	if file != "" {
		config.OutputPaths = []string{file}
		config.ErrorOutputPaths = []string{file}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Bridge forwards every nudge signal to logger until the returned stop
// function is called. Failures are logged at error level, rejected
// submissions and a missing credential at warn, state changes at debug.
func Bridge(logger *zap.Logger) (stop func()) {
	observer := capitan.Observe(func(_ context.Context, e *capitan.Event) {
		signal := string(e.Signal())
		if !strings.HasPrefix(signal, signalPrefix) {
			return
		}
		if ce := logger.Check(levelFor(e.Signal()), signal); ce != nil {
			ce.Write(Fields(e)...)
		}
	})
	return func() {
		observer.Close()
	}
}

func levelFor(signal capitan.Signal) zapcore.Level {
	switch {
	case strings.HasSuffix(string(signal), ".failed"):
		return zapcore.ErrorLevel
	case signal == nudge.SubmitRejected, signal == nudge.CredentialMissing:
		return zapcore.WarnLevel
	case signal == nudge.StateChanged:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Fields extracts the known nudge fields from an event.
func Fields(e *capitan.Event) []zap.Field {
	var fields []zap.Field

	str := func(name string) func(string, bool) {
		return func(v string, ok bool) {
			if ok && v != "" {
				fields = append(fields, zap.String(name, v))
			}
		}
	}
	num := func(name string) func(int, bool) {
		return func(v int, ok bool) {
			if ok {
				fields = append(fields, zap.Int(name, v))
			}
		}
	}

	str("request_id")(nudge.RequestIDKey.From(e))
	str("session_id")(nudge.SessionIDKey.From(e))
	str("provider")(nudge.ProviderKey.From(e))
	str("model")(nudge.ModelKey.From(e))
	str("error")(nudge.ErrorKey.From(e))
	str("error_kind")(nudge.ErrorKindKey.From(e))
	str("display")(nudge.DisplayKey.From(e))
	str("api_reason")(nudge.APIErrorReasonKey.From(e))
	str("finish_reason")(nudge.FinishReasonKey.From(e))
	str("from")(nudge.StateFromKey.From(e))
	str("to")(nudge.StateToKey.From(e))
	num("input_length")(nudge.InputLengthKey.From(e))
	num("http_status")(nudge.HTTPStatusCodeKey.From(e))
	num("duration_ms")(nudge.DurationMsKey.From(e))
	num("tokens_total")(nudge.TotalTokensKey.From(e))

	return fields
}

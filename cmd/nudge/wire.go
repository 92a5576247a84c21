package main

import (
	"context"

	"github.com/zoobzio/nudge"
	"github.com/zoobzio/nudge/internal/config"
	"github.com/zoobzio/nudge/providers/gemini"
	"github.com/zoobzio/nudge/providers/sdk"
)

// newProvider builds the configured backend. The SDK client cannot be
// built without a key, so an unusable credential falls back to the REST
// provider; the hinter rejects the request before it is ever called.
func newProvider(ctx context.Context, cfg *config.Config) (nudge.Provider, error) {
	key, ok := cfg.Credential().Value()

	if cfg.Provider == config.ProviderSDK && ok {
		return sdk.New(ctx, sdk.Config{
			APIKey:  key,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return gemini.New(gemini.Config{
		APIKey:  key,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}), nil
}

// newHinter wires the provider into the hint pipeline.
func newHinter(ctx context.Context, cfg *config.Config) (*nudge.Hinter, error) {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opts []nudge.Option
	if cfg.Timeout > 0 {
		opts = append(opts, nudge.WithTimeout(cfg.Timeout))
	}
	return nudge.NewHinter(provider, cfg.HinterConfig(), opts...), nil
}

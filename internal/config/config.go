// Package config loads nudge settings from a YAML file, the environment,
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zoobzio/nudge"
)

// Provider backends.
const (
	ProviderREST = "rest"
	ProviderSDK  = "sdk"
)

// Config is the root configuration.
type Config struct {
	APIKey     string           `mapstructure:"api_key" json:"api_key" desc:"Gemini API key; GEMINI_API_KEY is also read"`
	Provider   string           `mapstructure:"provider" json:"provider" desc:"Backend: rest or sdk"`
	Model      string           `mapstructure:"model" json:"model" desc:"Gemini model name"`
	BaseURL    string           `mapstructure:"base_url" json:"base_url,omitempty" desc:"Endpoint override"`
	Timeout    time.Duration    `mapstructure:"timeout" json:"timeout,omitempty" desc:"Transport timeout, 0 for none"`
	Generation GenerationConfig `mapstructure:"generation" json:"generation" desc:"Sampling parameters"`
	Error      ErrorConfig      `mapstructure:"error" json:"error" desc:"Error display"`
	Input      InputConfig      `mapstructure:"input" json:"input" desc:"Input surface"`
	Log        LogConfig        `mapstructure:"log" json:"log" desc:"Logging"`
}

// GenerationConfig holds sampling parameters.
type GenerationConfig struct {
	Temperature     float32 `mapstructure:"temperature" json:"temperature" desc:"Sampling temperature"`
	TopK            int     `mapstructure:"top_k" json:"top_k" desc:"Top-k sampling"`
	TopP            float32 `mapstructure:"top_p" json:"top_p" desc:"Nucleus sampling threshold"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" json:"max_output_tokens" desc:"Output-length cap"`
}

// ErrorConfig controls how failures are shown.
type ErrorConfig struct {
	DismissAfter  time.Duration `mapstructure:"dismiss_after" json:"dismiss_after" desc:"How long an error stays visible"`
	VerbatimLimit int           `mapstructure:"verbatim_limit" json:"verbatim_limit" desc:"Raw messages shorter than this are shown as-is"`
}

// InputConfig controls the text-entry surface.
type InputConfig struct {
	MaxHeight int `mapstructure:"max_height" json:"max_height" desc:"Maximum visible input height"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level" json:"level" desc:"debug, info, warn or error"`
	File  string `mapstructure:"file" json:"file,omitempty" desc:"Log file; empty discards logs in the popup"`
}

// Load reads configuration. cfgFile overrides the search path when set.
// A missing config file is not an error; defaults and the environment
// still apply.
func Load(cfgFile string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("nudge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/nudge")
	}

	v.SetEnvPrefix("NUDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := v.BindEnv("api_key", "NUDGE_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api_key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	gen := nudge.DefaultGeneration()

	v.SetDefault("api_key", "")
	v.SetDefault("provider", ProviderREST)
	v.SetDefault("model", "gemini-1.5-flash")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", 0)
	v.SetDefault("generation.temperature", gen.Temperature)
	v.SetDefault("generation.top_k", gen.TopK)
	v.SetDefault("generation.top_p", gen.TopP)
	v.SetDefault("generation.max_output_tokens", gen.MaxOutputTokens)
	v.SetDefault("error.dismiss_after", nudge.ErrorDismissAfter)
	v.SetDefault("error.verbatim_limit", nudge.DefaultVerbatimLimit)
	v.SetDefault("input.max_height", nudge.MaxInputHeight)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Validate checks the configuration for values nudge cannot run with.
// A missing API key is not a validation error: it is reported when a
// hint is requested.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderREST, ProviderSDK:
	default:
		return fmt.Errorf("invalid provider %q, must be %s or %s", c.Provider, ProviderREST, ProviderSDK)
	}
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return errors.New("generation.temperature must be within [0, 2]")
	}
	if c.Generation.TopP < 0 || c.Generation.TopP > 1 {
		return errors.New("generation.top_p must be within [0, 1]")
	}
	if c.Generation.TopK < 0 || c.Generation.MaxOutputTokens < 0 {
		return errors.New("generation.top_k and generation.max_output_tokens must not be negative")
	}
	if c.Error.DismissAfter <= 0 {
		return errors.New("error.dismiss_after must be positive")
	}
	if c.Error.VerbatimLimit < 1 {
		return errors.New("error.verbatim_limit must be at least 1")
	}
	if c.Input.MaxHeight < 1 {
		return errors.New("input.max_height must be at least 1")
	}
	return nil
}

// Credential resolves the configured API key.
func (c *Config) Credential() nudge.Credential {
	return nudge.ResolveCredential(c.APIKey)
}

// HinterConfig returns the mediator settings.
func (c *Config) HinterConfig() nudge.HinterConfig {
	return nudge.HinterConfig{
		Credential: c.Credential(),
		Generation: nudge.GenerationConfig{
			Temperature:     c.Generation.Temperature,
			TopK:            c.Generation.TopK,
			TopP:            c.Generation.TopP,
			MaxOutputTokens: c.Generation.MaxOutputTokens,
		},
	}
}

// Display returns the error display mapping.
func (c *Config) Display() nudge.Display {
	return nudge.Display{VerbatimLimit: c.Error.VerbatimLimit}
}

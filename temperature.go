package nudge

// GenerationConfig holds the sampling parameters sent with every request.
type GenerationConfig struct {
	Temperature     float32 // Randomness of the reply
	TopK            int     // Sample from the K most likely tokens
	TopP            float32 // Nucleus sampling threshold
	MaxOutputTokens int     // Output-length cap
}

// Default generation parameters for hints.
const (
	DefaultTemperature     float32 = 0.7
	DefaultTopK                    = 40
	DefaultTopP            float32 = 0.95
	DefaultMaxOutputTokens         = 500
)

// DefaultGeneration returns the fixed generation parameters.
func DefaultGeneration() GenerationConfig {
	return GenerationConfig{
		Temperature:     DefaultTemperature,
		TopK:            DefaultTopK,
		TopP:            DefaultTopP,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// withDefaults fills zero fields from DefaultGeneration.
// A zero value is treated as unset for ergonomic struct initialization.
func (g GenerationConfig) withDefaults() GenerationConfig {
	d := DefaultGeneration()
	if g.Temperature == 0 {
		g.Temperature = d.Temperature
	}
	if g.TopK == 0 {
		g.TopK = d.TopK
	}
	if g.TopP == 0 {
		g.TopP = d.TopP
	}
	if g.MaxOutputTokens == 0 {
		g.MaxOutputTokens = d.MaxOutputTokens
	}
	return g
}

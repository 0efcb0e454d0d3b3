package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderConfig selects and tunes a generation backend.
type ProviderConfig struct {
	Provider   string // fake | gemini | groq
	Model      string
	GroqAPIKey string
	RPS        float64
	Burst      int
}

// NewFromConfig builds the configured ScriptGenerator. An empty provider
// falls back to the fake client so the gateway always starts.
func NewFromConfig(ctx context.Context, cfg ProviderConfig) (ScriptGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "fake":
		return NewFakeClient(), nil
	case "gemini":
		model := strings.TrimSpace(cfg.Model)
		if model == "" {
			model = "gemini-2.0-flash"
		}
		return NewGeminiClient(ctx, model, cfg.RPS, cfg.Burst)
	case "groq":
		model := strings.TrimSpace(cfg.Model)
		if model == "" {
			model = "llama-3.3-70b-versatile"
		}
		return NewGroqClient(cfg.GroqAPIKey, model, cfg.RPS, cfg.Burst)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

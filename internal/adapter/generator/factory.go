package generator

import (
	"fmt"

	"citerag/config"
	"citerag/internal/port"
)

// New builds the generator named by cfg.Provider.
func New(cfg config.GenerationConfig) (port.Generator, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiGenerator(cfg.Model, cfg.BaseURL), nil
	case "openai":
		return NewOpenAIGenerator(cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}

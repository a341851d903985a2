package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/farum-counselor/internal/config"
	"github.com/PabloGalante/farum-counselor/internal/domain"
)

// NewFromConfig builds the generation backend selected in cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config) (domain.Generator, error) {
	switch cfg.LLMBackend {
	case config.BackendMock:
		return NewMockLLM(), nil
	case config.BackendOllama:
		return NewOllamaClient(cfg.OllamaURL, cfg.ModelName), nil
	case config.BackendOllamaCLI:
		return NewOllamaCLI("", cfg.ModelName), nil
	case config.BackendOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName)
	case config.BackendVertex:
		return NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.LLMBackend)
	}
}

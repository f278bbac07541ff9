package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/histchat/config"
	"github.com/mohammad-safakhou/histchat/models"
	ollama_provider "github.com/mohammad-safakhou/histchat/provider/ollama"
	openai_provider "github.com/mohammad-safakhou/histchat/provider/openai"
)

// Provider is the interface that all inference backends must satisfy. The
// service treats inference as opaque: ordered messages in, generated text
// out.
type Provider interface {
	// Chat sends the conversation to the model and returns the generated
	// answer.
	Chat(ctx context.Context, messages []models.Message) (string, error)
	// Ready reports whether the backend is reachable and the model loaded.
	Ready(ctx context.Context) error
	ModelName() string
}

// New creates an inference client based on the provided configuration
func New(cfg config.ModelConfig) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama_provider.NewClient(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("model.api_key required for openai provider")
		}
		return openai_provider.NewClient(cfg), nil
	default:
		return nil, errors.New("unsupported inference provider")
	}
}

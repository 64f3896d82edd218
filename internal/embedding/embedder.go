package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pgElephant/RetailMCP/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrEmbeddingUnavailable means no embedding service is configured.
	ErrEmbeddingUnavailable = errors.New("embedding service not configured")
	// ErrEmbeddingFailed means the service was reachable but produced no usable vector.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Embedder turns query text into a fixed-length vector
type Embedder interface {
	Available() bool
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// OpenAIEmbedder implements Embedder against Azure OpenAI or the OpenAI API
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewEmbedder picks an implementation from the configuration. A missing
// endpoint or key yields a NullEmbedder.
func NewEmbedder(cfg *config.EmbeddingConfig) Embedder {
	if e := NewOpenAIEmbedder(cfg); e != nil {
		return e
	}
	return &NullEmbedder{}
}

// NewOpenAIEmbedder creates a new OpenAI embedder, or nil when the provider
// cannot be reached with the given settings.
func NewOpenAIEmbedder(cfg *config.EmbeddingConfig) *OpenAIEmbedder {
	endpoint := strings.TrimSpace(stringValue(cfg.Endpoint))
	apiKey := stringValue(cfg.APIKey)

	var clientCfg openai.ClientConfig
	switch cfg.GetProvider() {
	case "azure":
		if endpoint == "" {
			return nil
		}
		deployment := cfg.GetDeployment()
		clientCfg = openai.DefaultAzureConfig(apiKey, endpoint)
		clientCfg.APIVersion = cfg.GetAPIVersion()
		clientCfg.AzureModelMapperFunc = func(string) string {
			return deployment
		}
	case "openai":
		if apiKey == "" {
			return nil
		}
		clientCfg = openai.DefaultConfig(apiKey)
		if endpoint != "" {
			clientCfg.BaseURL = endpoint
		}
	default:
		return nil
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.GetTimeout()}

	dimensions := 0
	if cfg.Dimensions != nil {
		dimensions = *cfg.Dimensions
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.GetModel(),
		dimensions: dimensions,
	}
}

func (e *OpenAIEmbedder) Available() bool {
	return true
}

// Embed generates embedding for text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrEmbeddingFailed)
	}

	vector := resp.Data[0].Embedding
	if e.dimensions > 0 && len(vector) != e.dimensions {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d", ErrEmbeddingFailed, len(vector), e.dimensions)
	}
	return vector, nil
}

// ModelName returns the model name
func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// NullEmbedder stands in when no embedding service is configured
type NullEmbedder struct{}

func (e *NullEmbedder) Available() bool {
	return false
}

// Embed always reports ErrEmbeddingUnavailable
func (e *NullEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrEmbeddingUnavailable
}

// ModelName returns empty string for NullEmbedder
func (e *NullEmbedder) ModelName() string {
	return ""
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

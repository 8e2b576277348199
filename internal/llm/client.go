package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// advisoryTemperature keeps advisories close to deterministic for the same copy
const advisoryTemperature = 0.1

// ErrEmptyResponse is returned when the model produced no usable text
var ErrEmptyResponse = errors.New("model returned no text")

// Client is the model surface the advisor needs
type Client interface {
	// GenerateJSON returns the model's JSON answer to prompt
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	Close() error
}

// NewClient creates a client for config.Provider
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient dials Gemini with apiKey
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required for text advisories")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// GenerateJSON asks the tier's model for a JSON-typed response
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(name)
	model.SetTemperature(advisoryTemperature)
	model.SetCandidateCount(1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", name, err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", name, err)
	}
	return CleanJSONBlock(text), nil
}

// Close releases the underlying connection
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// responseText joins the text parts of the first candidate. A candidate
// stopped by a safety or recitation filter is reported as such.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return "", fmt.Errorf("response blocked: %s", candidate.FinishReason)
	}
	if candidate.Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// Package llm - advisor.go implements the optional text advisory service.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/brand-compliance/internal/prompts"
	"github.com/jonathan/brand-compliance/internal/types"
)

// Advisor gives a second opinion on text that passed the local rules.
// The returned string is the raw JSON body; callers validate it.
type Advisor interface {
	Advise(ctx context.Context, req types.AdvisoryRequest) (string, error)
}

// ClientAdvisor implements Advisor on top of a Client
type ClientAdvisor struct {
	client Client
	tier   ModelTier
}

// NewClientAdvisor wraps client. tier defaults to TierLite.
func NewClientAdvisor(client Client, tier ModelTier) *ClientAdvisor {
	if tier == "" {
		tier = TierLite
	}
	return &ClientAdvisor{client: client, tier: tier}
}

// NewGeminiAdvisor creates an advisor backed by Gemini
func NewGeminiAdvisor(ctx context.Context, config *Config, apiKey string) (*ClientAdvisor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	client, err := NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, err
	}
	return NewClientAdvisor(client, config.AdvisoryTier), nil
}

// Advise asks the model for an advisory and returns the cleaned JSON body
func (a *ClientAdvisor) Advise(ctx context.Context, req types.AdvisoryRequest) (string, error) {
	prompt, err := BuildAdvisoryPrompt(req)
	if err != nil {
		return "", err
	}
	text, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return "", fmt.Errorf("failed to get text advisory: %w", err)
	}
	return CleanJSONBlock(text), nil
}

// Close releases the underlying client
func (a *ClientAdvisor) Close() error {
	return a.client.Close()
}

// BuildAdvisoryPrompt renders the advisory prompt for a request
func BuildAdvisoryPrompt(req types.AdvisoryRequest) (string, error) {
	rules, err := json.MarshalIndent(req.Rules, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode advisory rules: %w", err)
	}
	description, err := prompts.Render(prompts.TextAdvisory, map[string]string{
		"Rules":  string(rules),
		"Schema": req.Schema,
	})
	if err != nil {
		return "", err
	}
	instructions, err := prompts.Instructions()
	if err != nil {
		return "", err
	}
	schema := TextAdvisorySchema(description, instructions)
	return BuildExtractionPrompt(schema, req.Text), nil
}

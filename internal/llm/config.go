// Package llm provides the text advisory service and the LLM client it runs on.
package llm

// ModelTier names a model capability level
type ModelTier string

const (
	// TierLite covers short copy review, the advisory default
	TierLite ModelTier = "lite"
	// TierStandard covers longer copy and structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced covers long or nuanced review
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one wired
const ProviderGemini Provider = "gemini"

// Config selects the provider and the model behind each tier
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// AdvisoryTier selects the model used for text advisories
	AdvisoryTier ModelTier
}

// DefaultConfig returns the Gemini configuration with advisories on the lite tier
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		AdvisoryTier: TierLite,
	}
}

// GetModel returns the model for tier. Unconfigured tiers fall back to
// the advisory tier's model, then to any lighter tier.
func (c *Config) GetModel(tier ModelTier) string {
	for _, candidate := range []ModelTier{tier, c.AdvisoryTier, TierStandard, TierLite} {
		if model := c.Models[candidate]; model != "" {
			return model
		}
	}
	return ""
}

// AdvisoryModel returns the model used for text advisories
func (c *Config) AdvisoryModel() string {
	return c.GetModel(c.AdvisoryTier)
}

// WithModel returns a copy of c with model assigned to tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider:     c.Provider,
		Models:       make(map[ModelTier]string, len(c.Models)+1),
		AdvisoryTier: c.AdvisoryTier,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}

// WithAdvisoryModel overrides the advisory tier's model. An empty model
// returns c unchanged.
func (c *Config) WithAdvisoryModel(model string) *Config {
	if model == "" {
		return c
	}
	return c.WithModel(c.AdvisoryTier, model)
}

// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tone is the brand's preferred register
type Tone string

// Tones
const (
	ToneFormal   Tone = "formal"
	ToneNeutral  Tone = "neutral"
	ToneFriendly Tone = "friendly"
)

// ClaimsStrictness controls how aggressively absolute claims are flagged
type ClaimsStrictness string

// Claim strictness levels
const (
	ClaimsLow    ClaimsStrictness = "low"
	ClaimsMedium ClaimsStrictness = "medium"
	ClaimsHigh   ClaimsStrictness = "high"
)

// MemoryDecision records a user's standing decision about a phrase
type MemoryDecision string

// Memory decisions
const (
	MemoryAlwaysAllow MemoryDecision = "alwaysAllow"
	MemoryNeverFlag   MemoryDecision = "neverFlag"
)

// PreferredTerm maps phrases the brand would rather not see to the term it prefers
type PreferredTerm struct {
	Term     string   `json:"term" yaml:"term" validate:"required"`
	Replaces []string `json:"replaces,omitempty" yaml:"replaces,omitempty"`
}

// MemoryEntry is a phrase override remembered for the brand
type MemoryEntry struct {
	Phrase   string         `json:"phrase" yaml:"phrase" validate:"required"`
	Decision MemoryDecision `json:"decision" yaml:"decision" validate:"oneof=alwaysAllow neverFlag"`
}

// BrandProfile is the active rule set for one evaluation call
type BrandProfile struct {
	BrandID            string           `json:"brandId,omitempty" yaml:"brandId,omitempty"`
	Description        string           `json:"description,omitempty" yaml:"description,omitempty"`
	Industry           string           `json:"industry,omitempty" yaml:"industry,omitempty"`
	Palette            []string         `json:"palette,omitempty" yaml:"palette,omitempty"`
	Fonts              []string         `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	LogoMinWidth       float64          `json:"logoMinWidth,omitempty" yaml:"logoMinWidth,omitempty" validate:"gte=0"`
	MinFontSize        float64          `json:"minFontSize,omitempty" yaml:"minFontSize,omitempty" validate:"gte=0"`
	AllowedFontWeights []int            `json:"allowedFontWeights,omitempty" yaml:"allowedFontWeights,omitempty"`
	MinContrastRatio   float64          `json:"minContrastRatio,omitempty" yaml:"minContrastRatio,omitempty" validate:"gte=0,lte=21"`
	SpacingUnit        float64          `json:"spacingUnit,omitempty" yaml:"spacingUnit,omitempty" validate:"gte=0"`
	Tone               Tone             `json:"tone,omitempty" yaml:"tone,omitempty" validate:"omitempty,oneof=formal neutral friendly"`
	ClaimsStrictness   ClaimsStrictness `json:"claimsStrictness,omitempty" yaml:"claimsStrictness,omitempty" validate:"omitempty,oneof=low medium high"`
	DisallowedPhrases  []string         `json:"disallowedPhrases" yaml:"disallowedPhrases"`
	PreferredTerms     []PreferredTerm  `json:"preferredTerms,omitempty" yaml:"preferredTerms,omitempty" validate:"dive"`
	Memory             []MemoryEntry    `json:"memory,omitempty" yaml:"memory,omitempty" validate:"dive"`
}

// Validate checks struct-level constraints on the profile.
// Disallowed phrase list checks live with the text scorer since they need a field-specific error.
// Field names in validation errors are the JSON names.
func (p *BrandProfile) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	return validate.Struct(p)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// MemoryDecisionFor returns the remembered decision for a phrase, if any
func (p *BrandProfile) MemoryDecisionFor(phrase string) (MemoryDecision, bool) {
	for _, entry := range p.Memory {
		if samePhrase(entry.Phrase, phrase) {
			return entry.Decision, true
		}
	}
	return "", false
}

// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// AdvisoryRules is the subset of brand rules sent to the text advisory service
type AdvisoryRules struct {
	Tone              Tone             `json:"tone,omitempty"`
	ClaimsStrictness  ClaimsStrictness `json:"claimsStrictness,omitempty"`
	DisallowedPhrases []string         `json:"disallowedPhrases"`
	PreferredTerms    []PreferredTerm  `json:"preferredTerms,omitempty"`
	BrandDescription  string           `json:"brandDescription,omitempty"`
}

// AdvisoryRequest is the payload sent to the text advisory service
type AdvisoryRequest struct {
	Text   string        `json:"text"`
	Rules  AdvisoryRules `json:"rules"`
	Schema string        `json:"schema"`
}

// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// FixType mirrors the rule domain a fix remediates
type FixType string

// Fix types
const (
	FixColor      FixType = "color"
	FixTypography FixType = "typography"
	FixFontSize   FixType = "font_size"
	FixLogoSize   FixType = "logo_size"
	FixContrast   FixType = "contrast"
	FixSpacing    FixType = "spacing"
	FixContent    FixType = "content"
	FixGeneric    FixType = "generic"
)

// Guideline provenance values for FixMetadata.Source
const (
	SourceBrand     = "brand"
	SourceIndustry  = "industry"
	SourceViolation = "violation"
)

// FixMetadata describes where a recommended value came from
type FixMetadata struct {
	Source         string   `json:"source" yaml:"source"`
	BrandID        string   `json:"brandId,omitempty" yaml:"brandId,omitempty"`
	Industry       string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Guideline      string   `json:"guideline,omitempty" yaml:"guideline,omitempty"`
	OriginalWidth  *float64 `json:"originalWidth,omitempty" yaml:"originalWidth,omitempty"`
	OriginalHeight *float64 `json:"originalHeight,omitempty" yaml:"originalHeight,omitempty"`
}

// Fix is a synthesized remediation for one violation
type Fix struct {
	ID               string      `json:"id" yaml:"id"`
	Type             FixType     `json:"type" yaml:"type"`
	Severity         Severity    `json:"severity" yaml:"severity"`
	Title            string      `json:"title" yaml:"title"`
	Description      string      `json:"description" yaml:"description"`
	Reasoning        string      `json:"reasoning" yaml:"reasoning"`
	CurrentValue     string      `json:"currentValue,omitempty" yaml:"currentValue,omitempty"`
	RecommendedValue string      `json:"recommendedValue" yaml:"recommendedValue"`
	AutoFixable      bool        `json:"autoFixable" yaml:"autoFixable"`
	ElementID        string      `json:"elementId" yaml:"elementId"`
	ViolationID      string      `json:"violationId" yaml:"violationId"`
	Metadata         FixMetadata `json:"metadata" yaml:"metadata"`
}

// Fixes is a fix list document. Fixes is nil when the "fixes" key is absent
// and points at an empty slice for "fixes": [].
type Fixes struct {
	Fixes *[]Fix `json:"fixes" yaml:"fixes"`
}

// Package guidelines provides read-only access to brand and industry rule values
// used to synthesize fixes.
package guidelines

import (
	"context"
	"strings"
)

// Slot is the typographic role a font recommendation applies to
type Slot string

// Typography slots
const (
	SlotHeading Slot = "heading"
	SlotBody    Slot = "body"
)

// HeadingFontSize is the size at or above which text is treated as a heading
const HeadingFontSize = 24

// GeneralIndustry is the fallback tier for industry lookups
const GeneralIndustry = "general"

// SlotForFontSize returns the slot a text element of the given size belongs to
func SlotForFontSize(size *float64) Slot {
	if size != nil && *size >= HeadingFontSize {
		return SlotHeading
	}
	return SlotBody
}

// LogoSpecs are the brand's logo geometry rules
type LogoSpecs struct {
	MinWidth   float64 `json:"minWidth" yaml:"minWidth"`
	MinHeight  float64 `json:"minHeight,omitempty" yaml:"minHeight,omitempty"`
	ClearSpace float64 `json:"clearSpace,omitempty" yaml:"clearSpace,omitempty"`
}

// Store is the read-only guideline capability. A missing rule is reported
// with ok=false (or nil/empty) and a nil error; errors mean the backend failed.
type Store interface {
	BrandColors(ctx context.Context, brandID string) ([]string, error)
	RecommendedFontFamily(ctx context.Context, brandID string, slot Slot) (string, bool, error)
	RecommendedFontSize(ctx context.Context, brandID string, slot Slot) (float64, bool, error)
	BrandLogoSpecs(ctx context.Context, brandID string) (*LogoSpecs, error)
	BrandSpacing(ctx context.Context, brandID string) (float64, bool, error)
	RecommendedSpacing(ctx context.Context, brandID string, multiplier float64) (float64, bool, error)
	MinimumContrastRatio(ctx context.Context, industry string) (float64, bool, error)
	MinimumFontSize(ctx context.Context, industry string) (float64, bool, error)
}

// BrandGuidelines holds every rule value for one brand
type BrandGuidelines struct {
	Colors      []string         `json:"colors,omitempty" yaml:"colors,omitempty"`
	Fonts       map[Slot]string  `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	FontSizes   map[Slot]float64 `json:"fontSizes,omitempty" yaml:"fontSizes,omitempty"`
	Logo        *LogoSpecs       `json:"logo,omitempty" yaml:"logo,omitempty"`
	SpacingUnit float64          `json:"spacingUnit,omitempty" yaml:"spacingUnit,omitempty"`
}

// IndustryStandards holds accessibility minimums for one industry
type IndustryStandards struct {
	MinContrastRatio float64 `json:"minContrastRatio,omitempty" yaml:"minContrastRatio,omitempty"`
	MinFontSize      float64 `json:"minFontSize,omitempty" yaml:"minFontSize,omitempty"`
}

// Guidelines is the full guideline data set, as stored in a guideline file
type Guidelines struct {
	Brands     map[string]BrandGuidelines   `json:"brands" yaml:"brands"`
	Industries map[string]IndustryStandards `json:"industries" yaml:"industries"`
}

// NormalizeIndustry lower-cases an industry key; empty becomes GeneralIndustry
func NormalizeIndustry(industry string) string {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return GeneralIndustry
	}
	return industry
}

// IndustryCandidates lists the keys to try for an industry, most specific first
func IndustryCandidates(industry string) []string {
	key := NormalizeIndustry(industry)
	if key == GeneralIndustry {
		return []string{GeneralIndustry}
	}
	return []string{key, GeneralIndustry}
}

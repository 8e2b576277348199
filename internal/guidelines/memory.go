package guidelines

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MemoryStore serves guidelines from an in-process data set. It never
// returns errors and is safe for concurrent reads.
type MemoryStore struct {
	data Guidelines
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store over a copy of g
func NewMemoryStore(g Guidelines) *MemoryStore {
	return &MemoryStore{data: cloneGuidelines(g)}
}

// LoadFile reads a guideline file. .json files are decoded as JSON,
// everything else as YAML.
func LoadFile(path string) (*Guidelines, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guideline file: %w", err)
	}
	g, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse guideline file %s: %w", path, err)
	}
	return g, nil
}

// Parse decodes guideline data as JSON or YAML
func Parse(data []byte, isJSON bool) (*Guidelines, error) {
	var g Guidelines
	var err error
	if isJSON {
		err = json.Unmarshal(data, &g)
	} else {
		err = yaml.Unmarshal(data, &g)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// NewMemoryStoreFromFile loads a guideline file into a MemoryStore
func NewMemoryStoreFromFile(path string) (*MemoryStore, error) {
	g, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(*g), nil
}

func (s *MemoryStore) brand(brandID string) (BrandGuidelines, bool) {
	b, ok := s.data.Brands[brandID]
	return b, ok
}

// BrandColors returns the brand palette in stored order
func (s *MemoryStore) BrandColors(_ context.Context, brandID string) ([]string, error) {
	b, ok := s.brand(brandID)
	if !ok || len(b.Colors) == 0 {
		return nil, nil
	}
	return append([]string(nil), b.Colors...), nil
}

// RecommendedFontFamily returns the brand font for a slot
func (s *MemoryStore) RecommendedFontFamily(_ context.Context, brandID string, slot Slot) (string, bool, error) {
	b, _ := s.brand(brandID)
	family, ok := b.Fonts[slot]
	return family, ok && family != "", nil
}

// RecommendedFontSize returns the brand font size for a slot
func (s *MemoryStore) RecommendedFontSize(_ context.Context, brandID string, slot Slot) (float64, bool, error) {
	b, _ := s.brand(brandID)
	size, ok := b.FontSizes[slot]
	return size, ok && size > 0, nil
}

// BrandLogoSpecs returns the logo rules, or nil
func (s *MemoryStore) BrandLogoSpecs(_ context.Context, brandID string) (*LogoSpecs, error) {
	b, _ := s.brand(brandID)
	if b.Logo == nil {
		return nil, nil
	}
	specs := *b.Logo
	return &specs, nil
}

// BrandSpacing returns the base spacing unit
func (s *MemoryStore) BrandSpacing(_ context.Context, brandID string) (float64, bool, error) {
	b, _ := s.brand(brandID)
	return b.SpacingUnit, b.SpacingUnit > 0, nil
}

// RecommendedSpacing returns multiplier times the base spacing unit
func (s *MemoryStore) RecommendedSpacing(ctx context.Context, brandID string, multiplier float64) (float64, bool, error) {
	unit, ok, err := s.BrandSpacing(ctx, brandID)
	if err != nil || !ok {
		return 0, false, err
	}
	return unit * multiplier, true, nil
}

// MinimumContrastRatio returns the industry minimum, falling back to general
func (s *MemoryStore) MinimumContrastRatio(_ context.Context, industry string) (float64, bool, error) {
	for _, key := range IndustryCandidates(industry) {
		if std, ok := s.data.Industries[key]; ok && std.MinContrastRatio > 0 {
			return std.MinContrastRatio, true, nil
		}
	}
	return 0, false, nil
}

// MinimumFontSize returns the industry minimum, falling back to general
func (s *MemoryStore) MinimumFontSize(_ context.Context, industry string) (float64, bool, error) {
	for _, key := range IndustryCandidates(industry) {
		if std, ok := s.data.Industries[key]; ok && std.MinFontSize > 0 {
			return std.MinFontSize, true, nil
		}
	}
	return 0, false, nil
}

func cloneGuidelines(g Guidelines) Guidelines {
	out := Guidelines{
		Brands:     make(map[string]BrandGuidelines, len(g.Brands)),
		Industries: make(map[string]IndustryStandards, len(g.Industries)),
	}
	for id, b := range g.Brands {
		c := BrandGuidelines{
			Colors:      append([]string(nil), b.Colors...),
			Fonts:       make(map[Slot]string, len(b.Fonts)),
			FontSizes:   make(map[Slot]float64, len(b.FontSizes)),
			SpacingUnit: b.SpacingUnit,
		}
		for k, v := range b.Fonts {
			c.Fonts[k] = v
		}
		for k, v := range b.FontSizes {
			c.FontSizes[k] = v
		}
		if b.Logo != nil {
			logo := *b.Logo
			c.Logo = &logo
		}
		out.Brands[id] = c
	}
	for k, v := range g.Industries {
		out.Industries[NormalizeIndustry(k)] = v
	}
	return out
}

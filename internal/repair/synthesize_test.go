package repair

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/brand-compliance/internal/guidelines"
	"github.com/jonathan/brand-compliance/internal/types"
	"github.com/jonathan/brand-compliance/internal/validation"
)

func ptr[T any](v T) *T {
	return &v
}

func testStore() *guidelines.MemoryStore {
	return guidelines.NewMemoryStore(guidelines.Guidelines{
		Brands: map[string]guidelines.BrandGuidelines{
			"acme": {
				Colors:      []string{"#0055ff", "#FFFFFF", "#111111"},
				Fonts:       map[guidelines.Slot]string{guidelines.SlotHeading: "Montserrat", guidelines.SlotBody: "Inter"},
				FontSizes:   map[guidelines.Slot]float64{guidelines.SlotHeading: 32, guidelines.SlotBody: 16},
				Logo:        &guidelines.LogoSpecs{MinWidth: 100, MinHeight: 40},
				SpacingUnit: 8,
			},
			"grey": {
				Colors: []string{"#888888", "#777777"},
			},
			"bare": {},
		},
		Industries: map[string]guidelines.IndustryStandards{
			"general": {MinContrastRatio: 4.5, MinFontSize: 12},
			"finance": {MinContrastRatio: 7},
		},
	})
}

// errStore fails every lookup
type errStore struct{}

var errBackend = errors.New("backend unavailable")

func (errStore) BrandColors(context.Context, string) ([]string, error) { return nil, errBackend }
func (errStore) RecommendedFontFamily(context.Context, string, guidelines.Slot) (string, bool, error) {
	return "", false, errBackend
}
func (errStore) RecommendedFontSize(context.Context, string, guidelines.Slot) (float64, bool, error) {
	return 0, false, errBackend
}
func (errStore) BrandLogoSpecs(context.Context, string) (*guidelines.LogoSpecs, error) {
	return nil, errBackend
}
func (errStore) BrandSpacing(context.Context, string) (float64, bool, error) {
	return 0, false, errBackend
}
func (errStore) RecommendedSpacing(context.Context, string, float64) (float64, bool, error) {
	return 0, false, errBackend
}
func (errStore) MinimumContrastRatio(context.Context, string) (float64, bool, error) {
	return 0, false, errBackend
}
func (errStore) MinimumFontSize(context.Context, string) (float64, bool, error) {
	return 0, false, errBackend
}

func violation(rule types.RuleID, current string) types.Violation {
	return types.Violation{
		ID:           types.DeriveID("el-1", string(rule)),
		RuleID:       rule,
		Domain:       types.DomainVisual,
		Severity:     types.SeverityCritical,
		ElementID:    "el-1",
		CurrentValue: current,
		AutoFixable:  true,
	}
}

func TestSynthesize_Color(t *testing.T) {
	s := NewSynthesizer(testStore(), "acme", "")
	v := violation(types.RuleColor, "#0044EE")
	v.Trigger = "fill"

	fix := s.Synthesize(context.Background(), v, &types.Element{ID: "el-1", Kind: types.KindShape, Fill: "#0044ee"})

	require.NotNil(t, fix)
	assert.Equal(t, types.FixColor, fix.Type)
	assert.Equal(t, "#0055FF", fix.RecommendedValue)
	assert.True(t, fix.AutoFixable)
	assert.Equal(t, "el-1", fix.ElementID)
	assert.Equal(t, v.ID, fix.ViolationID)
	assert.Equal(t, types.DeriveID("fix", v.ID), fix.ID)
	assert.Equal(t, types.SourceBrand, fix.Metadata.Source)
	assert.Equal(t, "acme", fix.Metadata.BrandID)
	assert.NotEmpty(t, fix.Reasoning)
}

func TestSynthesize_ColorOnTextNotesFillTarget(t *testing.T) {
	s := NewSynthesizer(testStore(), "acme", "")
	v := violation(types.RuleColor, "#EE2222")
	v.Trigger = "textColor"
	el := &types.Element{ID: "el-1", Kind: types.KindText, TextColor: "#ee2222"}

	fix := s.Synthesize(context.Background(), v, el)
	require.NotNil(t, fix)
	assert.Contains(t, fix.Reasoning, "This fix updates fill")
	assert.Contains(t, fix.Reasoning, "contrast fix")

	commands, err := TranslateFix(*fix)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0].Updates, "fill")

	shape := s.Synthesize(context.Background(), violation(types.RuleColor, "#0044EE"), &types.Element{ID: "el-1", Kind: types.KindShape})
	require.NotNil(t, shape)
	assert.NotContains(t, shape.Reasoning, "This fix updates fill")
}

func TestSynthesize_Typography(t *testing.T) {
	s := NewSynthesizer(testStore(), "acme", "")

	tests := []struct {
		name     string
		fontSize *float64
		expected string
	}{
		{name: "body text", fontSize: ptr(14.0), expected: "Inter"},
		{name: "heading text", fontSize: ptr(24.0), expected: "Montserrat"},
		{name: "unknown size is body", fontSize: nil, expected: "Inter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &types.Element{ID: "el-1", Kind: types.KindText, FontFamily: "Comic Sans", FontSize: tt.fontSize}
			fix := s.Synthesize(context.Background(), violation(types.RuleTypography, "Comic Sans"), el)
			require.NotNil(t, fix)
			assert.Equal(t, types.FixTypography, fix.Type)
			assert.Equal(t, tt.expected, fix.RecommendedValue)
		})
	}
}

func TestSynthesize_FontSize(t *testing.T) {
	el := &types.Element{ID: "el-1", Kind: types.KindText, FontSize: ptr(10.0)}

	t.Run("brand size", func(t *testing.T) {
		fix := NewSynthesizer(testStore(), "acme", "").Synthesize(context.Background(), violation(types.RuleFontSize, "10px"), el)
		require.NotNil(t, fix)
		assert.Equal(t, "16px", fix.RecommendedValue)
		assert.Equal(t, types.SourceBrand, fix.Metadata.Source)
	})

	t.Run("industry minimum fallback", func(t *testing.T) {
		fix := NewSynthesizer(testStore(), "bare", "Retail").Synthesize(context.Background(), violation(types.RuleFontSize, "10px"), el)
		require.NotNil(t, fix)
		assert.Equal(t, "12px", fix.RecommendedValue)
		assert.Equal(t, types.SourceIndustry, fix.Metadata.Source)
		assert.Equal(t, "retail", fix.Metadata.Industry)
	})

	t.Run("no guideline", func(t *testing.T) {
		empty := guidelines.NewMemoryStore(guidelines.Guidelines{})
		fix := NewSynthesizer(empty, "bare", "").Synthesize(context.Background(), violation(types.RuleFontSize, "10px"), el)
		assert.Nil(t, fix)
	})
}

func TestSynthesize_Logo(t *testing.T) {
	s := NewSynthesizer(testStore(), "acme", "")
	el := &types.Element{ID: "el-1", Kind: types.KindLogo, Width: ptr(40.0), Height: ptr(20.0)}

	fix := s.Synthesize(context.Background(), violation(types.RuleLogoSize, "40px"), el)

	require.NotNil(t, fix)
	assert.Equal(t, types.FixLogoSize, fix.Type)
	assert.Equal(t, "100px", fix.RecommendedValue)
	require.NotNil(t, fix.Metadata.OriginalWidth)
	require.NotNil(t, fix.Metadata.OriginalHeight)
	assert.Equal(t, 40.0, *fix.Metadata.OriginalWidth)
	assert.Equal(t, 20.0, *fix.Metadata.OriginalHeight)

	*el.Width = 55
	assert.Equal(t, 40.0, *fix.Metadata.OriginalWidth, "metadata must not alias the element")
}

func TestSynthesize_Contrast(t *testing.T) {
	tests := []struct {
		name        string
		brandID     string
		industry    string
		opts        []SynthesizerOption
		background  string
		expected    string
		autoFixable bool
		source      string
	}{
		{
			name:        "darkest color on light background",
			brandID:     "acme",
			opts:        []SynthesizerOption{WithMinContrast(4.5)},
			background:  "#FFFFFF",
			expected:    "#111111",
			autoFixable: true,
			source:      types.SourceBrand,
		},
		{
			name:        "lightest color on dark background",
			brandID:     "acme",
			opts:        []SynthesizerOption{WithMinContrast(4.5)},
			background:  "#000000",
			expected:    "#FFFFFF",
			autoFixable: true,
			source:      types.SourceBrand,
		},
		{
			name:        "industry minimum when brand has none",
			brandID:     "acme",
			industry:    "finance",
			background:  "#FFFFFF",
			expected:    "#111111",
			autoFixable: true,
			source:      types.SourceIndustry,
		},
		{
			name:        "no satisfying color",
			brandID:     "grey",
			background:  "#808080",
			expected:    "#888888",
			autoFixable: false,
			source:      types.SourceIndustry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(testStore(), tt.brandID, tt.industry, tt.opts...)
			el := &types.Element{ID: "el-1", Kind: types.KindText, TextColor: "#999999", BackgroundColor: tt.background}

			fix := s.Synthesize(context.Background(), violation(types.RuleContrast, "#999999"), el)

			require.NotNil(t, fix)
			assert.Equal(t, types.FixContrast, fix.Type)
			assert.Equal(t, tt.expected, fix.RecommendedValue)
			assert.Equal(t, tt.autoFixable, fix.AutoFixable)
			assert.Equal(t, tt.source, fix.Metadata.Source)
		})
	}
}

func TestSynthesize_Spacing(t *testing.T) {
	s := NewSynthesizer(testStore(), "acme", "")

	tests := []struct {
		name     string
		margin   float64
		expected string
	}{
		{name: "rounds up", margin: 13, expected: "16px"},
		{name: "rounds down", margin: 17, expected: "16px"},
		{name: "at least one unit", margin: 3, expected: "8px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &types.Element{ID: "el-1", Kind: types.KindShape, Margin: ptr(tt.margin)}
			fix := s.Synthesize(context.Background(), violation(types.RuleSpacing, validation.FormatPx(tt.margin)), el)
			require.NotNil(t, fix)
			assert.Equal(t, tt.expected, fix.RecommendedValue)
		})
	}
}

func TestSynthesize_Fallbacks(t *testing.T) {
	s := NewSynthesizer(testStore(), "acme", "")

	t.Run("content violation is never auto-fixable", func(t *testing.T) {
		v := types.Violation{
			ID: "v-1", RuleID: types.RuleClaims, Domain: types.DomainContent, Severity: types.SeverityCritical,
			ElementID: "el-1", CurrentValue: "cheap", SuggestedValue: "affordable", Trigger: "cheap",
		}
		fix := s.Synthesize(context.Background(), v, nil)
		require.NotNil(t, fix)
		assert.Equal(t, types.FixContent, fix.Type)
		assert.Equal(t, "affordable", fix.RecommendedValue)
		assert.False(t, fix.AutoFixable)
		assert.Equal(t, types.SourceViolation, fix.Metadata.Source)
	})

	t.Run("unregistered visual rule uses its suggestion", func(t *testing.T) {
		v := violation(types.RuleFontWeight, "300")
		v.SuggestedValue = "400"
		fix := s.Synthesize(context.Background(), v, nil)
		require.NotNil(t, fix)
		assert.Equal(t, types.FixGeneric, fix.Type)
		assert.Equal(t, "400", fix.RecommendedValue)
		assert.False(t, fix.AutoFixable)
	})

	t.Run("no suggestion yields no fix", func(t *testing.T) {
		v := violation(types.RuleMissingProperty, "")
		v.Severity = types.SeverityWarning
		assert.Nil(t, s.Synthesize(context.Background(), v, nil))
	})

	t.Run("info violations are skipped", func(t *testing.T) {
		v := violation(types.RuleUnsupported, "video")
		v.Severity = types.SeverityInfo
		v.SuggestedValue = "anything"
		assert.Nil(t, s.Synthesize(context.Background(), v, nil))
	})

	t.Run("missing brand", func(t *testing.T) {
		other := NewSynthesizer(testStore(), "unknown", "")
		assert.Nil(t, other.Synthesize(context.Background(), violation(types.RuleColor, "#000000"), nil))
		assert.Nil(t, other.Synthesize(context.Background(), violation(types.RuleLogoSize, "10px"), nil))
		assert.Nil(t, other.Synthesize(context.Background(), violation(types.RuleSpacing, "3px"), nil))
	})
}

func TestSynthesize_StoreErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSynthesizer(errStore{}, "acme", "", WithLogger(zap.New(core)))
	el := &types.Element{ID: "el-1", Kind: types.KindText, FontSize: ptr(10.0), BackgroundColor: "#FFFFFF"}

	for _, rule := range []types.RuleID{
		types.RuleColor, types.RuleTypography, types.RuleFontSize,
		types.RuleLogoSize, types.RuleContrast, types.RuleSpacing,
	} {
		assert.Nil(t, s.Synthesize(context.Background(), violation(rule, "x"), el), "rule %s", rule)
	}
	assert.GreaterOrEqual(t, logs.FilterMessage("guideline lookup failed").Len(), 6)
}

func TestGenerateFixes(t *testing.T) {
	profile := &types.BrandProfile{
		Palette:      []string{"#0055FF", "#FFFFFF", "#111111"},
		Fonts:        []string{"Inter", "Montserrat"},
		LogoMinWidth: 100,
		SpacingUnit:  8,
	}
	doc := &types.Document{
		ID: "doc-1",
		Elements: []types.Element{
			{ID: "title", Kind: types.KindText, TextColor: "#FF0000", FontFamily: "Papyrus", FontSize: ptr(30.0), Margin: ptr(12.0)},
			{ID: "logo", Kind: types.KindLogo, Width: ptr(40.0), Height: ptr(20.0)},
			{ID: "clip", Kind: "video"},
		},
	}
	result := &types.EvaluationResult{DocumentID: doc.ID}
	for _, el := range doc.Elements {
		result.Violations = append(result.Violations, validation.EvaluateElement(el, profile, validation.Options{})...)
	}

	s := NewSynthesizer(testStore(), "acme", "")
	fixes := GenerateFixes(context.Background(), result, doc, s)

	byViolation := make(map[string]types.Violation, len(result.Violations))
	for _, v := range result.Violations {
		byViolation[v.ID] = v
	}
	seen := make(map[string]bool)
	for _, fix := range fixes {
		v, ok := byViolation[fix.ViolationID]
		require.True(t, ok, "fix %s has no violation", fix.ID)
		assert.Equal(t, v.ElementID, fix.ElementID)
		assert.False(t, seen[fix.ViolationID], "violation %s has two fixes", fix.ViolationID)
		seen[fix.ViolationID] = true
		assert.NotEmpty(t, fix.RecommendedValue)
	}

	recommended := make(map[types.FixType]string)
	for _, fix := range fixes {
		recommended[fix.Type] = fix.RecommendedValue
	}
	assert.Equal(t, "Montserrat", recommended[types.FixTypography])
	assert.Equal(t, "100px", recommended[types.FixLogoSize])
	assert.Equal(t, "16px", recommended[types.FixSpacing])

	again := GenerateFixes(context.Background(), result, doc, s)
	if diff := cmp.Diff(fixes, again); diff != "" {
		t.Errorf("GenerateFixes not deterministic (-first +second):\n%s", diff)
	}
}

func TestGenerateFixes_NilResult(t *testing.T) {
	fixes := GenerateFixes(context.Background(), nil, nil, NewSynthesizer(testStore(), "acme", ""))
	assert.NotNil(t, fixes)
	assert.Empty(t, fixes)
}

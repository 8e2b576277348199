package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brand-compliance/internal/types"
)

func ptr[T any](v T) *T { return &v }

func testProfile() *types.BrandProfile {
	return &types.BrandProfile{
		BrandID:            "acme",
		Palette:            []string{"#0055ff", "#FFFFFF", "#111111"},
		Fonts:              []string{"Inter", "Georgia"},
		LogoMinWidth:       100,
		MinFontSize:        12,
		AllowedFontWeights: []int{400, 700},
		MinContrastRatio:   4.5,
		SpacingUnit:        8,
		DisallowedPhrases:  []string{},
	}
}

func compliantText() types.Element {
	return types.Element{
		ID:              "t1",
		Kind:            types.KindText,
		TextColor:       "#111111",
		BackgroundColor: "#FFFFFF",
		FontFamily:      "inter",
		FontSize:        ptr(16.0),
		FontWeight:      ptr(400),
		Text:            "Hello",
		Margin:          ptr(16.0),
	}
}

func ruleIDs(violations []types.Violation) []types.RuleID {
	ids := make([]types.RuleID, 0, len(violations))
	for _, v := range violations {
		ids = append(ids, v.RuleID)
	}
	return ids
}

func TestEvaluateElement_CompliantText(t *testing.T) {
	violations := EvaluateElement(compliantText(), testProfile(), Options{})
	assert.Empty(t, violations)
}

func TestEvaluateElement_LogoBelowMinimum(t *testing.T) {
	el := types.Element{ID: "logo-1", Kind: types.KindLogo, Width: ptr(40.0)}
	profile := &types.BrandProfile{LogoMinWidth: 100}

	violations := EvaluateElement(el, profile, Options{})
	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, types.RuleLogoSize, v.RuleID)
	assert.Equal(t, types.SeverityCritical, v.Severity)
	assert.Equal(t, "100px", v.SuggestedValue)
	assert.Equal(t, "40px", v.CurrentValue)
	assert.Equal(t, "logo-1", v.ElementID)
	assert.True(t, v.AutoFixable)
}

func TestEvaluateElement_Color(t *testing.T) {
	tests := []struct {
		name          string
		el            types.Element
		opts          Options
		wantRule      types.RuleID
		wantSuggested string
	}{
		{
			name:          "shape off palette suggests first entry",
			el:            types.Element{ID: "s1", Kind: types.KindShape, Fill: "#ff0000"},
			wantRule:      types.RuleColor,
			wantSuggested: "#0055FF",
		},
		{
			name:          "nearest color variant",
			el:            types.Element{ID: "s1", Kind: types.KindShape, Fill: "#222222"},
			opts:          Options{NearestColor: true},
			wantRule:      types.RuleColor,
			wantSuggested: "#111111",
		},
		{
			name:     "missing fill",
			el:       types.Element{ID: "s1", Kind: types.KindShape},
			wantRule: types.RuleMissingProperty,
		},
		{
			name:     "invalid hex treated as missing",
			el:       types.Element{ID: "s1", Kind: types.KindShape, Fill: "blue"},
			wantRule: types.RuleMissingProperty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := EvaluateElement(tt.el, testProfile(), tt.opts)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.wantRule, violations[0].RuleID)
			assert.Equal(t, tt.wantSuggested, violations[0].SuggestedValue)
			if tt.wantRule == types.RuleMissingProperty {
				assert.Equal(t, types.SeverityWarning, violations[0].Severity)
				assert.False(t, violations[0].AutoFixable)
			}
		})
	}
}

func TestEvaluateElement_ShorthandPaletteMatch(t *testing.T) {
	el := types.Element{ID: "s1", Kind: types.KindShape, Fill: "#fff"}
	assert.Empty(t, EvaluateElement(el, testProfile(), Options{}))
}

func TestEvaluateElement_Typography(t *testing.T) {
	el := compliantText()
	el.FontFamily = "Comic Sans"
	el.FontSize = ptr(9.0)
	el.FontWeight = ptr(600)

	violations := EvaluateElement(el, testProfile(), Options{})
	assert.Equal(t, []types.RuleID{types.RuleTypography, types.RuleFontSize, types.RuleFontWeight}, ruleIDs(violations))

	assert.Equal(t, types.SeverityCritical, violations[0].Severity)
	assert.Equal(t, "Inter", violations[0].SuggestedValue)
	assert.Equal(t, types.SeverityWarning, violations[1].Severity)
	assert.Equal(t, "12px", violations[1].SuggestedValue)
	assert.Equal(t, "700", violations[2].SuggestedValue)
}

func TestEvaluateElement_MissingTypographyProperties(t *testing.T) {
	el := types.Element{ID: "t1", Kind: types.KindText, TextColor: "#111111"}

	violations := EvaluateElement(el, testProfile(), Options{})
	require.Len(t, violations, 3)
	for _, v := range violations {
		assert.Equal(t, types.RuleMissingProperty, v.RuleID)
		assert.Equal(t, types.SeverityWarning, v.Severity)
		assert.Contains(t, v.Message, "unable to validate")
	}
	assert.Equal(t, "fontFamily", violations[0].Trigger)
	assert.NotEqual(t, violations[0].ID, violations[1].ID)
}

func TestEvaluateElement_Contrast(t *testing.T) {
	t.Run("resolvable with black", func(t *testing.T) {
		el := compliantText()
		el.TextColor = "#FFFFFF"
		el.BackgroundColor = "#EEEEEE"

		violations := EvaluateElement(el, testProfile(), Options{})
		require.Len(t, violations, 1)
		assert.Equal(t, types.RuleContrast, violations[0].RuleID)
		assert.Equal(t, "#000000", violations[0].SuggestedValue)
		assert.True(t, violations[0].AutoFixable)
	})

	t.Run("unresolvable", func(t *testing.T) {
		profile := testProfile()
		profile.Palette = nil
		profile.MinContrastRatio = 7
		el := compliantText()
		el.TextColor = "#808080"
		el.BackgroundColor = "#777777"

		violations := EvaluateElement(el, profile, Options{})
		require.Len(t, violations, 1)
		assert.Equal(t, types.RuleContrast, violations[0].RuleID)
		assert.Empty(t, violations[0].SuggestedValue)
		assert.False(t, violations[0].AutoFixable)
		assert.Contains(t, violations[0].Message, "neither black nor white")
	})

	t.Run("skipped without background", func(t *testing.T) {
		el := compliantText()
		el.BackgroundColor = ""
		assert.Empty(t, EvaluateElement(el, testProfile(), Options{}))
	})
}

func TestEvaluateElement_Spacing(t *testing.T) {
	el := types.Element{ID: "img", Kind: types.KindImage, Margin: ptr(13.0)}

	violations := EvaluateElement(el, testProfile(), Options{})
	require.Len(t, violations, 1)
	assert.Equal(t, types.RuleSpacing, violations[0].RuleID)
	assert.Equal(t, "16px", violations[0].SuggestedValue)

	el.Margin = ptr(2.0)
	violations = EvaluateElement(el, testProfile(), Options{})
	require.Len(t, violations, 1)
	assert.Equal(t, "8px", violations[0].SuggestedValue, "suggestion never drops below one unit")

	el.Margin = nil
	assert.Empty(t, EvaluateElement(el, testProfile(), Options{}))
}

func TestEvaluateElement_Unsupported(t *testing.T) {
	el := types.Element{ID: "v1", Kind: "video"}

	violations := EvaluateElement(el, testProfile(), Options{})
	require.Len(t, violations, 1)
	assert.Equal(t, types.RuleUnsupported, violations[0].RuleID)
	assert.Equal(t, types.SeverityInfo, violations[0].Severity)
}

func TestEvaluateElement_ReferencesElementAndIsStable(t *testing.T) {
	el := compliantText()
	el.FontFamily = "Papyrus"
	el.TextColor = "#ABCDEF"

	first := EvaluateElement(el, testProfile(), Options{})
	second := EvaluateElement(el, testProfile(), Options{})
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	for _, v := range first {
		assert.Equal(t, el.ID, v.ElementID)
		assert.Equal(t, types.DomainVisual, v.Domain)
	}
}

func TestEvaluateElement_NilProfile(t *testing.T) {
	assert.Empty(t, EvaluateElement(compliantText(), nil, Options{}))
}

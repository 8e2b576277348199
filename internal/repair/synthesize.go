package repair

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/brand-compliance/internal/guidelines"
	"github.com/jonathan/brand-compliance/internal/types"
	"github.com/jonathan/brand-compliance/internal/validation"
)

// generator builds a fix for one violation from guideline values.
// A nil fix means the store had no applicable rule.
type generator func(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix

// generators routes visual rules to their fix builders. Rules without an
// entry use the generic fallback.
var generators = map[types.RuleID]generator{
	types.RuleColor:      colorFix,
	types.RuleTypography: typographyFix,
	types.RuleFontSize:   fontSizeFix,
	types.RuleLogoSize:   logoFix,
	types.RuleContrast:   contrastFix,
	types.RuleSpacing:    spacingFix,
}

// Synthesizer turns violations into fixes using a guideline store
type Synthesizer struct {
	store       guidelines.Store
	brandID     string
	industry    string
	minContrast float64
	logger      *zap.Logger
}

// SynthesizerOption configures a Synthesizer
type SynthesizerOption func(*Synthesizer)

// WithMinContrast sets the brand's own contrast minimum, which takes
// precedence over the industry standard
func WithMinContrast(ratio float64) SynthesizerOption {
	return func(s *Synthesizer) {
		s.minContrast = ratio
	}
}

// WithLogger sets the logger used for guideline lookup failures
func WithLogger(logger *zap.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynthesizer creates a synthesizer for one brand and industry
func NewSynthesizer(store guidelines.Store, brandID, industry string, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		store:    store,
		brandID:  brandID,
		industry: guidelines.NormalizeIndustry(industry),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns a fix for the violation, or nil when no recommendation
// is available. el may be nil when the element is no longer in the document.
func (s *Synthesizer) Synthesize(ctx context.Context, v types.Violation, el *types.Element) *types.Fix {
	if v.Severity == types.SeverityInfo {
		return nil
	}
	if gen, ok := generators[v.RuleID]; ok && s.store != nil {
		return gen(ctx, s, v, el)
	}
	return genericFix(v)
}

// GenerateFixes maps each violation of the result to at most one fix, in violation order
func GenerateFixes(ctx context.Context, result *types.EvaluationResult, doc *types.Document, s *Synthesizer) []types.Fix {
	fixes := []types.Fix{}
	if result == nil || s == nil {
		return fixes
	}
	for _, v := range result.Violations {
		if fix := s.Synthesize(ctx, v, doc.FindElement(v.ElementID)); fix != nil {
			fixes = append(fixes, *fix)
		}
	}
	return fixes
}

// lookupFailed logs a store error; callers then treat the value as absent
func (s *Synthesizer) lookupFailed(lookup string, err error) {
	s.logger.Warn("guideline lookup failed",
		zap.String("lookup", lookup),
		zap.String("brand_id", s.brandID),
		zap.String("industry", s.industry),
		zap.Error(err))
}

func (s *Synthesizer) newFix(v types.Violation, fixType types.FixType, recommended string) *types.Fix {
	return &types.Fix{
		ID:               types.DeriveID("fix", v.ID),
		Type:             fixType,
		Severity:         v.Severity,
		CurrentValue:     v.CurrentValue,
		RecommendedValue: recommended,
		AutoFixable:      true,
		ElementID:        v.ElementID,
		ViolationID:      v.ID,
		Metadata: types.FixMetadata{
			Source:  types.SourceBrand,
			BrandID: s.brandID,
		},
	}
}

func colorFix(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix {
	colors, err := s.store.BrandColors(ctx, s.brandID)
	if err != nil {
		s.lookupFailed("brand_colors", err)
		return nil
	}
	palette := validation.NormalizePalette(colors)
	if len(palette) == 0 {
		return nil
	}

	recommended := palette[0]
	if current, ok := validation.ParseHex(v.CurrentValue); ok {
		recommended = validation.NearestColor(current, palette)
	}
	fix := s.newFix(v, types.FixColor, recommended)
	fix.Title = "Use a brand color"
	fix.Description = fmt.Sprintf("Change %s from %s to %s.", v.Trigger, v.CurrentValue, recommended)
	fix.Reasoning = fmt.Sprintf("%s is the closest color in the brand palette of %d colors.", recommended, len(palette))
	// Color fixes always translate to fill, while contrast fixes write textColor
	if v.Trigger == "textColor" && el != nil && el.Kind == types.KindText {
		fix.Reasoning += " This fix updates fill. The flagged textColor is changed only by a contrast fix " +
			"on this element, so applying both may still leave textColor outside the palette."
	}
	fix.Metadata.Guideline = "brand palette"
	return fix
}

func typographyFix(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix {
	slot := slotFor(el)
	family, ok, err := s.store.RecommendedFontFamily(ctx, s.brandID, slot)
	if err != nil {
		s.lookupFailed("font_family", err)
		return nil
	}
	if !ok || family == "" {
		return nil
	}
	fix := s.newFix(v, types.FixTypography, family)
	fix.Title = "Use the brand font"
	fix.Description = fmt.Sprintf("Change the font family from %q to %q.", v.CurrentValue, family)
	fix.Reasoning = fmt.Sprintf("%s is the brand's %s font.", family, slot)
	fix.Metadata.Guideline = fmt.Sprintf("%s font family", slot)
	return fix
}

func fontSizeFix(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix {
	slot := slotFor(el)
	size, ok, err := s.store.RecommendedFontSize(ctx, s.brandID, slot)
	if err != nil {
		s.lookupFailed("font_size", err)
		ok = false
	}
	if ok && size > 0 {
		fix := s.newFix(v, types.FixFontSize, validation.FormatPx(size))
		fix.Title = "Increase the font size"
		fix.Description = fmt.Sprintf("Change the font size from %s to %s.", v.CurrentValue, fix.RecommendedValue)
		fix.Reasoning = fmt.Sprintf("The brand sets %s for %s text.", fix.RecommendedValue, slot)
		fix.Metadata.Guideline = fmt.Sprintf("%s font size", slot)
		return fix
	}

	size, ok, err = s.store.MinimumFontSize(ctx, s.industry)
	if err != nil {
		s.lookupFailed("minimum_font_size", err)
		return nil
	}
	if !ok || size <= 0 {
		return nil
	}
	fix := s.newFix(v, types.FixFontSize, validation.FormatPx(size))
	fix.Title = "Increase the font size"
	fix.Description = fmt.Sprintf("Change the font size from %s to %s.", v.CurrentValue, fix.RecommendedValue)
	fix.Reasoning = fmt.Sprintf("%s is the minimum readable size for the %s industry.", fix.RecommendedValue, s.industry)
	fix.Metadata.Source = types.SourceIndustry
	fix.Metadata.Industry = s.industry
	fix.Metadata.Guideline = "minimum font size"
	return fix
}

func logoFix(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix {
	specs, err := s.store.BrandLogoSpecs(ctx, s.brandID)
	if err != nil {
		s.lookupFailed("logo_specs", err)
		return nil
	}
	if specs == nil || specs.MinWidth <= 0 {
		return nil
	}

	width := specs.MinWidth
	if el != nil && el.Width != nil {
		width = math.Max(specs.MinWidth, *el.Width)
	}
	fix := s.newFix(v, types.FixLogoSize, validation.FormatPx(width))
	fix.Title = "Enlarge the logo"
	fix.Description = fmt.Sprintf("Change the logo width from %s to %s.", v.CurrentValue, fix.RecommendedValue)
	fix.Reasoning = fmt.Sprintf("The brand requires logos at least %s wide.", validation.FormatPx(specs.MinWidth))
	fix.Metadata.Guideline = "logo minimum width"
	if el != nil {
		fix.Metadata.OriginalWidth = copyFloat(el.Width)
		fix.Metadata.OriginalHeight = copyFloat(el.Height)
	}
	return fix
}

func contrastFix(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix {
	if el == nil {
		return nil
	}
	background, ok := validation.ParseHex(el.BackgroundColor)
	if !ok {
		return nil
	}

	minRatio, source := s.minContrast, types.SourceBrand
	if minRatio <= 0 {
		ratio, found, err := s.store.MinimumContrastRatio(ctx, s.industry)
		if err != nil {
			s.lookupFailed("minimum_contrast_ratio", err)
			return nil
		}
		if !found || ratio <= 0 {
			return nil
		}
		minRatio, source = ratio, types.SourceIndustry
	}

	colors, err := s.store.BrandColors(ctx, s.brandID)
	if err != nil {
		s.lookupFailed("brand_colors", err)
		return nil
	}
	candidates := contrastCandidates(validation.NormalizePalette(colors), background)
	if len(candidates) == 0 {
		return nil
	}

	best, bestRatio := candidates[0], 0.0
	satisfied := false
	for _, c := range candidates {
		ratio := validation.ContrastRatio(c, background)
		if ratio >= minRatio {
			best, bestRatio, satisfied = c, ratio, true
			break
		}
		if ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}

	fix := s.newFix(v, types.FixContrast, best.Hex())
	fix.Title = "Improve text contrast"
	fix.Description = fmt.Sprintf("Change the text color from %s to %s on %s.", v.CurrentValue, best.Hex(), background.Hex())
	fix.AutoFixable = satisfied
	if satisfied {
		fix.Reasoning = fmt.Sprintf("%s reaches %.2f:1 against the background, meeting the %.2f:1 minimum.", best.Hex(), bestRatio, minRatio)
	} else {
		fix.Reasoning = fmt.Sprintf("No brand color meets the %.2f:1 minimum; %s is the best available at %.2f:1 and needs review.",
			minRatio, best.Hex(), bestRatio)
	}
	fix.Metadata.Source = source
	fix.Metadata.Guideline = "minimum contrast ratio"
	if source == types.SourceIndustry {
		fix.Metadata.Industry = s.industry
	}
	return fix
}

// contrastCandidates orders the palette lightest first on dark backgrounds
// and darkest first on light ones
func contrastCandidates(palette []string, background validation.RGB) []validation.RGB {
	candidates := make([]validation.RGB, 0, len(palette))
	for _, hex := range palette {
		if c, ok := validation.ParseHex(hex); ok {
			candidates = append(candidates, c)
		}
	}
	dark := validation.ContrastRatio(validation.White, background) > validation.ContrastRatio(validation.Black, background)
	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := validation.RelativeLuminance(candidates[i]), validation.RelativeLuminance(candidates[j])
		if dark {
			return li > lj
		}
		return li < lj
	})
	return candidates
}

func spacingFix(ctx context.Context, s *Synthesizer, v types.Violation, el *types.Element) *types.Fix {
	unit, ok, err := s.store.BrandSpacing(ctx, s.brandID)
	if err != nil {
		s.lookupFailed("spacing_unit", err)
		return nil
	}
	if !ok || unit <= 0 {
		return nil
	}

	multiplier := 1.0
	if el != nil && el.Margin != nil {
		multiplier = math.Max(1, math.Round(*el.Margin/unit))
	}
	spacing, ok, err := s.store.RecommendedSpacing(ctx, s.brandID, multiplier)
	if err != nil {
		s.lookupFailed("recommended_spacing", err)
		return nil
	}
	if !ok {
		return nil
	}
	fix := s.newFix(v, types.FixSpacing, validation.FormatPx(spacing))
	fix.Title = "Align spacing to the grid"
	fix.Description = fmt.Sprintf("Change the margin from %s to %s.", v.CurrentValue, fix.RecommendedValue)
	fix.Reasoning = fmt.Sprintf("%s is %g times the %s brand spacing unit.", fix.RecommendedValue, multiplier, validation.FormatPx(unit))
	fix.Metadata.Guideline = "spacing unit"
	return fix
}

// genericFix carries the violation's own suggestion. Content fixes always
// need a human to review them.
func genericFix(v types.Violation) *types.Fix {
	if v.SuggestedValue == "" {
		return nil
	}
	fixType := types.FixGeneric
	title := "Apply suggested value"
	if v.Domain == types.DomainContent {
		fixType = types.FixContent
		title = "Revise wording"
	}
	return &types.Fix{
		ID:               types.DeriveID("fix", v.ID),
		Type:             fixType,
		Severity:         v.Severity,
		Title:            title,
		Description:      v.Message,
		Reasoning:        fmt.Sprintf("Suggested by the %s rule; review before applying.", v.RuleID),
		CurrentValue:     v.CurrentValue,
		RecommendedValue: v.SuggestedValue,
		AutoFixable:      false,
		ElementID:        v.ElementID,
		ViolationID:      v.ID,
		Metadata:         types.FixMetadata{Source: types.SourceViolation},
	}
}

func slotFor(el *types.Element) guidelines.Slot {
	if el == nil {
		return guidelines.SlotBody
	}
	return guidelines.SlotForFontSize(el.FontSize)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

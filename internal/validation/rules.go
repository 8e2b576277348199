package validation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/brand-compliance/internal/types"
)

// Options tunes rule evaluation
type Options struct {
	// NearestColor suggests the closest palette color instead of the first entry
	NearestColor bool
}

// EvaluateElement checks one element against the brand profile and returns
// its violations in a fixed rule order. The element is never modified.
func EvaluateElement(el types.Element, profile *types.BrandProfile, opts Options) []types.Violation {
	if profile == nil {
		profile = &types.BrandProfile{}
	}

	var violations []types.Violation
	switch el.Kind {
	case types.KindText:
		violations = append(violations, checkColor(el, profile, opts)...)
		violations = append(violations, checkTypography(el, profile)...)
		violations = append(violations, checkContrast(el, profile)...)
		violations = append(violations, checkSpacing(el, profile)...)
	case types.KindShape:
		violations = append(violations, checkColor(el, profile, opts)...)
		violations = append(violations, checkSpacing(el, profile)...)
	case types.KindLogo:
		violations = append(violations, checkLogo(el, profile)...)
		violations = append(violations, checkSpacing(el, profile)...)
	case types.KindImage:
		violations = append(violations, checkSpacing(el, profile)...)
	default:
		violations = append(violations, newViolation(el, types.RuleUnsupported, types.SeverityInfo, string(el.Kind),
			fmt.Sprintf("element kind %q is not supported and was not evaluated", el.Kind)))
	}
	return violations
}

func newViolation(el types.Element, rule types.RuleID, severity types.Severity, trigger, message string) types.Violation {
	return types.Violation{
		ID:        types.DeriveID(el.ID, string(rule), trigger),
		RuleID:    rule,
		Domain:    types.DomainVisual,
		Severity:  severity,
		Message:   message,
		ElementID: el.ID,
		Trigger:   trigger,
	}
}

func missingProperty(el types.Element, property, rule string) types.Violation {
	return newViolation(el, types.RuleMissingProperty, types.SeverityWarning, property,
		fmt.Sprintf("unable to validate %s: element has no %s", rule, property))
}

func checkColor(el types.Element, profile *types.BrandProfile, opts Options) []types.Violation {
	palette := NormalizePalette(profile.Palette)
	if len(palette) == 0 {
		return nil
	}

	property, value := "fill", el.Fill
	if el.Kind == types.KindText && el.TextColor != "" {
		property, value = "textColor", el.TextColor
	}
	if value == "" {
		return []types.Violation{missingProperty(el, property, "brand color")}
	}

	c, ok := ParseHex(value)
	if !ok {
		v := missingProperty(el, property, "brand color")
		v.Message = fmt.Sprintf("unable to validate brand color: %s %q is not a hex color", property, value)
		v.CurrentValue = value
		return []types.Violation{v}
	}
	if slices.Contains(palette, c.Hex()) {
		return nil
	}

	suggested := palette[0]
	if opts.NearestColor {
		suggested = NearestColor(c, palette)
	}
	v := newViolation(el, types.RuleColor, types.SeverityCritical, property,
		fmt.Sprintf("%s %s is not in the brand palette", property, c.Hex()))
	v.CurrentValue = c.Hex()
	v.SuggestedValue = suggested
	v.AutoFixable = true
	return []types.Violation{v}
}

func checkTypography(el types.Element, profile *types.BrandProfile) []types.Violation {
	var violations []types.Violation

	if len(profile.Fonts) > 0 {
		switch {
		case strings.TrimSpace(el.FontFamily) == "":
			violations = append(violations, missingProperty(el, "fontFamily", "typography"))
		case !containsFold(profile.Fonts, el.FontFamily):
			v := newViolation(el, types.RuleTypography, types.SeverityCritical, "fontFamily",
				fmt.Sprintf("font family %q is not an approved brand font", el.FontFamily))
			v.CurrentValue = el.FontFamily
			v.SuggestedValue = profile.Fonts[0]
			v.AutoFixable = true
			violations = append(violations, v)
		}
	}

	if profile.MinFontSize > 0 {
		switch {
		case el.FontSize == nil:
			violations = append(violations, missingProperty(el, "fontSize", "font size"))
		case *el.FontSize < profile.MinFontSize:
			v := newViolation(el, types.RuleFontSize, types.SeverityWarning, "fontSize",
				fmt.Sprintf("font size %s is below the minimum of %s", FormatPx(*el.FontSize), FormatPx(profile.MinFontSize)))
			v.CurrentValue = FormatPx(*el.FontSize)
			v.SuggestedValue = FormatPx(profile.MinFontSize)
			v.AutoFixable = true
			violations = append(violations, v)
		}
	}

	if len(profile.AllowedFontWeights) > 0 {
		switch {
		case el.FontWeight == nil:
			violations = append(violations, missingProperty(el, "fontWeight", "font weight"))
		case !slices.Contains(profile.AllowedFontWeights, *el.FontWeight):
			v := newViolation(el, types.RuleFontWeight, types.SeverityWarning, "fontWeight",
				fmt.Sprintf("font weight %d is not an allowed brand weight", *el.FontWeight))
			v.CurrentValue = strconv.Itoa(*el.FontWeight)
			v.SuggestedValue = strconv.Itoa(nearestWeight(*el.FontWeight, profile.AllowedFontWeights))
			violations = append(violations, v)
		}
	}

	return violations
}

func checkLogo(el types.Element, profile *types.BrandProfile) []types.Violation {
	if profile.LogoMinWidth <= 0 {
		return nil
	}
	if el.Width == nil {
		return []types.Violation{missingProperty(el, "width", "logo size")}
	}
	if *el.Width >= profile.LogoMinWidth {
		return nil
	}
	v := newViolation(el, types.RuleLogoSize, types.SeverityCritical, "width",
		fmt.Sprintf("logo width %s is below the minimum of %s", FormatPx(*el.Width), FormatPx(profile.LogoMinWidth)))
	v.CurrentValue = FormatPx(*el.Width)
	v.SuggestedValue = FormatPx(math.Max(profile.LogoMinWidth, *el.Width))
	v.AutoFixable = true
	return []types.Violation{v}
}

// checkContrast only runs when both colors are known; an unparseable color is
// already reported by the color rule.
func checkContrast(el types.Element, profile *types.BrandProfile) []types.Violation {
	if profile.MinContrastRatio <= 0 || el.TextColor == "" || el.BackgroundColor == "" {
		return nil
	}
	fg, ok := ParseHex(el.TextColor)
	if !ok {
		return nil
	}
	bg, ok := ParseHex(el.BackgroundColor)
	if !ok {
		return nil
	}

	ratio := ContrastRatio(fg, bg)
	if ratio >= profile.MinContrastRatio {
		return nil
	}

	v := newViolation(el, types.RuleContrast, types.SeverityCritical, "textColor", "")
	v.CurrentValue = fg.Hex()
	if fallback, ok := ContrastFallback(bg, profile.MinContrastRatio); ok {
		v.Message = fmt.Sprintf("contrast ratio %.2f:1 is below the minimum of %.2f:1", ratio, profile.MinContrastRatio)
		v.SuggestedValue = fallback.Hex()
		v.AutoFixable = true
	} else {
		v.Message = fmt.Sprintf("contrast ratio %.2f:1 is below the minimum of %.2f:1 and neither black nor white text resolves it",
			ratio, profile.MinContrastRatio)
	}
	return []types.Violation{v}
}

// ContrastFallback returns black or white text for the background, whichever
// meets minRatio with the higher ratio. ok is false when neither does.
func ContrastFallback(background RGB, minRatio float64) (RGB, bool) {
	blackRatio := ContrastRatio(Black, background)
	whiteRatio := ContrastRatio(White, background)
	best, bestRatio := Black, blackRatio
	if whiteRatio > blackRatio {
		best, bestRatio = White, whiteRatio
	}
	if bestRatio < minRatio {
		return RGB{}, false
	}
	return best, true
}

func checkSpacing(el types.Element, profile *types.BrandProfile) []types.Violation {
	if profile.SpacingUnit <= 0 || el.Margin == nil {
		return nil
	}
	steps := *el.Margin / profile.SpacingUnit
	if math.Abs(steps-math.Round(steps)) < 1e-9 {
		return nil
	}
	nearest := math.Max(1, math.Round(steps)) * profile.SpacingUnit
	v := newViolation(el, types.RuleSpacing, types.SeverityWarning, "margin",
		fmt.Sprintf("margin %s is not a multiple of the %s spacing unit", FormatPx(*el.Margin), FormatPx(profile.SpacingUnit)))
	v.CurrentValue = FormatPx(*el.Margin)
	v.SuggestedValue = FormatPx(nearest)
	v.AutoFixable = true
	return []types.Violation{v}
}

// FormatPx renders a length the way hosts report it, e.g. "100px" or "12.5px"
func FormatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func containsFold(list []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}

func nearestWeight(weight int, allowed []int) int {
	best := allowed[0]
	for _, w := range allowed[1:] {
		if abs(w-weight) < abs(best-weight) {
			best = w
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package repair

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/brand-compliance/internal/types"
	"github.com/jonathan/brand-compliance/internal/validation"
)

var (
	numberPattern   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	hexColorPattern = regexp.MustCompile(`#?[0-9a-fA-F]{6}`)
)

type valueKind int

const (
	numericValue valueKind = iota
	colorValue
	textValue
)

type propertyMapping struct {
	property string
	kind     valueKind
}

// propertyMap is the closed vocabulary of update keys per fix type
var propertyMap = map[types.FixType]propertyMapping{
	types.FixColor:      {property: "fill", kind: colorValue},
	types.FixTypography: {property: "fontFamily", kind: textValue},
	types.FixFontSize:   {property: "fontSize", kind: numericValue},
	types.FixLogoSize:   {property: "width", kind: numericValue},
	types.FixContrast:   {property: "textColor", kind: colorValue},
	types.FixSpacing:    {property: "margin", kind: numericValue},
}

// AllowedUpdateKeys returns the update keys a command for the fix type may carry
func AllowedUpdateKeys(fixType types.FixType) []string {
	mapping, ok := propertyMap[fixType]
	if !ok {
		return nil
	}
	if fixType == types.FixLogoSize {
		return []string{mapping.property, "height"}
	}
	return []string{mapping.property}
}

// TranslateFix converts an auto-fixable fix into updateElement commands
func TranslateFix(fix types.Fix) ([]types.Command, error) {
	if !fix.AutoFixable {
		return nil, &TranslateError{FixID: fix.ID, Message: "fix requires manual review"}
	}
	mapping, ok := propertyMap[fix.Type]
	if !ok {
		return nil, &TranslateError{FixID: fix.ID, Message: "no property mapping for fix type " + string(fix.Type)}
	}
	if strings.TrimSpace(fix.ElementID) == "" {
		return nil, &TranslateError{FixID: fix.ID, Message: "fix has no target element"}
	}

	var value any
	switch mapping.kind {
	case numericValue:
		n, err := extractNumber(fix.RecommendedValue)
		if err != nil {
			return nil, &TranslateError{FixID: fix.ID, Message: "recommended value is not numeric", Cause: err}
		}
		value = n
	case colorValue:
		value = extractColor(fix.RecommendedValue)
	default:
		value = strings.TrimSpace(fix.RecommendedValue)
	}

	commands := []types.Command{newCommand(fix, map[string]any{mapping.property: value})}

	if fix.Type == types.FixLogoSize {
		if height, ok := scaledHeight(fix.Metadata, value.(float64)); ok {
			commands = append(commands, newCommand(fix, map[string]any{"height": height}))
		}
	}
	return commands, nil
}

// TranslateFixes translates every auto-fixable fix, skipping the rest
func TranslateFixes(fixes []types.Fix) []types.Command {
	commands := []types.Command{}
	for _, fix := range fixes {
		translated, err := TranslateFix(fix)
		if err != nil {
			continue
		}
		commands = append(commands, translated...)
	}
	return commands
}

func newCommand(fix types.Fix, updates map[string]any) types.Command {
	return types.Command{
		Action:    types.ActionUpdateElement,
		ElementID: fix.ElementID,
		Updates:   updates,
		Metadata: types.CommandMetadata{
			FixID:       fix.ID,
			FixType:     fix.Type,
			ViolationID: fix.ViolationID,
		},
	}
}

func extractNumber(value string) (float64, error) {
	match := numberPattern.FindString(value)
	if match == "" {
		return 0, &Error{Message: "no number in " + strconv.Quote(value)}
	}
	return strconv.ParseFloat(match, 64)
}

// extractColor returns the first six-digit hex color in normalized form, or
// the trimmed value unchanged when there is none
func extractColor(value string) string {
	if match := hexColorPattern.FindString(value); match != "" {
		if hex, ok := validation.NormalizeHex(match); ok {
			return hex
		}
	}
	return strings.TrimSpace(value)
}

// scaledHeight keeps the original aspect ratio for a new width
func scaledHeight(meta types.FixMetadata, width float64) (float64, bool) {
	if meta.OriginalWidth == nil || meta.OriginalHeight == nil || *meta.OriginalWidth <= 0 {
		return 0, false
	}
	height := width * *meta.OriginalHeight / *meta.OriginalWidth
	return math.Round(height*100) / 100, true
}

package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// RGB is an 8-bit sRGB color
type RGB struct {
	R, G, B uint8
}

// Black and White are the contrast fallback colors
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// Hex returns the color as upper-case #RRGGBB
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// NormalizeHex converts #abc, abc, #aabbcc or aabbcc to upper-case #AABBCC.
// The second return value is false for anything that is not a hex color.
func NormalizeHex(value string) (string, bool) {
	c, ok := ParseHex(value)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

// ParseHex parses a 3 or 6 digit hex color with an optional leading '#'
func ParseHex(value string) (RGB, bool) {
	match := hexColorPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return RGB{}, false
	}
	digits := match[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// RelativeLuminance computes WCAG 2.x relative luminance in [0,1]
func RelativeLuminance(c RGB) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(channel uint8) float64 {
	v := float64(channel) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns (L1+0.05)/(L2+0.05) with L1 the lighter color. Range [1,21].
func ContrastRatio(a, b RGB) float64 {
	l1 := RelativeLuminance(a)
	l2 := RelativeLuminance(b)
	if l2 > l1 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// ColorDistance is the Euclidean distance between two colors in RGB space
func ColorDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// NearestColor returns the palette entry closest to target, normalized.
// Invalid palette entries are skipped; returns "" when nothing valid remains.
func NearestColor(target RGB, palette []string) string {
	best := ""
	bestDistance := math.MaxFloat64
	for _, entry := range palette {
		c, ok := ParseHex(entry)
		if !ok {
			continue
		}
		if d := ColorDistance(target, c); d < bestDistance {
			bestDistance = d
			best = c.Hex()
		}
	}
	return best
}

// NormalizePalette returns the valid entries of palette in normalized form, preserving order
func NormalizePalette(palette []string) []string {
	normalized := make([]string, 0, len(palette))
	for _, entry := range palette {
		if hex, ok := NormalizeHex(entry); ok {
			normalized = append(normalized, hex)
		}
	}
	return normalized
}

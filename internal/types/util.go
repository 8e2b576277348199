// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"regexp"
	"strings"
)

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// NormalizePhrase lower-cases a phrase and collapses punctuation and
// whitespace runs to single spaces, so "Risk-Free!" becomes "risk free".
func NormalizePhrase(s string) string {
	return strings.TrimSpace(nonWordRun.ReplaceAllString(strings.ToLower(s), " "))
}

func samePhrase(a, b string) bool {
	return NormalizePhrase(a) == NormalizePhrase(b)
}

// Package voice scores natural-language content against a brand's text rules.
package voice

import "time"

// Penalty magnitudes. These are empirically chosen constants, kept as
// configuration rather than derived.
const (
	DisallowedPenalty    = 12.0
	RegulatedMultiplier  = 1.1
	FormalTonePenalty    = 7.5
	NeutralTonePenalty   = 6.0
	MediumClaimPenalty   = 8.0
	HighClaimPenalty     = 12.0
	DefaultAdvisoryLimit = 5 * time.Second

	// MaxScoreWithIssues caps the score whenever at least one issue exists
	MaxScoreWithIssues = 99
)

// regulatedKeywords in a brand description raise the disallowed-phrase penalty
var regulatedKeywords = []string{"regulated", "legal", "enterprise"}

// casualPhrases are penalized under a formal tone
var casualPhrases = []string{
	"hey", "hi", "hello", "hiya", "howdy", "yo",
	"gonna", "wanna", "gotta", "kinda", "sorta",
	"awesome", "cool", "super", "totally", "stuff",
	"yeah", "yep", "nope", "guys", "folks", "dude",
	"lol", "omg", "btw", "tbh",
	"check it out", "no worries",
}

// stronglyCasualPhrases are the subset penalized under a neutral tone
var stronglyCasualPhrases = []string{
	"yo", "gonna", "wanna", "gotta", "dude", "lol", "omg", "btw", "tbh",
}

// mediumClaimPhrases are absolute claims flagged at medium strictness
var mediumClaimPhrases = []string{
	"best ever", "guaranteed", "guarantee", "risk free", "never fails",
	"100 percent", "number one", "world class",
}

// highClaimPhrases extend the medium list at high strictness
var highClaimPhrases = append(append([]string{}, mediumClaimPhrases...),
	"best", "always", "never", "proven", "perfect", "unbeatable",
	"ultimate", "leading", "fastest", "cheapest", "only",
)

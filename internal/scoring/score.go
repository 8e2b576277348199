// Package scoring turns aggregated violations into a deterministic compliance score.
package scoring

import (
	"math"

	"github.com/jonathan/brand-compliance/internal/types"
	"github.com/jonathan/brand-compliance/internal/validation"
)

// Score constants. These are empirically chosen and kept as configuration.
const (
	CoverageWeight     = 60
	CompletenessWeight = 40

	CriticalPenalty = 25
	WarningPenalty  = 10
	MaxPenalty      = 60

	DomainViolationPenalty = 20
	MaxDomainPenalty       = 50
	// EmptyDomainScore is used when a domain has no applicable elements
	EmptyDomainScore = 50

	DefaultVisualWeight  = 0.65
	DefaultContentWeight = 0.35
)

// Weights blends the per-domain scores into the weighted score
type Weights struct {
	Visual  float64 `json:"visual" yaml:"visual"`
	Content float64 `json:"content" yaml:"content"`
}

// DefaultWeights returns visual 0.65 / content 0.35
func DefaultWeights() Weights {
	return Weights{Visual: DefaultVisualWeight, Content: DefaultContentWeight}
}

// Valid reports whether the weights can be used as given
func (w Weights) Valid() bool {
	return w.Visual >= 0 && w.Content >= 0 && w.Visual+w.Content > 0
}

// Calculate scores an aggregation. Invalid weights fall back to the defaults.
func Calculate(agg *validation.Aggregation, weights Weights) types.ComplianceScore {
	if agg == nil {
		agg = &validation.Aggregation{}
	}
	if !weights.Valid() {
		weights = DefaultWeights()
	}

	var critical, warning, info int
	var visualCount, contentCount int
	for _, v := range agg.Violations {
		switch v.Severity {
		case types.SeverityCritical:
			critical++
		case types.SeverityWarning:
			warning++
		default:
			info++
			continue
		}
		if v.Domain == types.DomainContent {
			contentCount++
		} else {
			visualCount++
		}
	}

	penalty := min(MaxPenalty, critical*CriticalPenalty+warning*WarningPenalty)
	base := int(math.Round(agg.BrandCoverage*CoverageWeight + agg.DesignCompleteness*CompletenessWeight))
	total := clamp(base-penalty, 0, 100)

	visual := domainScore(visualCount, agg.SupportedCount > 0)
	content := domainScore(contentCount, agg.TextCount > 0)
	weighted := int(math.Round((float64(visual)*weights.Visual + float64(content)*weights.Content) /
		(weights.Visual + weights.Content)))

	return types.ComplianceScore{
		Total:    total,
		Visual:   visual,
		Content:  content,
		Weighted: clamp(weighted, 0, 100),
		Breakdown: types.ScoreBreakdown{
			BrandCoverage:      percent(agg.BrandCoverage),
			DesignCompleteness: percent(agg.DesignCompleteness),
			ViolationPenalty:   penalty,
			CriticalCount:      critical,
			WarningCount:       warning,
			InfoCount:          info,
		},
	}
}

func domainScore(violations int, applicable bool) int {
	if !applicable {
		return EmptyDomainScore
	}
	return max(0, 100-min(MaxDomainPenalty, violations*DomainViolationPenalty))
}

func percent(fraction float64) float64 {
	return math.Round(fraction*10000) / 100
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

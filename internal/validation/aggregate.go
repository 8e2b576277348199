package validation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/brand-compliance/internal/types"
)

// DefaultConcurrency bounds how many elements are evaluated at once
const DefaultConcurrency = 8

// TextScorer scores the natural-language content of one text element
type TextScorer interface {
	Score(ctx context.Context, elementID, text string, profile *types.BrandProfile) (*types.TextScore, error)
}

// AggregateOptions configures Aggregate
type AggregateOptions struct {
	Rules       Options
	Scorer      TextScorer // optional; text content is not scored when nil
	Concurrency int
}

// Aggregation is the merged result of evaluating every element of a document
type Aggregation struct {
	Violations []types.Violation
	// ElementCount counts every element, SupportedCount only the evaluated kinds
	ElementCount   int
	SupportedCount int
	// TextCount counts text elements with non-empty content
	TextCount      int
	CompliantCount int
	// BrandCoverage and DesignCompleteness are fractions in [0,1]
	BrandCoverage      float64
	DesignCompleteness float64
}

// Aggregate evaluates every element of doc. Output order follows element
// order regardless of scheduling. Only a scorer error (an input contract
// failure) aborts the run.
func Aggregate(ctx context.Context, doc *types.Document, profile *types.BrandProfile, opts AggregateOptions) (*Aggregation, error) {
	if doc == nil {
		return nil, &ContractError{Field: "document", Message: "document is required"}
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	perElement := make([][]types.Violation, len(doc.Elements))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range doc.Elements {
		el := doc.Elements[i]
		g.Go(func() error {
			violations := EvaluateElement(el, profile, opts.Rules)
			if el.Kind == types.KindText && opts.Scorer != nil && strings.TrimSpace(el.Text) != "" {
				score, err := opts.Scorer.Score(gctx, el.ID, el.Text, profile)
				if err != nil {
					return fmt.Errorf("failed to score text of element %s: %w", el.ID, err)
				}
				violations = append(violations, contentViolations(el.ID, score)...)
			}
			perElement[i] = violations
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := &Aggregation{ElementCount: len(doc.Elements)}
	for i, el := range doc.Elements {
		agg.Violations = append(agg.Violations, perElement[i]...)
		if !el.Kind.Supported() {
			continue
		}
		agg.SupportedCount++
		if el.Kind == types.KindText && strings.TrimSpace(el.Text) != "" {
			agg.TextCount++
		}
		if isCompliant(perElement[i]) {
			agg.CompliantCount++
		}
	}
	if agg.SupportedCount > 0 {
		agg.BrandCoverage = float64(agg.CompliantCount) / float64(agg.SupportedCount)
	}
	agg.DesignCompleteness = DesignCompleteness(doc.Elements)
	if agg.Violations == nil {
		agg.Violations = []types.Violation{}
	}
	return agg, nil
}

func contentViolations(elementID string, score *types.TextScore) []types.Violation {
	if score == nil {
		return nil
	}
	violations := make([]types.Violation, 0, len(score.Issues))
	for _, issue := range score.Issues {
		violations = append(violations, types.Violation{
			ID:             types.DeriveID(elementID, string(issue.RuleID), strings.ToLower(issue.Trigger)),
			RuleID:         issue.RuleID,
			Domain:         types.DomainContent,
			Severity:       issue.Severity,
			Message:        issue.Message,
			ElementID:      elementID,
			CurrentValue:   issue.Trigger,
			SuggestedValue: issue.Suggestion,
			Trigger:        issue.Trigger,
		})
	}
	return violations
}

func isCompliant(violations []types.Violation) bool {
	for _, v := range violations {
		if v.Severity == types.SeverityCritical || v.Severity == types.SeverityWarning {
			return false
		}
	}
	return true
}

// Design completeness adjustments
const (
	completenessNoText     = 0.4
	completenessOneElement = 0.25
	completenessTwoElement = 0.15
	completenessVariety    = 0.15
	completenessMinKinds   = 3
)

// DesignCompleteness scores structural adequacy independent of branding, in [0,1].
// An empty document scores 0.
func DesignCompleteness(elements []types.Element) float64 {
	if len(elements) == 0 {
		return 0
	}
	score := 1.0
	kinds := make(map[types.ElementKind]struct{})
	hasText := false
	for _, el := range elements {
		if el.Kind.Supported() {
			kinds[el.Kind] = struct{}{}
		}
		if el.Kind == types.KindText {
			hasText = true
		}
	}
	if !hasText {
		score -= completenessNoText
	}
	switch len(elements) {
	case 1:
		score -= completenessOneElement
	case 2:
		score -= completenessTwoElement
	}
	if len(kinds) >= completenessMinKinds {
		score += completenessVariety
	}
	return math.Min(1, math.Max(0, score))
}

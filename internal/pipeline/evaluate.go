// Package pipeline wires rule evaluation, scoring, fix synthesis and command
// translation into the service entry points.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compliance/internal/guidelines"
	"github.com/jonathan/brand-compliance/internal/llm"
	"github.com/jonathan/brand-compliance/internal/repair"
	"github.com/jonathan/brand-compliance/internal/scoring"
	"github.com/jonathan/brand-compliance/internal/types"
	"github.com/jonathan/brand-compliance/internal/validation"
	"github.com/jonathan/brand-compliance/internal/voice"
)

// Pipeline steps reported through ProgressEvent.Step
const (
	StepEvaluate  = "evaluate"
	StepScore     = "score"
	StepFixes     = "fixes"
	StepTranslate = "translate"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step       string `json:"step"`
	DocumentID string `json:"document_id,omitempty"`
	Message    string `json:"message"`
	Content    any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Evaluator runs the compliance pipeline. It holds no per-call state and is
// safe for concurrent use.
type Evaluator struct {
	store           guidelines.Store
	advisor         llm.Advisor
	advisoryTimeout time.Duration
	weights         scoring.Weights
	rules           validation.Options
	concurrency     int
	logger          *zap.Logger
	onProgress      ProgressCallback

	scorer *voice.Scorer
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithGuidelineStore sets the store fixes are synthesized from
func WithGuidelineStore(store guidelines.Store) Option {
	return func(e *Evaluator) { e.store = store }
}

// WithAdvisor enables text advisory escalation
func WithAdvisor(advisor llm.Advisor) Option {
	return func(e *Evaluator) { e.advisor = advisor }
}

// WithAdvisoryTimeout bounds each advisory call
func WithAdvisoryTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) { e.advisoryTimeout = timeout }
}

// WithWeights sets the visual/content blend
func WithWeights(weights scoring.Weights) Option {
	return func(e *Evaluator) { e.weights = weights }
}

// WithNearestColor suggests the nearest palette color for off-brand colors
func WithNearestColor(enabled bool) Option {
	return func(e *Evaluator) { e.rules.NearestColor = enabled }
}

// WithConcurrency bounds how many elements are evaluated at once
func WithConcurrency(n int) Option {
	return func(e *Evaluator) { e.concurrency = n }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(e *Evaluator) { e.onProgress = cb }
}

// NewEvaluator creates an Evaluator
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		weights:     scoring.DefaultWeights(),
		concurrency: validation.DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	scorerOpts := []voice.Option{voice.WithLogger(e.logger.Named("voice"))}
	if e.advisor != nil {
		scorerOpts = append(scorerOpts, voice.WithAdvisor(e.advisor))
	}
	if e.advisoryTimeout > 0 {
		scorerOpts = append(scorerOpts, voice.WithTimeout(e.advisoryTimeout))
	}
	e.scorer = voice.NewScorer(scorerOpts...)
	return e
}

// Observe returns a copy of e that reports progress to cb instead
func (e *Evaluator) Observe(cb ProgressCallback) *Evaluator {
	c := *e
	c.onProgress = cb
	return &c
}

func (e *Evaluator) emit(step, documentID, message string, content any) {
	if e.onProgress != nil {
		e.onProgress(ProgressEvent{Step: step, DocumentID: documentID, Message: message, Content: content})
	}
}

// ValidateProfile checks the profile contract before any evaluation runs
func ValidateProfile(profile *types.BrandProfile) error {
	if profile == nil {
		return &validation.ContractError{Field: "profile", Message: "brand profile is required"}
	}
	if err := profile.Validate(); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &validation.ContractError{
				Field:   fieldPath(fe.Namespace()),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
				Cause:   err,
			}
		}
		return &validation.ContractError{Field: "profile", Message: "invalid brand profile", Cause: err}
	}
	return voice.ValidateRules(profile)
}

// fieldPath drops the struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// EvaluateDocument evaluates every element of doc against profile and scores
// the result. Only contract errors are returned; the same inputs always give
// the same result.
func (e *Evaluator) EvaluateDocument(ctx context.Context, doc *types.Document, profile *types.BrandProfile) (*types.EvaluationResult, error) {
	if doc == nil {
		return nil, &validation.ContractError{Field: "document", Message: "document is required"}
	}
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}

	start := time.Now()
	agg, err := validation.Aggregate(ctx, doc, profile, validation.AggregateOptions{
		Rules:       e.rules,
		Scorer:      e.scorer,
		Concurrency: e.concurrency,
	})
	if err != nil {
		return nil, err
	}
	e.emit(StepEvaluate, doc.ID, fmt.Sprintf("Evaluated %d elements, found %d violations", agg.ElementCount, len(agg.Violations)), nil)

	score := scoring.Calculate(agg, e.weights)
	e.emit(StepScore, doc.ID, fmt.Sprintf("Compliance score %d", score.Total), score)

	e.logger.Debug("document evaluated",
		zap.String("document_id", doc.ID),
		zap.Int("elements", agg.ElementCount),
		zap.Int("violations", len(agg.Violations)),
		zap.Int("score", score.Total),
		zap.Duration("elapsed", time.Since(start)))

	return &types.EvaluationResult{
		DocumentID:   doc.ID,
		Violations:   agg.Violations,
		Score:        score,
		ElementCount: agg.ElementCount,
	}, nil
}

// GenerateFixes synthesizes at most one fix per violation of result. The
// brand and industry come from the document, falling back to the profile.
// Without a guideline store only violation-supplied suggestions are offered.
func (e *Evaluator) GenerateFixes(ctx context.Context, result *types.EvaluationResult, doc *types.Document, profile *types.BrandProfile) []types.Fix {
	brandID, industry := "", ""
	var minContrast float64
	if profile != nil {
		brandID, industry, minContrast = profile.BrandID, profile.Industry, profile.MinContrastRatio
	}
	if doc != nil {
		if doc.BrandID != "" {
			brandID = doc.BrandID
		}
		if doc.Industry != "" {
			industry = doc.Industry
		}
	}

	synth := repair.NewSynthesizer(e.store, brandID, industry,
		repair.WithMinContrast(minContrast),
		repair.WithLogger(e.logger.Named("repair")))
	fixes := repair.GenerateFixes(ctx, result, doc, synth)

	documentID := ""
	if result != nil {
		documentID = result.DocumentID
	}
	e.emit(StepFixes, documentID, fmt.Sprintf("Synthesized %d fixes", len(fixes)), nil)
	return fixes
}

// TranslateFix converts one fix into mutation commands
func (e *Evaluator) TranslateFix(fix types.Fix) ([]types.Command, error) {
	return repair.TranslateFix(fix)
}

// TranslateFixes converts every auto-fixable fix, logging the ones skipped
func (e *Evaluator) TranslateFixes(fixes []types.Fix) []types.Command {
	commands := []types.Command{}
	for _, fix := range fixes {
		translated, err := repair.TranslateFix(fix)
		if err != nil {
			e.logger.Debug("fix not translated", zap.String("fix_id", fix.ID), zap.Error(err))
			continue
		}
		commands = append(commands, translated...)
	}
	e.emit(StepTranslate, "", fmt.Sprintf("Translated %d fixes into %d commands", len(fixes), len(commands)), nil)
	return commands
}

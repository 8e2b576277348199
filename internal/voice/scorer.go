package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/brand-compliance/internal/llm"
	"github.com/jonathan/brand-compliance/internal/schemas"
	"github.com/jonathan/brand-compliance/internal/types"
	"github.com/jonathan/brand-compliance/internal/validation"
)

// Scorer applies disallowed-phrase, tone and claim rules to text, escalating
// to an optional advisor when nothing fires locally. Safe for concurrent use.
type Scorer struct {
	advisor llm.Advisor
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Scorer
type Option func(*Scorer)

// WithAdvisor enables escalation to a text advisory service
func WithAdvisor(advisor llm.Advisor) Option {
	return func(s *Scorer) { s.advisor = advisor }
}

// WithTimeout bounds each advisory call
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scorer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for advisory failures
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a Scorer. Without an advisor it is purely local.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{timeout: DefaultAdvisoryLimit, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type issueKey struct {
	elementID string
	rule      types.RuleID
	trigger   string
}

// ValidateRules checks the text-rule contract of a profile: the disallowed
// phrase list must be present and free of blank entries.
func ValidateRules(profile *types.BrandProfile) error {
	if profile == nil {
		return &validation.ContractError{Field: "profile", Message: "brand profile is required"}
	}
	if profile.DisallowedPhrases == nil {
		return &validation.ContractError{Field: "disallowedPhrases", Message: "must be provided as a list"}
	}
	for i, p := range profile.DisallowedPhrases {
		if strings.TrimSpace(p) == "" {
			return &validation.ContractError{
				Field:   fmt.Sprintf("disallowedPhrases[%d]", i),
				Message: "must not be blank",
			}
		}
	}
	return nil
}

// Score evaluates text for one element. The only error is a contract failure
// in the profile; advisory problems degrade to a clean score.
func (s *Scorer) Score(ctx context.Context, elementID, text string, profile *types.BrandProfile) (*types.TextScore, error) {
	if err := ValidateRules(profile); err != nil {
		return nil, err
	}

	text = PlainText(text)
	tokens := Tokenize(text)
	collector := newIssueCollector(elementID, profile)

	multiplier := 1.0
	if mentionsAny(profile.Description, regulatedKeywords) {
		multiplier = RegulatedMultiplier
	}
	for _, m := range findPhrases(tokens, compilePhrases(profile.DisallowedPhrases)) {
		collector.add(types.TextIssue{
			RuleID:   types.RuleDisallowedPhrase,
			Trigger:  m.phrase,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("%q is a disallowed phrase for this brand", m.phrase),
			Penalty:  DisallowedPenalty * multiplier,
		})
	}

	if list, penalty, ok := toneRules(profile.Tone); ok {
		for _, m := range findPhrases(tokens, compilePhrases(list)) {
			collector.add(types.TextIssue{
				RuleID:   types.RuleTone,
				Trigger:  m.phrase,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("%q is too casual for a %s tone", m.phrase, profile.Tone),
				Penalty:  penalty,
			})
		}
	}

	if list, penalty, ok := claimRules(profile.ClaimsStrictness); ok {
		for _, m := range findPhrases(tokens, compilePhrases(list)) {
			collector.add(types.TextIssue{
				RuleID:   types.RuleClaims,
				Trigger:  m.phrase,
				Severity: types.SeverityCritical,
				Message:  fmt.Sprintf("%q is an absolute claim that needs substantiation", m.phrase),
				Penalty:  penalty,
			})
		}
	}

	collector.attachPreferredTerms(profile.PreferredTerms)

	if len(collector.issues) == 0 && s.advisor != nil && len(tokens) > 0 {
		return s.escalate(ctx, elementID, text, profile), nil
	}
	return collector.result(), nil
}

func toneRules(tone types.Tone) ([]string, float64, bool) {
	switch tone {
	case types.ToneFormal:
		return casualPhrases, FormalTonePenalty, true
	case types.ToneNeutral:
		return stronglyCasualPhrases, NeutralTonePenalty, true
	default:
		return nil, 0, false
	}
}

func claimRules(strictness types.ClaimsStrictness) ([]string, float64, bool) {
	switch strictness {
	case types.ClaimsMedium:
		return mediumClaimPhrases, MediumClaimPenalty, true
	case types.ClaimsHigh:
		return highClaimPhrases, HighClaimPenalty, true
	default:
		return nil, 0, false
	}
}

func mentionsAny(text string, keywords []string) bool {
	tokens := Tokenize(text)
	for _, tok := range tokens {
		for _, kw := range keywords {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

type issueCollector struct {
	elementID string
	profile   *types.BrandProfile
	seen      map[issueKey]struct{}
	issues    []types.TextIssue
}

func newIssueCollector(elementID string, profile *types.BrandProfile) *issueCollector {
	return &issueCollector{
		elementID: elementID,
		profile:   profile,
		seen:      make(map[issueKey]struct{}),
	}
}

// add records an issue unless it duplicates one already seen or the phrase is
// remembered as allowed
func (c *issueCollector) add(issue types.TextIssue) {
	if issue.Trigger == "" {
		return
	}
	if _, remembered := c.profile.MemoryDecisionFor(issue.Trigger); remembered {
		return
	}
	key := issueKey{elementID: c.elementID, rule: issue.RuleID, trigger: issue.Trigger}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.issues = append(c.issues, issue)
}

// attachPreferredTerms decorates penalized issues with at most one suggestion each
func (c *issueCollector) attachPreferredTerms(terms []types.PreferredTerm) {
	for i := range c.issues {
		issue := &c.issues[i]
		if issue.Penalty == 0 || issue.Suggestion != "" {
			continue
		}
		if term, ok := preferredTermFor(issue.Trigger, terms); ok {
			issue.Suggestion = term
		}
	}
}

func preferredTermFor(trigger string, terms []types.PreferredTerm) (string, bool) {
	for _, pt := range terms {
		for _, replaced := range pt.Replaces {
			if types.NormalizePhrase(replaced) == trigger {
				return pt.Term, true
			}
		}
	}
	return "", false
}

func (c *issueCollector) result() *types.TextScore {
	if len(c.issues) == 0 {
		return &types.TextScore{Score: 100, Issues: []types.TextIssue{}}
	}
	total := 0.0
	for _, issue := range c.issues {
		total += issue.Penalty
	}
	return &types.TextScore{Score: clampScore(100-total, true), Issues: c.issues}
}

func clampScore(raw float64, hasIssues bool) int {
	score := int(math.Round(raw))
	upper := 100
	if hasIssues {
		upper = MaxScoreWithIssues
	}
	return max(0, min(upper, score))
}

// AdvisoryRulesFor extracts the rules sent to the text advisory service
func AdvisoryRulesFor(profile *types.BrandProfile) types.AdvisoryRules {
	return types.AdvisoryRules{
		Tone:              profile.Tone,
		ClaimsStrictness:  profile.ClaimsStrictness,
		DisallowedPhrases: profile.DisallowedPhrases,
		PreferredTerms:    profile.PreferredTerms,
		BrandDescription:  profile.Description,
	}
}

type advisoryResponse struct {
	Score  float64 `json:"score"`
	Issues []struct {
		Trigger    string         `json:"trigger"`
		Severity   types.Severity `json:"severity"`
		Message    string         `json:"message"`
		Suggestion string         `json:"suggestion"`
	} `json:"issues"`
}

type advisoryResult struct {
	body string
	err  error
}

// escalate makes one bounded advisory call. Every failure mode collapses to
// a clean score.
func (s *Scorer) escalate(ctx context.Context, elementID, text string, profile *types.BrandProfile) *types.TextScore {
	fallback := &types.TextScore{Score: 100, Issues: []types.TextIssue{}}
	logger := s.logger.With(zap.String("element_id", elementID))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := types.AdvisoryRequest{
		Text:   text,
		Rules:  AdvisoryRulesFor(profile),
		Schema: schemas.AdvisoryResponseSchema,
	}
	done := make(chan advisoryResult, 1)
	go func() {
		body, err := s.advisor.Advise(ctx, req)
		done <- advisoryResult{body: body, err: err}
	}()

	var res advisoryResult
	select {
	case res = <-done:
	case <-ctx.Done():
		logger.Warn("text advisory timed out", zap.Duration("timeout", s.timeout), zap.Error(ctx.Err()))
		return fallback
	}
	if res.err != nil {
		logger.Warn("text advisory failed", zap.Error(res.err))
		return fallback
	}

	body := llm.CleanJSONBlock(res.body)
	if err := schemas.ValidateAdvisoryResponse(body); err != nil {
		logger.Warn("text advisory response rejected", zap.Error(err))
		return fallback
	}
	var resp advisoryResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		logger.Warn("text advisory response unreadable", zap.Error(err))
		return fallback
	}

	collector := newIssueCollector(elementID, profile)
	for _, item := range resp.Issues {
		collector.add(types.TextIssue{
			RuleID:     types.RuleAdvisory,
			Trigger:    types.NormalizePhrase(item.Trigger),
			Severity:   item.Severity,
			Message:    item.Message,
			Suggestion: item.Suggestion,
		})
	}
	if len(collector.issues) == 0 {
		return fallback
	}
	logger.Debug("text advisory returned issues", zap.Int("issues", len(collector.issues)))
	return &types.TextScore{Score: clampScore(resp.Score, true), Issues: collector.issues}
}

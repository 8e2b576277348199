// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RuleID identifies the rule a violation breaches. The set is closed.
type RuleID string

// Rule identifiers
const (
	RuleColor            RuleID = "color"
	RuleTypography       RuleID = "typography"
	RuleFontSize         RuleID = "font_size"
	RuleFontWeight       RuleID = "font_weight"
	RuleLogoSize         RuleID = "logo_size"
	RuleContrast         RuleID = "contrast"
	RuleSpacing          RuleID = "spacing"
	RuleMissingProperty  RuleID = "missing_property"
	RuleUnsupported      RuleID = "unsupported_element"
	RuleDisallowedPhrase RuleID = "disallowed_phrase"
	RuleTone             RuleID = "tone"
	RuleClaims           RuleID = "claims"
	RuleAdvisory         RuleID = "advisory"
)

// Domain is the scoring domain a violation counts against
type Domain string

// Domains
const (
	DomainVisual  Domain = "visual"
	DomainContent Domain = "content"
)

// Severity of a violation
type Severity string

// Severities. Info is used only for elements that could not be evaluated at all.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Violation represents a single detected rule breach on one element
type Violation struct {
	ID             string   `json:"id"`
	RuleID         RuleID   `json:"ruleId"`
	Domain         Domain   `json:"domain"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	ElementID      string   `json:"elementId"`
	CurrentValue   string   `json:"currentValue,omitempty"`
	SuggestedValue string   `json:"suggestedValue,omitempty"`
	AutoFixable    bool     `json:"autoFixable"`
	// Trigger is the offending token or phrase for content violations
	Trigger string `json:"trigger,omitempty"`
}

// Violations represents a collection of violations
type Violations struct {
	Violations []Violation `json:"violations"`
}

// TextIssue is one finding of the text compliance scorer
type TextIssue struct {
	RuleID     RuleID   `json:"ruleId"`
	Trigger    string   `json:"trigger"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Penalty    float64  `json:"penalty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// TextScore is the result of scoring one piece of text
type TextScore struct {
	Score  int         `json:"score"`
	Issues []TextIssue `json:"issues"`
}

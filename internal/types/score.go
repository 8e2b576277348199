// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ScoreBreakdown records the inputs that produced a compliance score
type ScoreBreakdown struct {
	BrandCoverage      float64 `json:"brandCoverage"`      // percent
	DesignCompleteness float64 `json:"designCompleteness"` // percent
	ViolationPenalty   int     `json:"violationPenalty"`
	CriticalCount      int     `json:"criticalCount"`
	WarningCount       int     `json:"warningCount"`
	InfoCount          int     `json:"infoCount"`
}

// ComplianceScore is the derived score of one evaluation
type ComplianceScore struct {
	Total     int            `json:"total"`
	Visual    int            `json:"visual"`
	Content   int            `json:"content"`
	Weighted  int            `json:"weighted"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// EvaluationResult is the output of evaluating one document
type EvaluationResult struct {
	DocumentID   string          `json:"documentId,omitempty"`
	Violations   []Violation     `json:"violations"`
	Score        ComplianceScore `json:"score"`
	ElementCount int             `json:"elementCount"`
}

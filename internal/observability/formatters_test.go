package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/brand-compliance/internal/types"
)

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(&types.EvaluationResult{
		DocumentID:   "doc-1",
		ElementCount: 4,
		Score: types.ComplianceScore{
			Total: 72, Visual: 80, Content: 60, Weighted: 72,
			Breakdown: types.ScoreBreakdown{BrandCoverage: 75, DesignCompleteness: 50, ViolationPenalty: 12, CriticalCount: 1, WarningCount: 1},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "COMPLIANCE SCORE")
	assert.Contains(t, output, "doc-1")
	assert.Contains(t, output, " 72 / 100")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "1 critical")
}

func TestPrintScore_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScore(nil)
	assert.Empty(t, buf.String())
}

func TestPrintViolations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintViolations([]types.Violation{
		{RuleID: types.RuleColor, Severity: types.SeverityWarning, ElementID: "headline", Message: "off-palette color"},
		{RuleID: types.RuleLogoSize, Severity: types.SeverityCritical, ElementID: "logo", Message: "logo too small"},
		{RuleID: types.RuleClaims, Severity: types.SeverityWarning, ElementID: "headline", Message: "absolute claim"},
	})
	output := buf.String()

	assert.Contains(t, output, "BRAND VIOLATIONS")
	assert.Contains(t, output, "3 violations on 2 elements")
	assert.Contains(t, output, "✖ logo_size")
	assert.Less(t, strings.Index(output, "headline"), strings.Index(output, "logo too small"))
}

func TestPrintViolations_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintViolations(nil)
	assert.Contains(t, buf.String(), "NO VIOLATIONS FOUND")
}

func TestPrintFixes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFixes([]types.Fix{
		{Title: "Revise wording", ElementID: "body", RecommendedValue: "affordable"},
		{Title: "Use brand font", ElementID: "body", CurrentValue: "Papyrus", RecommendedValue: "Inter", AutoFixable: true},
	})
	output := buf.String()

	assert.Contains(t, output, "2 fixes (1 auto-fixable)")
	assert.Contains(t, output, "Papyrus → Inter")
	assert.Less(t, strings.Index(output, "Use brand font"), strings.Index(output, "Revise wording"))
}

func TestPrintFixes_Truncates(t *testing.T) {
	var buf bytes.Buffer
	fixes := make([]types.Fix, 8)
	for i := range fixes {
		fixes[i] = types.Fix{Title: "Fix", ElementID: "el", RecommendedValue: "v"}
	}

	NewPrinter(&buf).PrintFixes(fixes)

	assert.Contains(t, buf.String(), "... and 3 more fixes")
}

func TestPrintCommands(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCommands([]types.Command{
		{Action: types.ActionUpdateElement, ElementID: "logo", Updates: map[string]any{"width": 100.0}},
	})

	assert.Contains(t, buf.String(), "updateElement logo {width=100}")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

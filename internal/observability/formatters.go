// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/brand-compliance/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintScore outputs the compliance score and its breakdown.
func (p *Printer) PrintScore(result *types.EvaluationResult) {
	if result == nil {
		return
	}
	score := result.Score
	b := score.Breakdown

	var sb strings.Builder
	if result.DocumentID != "" {
		sb.WriteString(fmt.Sprintf("Document: %s\n", result.DocumentID))
	}
	sb.WriteString(fmt.Sprintf("Elements: %d\n\n", result.ElementCount))
	sb.WriteString(fmt.Sprintf("Total:    %3d / 100\n", score.Total))
	sb.WriteString(fmt.Sprintf("Visual:   %3d\n", score.Visual))
	sb.WriteString(fmt.Sprintf("Content:  %3d\n", score.Content))
	sb.WriteString(fmt.Sprintf("Weighted: %3d\n\n", score.Weighted))
	sb.WriteString(fmt.Sprintf("Brand coverage:      %5.1f%%\n", b.BrandCoverage))
	sb.WriteString(fmt.Sprintf("Design completeness: %5.1f%%\n", b.DesignCompleteness))
	sb.WriteString(fmt.Sprintf("Penalty: %d (%d critical, %d warning, %d info)",
		b.ViolationPenalty, b.CriticalCount, b.WarningCount, b.InfoCount))

	p.printBox("COMPLIANCE SCORE", sb.String())
}

func severityIcon(s types.Severity) string {
	switch s {
	case types.SeverityCritical:
		return "✖"
	case types.SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// PrintViolations outputs violations grouped by element.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations []types.Violation) {
	if len(violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	byElement := map[string][]types.Violation{}
	var order []string
	for _, v := range violations {
		if _, seen := byElement[v.ElementID]; !seen {
			order = append(order, v.ElementID)
		}
		byElement[v.ElementID] = append(byElement[v.ElementID], v)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations on %d elements:\n", len(violations), len(order)))
	for _, id := range order {
		sb.WriteString(fmt.Sprintf("\n%s\n", id))
		for _, v := range byElement[id] {
			sb.WriteString(fmt.Sprintf("  %s %s: %s\n", severityIcon(v.Severity), v.RuleID, v.Message))
		}
	}

	p.printBox("BRAND VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFixes outputs the synthesized fixes, auto-fixable ones first.
func (p *Printer) PrintFixes(fixes []types.Fix) {
	if len(fixes) == 0 {
		return
	}
	sorted := make([]types.Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AutoFixable && !sorted[j].AutoFixable
	})

	auto := 0
	for _, f := range fixes {
		if f.AutoFixable {
			auto++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d fixes (%d auto-fixable):\n\n", len(fixes), auto))

	count := min(len(sorted), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := sorted[i]
		mark := "•"
		if f.AutoFixable {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s [%s]\n", mark, f.Title, f.ElementID))
		if f.CurrentValue != "" {
			sb.WriteString(fmt.Sprintf("  %s → %s\n", f.CurrentValue, f.RecommendedValue))
		} else {
			sb.WriteString(fmt.Sprintf("  → %s\n", f.RecommendedValue))
		}
	}
	if len(sorted) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more fixes", len(sorted)-maxItemsToShow))
	}

	p.printBox("SUGGESTED FIXES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCommands outputs the mutation commands produced from fixes.
func (p *Printer) PrintCommands(commands []types.Command) {
	if len(commands) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d commands:\n\n", len(commands)))
	for _, cmd := range commands {
		keys := make([]string, 0, len(cmd.Updates))
		for k := range cmd.Updates {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, cmd.Updates[k]))
		}
		sb.WriteString(fmt.Sprintf("%s %s {%s}\n", cmd.Action, cmd.ElementID, strings.Join(parts, ", ")))
	}

	p.printBox("COMMANDS", strings.TrimSuffix(sb.String(), "\n"))
}

// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/checking"
	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for run summaries
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs a per-section summary of one optimization run.
func (p *Printer) PrintReport(report *types.OptimizationReport) {
	if report == nil || len(report.Sections) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:  %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Mode: %s\n", report.Mode))
	sb.WriteString("\n")

	for _, name := range types.SectionNames() {
		result, ok := report.Sections[name]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-16s %s\n", name, sectionStatus(result)))
	}

	if failed := report.FailedSections(); len(failed) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Kept original content: %s\n", strings.Join(failed, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\nTotal polish calls: %d", report.TotalIterations()))

	p.printBox("OPTIMIZATION REPORT", sb.String())
}

// sectionStatus renders one section's outcome as a short status line.
func sectionStatus(result types.OptimizationResult) string {
	switch {
	case result.Failed():
		return "⚠ kept original"
	case result.Iterations == 0:
		return "- skipped (empty)"
	case result.Score > 0:
		return fmt.Sprintf("✓ optimized (score %d, %d pass(es))", result.Score, result.Iterations)
	default:
		return fmt.Sprintf("✓ optimized (%d pass(es))", result.Iterations)
	}
}

// PrintSectionFeedback outputs the critic's feedback per section, for runs
// where feedback drove a rewrite.
func (p *Printer) PrintSectionFeedback(report *types.OptimizationReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	printed := 0
	for _, name := range types.SectionNames() {
		result, ok := report.Sections[name]
		if !ok || result.Feedback == "" || result.Failed() {
			continue
		}
		if printed > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(name + ":\n")
		for _, line := range strings.Split(result.Feedback, "\n") {
			sb.WriteString("  " + line + "\n")
		}
		printed++
		if printed == maxItemsToShow {
			break
		}
	}
	if printed == 0 {
		return
	}

	p.printBox("CRITIC FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCheckResult outputs the quality check verdict.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintCheckResult(result *checking.CheckResult) {
	if result == nil {
		return
	}

	if result.Approved && len(result.SuggestedChanges) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ QUALITY CHECK PASSED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	verdict := "NOT APPROVED"
	if result.Approved {
		verdict = "APPROVED"
	}
	sb.WriteString(fmt.Sprintf("Verdict:         %s\n", verdict))
	sb.WriteString(fmt.Sprintf("Estimated pages: %.1f\n", result.EstimatedPages))

	if result.Feedback != "" {
		sb.WriteString("\n")
		sb.WriteString(result.Feedback + "\n")
	}

	if len(result.SuggestedChanges) > 0 {
		sb.WriteString("\nSuggested changes:\n")
		count := min(len(result.SuggestedChanges), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.SuggestedChanges[i]))
		}
		if len(result.SuggestedChanges) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.SuggestedChanges)-maxItemsToShow))
		}
	}

	p.printBox("QUALITY CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

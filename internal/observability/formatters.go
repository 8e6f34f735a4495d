// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are
// wrapped at word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs the score breakdown and extracted signals for one document.
func (p *Printer) PrintAnalysis(fileName string, result *analysis.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	b := result.Breakdown
	sb.WriteString(fmt.Sprintf("Match score:  %.2f / 100\n", result.MatchScore))
	sb.WriteString(fmt.Sprintf("  skill %.2f  experience %.2f  education %.2f\n", b.Skill, b.Experience, b.Education))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Experience:   %s\n", result.ExperienceSummary))
	education := result.EducationSummary
	if education == "" {
		education = "(none detected)"
	}
	sb.WriteString(fmt.Sprintf("Education:    %s\n", education))

	if len(result.TopSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Top skills:   %s\n", strings.Join(result.TopSkills, ", ")))
	}

	entries := result.SkillMatches.Entries()
	if len(entries) > 0 {
		sb.WriteString("\nSkill mentions:\n")
		count := min(len(entries), maxItemsToShow)
		for _, e := range entries[:count] {
			sb.WriteString(fmt.Sprintf("  • %-20s %d\n", e.Skill, e.Count))
		}
		if len(entries) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(entries)-maxItemsToShow))
		}
	} else {
		sb.WriteString("\nNo catalog skills found.\n")
	}

	title := "ANALYSIS"
	if fileName != "" {
		title += ": " + fileName
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the improvement suggestions for a result.
func (p *Printer) PrintSuggestions(result *analysis.Result) {
	if result == nil || result.Suggestions == "" {
		return
	}
	p.printBox("SUGGESTIONS", result.Suggestions)
}

// PrintJobDescription outputs where the job description came from.
func (p *Printer) PrintJobDescription(meta *ingestion.Metadata) {
	var sb strings.Builder
	if meta == nil {
		sb.WriteString("No job description provided; skill score is 0.")
		p.printBox("JOB DESCRIPTION", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Source:    %s\n", meta.Kind))
	if meta.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", meta.Location))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform:  %s\n", meta.Platform))
	}
	sb.WriteString(fmt.Sprintf("Length:    %d chars\n", meta.Chars))
	sb.WriteString(fmt.Sprintf("Hash:      %s", shortHash(meta.Hash)))

	p.printBox("JOB DESCRIPTION", sb.String())
}

// BatchRow is one line of a batch summary.
type BatchRow struct {
	FileName string
	Score    float64
	Err      error
}

// PrintBatchSummary outputs one line per analyzed document, failures included.
func (p *Printer) PrintBatchSummary(rows []BatchRow) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, row := range rows {
		if row.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", row.FileName, row.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %-40s %6.2f\n", truncate(row.FileName, 40), row.Score))
	}
	sb.WriteString(fmt.Sprintf("\n%d analyzed, %d failed", len(rows)-failed, failed))

	p.printBox("BATCH SUMMARY", sb.String())
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// truncate shortens s to at most width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// wrap splits line into chunks of at most width runes, breaking at spaces when
// possible. Indentation of the first chunk is kept on continuation lines.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	if len(indent) > width/2 {
		indent = ""
	}
	var out []string
	current := indent
	for _, word := range strings.Fields(line) {
		switch {
		case strings.TrimSpace(current) == "":
			current = indent + word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			current = indent + word
		}
		for utf8.RuneCountInString(current) > width {
			runes := []rune(current)
			out = append(out, string(runes[:width]))
			current = indent + string(runes[width:])
		}
	}
	if strings.TrimSpace(current) != "" {
		out = append(out, current)
	}
	return out
}

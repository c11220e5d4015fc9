// Package observability provides formatted terminal output for the CLI and
// OpenTelemetry tracing setup.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/lifeofword/internal/schedule"
	"github.com/jonathan/lifeofword/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxSegmentsToShow is the number of segments listed in a plan summary
	maxSegmentsToShow = 8
)

// Printer handles formatted output for the CLI
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintPlan outputs a summary of a reading plan.
func (p *Printer) PrintPlan(plan *types.ReadingPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Book:      %s (%s)\n", plan.BookName, plan.BookKey))
	sb.WriteString(fmt.Sprintf("Verses:    %d\n", plan.TotalVerses))
	sb.WriteString(fmt.Sprintf("Chunk:     %d verses\n", plan.MaxVerses))
	sb.WriteString(fmt.Sprintf("Segments:  %d\n", len(plan.Segments)))

	if len(plan.Segments) > 0 {
		sb.WriteString("\n")
		count := min(len(plan.Segments), maxSegmentsToShow)
		for i := 0; i < count; i++ {
			seg := plan.Segments[i]
			sb.WriteString(fmt.Sprintf("  %2d. %s - %s (%d)\n", i+1, seg.Start, seg.End, seg.Length))
		}
		if len(plan.Segments) > maxSegmentsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plan.Segments)-maxSegmentsToShow))
		}
	}

	p.printBox("Reading Plan: "+plan.Reference, sb.String())
}

// PrintSegment outputs one merged segment: each verse's translated text
// followed by its local text, under chapter headings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSegment(result *types.SegmentResult) {
	if result == nil {
		return
	}

	fmt.Fprintf(p.out, "== %s (%s) ==\n", result.Title, result.Query)
	for _, item := range result.Items {
		switch v := item.(type) {
		case types.Chapter:
			fmt.Fprintf(p.out, "\n[%s]\n", v.Label)
		case types.MergedVerse:
			marker := ""
			if v.Fallback {
				marker = " *"
			}
			fmt.Fprintf(p.out, "%4s%s  %s\n", v.Verse.Ref, marker, v.Verse.Text)
			if v.LocalText != "" {
				fmt.Fprintf(p.out, "%4s  %s\n", "", v.LocalText)
			}
		}
	}
	fmt.Fprintln(p.out)
}

// PrintSchedule outputs one box per week.
func (p *Printer) PrintSchedule(weeks []schedule.Week) {
	for _, w := range weeks {
		var sb strings.Builder
		for i, reading := range w.Readings {
			day := ""
			if i < len(schedule.Weekdays) {
				day = schedule.Weekdays[i]
			}
			sb.WriteString(fmt.Sprintf("%-10s %s\n", day, reading))
		}
		p.printBox(w.Name, sb.String())
	}
}

// Package observability provides logging setup and formatted run summaries.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/skillra/hh-harvester/internal/crawling"
	"github.com/skillra/hh-harvester/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs the end-of-run statistics of a crawl.
func (p *Printer) PrintRunSummary(stats *crawling.RunStats, output string) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", stats.RunID))
	sb.WriteString(fmt.Sprintf("Output:     %s\n", output))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", stats.Duration.Round(time.Second)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Rows:       %d\n", stats.Rows))
	sb.WriteString(fmt.Sprintf("Accepted:   %d (discarded %d)\n", stats.Accepted, stats.Discarded))
	sb.WriteString(fmt.Sprintf("Postings:   %d fetched, %d failed\n", stats.Postings, stats.PostingsFailed))
	sb.WriteString(fmt.Sprintf("Pages:      %d fetched, %d failed\n", stats.Pages, stats.PagesFailed))
	sb.WriteString(fmt.Sprintf("Shards:     %d of %d retired\n", stats.ShardsRetired, stats.Shards))
	sb.WriteString(fmt.Sprintf("Employers:  %d pages\n", stats.EmployersFetched))
	if stats.TargetReached {
		sb.WriteString("\nTarget row count reached")
	}

	p.printBox("CRAWL SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecord outputs a human-readable digest of one derived record.
func (p *Printer) PrintRecord(rec *types.VacancyRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Vacancy:  %d\n", rec.VacancyID))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", types.Deref(rec.Title)))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", types.Deref(rec.Company)))
	sb.WriteString(fmt.Sprintf("Grade:    %s\n", rec.GradeFinal))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", rec.PrimaryRole))
	sb.WriteString(fmt.Sprintf("Format:   %s\n", rec.WorkMode))
	if rec.SalaryMidRUB != nil {
		sb.WriteString(fmt.Sprintf("Salary:   %.0f RUB (mid)\n", *rec.SalaryMidRUB))
	}

	var hits []string
	for name, v := range rec.Flags {
		if v {
			hits = append(hits, name)
		}
	}
	sort.Strings(hits)
	if len(hits) > 0 {
		sb.WriteString(fmt.Sprintf("\nFlags set: %d\n", len(hits)))
		count := min(len(hits), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", hits[i]))
		}
		if len(hits) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(hits)-maxItemsToShow))
		}
	}

	p.printBox("DERIVED VACANCY", strings.TrimSuffix(sb.String(), "\n"))
}

// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobhunter/internal/fetch"
	"github.com/jonathan/jobhunter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of lines shown per rich-text field
	maxItemsToShow = 5
	// negotiable is printed for jobs without a salary
	negotiable = "Negotiable"
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobList outputs one line block per job. exhausted marks the end of the list.
func (p *Printer) PrintJobList(title string, jobs []types.JobSummary, exhausted bool) {
	var sb strings.Builder

	if len(jobs) == 0 {
		sb.WriteString("No jobs found.")
	}
	for i, job := range jobs {
		marker := ""
		if job.IsPremium {
			marker = " ★"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s%s\n", job.ID, job.Title, marker))
		if company := job.CompanyName(); company != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", company))
		}
		sb.WriteString(fmt.Sprintf("    Salary: %s\n", job.SalaryText(negotiable)))
		if cities := job.Cities(); len(cities) > 0 {
			sb.WriteString(fmt.Sprintf("    Location: %s\n", strings.Join(cities, ", ")))
		}
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > 0 {
		if exhausted {
			sb.WriteString(fmt.Sprintf("\n%d jobs, end of list", len(jobs)))
		} else {
			sb.WriteString(fmt.Sprintf("\n%d jobs, more available", len(jobs)))
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompareIDs outputs the stored comparison list.
func (p *Printer) PrintCompareIDs(ids []int64) {
	var sb strings.Builder
	if len(ids) == 0 {
		sb.WriteString("Comparison list is empty.")
	} else {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf("#%d", id)
		}
		sb.WriteString(fmt.Sprintf("%d selected: %s", len(ids), strings.Join(parts, ", ")))
	}
	p.printBox("COMPARISON LIST", sb.String())
}

// PrintComparison outputs each job record with its rich-text fields converted to plain text.
func (p *Printer) PrintComparison(details []types.JobDetail) {
	if len(details) == 0 {
		return
	}

	var sb strings.Builder
	for i, job := range details {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", job.ID, job.Title))
		if company := job.CompanyName(); company != "" {
			sb.WriteString(fmt.Sprintf("    Company:    %s\n", company))
		}
		sb.WriteString(fmt.Sprintf("    Salary:     %s\n", job.SalaryText(negotiable)))
		if cities := job.Cities(); len(cities) > 0 {
			sb.WriteString(fmt.Sprintf("    Location:   %s\n", strings.Join(cities, ", ")))
		}
		if job.Category != nil {
			sb.WriteString(fmt.Sprintf("    Category:   %s\n", job.Category.Name))
		}
		if job.YearsOfExperience != nil {
			sb.WriteString(fmt.Sprintf("    Experience: %d years\n", *job.YearsOfExperience))
		}
		if job.Deadline != "" {
			sb.WriteString(fmt.Sprintf("    Deadline:   %s\n", job.Deadline))
		}
		writeRichText(&sb, "Requirements", job.Requirements)
		writeRichText(&sb, "Benefits", job.Benefits)
		if i < len(details)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("COMPARING %d JOBS", len(details)), strings.TrimSuffix(sb.String(), "\n"))
}

func writeRichText(sb *strings.Builder, label, html string) {
	text, err := fetch.HTMLToText(html)
	if err != nil || text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	sb.WriteString(fmt.Sprintf("    %s:\n", label))
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("      %s\n", lines[i]))
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("      ... and %d more\n", len(lines)-maxItemsToShow))
	}
}

// PrintFilterOptions outputs the selectable categories and locations.
func (p *Printer) PrintFilterOptions(opts *types.FilterOptions) {
	if opts == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Categories:\n")
	for _, c := range opts.Categories {
		sb.WriteString(fmt.Sprintf("  %3d  %s\n", c.ID, c.Name))
	}
	sb.WriteString("\nLocations:\n")
	for _, l := range opts.Locations {
		sb.WriteString(fmt.Sprintf("  %3d  %s\n", l.ID, l.City))
	}

	p.printBox("FILTER OPTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatsOverview outputs the recruiter dashboard totals and the per-period breakdown.
func (p *Printer) PrintStatsOverview(period types.StatsPeriod, report *types.StatsReport) {
	if report == nil {
		return
	}

	overview := report.Overview()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total views:    %d\n", overview.TotalViews))
	sb.WriteString(fmt.Sprintf("Total applies:  %d\n", overview.TotalApplies))
	sb.WriteString(fmt.Sprintf("Average rating: %.1f\n", overview.AvgRating))

	if len(report.ChartData) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%-12s %8s %8s %7s\n", "Period", "Views", "Applies", "Rating"))
		for _, point := range report.ChartData {
			views := 0
			if point.TotalViews != nil {
				views = *point.TotalViews
			}
			rating := "-"
			if point.AvgRating != nil && *point.AvgRating > 0 {
				rating = fmt.Sprintf("%.1f", *point.AvgRating)
			}
			sb.WriteString(fmt.Sprintf("%-12s %8d %8d %7s\n", point.PeriodDate, views, point.TotalApplies, rating))
		}
	}

	p.printBox(fmt.Sprintf("RECRUITER STATS (%s)", strings.ToUpper(string(period))), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUser outputs the signed-in user's profile.
func (p *Printer) PrintUser(user *types.User) {
	if user == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", user.DisplayName()))
	sb.WriteString(fmt.Sprintf("Username: %s\n", user.Username))
	if user.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", user.Email))
	}
	sb.WriteString(fmt.Sprintf("Role:     %s", user.ListRole()))
	if user.Recruiter != nil && user.Recruiter.IsVerified {
		sb.WriteString(" (verified)")
	}

	p.printBox("CURRENT USER", sb.String())
}

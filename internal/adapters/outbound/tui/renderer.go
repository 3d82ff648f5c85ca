package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/allyaudit/ally/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(60)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	criticalStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	seriousStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	moderateStyle = lipgloss.NewStyle().Foreground(warning)
	minorStyle    = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 56))
)

// RenderReport formats the audit outcome for the terminal.
func RenderReport(r *domain.Report) string {
	var b strings.Builder

	tier := domain.Tier(r.Summary.Score)
	title := headerStyle.Render("ally")
	subtitle := dimStyle.Render("Accessibility Score")
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(scoreColor(r.Summary.Score)).
		Render(fmt.Sprintf("%d / 100  %s", r.Summary.Score, tier))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %s\n",
		titleStyle.Render(fmt.Sprintf("%d files", r.TotalFiles)),
		dimStyle.Render(fmt.Sprintf("· %d violations", r.Summary.TotalViolations)))

	if r.Summary.TotalViolations == 0 {
		b.WriteString("\n  " + passStyle.Render("No violations found.") + "\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, sev := range []domain.Severity{
		domain.SeverityCritical, domain.SeveritySerious,
		domain.SeverityModerate, domain.SeverityMinor,
	} {
		if n := r.Summary.BySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "    %s %d\n", severityTag(sev), n)
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")

	for _, page := range r.Results {
		if len(page.Violations) == 0 {
			continue
		}
		b.WriteString("  " + fileStyle.Render(page.Source) + "\n")
		for _, v := range page.Violations {
			fmt.Fprintf(&b, "    %s %s %s\n",
				severityTag(v.Impact),
				titleStyle.Render(v.ID),
				dimStyle.Render(fmt.Sprintf("×%d", len(v.Nodes))))
			fmt.Fprintf(&b, "         %s\n", dimStyle.Render(v.Help))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHistory formats past score entries with per-entry deltas.
func RenderHistory(entries []domain.ScoreEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No score history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Score History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.Score)).
			Render(fmt.Sprintf("%d/100", e.Score))

		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			scoreStyled,
			dimStyle.Render(fmt.Sprintf("%d violations", e.Violations)),
		)

		if i > 0 {
			diff := e.Score - entries[i-1].Score
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderFixSummary formats the outcome of a fix run.
func RenderFixSummary(applied, skipped int, before, after int, dryRun bool) string {
	var b strings.Builder
	b.WriteString("\n")
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render("Fixes"), dimStyle.Render(fmt.Sprintf("%s %d, skipped %d (below threshold or no pattern)", verb, applied, skipped)))
	if !dryRun && applied > 0 {
		fmt.Fprintf(&b, "  Score %s → %s\n",
			lipgloss.NewStyle().Foreground(scoreColor(before)).Render(fmt.Sprintf("%d", before)),
			lipgloss.NewStyle().Foreground(scoreColor(after)).Render(fmt.Sprintf("%d", after)))
	}
	return b.String()
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return criticalStyle.Render("crit ")
	case domain.SeveritySerious:
		return seriousStyle.Render("serio")
	case domain.SeverityModerate:
		return moderateStyle.Render("moder")
	default:
		return minorStyle.Render("minor")
	}
}

// scoreColor follows the shared display tiers.
func scoreColor(score int) lipgloss.Color {
	switch domain.Tier(score) {
	case "excellent":
		return success
	case "good":
		return lipgloss.Color("#A3E635") // lime
	case "fair":
		return warning
	default:
		return danger
	}
}

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/allyaudit/ally/internal/domain"
)

// ToMarkdown renders the summary plus a per-file violation listing.
func ToMarkdown(r *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Accessibility report\n\n")
	fmt.Fprintf(&b, "%s **Score: %d / 100** (%s)\n\n", domain.TierEmoji(r.Summary.Score), r.Summary.Score, domain.Tier(r.Summary.Score))
	fmt.Fprintf(&b, "- Scanned: %s\n", r.ScanDate.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Files: %d\n", r.TotalFiles)
	fmt.Fprintf(&b, "- Violations: %d\n", r.Summary.TotalViolations)
	if r.CommitHash != "" {
		fmt.Fprintf(&b, "- Commit: %s\n", shortHash(r.CommitHash))
	}

	if r.Summary.TotalViolations > 0 {
		b.WriteString("\n## By severity\n\n")
		b.WriteString("| Severity | Count |\n| --- | --- |\n")
		for _, sev := range []domain.Severity{
			domain.SeverityCritical, domain.SeveritySerious,
			domain.SeverityModerate, domain.SeverityMinor,
		} {
			if n := r.Summary.BySeverity[sev]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", sev, n)
			}
		}
	}

	if len(r.Summary.TopIssues) > 0 {
		b.WriteString("\n## Top issues\n\n")
		b.WriteString("| Rule | Count | Impact | Description |\n| --- | --- | --- | --- |\n")
		for _, issue := range r.Summary.TopIssues {
			fmt.Fprintf(&b, "| `%s` | %d | %s | %s |\n",
				issue.ID, issue.Count, issue.Impact, mdEscape(issue.Help))
		}
	}

	for _, page := range r.Results {
		if len(page.Violations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", page.Source)
		for _, v := range page.Violations {
			fmt.Fprintf(&b, "### `%s` — %s (%s)\n\n", v.ID, mdEscape(v.Help), v.Impact)
			if v.HelpURL != "" {
				fmt.Fprintf(&b, "[Learn more](%s)\n\n", v.HelpURL)
			}
			for _, n := range v.Nodes {
				if sel := n.Selector(); sel != "" {
					fmt.Fprintf(&b, "- `%s`\n", sel)
				}
				if n.HTML != "" {
					fmt.Fprintf(&b, "  ```html\n  %s\n  ```\n", n.HTML)
				}
			}
			b.WriteString("\n")
		}
	}

	if r.Summary.TotalViolations == 0 {
		b.WriteString("\n_No violations found._\n")
	}

	return b.String()
}

func mdEscape(value string) string {
	value = strings.ReplaceAll(value, "\n", "<br>")
	value = strings.ReplaceAll(value, "|", "\\|")
	return value
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/allyaudit/ally/internal/domain"
)

// tierColor maps the shared score tiers onto the colors used in the HTML
// report. Thresholds live in domain.Tier so every surface agrees.
func tierColor(score int) string {
	switch domain.Tier(score) {
	case "excellent":
		return "#22c55e"
	case "good":
		return "#eab308"
	case "fair":
		return "#f97316"
	default:
		return "#ef4444"
	}
}

// ToHTML renders a standalone report page.
func ToHTML(r *domain.Report) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Accessibility report</title>\n<style>\n")
	b.WriteString(`body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:60rem;color:#1f2937}
.score{font-size:3rem;font-weight:700}
.badge{display:inline-block;padding:.2rem .6rem;border-radius:.4rem;color:#fff;font-size:.9rem}
table{border-collapse:collapse;margin:1rem 0}
td,th{border:1px solid #d1d5db;padding:.4rem .8rem;text-align:left}
code,pre{background:#f3f4f6;border-radius:.25rem;padding:.1rem .3rem}
pre{padding:.6rem;overflow-x:auto}
.impact-critical{color:#dc2626;font-weight:600}
.impact-serious{color:#ea580c;font-weight:600}
.impact-moderate{color:#ca8a04}
.impact-minor{color:#6b7280}
`)
	b.WriteString("</style>\n</head>\n<body>\n")

	color := tierColor(r.Summary.Score)
	fmt.Fprintf(&b, "<h1>Accessibility report</h1>\n")
	fmt.Fprintf(&b, "<div class=\"score\" style=\"color:%s\">%d / 100</div>\n", color, r.Summary.Score)
	fmt.Fprintf(&b, "<p><span class=\"badge\" style=\"background:%s\">%s</span></p>\n", color, domain.Tier(r.Summary.Score))
	fmt.Fprintf(&b, "<p>Scanned %s · %d files · %d violations</p>\n",
		r.ScanDate.Format(time.RFC1123), r.TotalFiles, r.Summary.TotalViolations)

	if r.Summary.TotalViolations > 0 {
		b.WriteString("<h2>By severity</h2>\n<table><tr><th>Severity</th><th>Count</th></tr>\n")
		for _, sev := range []domain.Severity{
			domain.SeverityCritical, domain.SeveritySerious,
			domain.SeverityModerate, domain.SeverityMinor,
		} {
			if n := r.Summary.BySeverity[sev]; n > 0 {
				fmt.Fprintf(&b, "<tr><td class=\"impact-%s\">%s</td><td>%d</td></tr>\n", sev, sev, n)
			}
		}
		b.WriteString("</table>\n")
	} else {
		b.WriteString("<p>No violations found.</p>\n")
	}

	for _, page := range r.Results {
		if len(page.Violations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(page.Source))
		for _, v := range page.Violations {
			fmt.Fprintf(&b, "<h3><code>%s</code> <span class=\"impact-%s\">%s</span></h3>\n",
				html.EscapeString(v.ID), v.Impact, v.Impact)
			fmt.Fprintf(&b, "<p>%s", html.EscapeString(v.Help))
			if v.HelpURL != "" {
				fmt.Fprintf(&b, " — <a href=\"%s\">learn more</a>", html.EscapeString(v.HelpURL))
			}
			b.WriteString("</p>\n")
			for _, n := range v.Nodes {
				if sel := n.Selector(); sel != "" {
					fmt.Fprintf(&b, "<p><code>%s</code></p>\n", html.EscapeString(sel))
				}
				if n.HTML != "" {
					fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(n.HTML))
				}
			}
		}
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

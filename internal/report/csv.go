package report

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/allyaudit/ally/internal/domain"
)

var csvHeader = []string{
	"file", "violation_id", "impact", "description", "selector", "wcag_tags", "help_url",
}

// ToCSV renders one row per affected node. Fields containing commas, quotes
// or newlines come out quoted with internal quotes doubled (encoding/csv
// implements RFC 4180); clean fields stay unquoted.
func ToCSV(r *domain.Report) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}

	for _, page := range r.Results {
		for _, v := range page.Violations {
			for _, n := range v.Nodes {
				row := []string{
					page.Source,
					v.ID,
					string(v.Impact),
					v.Help,
					n.Selector(),
					wcagTags(v.Tags),
					v.HelpURL,
				}
				if err := w.Write(row); err != nil {
					return "", fmt.Errorf("writing CSV row: %w", err)
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// wcagTags keeps only the WCAG tag strings and joins them for one cell.
func wcagTags(tags []string) string {
	var kept []string
	for _, t := range tags {
		if strings.HasPrefix(t, "wcag") {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "; ")
}

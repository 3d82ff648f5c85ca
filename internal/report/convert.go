// Package report converts an audit report into its output formats. Every
// converter is a pure function over the report; none of them mutate it or
// touch the filesystem.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/allyaudit/ally/internal/domain"
)

// Convert renders a report in the requested format.
func Convert(r *domain.Report, format domain.Format) (string, error) {
	switch format {
	case domain.FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling report: %w", err)
		}
		return string(data) + "\n", nil
	case domain.FormatSARIF:
		return ToSARIF(r)
	case domain.FormatJUnit:
		return ToJUnit(r)
	case domain.FormatCSV:
		return ToCSV(r)
	case domain.FormatMarkdown:
		return ToMarkdown(r), nil
	case domain.FormatHTML:
		return ToHTML(r), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

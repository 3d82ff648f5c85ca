package report_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allyaudit/ally/internal/domain"
	"github.com/allyaudit/ally/internal/report"
)

// fixtureReport covers the shapes the converters must handle: a multi-node
// violation, a repeated rule across files, fields needing escaping, and one
// clean file.
func fixtureReport() *domain.Report {
	results := []domain.PageResult{
		{
			Source: "pages/index.html",
			Violations: []domain.Violation{
				{
					ID:      "image-alt",
					Impact:  domain.SeverityCritical,
					Help:    "Images must have alternate text",
					HelpURL: "https://dequeuniversity.com/rules/axe/4.10/image-alt",
					Tags:    []string{"cat.text-alternatives", "wcag2a", "wcag111"},
					Nodes: []domain.Node{
						{HTML: `<img src="a.png">`, Target: []string{"body", "img:nth-child(1)"}},
						{HTML: `<img src="b.png">`, Target: []string{"body", "img:nth-child(2)"}},
					},
				},
				{
					ID:     "html-has-lang",
					Impact: domain.SeveritySerious,
					Help:   `<html> element must have a lang attribute, really`,
					Nodes: []domain.Node{
						{HTML: "<html>", Target: []string{"html"}, FailureSummary: "Fix: add lang"},
					},
				},
			},
		},
		{
			Source: "pages/about.html",
			Violations: []domain.Violation{
				{
					ID:     "image-alt",
					Impact: domain.SeverityCritical,
					Help:   "Images must have alternate text",
					Tags:   []string{"wcag2a"},
					Nodes:  []domain.Node{{HTML: `<img src="c.png">`, Target: []string{"img"}}},
				},
				{
					ID:     "region",
					Impact: domain.SeverityModerate,
					Help:   "Content, with commas, should be in landmarks",
					Nodes:  []domain.Node{{HTML: "<div>x</div>", Target: []string{"div"}}},
				},
			},
		},
		{Source: "pages/clean.html"},
	}

	r := domain.NewReport(results)
	r.ScanDate = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	r.CommitHash = "0123456789abcdef0123"
	return r
}

func TestConvertJSONRoundTrips(t *testing.T) {
	out, err := report.Convert(fixtureReport(), domain.FormatJSON)
	require.NoError(t, err)

	var got domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.ReportVersion, got.Version)
	assert.Equal(t, 3, got.TotalFiles)
	assert.Equal(t, 4, got.Summary.TotalViolations)
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	_, err := report.Convert(fixtureReport(), domain.Format("pdf"))
	require.Error(t, err)
}

func TestToSARIF(t *testing.T) {
	out, err := report.ToSARIF(fixtureReport())
	require.NoError(t, err)

	var doc struct {
		Schema  string `json:"$schema"`
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Message   struct {
					Text string `json:"text"`
				} `json:"message"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	assert.Contains(t, doc.Schema, "sarif-schema-2.1.0")
	require.Len(t, doc.Runs, 1)

	run := doc.Runs[0]
	assert.Equal(t, "ally", run.Tool.Driver.Name)

	// One rule per distinct violation ID, not per occurrence.
	var ruleIDs []string
	for _, r := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, r.ID)
	}
	assert.Equal(t, []string{"image-alt", "html-has-lang", "region"}, ruleIDs)

	// One result per affected node.
	require.Len(t, run.Results, 5)

	for _, res := range run.Results {
		assert.Equal(t, res.RuleID, run.Tool.Driver.Rules[res.RuleIndex].ID, "ruleIndex must point at its rule")
	}

	levels := map[string]string{}
	for _, res := range run.Results {
		levels[res.RuleID] = res.Level
	}
	assert.Equal(t, "error", levels["image-alt"])
	assert.Equal(t, "error", levels["html-has-lang"])
	assert.Equal(t, "warning", levels["region"])
}

func TestToSARIFPrefersFailureSummary(t *testing.T) {
	out, err := report.ToSARIF(fixtureReport())
	require.NoError(t, err)
	assert.Contains(t, out, "Fix: add lang")
}

func TestToJUnit(t *testing.T) {
	out, err := report.ToJUnit(fixtureReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `tests="5"`)
	assert.Contains(t, out, `failures="5"`)
	assert.Contains(t, out, `name="pages/index.html"`)
	assert.Contains(t, out, "image-alt (body &gt; img:nth-child(1))")

	// Markup in help text must come out entity-escaped.
	assert.NotContains(t, out, `message="<html>`)
	assert.Contains(t, out, "&lt;html&gt;")
}

func TestToCSV(t *testing.T) {
	out, err := report.ToCSV(fixtureReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)

	// Header plus one row per affected node.
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"file", "violation_id", "impact", "description", "selector", "wcag_tags", "help_url"}, rows[0])
	assert.Equal(t, "pages/index.html", rows[1][0])
	assert.Equal(t, "image-alt", rows[1][1])
	assert.Equal(t, "critical", rows[1][2])
	assert.Equal(t, "body > img:nth-child(1)", rows[1][4])
	assert.Equal(t, "wcag2a; wcag111", rows[1][5], "non-wcag tags are dropped")

	// Fields with commas survive RFC 4180 quoting.
	assert.Equal(t, "Content, with commas, should be in landmarks", rows[5][3])
	assert.Contains(t, out, `"Content, with commas, should be in landmarks"`)
}

func TestToMarkdown(t *testing.T) {
	r := fixtureReport()
	out := report.ToMarkdown(r)

	assert.Contains(t, out, "# Accessibility report")
	assert.Contains(t, out, "**Score: 55 / 100**") // 100 - 2*15 - 10 - 5
	assert.Contains(t, out, domain.TierEmoji(55))
	assert.Contains(t, out, "| critical | 2 |")
	assert.Contains(t, out, "| `image-alt` | 2 |")
	assert.Contains(t, out, "## pages/index.html")
	assert.Contains(t, out, "```html")
	assert.Contains(t, out, "- Commit: 0123456")
	assert.NotContains(t, out, "pages/clean.html", "clean files are omitted from the listing")
}

func TestToMarkdownNoViolations(t *testing.T) {
	out := report.ToMarkdown(domain.NewReport([]domain.PageResult{{Source: "a.html"}}))
	assert.Contains(t, out, "**Score: 100 / 100**")
	assert.Contains(t, out, "_No violations found._")
	assert.NotContains(t, out, "## By severity")
}

func TestToHTMLEscapesFragments(t *testing.T) {
	out := report.ToHTML(fixtureReport())

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "55 / 100")
	// Offending markup renders as text, not as live elements.
	assert.Contains(t, out, "&lt;img src=&#34;a.png&#34;&gt;")
	assert.NotContains(t, out, `<pre><img`)
	assert.Contains(t, out, "&lt;html&gt; element must have a lang attribute")
}

func TestToHTMLNoViolations(t *testing.T) {
	out := report.ToHTML(domain.NewReport(nil))
	assert.Contains(t, out, "No violations found.")
	assert.Contains(t, out, "100 / 100")
}

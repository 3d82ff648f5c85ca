package domain

import "time"

// ReportVersion is the interchange format version written into every report.
const ReportVersion = "1.0"

// Severity classifies how seriously a violation affects users, ordered
// critical > serious > moderate > minor.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// SeverityRank returns a numeric rank for sorting severities (lower is more
// severe). Unknown severities rank below minor.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeveritySerious:
		return 1
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 3
	default:
		return 4
	}
}

// Violation is a single accessibility rule failure reported by the rule
// engine, with one or more affected DOM nodes. Violations are read-only once
// produced by the engine.
type Violation struct {
	ID      string   `json:"id"`
	Impact  Severity `json:"impact"`
	Help    string   `json:"help"`
	HelpURL string   `json:"help_url,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Nodes   []Node   `json:"nodes"`
}

// Node is one offending DOM node inside a violation.
type Node struct {
	HTML           string   `json:"html"`
	Target         []string `json:"target,omitempty"`
	FailureSummary string   `json:"failure_summary,omitempty"`
}

// Selector joins the node's target path into a single selector string.
func (n Node) Selector() string {
	out := ""
	for i, t := range n.Target {
		if i > 0 {
			out += " > "
		}
		out += t
	}
	return out
}

// PageResult holds the outcome of auditing one page or file. A rescan
// produces a new PageResult rather than mutating an old one.
type PageResult struct {
	Source     string      `json:"source"`
	ScannedAt  time.Time   `json:"scanned_at"`
	Violations []Violation `json:"violations"`
	Passes     int         `json:"passes"`
	Incomplete int         `json:"incomplete"`
}

// TopIssue is one entry of the ranked top-issues list in a summary.
type TopIssue struct {
	ID     string   `json:"id"`
	Count  int      `json:"count"`
	Help   string   `json:"help"`
	Impact Severity `json:"impact"`
}

// Summary is the aggregated view over all page results. The sum of
// BySeverity always equals TotalViolations.
type Summary struct {
	TotalViolations int              `json:"total_violations"`
	BySeverity      map[Severity]int `json:"by_severity"`
	Score           int              `json:"score"`
	TopIssues       []TopIssue       `json:"top_issues,omitempty"`
}

// Report is the persisted interchange artifact between the scan phase and
// every downstream command (report, explain, fix).
type Report struct {
	Version    string       `json:"version"`
	ScanDate   time.Time    `json:"scan_date"`
	TotalFiles int          `json:"total_files"`
	Results    []PageResult `json:"results"`
	Summary    Summary      `json:"summary"`
	CommitHash string       `json:"commit_hash,omitempty"`
}

// Tier buckets a score for display. The thresholds are shared by the
// terminal UI, the badge URL, and the Markdown/HTML converters so every
// surface agrees on what "good" looks like.
func Tier(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}

// TierEmoji returns the visual indicator used in Markdown output.
func TierEmoji(score int) string {
	switch Tier(score) {
	case "excellent":
		return "🟢"
	case "good":
		return "🟡"
	case "fair":
		return "🟠"
	default:
		return "🔴"
	}
}

// BadgeColor maps a score to a shields.io badge color.
func BadgeColor(score int) string {
	switch Tier(score) {
	case "excellent":
		return "brightgreen"
	case "good":
		return "yellow"
	case "fair":
		return "orange"
	default:
		return "critical"
	}
}

// ScoreEntry is one line of persisted score history.
type ScoreEntry struct {
	Timestamp  string `json:"timestamp"`
	CommitHash string `json:"commit_hash,omitempty"`
	Score      int    `json:"score"`
	Files      int    `json:"files"`
	Violations int    `json:"violations"`
}

package domain

import "time"

// Severity weights subtracted from 100 per violation instance. The exact
// numbers are tool constants: a page with one critical violation scores 85.
const (
	weightCritical = 15
	weightSerious  = 10
	weightModerate = 5
	weightMinor    = 2
)

// maxTopIssues caps the ranked top-issues list in a summary.
const maxTopIssues = 10

func severityWeight(s Severity) int {
	switch s {
	case SeverityCritical:
		return weightCritical
	case SeveritySerious:
		return weightSerious
	case SeverityModerate:
		return weightModerate
	case SeverityMinor:
		return weightMinor
	default:
		return weightMinor
	}
}

// CalculateScore reduces a set of page results to a single 0-100 score.
// Every violation instance subtracts its severity weight from 100; the
// result is clamped at 0. Zero violations is exactly 100.
func CalculateScore(results []PageResult) int {
	score := 100
	for _, r := range results {
		for _, v := range r.Violations {
			score -= severityWeight(v.Impact)
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// GenerateSummary tallies violations by severity across all results and
// ranks the most frequent violation IDs. Ties keep first-encountered order.
func GenerateSummary(results []PageResult) Summary {
	s := Summary{
		BySeverity: map[Severity]int{},
		Score:      CalculateScore(results),
	}

	counts := map[string]int{}
	var order []string
	meta := map[string]Violation{}

	for _, r := range results {
		for _, v := range r.Violations {
			s.TotalViolations++
			s.BySeverity[v.Impact]++
			if counts[v.ID] == 0 {
				order = append(order, v.ID)
				meta[v.ID] = v
			}
			counts[v.ID]++
		}
	}

	// Stable ranking: count descending, first-encountered wins ties.
	ranked := make([]string, len(order))
	copy(ranked, order)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && counts[ranked[j]] > counts[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	if len(ranked) > maxTopIssues {
		ranked = ranked[:maxTopIssues]
	}

	for _, id := range ranked {
		v := meta[id]
		s.TopIssues = append(s.TopIssues, TopIssue{
			ID:     id,
			Count:  counts[id],
			Help:   v.Help,
			Impact: v.Impact,
		})
	}

	return s
}

// NewReport wraps page results and their summary into the persisted
// interchange shape.
func NewReport(results []PageResult) *Report {
	return &Report{
		Version:    ReportVersion,
		ScanDate:   time.Now().UTC(),
		TotalFiles: len(results),
		Results:    results,
		Summary:    GenerateSummary(results),
	}
}

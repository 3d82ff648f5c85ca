package fix

import "github.com/allyaudit/ally/internal/domain"

// Applied records one pattern application inside a document.
type Applied struct {
	RuleID       string  `json:"rule_id"`
	Confidence   float64 `json:"confidence"`
	Replacements int     `json:"replacements"`
}

// ApplyAll patches a document for every violation whose pattern confidence
// meets the threshold, in one pass. It returns the patched text, the
// applied fixes, and how many violations were skipped (no pattern, below
// threshold, or pattern declined). The input document is never written; the
// caller decides whether the result hits disk.
func ApplyAll(doc string, violations []domain.Violation, threshold float64) (string, []Applied, int) {
	var applied []Applied
	skipped := 0

	for _, v := range violations {
		pattern, ok := Lookup(v.ID)
		if !ok || pattern.Confidence < threshold {
			skipped++
			continue
		}

		total := 0
		for _, node := range v.Nodes {
			patched, changed := pattern.Apply(node.HTML)
			if !changed {
				continue
			}
			var n int
			doc, n = PatchDocument(doc, node.HTML, patched)
			total += n
		}
		if total == 0 {
			skipped++
			continue
		}
		applied = append(applied, Applied{
			RuleID:       v.ID,
			Confidence:   pattern.Confidence,
			Replacements: total,
		})
	}

	return doc, applied, skipped
}

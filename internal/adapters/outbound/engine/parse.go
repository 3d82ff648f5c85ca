package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/allyaudit/ally/internal/domain"
)

// axePage mirrors the slice of axe.run output the engine serializes.
type axePage struct {
	Violations []axeViolation `json:"violations"`
	Passes     int            `json:"passes"`
	Incomplete int            `json:"incomplete"`
}

type axeViolation struct {
	ID      string    `json:"id"`
	Impact  string    `json:"impact"`
	Help    string    `json:"help"`
	HelpURL string    `json:"helpUrl"`
	Tags    []string  `json:"tags"`
	Nodes   []axeNode `json:"nodes"`
}

type axeNode struct {
	HTML           string    `json:"html"`
	Target         axeTarget `json:"target"`
	FailureSummary string    `json:"failureSummary"`
}

// axeTarget is a selector path. axe emits plain strings for light-DOM
// nodes and nested arrays for shadow-DOM ones; both flatten to strings.
type axeTarget []string

func (t *axeTarget) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			*t = append(*t, s)
			continue
		}
		var nested axeTarget
		if err := json.Unmarshal(item, &nested); err != nil {
			return err
		}
		*t = append(*t, nested...)
	}
	return nil
}

// ParsePage converts raw axe JSON into the domain shape.
func ParsePage(raw []byte, source string) (*domain.PageResult, error) {
	var page axePage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("parsing axe output for %s: %w", source, err)
	}

	result := &domain.PageResult{
		Source:     source,
		ScannedAt:  time.Now().UTC(),
		Passes:     page.Passes,
		Incomplete: page.Incomplete,
	}

	for _, v := range page.Violations {
		violation := domain.Violation{
			ID:      v.ID,
			Impact:  domain.Severity(v.Impact),
			Help:    v.Help,
			HelpURL: v.HelpURL,
			Tags:    v.Tags,
		}
		for _, n := range v.Nodes {
			violation.Nodes = append(violation.Nodes, domain.Node{
				HTML:           n.HTML,
				Target:         []string(n.Target),
				FailureSummary: n.FailureSummary,
			})
		}
		result.Violations = append(result.Violations, violation)
	}

	return result, nil
}

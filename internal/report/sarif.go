package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/allyaudit/ally/internal/domain"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

type sarifDocument struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	ShortDescription sarifMessage    `json:"shortDescription"`
	HelpURI          string          `json:"helpUri,omitempty"`
	Properties       *sarifRuleProps `json:"properties,omitempty"`
}

type sarifRuleProps struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// sarifLevel maps violation impact to a SARIF level. Critical and serious
// are both errors; anything unrecognized degrades to note.
func sarifLevel(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical, domain.SeveritySerious:
		return "error"
	case domain.SeverityModerate:
		return "warning"
	default:
		return "note"
	}
}

// ToSARIF renders the report as a SARIF 2.1.0 document. Rules are
// deduplicated across the whole report by violation ID (first occurrence
// supplies the descriptive text); each affected node becomes one result, so
// a violation with three nodes yields three results sharing one rule.
func ToSARIF(r *domain.Report) (string, error) {
	var rules []sarifRule
	ruleIndex := map[string]int{}
	var results []sarifResult

	cwd, _ := os.Getwd()

	for _, page := range r.Results {
		uri := relativeURI(cwd, page.Source)
		for _, v := range page.Violations {
			idx, seen := ruleIndex[v.ID]
			if !seen {
				idx = len(rules)
				ruleIndex[v.ID] = idx
				rule := sarifRule{
					ID:               v.ID,
					ShortDescription: sarifMessage{Text: v.Help},
					HelpURI:          v.HelpURL,
				}
				if len(v.Tags) > 0 {
					rule.Properties = &sarifRuleProps{Tags: v.Tags}
				}
				rules = append(rules, rule)
			}
			for _, n := range v.Nodes {
				msg := n.FailureSummary
				if msg == "" {
					msg = v.Help
				}
				results = append(results, sarifResult{
					RuleID:    v.ID,
					RuleIndex: idx,
					Level:     sarifLevel(v.Impact),
					Message:   sarifMessage{Text: msg},
					Locations: []sarifLocation{{
						PhysicalLocation: sarifPhysical{
							ArtifactLocation: sarifArtifact{URI: uri},
						},
					}},
				})
			}
		}
	}

	doc := sarifDocument{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "ally",
				Version:        r.Version,
				InformationURI: "https://github.com/allyaudit/ally",
				Rules:          rules,
			}},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling SARIF: %w", err)
	}
	return string(data) + "\n", nil
}

func relativeURI(cwd, source string) string {
	if cwd != "" {
		if rel, err := filepath.Rel(cwd, source); err == nil && !filepath.IsAbs(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(source)
}

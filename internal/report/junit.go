package report

import (
	"encoding/xml"
	"fmt"

	"github.com/allyaudit/ally/internal/domain"
)

type junitTestsuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Suites   []junitTestsuite `xml:"testsuite"`
}

type junitTestsuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestcase `xml:"testcase"`
}

type junitTestcase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// ToJUnit renders the report as JUnit XML. Each affected node is one test
// case and every test case is a failure: this model has no representation
// for a passing check. encoding/xml takes care of entity escaping.
func ToJUnit(r *domain.Report) (string, error) {
	root := junitTestsuites{Name: "ally"}

	for _, page := range r.Results {
		suite := junitTestsuite{Name: page.Source}
		for _, v := range page.Violations {
			for _, n := range v.Nodes {
				body := n.FailureSummary
				if body == "" {
					body = v.Help
				}
				suite.Cases = append(suite.Cases, junitTestcase{
					Name:      fmt.Sprintf("%s (%s)", v.ID, n.Selector()),
					Classname: page.Source,
					Failure: &junitFailure{
						Message: v.Help,
						Type:    string(v.Impact),
						Body:    body,
					},
				})
			}
		}
		suite.Tests = len(suite.Cases)
		suite.Failures = len(suite.Cases)
		root.Tests += suite.Tests
		root.Failures += suite.Failures
		root.Suites = append(root.Suites, suite)
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	return xml.Header + string(data) + "\n", nil
}

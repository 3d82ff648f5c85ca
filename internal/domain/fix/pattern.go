// Package fix maps axe rule IDs to text-level HTML repairs. Every pattern
// is a pure function over a single-element fragment: it either returns a
// patched fragment or signals that no safe fix applies (already compliant,
// malformed input, nothing to infer a value from).
package fix

import (
	"sort"
	"strings"
)

// Pattern couples a repair function with a static confidence estimate.
// Confidence is the likelihood the repaired markup is correct without human
// review; orchestrators compare it against an acceptance threshold before
// applying a patch unattended.
type Pattern struct {
	Confidence float64
	Apply      func(html string) (string, bool)
}

var registry = map[string]Pattern{
	"html-has-lang":  {Confidence: 0.95, Apply: fixHTMLLang},
	"image-alt":      {Confidence: 0.90, Apply: fixImageAlt},
	"document-title": {Confidence: 0.85, Apply: fixDocumentTitle},
	"button-name":    {Confidence: 0.70, Apply: fixButtonName},
	"link-name":      {Confidence: 0.70, Apply: fixLinkName},
	"frame-title":    {Confidence: 0.85, Apply: fixFrameTitle},
	"label":          {Confidence: 0.75, Apply: fixLabel},
	"meta-viewport":  {Confidence: 0.95, Apply: fixMetaViewport},
	"area-alt":       {Confidence: 0.85, Apply: fixAreaAlt},
}

// Lookup returns the pattern registered for a rule ID.
func Lookup(ruleID string) (Pattern, bool) {
	p, ok := registry[ruleID]
	return p, ok
}

// IDs lists every rule ID with a registered pattern, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PatchDocument replaces every literal occurrence of the offending fragment
// in a full document and returns the patched text plus the replacement
// count. Zero occurrences leaves the document untouched.
func PatchDocument(doc, fragment, patched string) (string, int) {
	if fragment == "" || fragment == patched {
		return doc, 0
	}
	n := strings.Count(doc, fragment)
	if n == 0 {
		return doc, 0
	}
	return strings.ReplaceAll(doc, fragment, patched), n
}

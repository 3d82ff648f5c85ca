package fix

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	openTagRe  = regexp.MustCompile(`^\s*<\s*([a-zA-Z][a-zA-Z0-9-]*)`)
	tagCloseRe = regexp.MustCompile(`^(\s*<[a-zA-Z][^>]*?)(\s*/?>)`)
	headOpenRe = regexp.MustCompile(`(?i)<head[^>]*>`)
	titleTagRe = regexp.MustCompile(`(?i)<title[\s>]`)
	stripTagRe = regexp.MustCompile(`<[^>]*>`)
)

// tagName extracts the lowercase element name of a fragment, or "" when the
// fragment does not start with a tag.
func tagName(fragment string) string {
	m := openTagRe.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// hasAttr reports attribute presence on the fragment's first tag,
// case-insensitively, valued or bare.
func hasAttr(fragment, name string) bool {
	re := regexp.MustCompile(`(?i)[\s]` + regexp.QuoteMeta(name) + `(?:[\s=/>]|$)`)
	end := strings.IndexByte(fragment, '>')
	if end < 0 {
		end = len(fragment)
	}
	return re.MatchString(fragment[:end+min(1, len(fragment)-end)])
}

// attrValue extracts an attribute value from the first tag, handling single
// and double quoting plus unquoted values. Absent or bare attributes yield "".
func attrValue(fragment, name string) string {
	re := regexp.MustCompile(`(?i)[\s]` + regexp.QuoteMeta(name) + `\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s/>]+))`)
	m := re.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// insertAttr adds a double-quoted attribute to the fragment's first tag,
// before its closing bracket. Fails on fragments with no parsable tag.
func insertAttr(fragment, name, value string) (string, bool) {
	m := tagCloseRe.FindStringSubmatchIndex(fragment)
	if m == nil {
		return fragment, false
	}
	value = strings.ReplaceAll(value, `"`, "&quot;")
	insertAt := m[3] // end of the tag body, before the closing bracket
	return fragment[:insertAt] + " " + name + `="` + value + `"` + fragment[insertAt:], true
}

// innerText strips tags and whitespace to test whether an element already
// carries a visible text label.
func innerText(fragment string) string {
	text := stripTagRe.ReplaceAllString(fragment, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text)
}

// humanize derives a readable label from a path-ish attribute value
// (filename stem, href slug), falling back when nothing is inferable.
func humanize(raw, fallback string) string {
	s := raw
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "/")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(s))
	if s == "" {
		return fallback
	}
	return s
}

// hasAccessibleName covers the attribute-level ways an element can already
// be named.
func hasAccessibleName(fragment string) bool {
	return hasAttr(fragment, "aria-label") ||
		hasAttr(fragment, "aria-labelledby") ||
		hasAttr(fragment, "title")
}

func fixHTMLLang(fragment string) (string, bool) {
	if tagName(fragment) != "html" {
		return fragment, false
	}
	if attrValue(fragment, "lang") != "" {
		return fragment, false
	}
	if hasAttr(fragment, "lang") {
		// Present but empty: replace the value in place.
		re := regexp.MustCompile(`(?i)(\slang\s*=\s*)(""|'')`)
		patched := re.ReplaceAllString(fragment, `${1}"en"`)
		return patched, patched != fragment
	}
	return insertAttr(fragment, "lang", "en")
}

func fixImageAlt(fragment string) (string, bool) {
	if tagName(fragment) != "img" {
		return fragment, false
	}
	if hasAttr(fragment, "alt") || hasAttr(fragment, "aria-label") {
		return fragment, false
	}
	// An empty alt marks the image decorative when no label is inferable.
	return insertAttr(fragment, "alt", humanize(attrValue(fragment, "src"), ""))
}

func fixDocumentTitle(fragment string) (string, bool) {
	tag := tagName(fragment)
	if tag != "head" && tag != "html" {
		return fragment, false
	}
	if titleTagRe.MatchString(fragment) {
		return fragment, false
	}
	loc := headOpenRe.FindStringIndex(fragment)
	if loc == nil {
		return fragment, false
	}
	return fragment[:loc[1]] + "<title>Untitled page</title>" + fragment[loc[1]:], true
}

func fixButtonName(fragment string) (string, bool) {
	tag := tagName(fragment)
	switch tag {
	case "button":
		if hasAccessibleName(fragment) || innerText(fragment) != "" {
			return fragment, false
		}
		return insertAttr(fragment, "aria-label", humanize(attrValue(fragment, "name"), "Button"))
	case "input":
		if hasAccessibleName(fragment) || attrValue(fragment, "value") != "" {
			return fragment, false
		}
		return insertAttr(fragment, "aria-label", "Button")
	default:
		return fragment, false
	}
}

func fixLinkName(fragment string) (string, bool) {
	if tagName(fragment) != "a" {
		return fragment, false
	}
	if hasAccessibleName(fragment) || innerText(fragment) != "" {
		return fragment, false
	}
	return insertAttr(fragment, "aria-label", humanize(attrValue(fragment, "href"), "Link"))
}

func fixFrameTitle(fragment string) (string, bool) {
	tag := tagName(fragment)
	if tag != "iframe" && tag != "frame" {
		return fragment, false
	}
	if hasAttr(fragment, "title") || hasAttr(fragment, "aria-label") {
		return fragment, false
	}
	return insertAttr(fragment, "title", humanize(attrValue(fragment, "src"), "Embedded content"))
}

func fixLabel(fragment string) (string, bool) {
	switch tagName(fragment) {
	case "input", "select", "textarea":
	default:
		return fragment, false
	}
	switch strings.ToLower(attrValue(fragment, "type")) {
	case "hidden", "submit", "reset", "button", "image":
		return fragment, false
	}
	if hasAccessibleName(fragment) {
		return fragment, false
	}
	label := humanize(attrValue(fragment, "name"), "")
	if label == "" {
		label = strings.TrimSpace(attrValue(fragment, "placeholder"))
	}
	if label == "" {
		label = "Input field"
	}
	return insertAttr(fragment, "aria-label", label)
}

func fixMetaViewport(fragment string) (string, bool) {
	if tagName(fragment) != "meta" {
		return fragment, false
	}
	content := attrValue(fragment, "content")
	if content == "" {
		return fragment, false
	}

	var kept []string
	changed := false
	for _, part := range strings.Split(content, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.ToLower(strings.TrimSpace(value))
		switch key {
		case "user-scalable":
			if value == "no" || value == "0" {
				changed = true
				continue
			}
		case "maximum-scale":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f < 2 {
				changed = true
				continue
			}
		}
		kept = append(kept, part)
	}
	if !changed {
		return fragment, false
	}
	return strings.Replace(fragment, content, strings.Join(kept, ", "), 1), true
}

func fixAreaAlt(fragment string) (string, bool) {
	if tagName(fragment) != "area" {
		return fragment, false
	}
	if hasAttr(fragment, "alt") || hasAttr(fragment, "aria-label") {
		return fragment, false
	}
	return insertAttr(fragment, "alt", humanize(attrValue(fragment, "href"), "Map region"))
}

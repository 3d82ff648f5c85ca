// Package kb is the static knowledge base behind the explain command. One
// entry per commonly reported axe rule; lookup is by exact rule ID.
package kb

import (
	"sort"
	"strings"

	"github.com/allyaudit/ally/internal/domain"
)

// Entry explains one accessibility rule in plain language.
type Entry struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Summary      string          `json:"summary"`
	WhoItAffects string          `json:"who_it_affects"`
	HowToFix     string          `json:"how_to_fix"`
	WCAG         []string        `json:"wcag,omitempty"`
	Impact       domain.Severity `json:"impact"`
}

var entries = map[string]Entry{
	"html-has-lang": {
		ID:           "html-has-lang",
		Title:        "Page must declare a language",
		Summary:      "The <html> element has no lang attribute, so assistive technology cannot pick the right speech synthesizer or pronunciation rules.",
		WhoItAffects: "Screen reader users, users of translation tools.",
		HowToFix:     `Add a lang attribute to the root element, e.g. <html lang="en">. Use the language the page content is actually written in.`,
		WCAG:         []string{"3.1.1"},
		Impact:       domain.SeveritySerious,
	},
	"image-alt": {
		ID:           "image-alt",
		Title:        "Images must have alternate text",
		Summary:      "An <img> element has no alt attribute. Screen readers either skip the image or read its file name aloud.",
		WhoItAffects: "Blind and low-vision users, users on text-only connections.",
		HowToFix:     `Add alt text describing the image's purpose. Use alt="" for purely decorative images so they are skipped.`,
		WCAG:         []string{"1.1.1"},
		Impact:       domain.SeverityCritical,
	},
	"document-title": {
		ID:           "document-title",
		Title:        "Documents must have a title",
		Summary:      "The page has no non-empty <title> element. The title is the first thing announced when the page loads and identifies it in tabs and history.",
		WhoItAffects: "Screen reader users, anyone navigating between multiple tabs.",
		HowToFix:     "Add a descriptive <title> element inside <head>.",
		WCAG:         []string{"2.4.2"},
		Impact:       domain.SeveritySerious,
	},
	"button-name": {
		ID:           "button-name",
		Title:        "Buttons must have discernible text",
		Summary:      "A button has no text content or accessible name, so it is announced only as \"button\".",
		WhoItAffects: "Screen reader and voice control users.",
		HowToFix:     "Give the button visible text, or an aria-label when the button is icon-only.",
		WCAG:         []string{"4.1.2"},
		Impact:       domain.SeverityCritical,
	},
	"link-name": {
		ID:           "link-name",
		Title:        "Links must have discernible text",
		Summary:      "A link has no text content or accessible name. It cannot be understood or activated by name.",
		WhoItAffects: "Screen reader and voice control users.",
		HowToFix:     "Add link text that describes the destination, or aria-label for icon links. Avoid bare \"click here\".",
		WCAG:         []string{"2.4.4", "4.1.2"},
		Impact:       domain.SeveritySerious,
	},
	"frame-title": {
		ID:           "frame-title",
		Title:        "Frames must have a title",
		Summary:      "An <iframe> has no title attribute, leaving its embedded content unidentified in the accessibility tree.",
		WhoItAffects: "Screen reader users navigating between frames.",
		HowToFix:     `Add a title attribute describing the frame's content, e.g. <iframe title="Checkout form">.`,
		WCAG:         []string{"4.1.2"},
		Impact:       domain.SeveritySerious,
	},
	"label": {
		ID:           "label",
		Title:        "Form fields must have labels",
		Summary:      "A form control has no associated label, so users cannot tell what to enter.",
		WhoItAffects: "Screen reader users, users with motor impairments who rely on large label click targets.",
		HowToFix:     "Associate a <label for=...> with the control, or add aria-label when a visible label is impossible.",
		WCAG:         []string{"1.3.1", "4.1.2"},
		Impact:       domain.SeverityCritical,
	},
	"meta-viewport": {
		ID:           "meta-viewport",
		Title:        "Zooming must not be disabled",
		Summary:      "The viewport meta tag disables scaling (user-scalable=no or maximum-scale below 2), preventing users from zooming.",
		WhoItAffects: "Low-vision users who zoom to read.",
		HowToFix:     "Remove user-scalable=no and any maximum-scale value below 2 from the viewport meta tag.",
		WCAG:         []string{"1.4.4"},
		Impact:       domain.SeverityCritical,
	},
	"area-alt": {
		ID:           "area-alt",
		Title:        "Image map areas must have alternate text",
		Summary:      "An <area> element in an image map has no alt attribute, so its target cannot be announced.",
		WhoItAffects: "Screen reader users.",
		HowToFix:     "Add alt text to each <area> describing the link target.",
		WCAG:         []string{"1.1.1", "2.4.4"},
		Impact:       domain.SeverityCritical,
	},
	"color-contrast": {
		ID:           "color-contrast",
		Title:        "Text must have sufficient color contrast",
		Summary:      "Foreground and background colors are too close: below 4.5:1 for body text or 3:1 for large text.",
		WhoItAffects: "Low-vision and color-blind users, anyone reading in bright light.",
		HowToFix:     "Darken the text or lighten the background until the contrast ratio meets 4.5:1 (3:1 for text over 24px).",
		WCAG:         []string{"1.4.3"},
		Impact:       domain.SeveritySerious,
	},
	"duplicate-id": {
		ID:           "duplicate-id",
		Title:        "IDs must be unique",
		Summary:      "Two elements share the same id value. Label associations and ARIA references resolve to the wrong element.",
		WhoItAffects: "Screen reader users relying on label/ARIA relationships.",
		HowToFix:     "Rename one of the elements so every id on the page is unique.",
		WCAG:         []string{"4.1.1"},
		Impact:       domain.SeverityMinor,
	},
	"list": {
		ID:           "list",
		Title:        "Lists must be structured correctly",
		Summary:      "A <ul> or <ol> contains direct children other than <li>, breaking list semantics.",
		WhoItAffects: "Screen reader users who navigate and count by list items.",
		HowToFix:     "Only place <li> (or script/template) elements directly inside <ul> and <ol>.",
		WCAG:         []string{"1.3.1"},
		Impact:       domain.SeveritySerious,
	},
	"listitem": {
		ID:           "listitem",
		Title:        "List items must be inside lists",
		Summary:      "An <li> element is not contained by a <ul> or <ol>, so it loses its list semantics.",
		WhoItAffects: "Screen reader users.",
		HowToFix:     "Wrap stray <li> elements in a <ul> or <ol> parent.",
		WCAG:         []string{"1.3.1"},
		Impact:       domain.SeveritySerious,
	},
	"heading-order": {
		ID:           "heading-order",
		Title:        "Heading levels should not be skipped",
		Summary:      "Heading levels jump (for example h2 to h4), making the document outline misleading.",
		WhoItAffects: "Screen reader users who navigate by headings.",
		HowToFix:     "Use heading levels in order; style headings with CSS rather than by picking a smaller heading tag.",
		WCAG:         []string{"1.3.1"},
		Impact:       domain.SeverityModerate,
	},
	"region": {
		ID:           "region",
		Title:        "Content should be inside landmarks",
		Summary:      "Page content sits outside landmark regions (header, nav, main, footer), so it cannot be reached by landmark navigation.",
		WhoItAffects: "Screen reader users who jump between landmarks.",
		HowToFix:     "Wrap all content in semantic landmark elements, with exactly one <main>.",
		WCAG:         []string{"1.3.1"},
		Impact:       domain.SeverityModerate,
	},
	"tabindex": {
		ID:           "tabindex",
		Title:        "Avoid positive tabindex values",
		Summary:      "An element uses tabindex greater than zero, overriding the natural focus order in surprising ways.",
		WhoItAffects: "Keyboard-only users.",
		HowToFix:     "Use tabindex=\"0\" to make elements focusable and rely on DOM order for sequence.",
		WCAG:         []string{"2.4.3"},
		Impact:       domain.SeveritySerious,
	},
}

// Lookup returns the entry for an exact rule ID.
func Lookup(ruleID string) (Entry, bool) {
	e, ok := entries[ruleID]
	return e, ok
}

// IDs lists every documented rule ID, sorted.
func IDs() []string {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Suggest returns documented rule IDs that share a prefix or substring with
// an unknown query, for "did you mean" output.
func Suggest(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []string
	for _, id := range IDs() {
		if strings.Contains(id, query) || strings.HasPrefix(query, id) {
			out = append(out, id)
		}
	}
	return out
}

package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allyaudit/ally/internal/domain/fix"
)

func apply(t *testing.T, ruleID, fragment string) (string, bool) {
	t.Helper()
	p, ok := fix.Lookup(ruleID)
	require.True(t, ok, "pattern %s must be registered", ruleID)
	return p.Apply(fragment)
}

// Every pattern must be idempotent: applying it to its own output is a no-op.
func assertIdempotent(t *testing.T, ruleID, fragment string) {
	t.Helper()
	patched, changed := apply(t, ruleID, fragment)
	require.True(t, changed)
	again, changedAgain := apply(t, ruleID, patched)
	assert.False(t, changedAgain, "second application must decline")
	assert.Equal(t, patched, again)
}

func TestFixHTMLLang(t *testing.T) {
	patched, changed := apply(t, "html-has-lang", `<html>`)
	require.True(t, changed)
	assert.Equal(t, `<html lang="en">`, patched)

	assertIdempotent(t, "html-has-lang", `<html class="dark">`)
}

func TestFixHTMLLangReplacesEmptyValue(t *testing.T) {
	patched, changed := apply(t, "html-has-lang", `<html lang="">`)
	require.True(t, changed)
	assert.Equal(t, `<html lang="en">`, patched)
}

func TestFixHTMLLangDeclines(t *testing.T) {
	for _, fragment := range []string{
		`<html lang="fr">`,
		`<body>`,
		`not a tag`,
	} {
		_, changed := apply(t, "html-has-lang", fragment)
		assert.False(t, changed, "fragment %q", fragment)
	}
}

func TestFixImageAlt(t *testing.T) {
	patched, changed := apply(t, "image-alt", `<img src="hero-banner.png">`)
	require.True(t, changed)
	assert.Equal(t, `<img src="hero-banner.png" alt="hero banner">`, patched)

	assertIdempotent(t, "image-alt", `<img src="logo.svg" class="logo">`)
}

func TestFixImageAltDecorativeFallback(t *testing.T) {
	// No src to infer a label from: empty alt marks it decorative.
	patched, changed := apply(t, "image-alt", `<img>`)
	require.True(t, changed)
	assert.Equal(t, `<img alt="">`, patched)
}

func TestFixImageAltDeclines(t *testing.T) {
	for _, fragment := range []string{
		`<img src="a.png" alt="chart">`,
		`<img src="a.png" alt="">`,
		`<img src="a.png" aria-label="chart">`,
		`<div class="img">`,
	} {
		_, changed := apply(t, "image-alt", fragment)
		assert.False(t, changed, "fragment %q", fragment)
	}
}

func TestFixDocumentTitle(t *testing.T) {
	patched, changed := apply(t, "document-title", `<head><meta charset="utf-8"></head>`)
	require.True(t, changed)
	assert.Equal(t, `<head><title>Untitled page</title><meta charset="utf-8"></head>`, patched)

	assertIdempotent(t, "document-title", `<head></head>`)
}

func TestFixDocumentTitleDeclines(t *testing.T) {
	_, changed := apply(t, "document-title", `<head><title>Home</title></head>`)
	assert.False(t, changed)

	_, changed = apply(t, "document-title", `<body></body>`)
	assert.False(t, changed)
}

func TestFixButtonName(t *testing.T) {
	patched, changed := apply(t, "button-name", `<button></button>`)
	require.True(t, changed)
	assert.Equal(t, `<button aria-label="Button"></button>`, patched)

	patched, changed = apply(t, "button-name", `<button name="save-draft" class="primary"></button>`)
	require.True(t, changed)
	assert.Contains(t, patched, `aria-label="save draft"`)

	patched, changed = apply(t, "button-name", `<input type="submit">`)
	require.True(t, changed)
	assert.Equal(t, `<input type="submit" aria-label="Button">`, patched)

	assertIdempotent(t, "button-name", `<button></button>`)
}

func TestFixButtonNameDeclines(t *testing.T) {
	for _, fragment := range []string{
		`<button>Save</button>`,
		`<button aria-label="Close"></button>`,
		`<input type="submit" value="Send">`,
		`<a href="/x"></a>`,
	} {
		_, changed := apply(t, "button-name", fragment)
		assert.False(t, changed, "fragment %q", fragment)
	}
}

func TestFixLinkName(t *testing.T) {
	patched, changed := apply(t, "link-name", `<a href="/signup"><span class="icon"></span></a>`)
	require.True(t, changed)
	assert.Contains(t, patched, `aria-label="signup"`)

	assertIdempotent(t, "link-name", `<a href="/pricing"></a>`)
}

func TestFixLinkNameDeclines(t *testing.T) {
	_, changed := apply(t, "link-name", `<a href="/signup">Sign up</a>`)
	assert.False(t, changed)
}

func TestFixFrameTitle(t *testing.T) {
	patched, changed := apply(t, "frame-title", `<iframe src="https://player.example.com/embed/42"></iframe>`)
	require.True(t, changed)
	assert.Contains(t, patched, `title="42"`)

	patched, changed = apply(t, "frame-title", `<iframe></iframe>`)
	require.True(t, changed)
	assert.Contains(t, patched, `title="Embedded content"`)

	assertIdempotent(t, "frame-title", `<iframe src="/map"></iframe>`)
}

func TestFixLabel(t *testing.T) {
	patched, changed := apply(t, "label", `<input type="text" name="email">`)
	require.True(t, changed)
	assert.Contains(t, patched, `aria-label="email"`)

	patched, changed = apply(t, "label", `<input type="text" placeholder="Your name">`)
	require.True(t, changed)
	assert.Contains(t, patched, `aria-label="Your name"`)

	patched, changed = apply(t, "label", `<textarea></textarea>`)
	require.True(t, changed)
	assert.Contains(t, patched, `aria-label="Input field"`)

	assertIdempotent(t, "label", `<select name="country"></select>`)
}

func TestFixLabelSkipsNonLabelableTypes(t *testing.T) {
	for _, fragment := range []string{
		`<input type="hidden" name="csrf">`,
		`<input type="submit">`,
		`<input type="reset">`,
		`<input type="button">`,
		`<input type="image" src="go.png">`,
	} {
		_, changed := apply(t, "label", fragment)
		assert.False(t, changed, "fragment %q", fragment)
	}
}

func TestFixMetaViewport(t *testing.T) {
	fragment := `<meta name="viewport" content="width=device-width, initial-scale=1, user-scalable=no">`
	patched, changed := apply(t, "meta-viewport", fragment)
	require.True(t, changed)
	assert.Equal(t, `<meta name="viewport" content="width=device-width, initial-scale=1">`, patched)

	assertIdempotent(t, "meta-viewport", `<meta name="viewport" content="maximum-scale=1">`)
}

func TestFixMetaViewportKeepsGenerousMaxScale(t *testing.T) {
	fragment := `<meta name="viewport" content="width=device-width, maximum-scale=5">`
	_, changed := apply(t, "meta-viewport", fragment)
	assert.False(t, changed)
}

func TestFixAreaAlt(t *testing.T) {
	patched, changed := apply(t, "area-alt", `<area shape="rect" href="/north-wing">`)
	require.True(t, changed)
	assert.Contains(t, patched, `alt="north wing"`)

	assertIdempotent(t, "area-alt", `<area shape="circle">`)
}

func TestLookupUnknownRule(t *testing.T) {
	_, ok := fix.Lookup("color-contrast")
	assert.False(t, ok)
}

func TestIDsSortedAndComplete(t *testing.T) {
	ids := fix.IDs()
	assert.Equal(t, []string{
		"area-alt",
		"button-name",
		"document-title",
		"frame-title",
		"html-has-lang",
		"image-alt",
		"label",
		"link-name",
		"meta-viewport",
	}, ids)
}

func TestSelfClosingFragments(t *testing.T) {
	patched, changed := apply(t, "image-alt", `<img src="chart.png" />`)
	require.True(t, changed)
	assert.Equal(t, `<img src="chart.png" alt="chart" />`, patched)
}

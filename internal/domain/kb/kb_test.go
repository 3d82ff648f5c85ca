package kb_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allyaudit/ally/internal/domain/fix"
	"github.com/allyaudit/ally/internal/domain/kb"
)

func TestLookup(t *testing.T) {
	entry, ok := kb.Lookup("image-alt")
	require.True(t, ok)
	assert.Equal(t, "image-alt", entry.ID)
	assert.NotEmpty(t, entry.Title)
	assert.NotEmpty(t, entry.Summary)
	assert.NotEmpty(t, entry.HowToFix)

	_, ok = kb.Lookup("no-such-rule")
	assert.False(t, ok)
}

func TestIDsSorted(t *testing.T) {
	ids := kb.IDs()
	assert.True(t, sort.StringsAreSorted(ids))
	assert.GreaterOrEqual(t, len(ids), 9)
}

// Every auto-fixable rule must have an explanation to show alongside the fix.
func TestEveryFixableRuleIsExplained(t *testing.T) {
	for _, id := range fix.IDs() {
		_, ok := kb.Lookup(id)
		assert.True(t, ok, "rule %s has a fix pattern but no knowledge base entry", id)
	}
}

func TestEntriesAreInternallyConsistent(t *testing.T) {
	for _, id := range kb.IDs() {
		entry, ok := kb.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, id, entry.ID)
		assert.NotEmpty(t, entry.Title, "%s", id)
		assert.NotEmpty(t, entry.Summary, "%s", id)
		assert.NotEmpty(t, entry.WhoItAffects, "%s", id)
		assert.NotEmpty(t, entry.HowToFix, "%s", id)
		assert.NotEmpty(t, entry.Impact, "%s", id)
	}
}

func TestSuggest(t *testing.T) {
	assert.Contains(t, kb.Suggest("alt"), "image-alt")
	assert.Contains(t, kb.Suggest("IMAGE"), "image-alt")
	assert.Empty(t, kb.Suggest(""))
	assert.Empty(t, kb.Suggest("zzz"))
}

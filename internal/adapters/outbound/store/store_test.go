package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allyaudit/ally/internal/adapters/outbound/store"
	"github.com/allyaudit/ally/internal/domain"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	s := store.New()

	report := domain.NewReport([]domain.PageResult{{
		Source: "index.html",
		Violations: []domain.Violation{{
			ID:     "image-alt",
			Impact: domain.SeverityCritical,
			Nodes:  []domain.Node{{HTML: `<img src="x.png">`}},
		}},
	}})

	require.NoError(t, s.Save(dir, report))

	got, err := s.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, report.Version, got.Version)
	assert.Equal(t, 85, got.Summary.Score)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "image-alt", got.Results[0].Violations[0].ID)
}

func TestLoadMissingReport(t *testing.T) {
	_, err := store.New().Load(t.TempDir())
	assert.ErrorIs(t, err, store.ErrNoReport)
}

func TestLoadCorruptReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".ally"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ally", "report.json"), []byte("{not json"), 0644))

	_, err := store.New().Load(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNoReport, "corruption is not absence")
	assert.Contains(t, err.Error(), "parsing")
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := store.New()

	require.NoError(t, s.Save(dir, domain.NewReport(nil)))
	second := domain.NewReport([]domain.PageResult{{Source: "a.html"}})
	require.NoError(t, s.Save(dir, second))

	got, err := s.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalFiles)
}

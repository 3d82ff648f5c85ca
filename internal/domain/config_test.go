package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allyaudit/ally/internal/domain"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "sarif", "markdown", "html", "junit", "csv"} {
		f, err := domain.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, domain.Format(name), f)
	}

	f, err := domain.ParseFormat("  SARIF ")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatSARIF, f)
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	_, err := domain.ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, ".allyignore", cfg.IgnoreFile)
	assert.Equal(t, domain.DefaultDebounceMillis, cfg.DebounceMS)
	assert.Equal(t, domain.DefaultExtensions, cfg.Extensions)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	bad := 1.5
	cases := []struct {
		name string
		cfg  domain.AuditConfig
	}{
		{"unknown format", domain.AuditConfig{Format: "word"}},
		{"threshold out of range", domain.AuditConfig{Threshold: &bad}},
		{"negative debounce", domain.AuditConfig{DebounceMS: -1}},
		{"extension without dot", domain.AuditConfig{Extensions: []string{"html"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestFixThreshold(t *testing.T) {
	assert.Equal(t, domain.DefaultFixThreshold, domain.AuditConfig{}.FixThreshold())

	v := 0.75
	assert.Equal(t, 0.75, domain.AuditConfig{Threshold: &v}.FixThreshold())
}

func TestValidateThreshold(t *testing.T) {
	assert.NoError(t, domain.ValidateThreshold(0))
	assert.NoError(t, domain.ValidateThreshold(0.9))
	assert.NoError(t, domain.ValidateThreshold(1))
	assert.Error(t, domain.ValidateThreshold(-0.1))
	assert.Error(t, domain.ValidateThreshold(1.1))
}

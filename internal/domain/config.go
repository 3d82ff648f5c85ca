package domain

import (
	"fmt"
	"strings"
)

// Format identifies an output format for the report converter.
type Format string

const (
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJUnit    Format = "junit"
	FormatCSV      Format = "csv"
)

// ValidFormats enumerates every recognized output format.
var ValidFormats = []Format{
	FormatJSON, FormatSARIF, FormatMarkdown, FormatHTML, FormatJUnit, FormatCSV,
}

// ParseFormat validates a user-supplied format name. Unknown names are a
// configuration error, never a silent fallback.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, v := range ValidFormats {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (valid: json, sarif, markdown, html, junit, csv)", name)
}

// DefaultFixThreshold is the minimum pattern confidence for unattended
// fix application.
const DefaultFixThreshold = 0.9

// DefaultDebounceMillis is the watch-mode debounce window.
const DefaultDebounceMillis = 300

// DefaultExtensions are the file extensions watched and scanned.
var DefaultExtensions = []string{".html", ".htm", ".xhtml"}

// AuditConfig holds project-level configuration loaded from .ally.yaml.
type AuditConfig struct {
	Format       string   `yaml:"format"        json:"format,omitempty"`
	Output       string   `yaml:"output"        json:"output,omitempty"`
	Threshold    *float64 `yaml:"threshold"     json:"threshold,omitempty"`
	DebounceMS   int      `yaml:"debounce_ms"   json:"debounce_ms,omitempty"`
	IgnoreFile   string   `yaml:"ignore_file"   json:"ignore_file,omitempty"`
	AxePath      string   `yaml:"axe_path"      json:"axe_path,omitempty"`
	Extensions   []string `yaml:"extensions"    json:"extensions,omitempty"`
	ExcludePaths []string `yaml:"exclude_paths" json:"exclude_paths,omitempty"`
}

// DefaultConfig returns the configuration used when no .ally.yaml exists.
func DefaultConfig() AuditConfig {
	return AuditConfig{
		IgnoreFile: ".allyignore",
		DebounceMS: DefaultDebounceMillis,
		Extensions: DefaultExtensions,
	}
}

// Validate rejects configuration values outside their allowed ranges.
func (c AuditConfig) Validate() error {
	if c.Format != "" {
		if _, err := ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if c.Threshold != nil && (*c.Threshold < 0 || *c.Threshold > 1) {
		return fmt.Errorf("threshold %v out of range [0,1]", *c.Threshold)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// FixThreshold returns the configured threshold or the default.
func (c AuditConfig) FixThreshold() float64 {
	if c.Threshold != nil {
		return *c.Threshold
	}
	return DefaultFixThreshold
}

// ValidateThreshold checks a per-invocation threshold override.
func ValidateThreshold(t float64) error {
	if t < 0 || t > 1 {
		return fmt.Errorf("threshold %v out of range [0,1]", t)
	}
	return nil
}

// Package store persists the interchange report under .ally/ so that
// report, explain and fix can run in separate invocations from scan.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/allyaudit/ally/internal/domain"
)

const reportFile = ".ally/report.json"

// ErrNoReport marks the absence of a persisted report. Callers show "run a
// scan first" guidance for this case and a parse diagnostic otherwise.
var ErrNoReport = errors.New("no report found")

// FileStore implements domain.ReportStore on a JSON file.
type FileStore struct{}

func New() *FileStore { return &FileStore{} }

func (s *FileStore) Load(projectPath string) (*domain.Report, error) {
	path := filepath.Join(projectPath, reportFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoReport
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &report, nil
}

func (s *FileStore) Save(projectPath string, report *domain.Report) error {
	path := filepath.Join(projectPath, reportFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

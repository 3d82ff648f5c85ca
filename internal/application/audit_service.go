package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/allyaudit/ally/internal/domain"
)

// AuditService orchestrates the scan pipeline:
// collect files → scan each through the engine → aggregate → persist.
type AuditService struct {
	engine  domain.ScanEngine
	store   domain.ReportStore
	history domain.ScoreHistory
	git     domain.GitInfo
	cfg     domain.AuditConfig
}

func NewAuditService(
	engine domain.ScanEngine,
	store domain.ReportStore,
	history domain.ScoreHistory,
	git domain.GitInfo,
	cfg domain.AuditConfig,
) *AuditService {
	return &AuditService{
		engine:  engine,
		store:   store,
		history: history,
		git:     git,
		cfg:     cfg,
	}
}

// Config exposes the loaded project configuration.
func (s *AuditService) Config() domain.AuditConfig { return s.cfg }

// Engine exposes the underlying scan engine for orchestrators that manage
// its lifecycle themselves (watch mode).
func (s *AuditService) Engine() domain.ScanEngine { return s.engine }

// Audit runs the full pipeline for one invocation, owning the engine
// lifecycle. Per-file scan failures are collected as warnings rather than
// aborting the whole run; the returned error is reserved for fatal
// conditions (engine startup, no files).
func (s *AuditService) Audit(ctx context.Context, projectPath string, args []string) (*domain.Report, []error, error) {
	files, err := s.CollectFiles(projectPath, args)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no HTML files found to scan")
	}

	if err := s.engine.Init(ctx); err != nil {
		return nil, nil, err
	}
	defer s.engine.Close()

	results, warnings := s.ScanFiles(ctx, files)
	report, persistWarnings := s.BuildReport(projectPath, results)
	return report, append(warnings, persistWarnings...), nil
}

// ScanFiles scans each file through the engine, which serializes access to
// the shared browser. The engine must already be initialized.
func (s *AuditService) ScanFiles(ctx context.Context, files []string) ([]domain.PageResult, []error) {
	var results []domain.PageResult
	var warnings []error

	for _, f := range files {
		res, err := s.engine.ScanHTMLFile(ctx, f)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("skipping %s: %w", f, err))
			continue
		}
		results = append(results, *res)
	}
	return results, warnings
}

// BuildReport aggregates results, attaches git metadata, and persists both
// the interchange report and a history entry. Persistence failures do not
// void the run (the report is still returned when the working directory is
// read-only) but they come back as warnings: downstream commands read
// .ally/report.json, so a silent save failure would strand them.
func (s *AuditService) BuildReport(projectPath string, results []domain.PageResult) (*domain.Report, []error) {
	report := domain.NewReport(results)

	if hash, err := s.git.CommitHash(projectPath); err == nil {
		report.CommitHash = hash
	}

	var warnings []error
	if err := s.store.Save(projectPath, report); err != nil {
		warnings = append(warnings, fmt.Errorf("saving report: %w", err))
	}
	if err := s.history.Append(projectPath, domain.ScoreEntry{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		CommitHash: report.CommitHash,
		Score:      report.Summary.Score,
		Files:      report.TotalFiles,
		Violations: report.Summary.TotalViolations,
	}); err != nil {
		warnings = append(warnings, fmt.Errorf("recording score history: %w", err))
	}

	return report, warnings
}

// SnapshotReport aggregates results and refreshes the persisted
// interchange report without appending history. Watch cycles call this
// after every scan so downstream commands always see the latest state.
func (s *AuditService) SnapshotReport(projectPath string, results []domain.PageResult) *domain.Report {
	report := domain.NewReport(results)
	if hash, err := s.git.CommitHash(projectPath); err == nil {
		report.CommitHash = hash
	}
	_ = s.store.Save(projectPath, report)
	return report
}

// CollectFiles expands CLI arguments (files, directories, globs) into the
// sorted set of scannable HTML files, minus ignore-file exclusions. No
// arguments means the whole project tree.
func (s *AuditService) CollectFiles(projectPath string, args []string) ([]string, error) {
	ignore, err := s.LoadIgnore(projectPath)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		args = []string{projectPath}
	}

	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		rel := path
		if r, err := filepath.Rel(projectPath, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
		if ignore.Match(rel) || seen[path] {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			walkErr := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if skipDir(d.Name()) {
						return filepath.SkipDir
					}
					return nil
				}
				if s.IsHTMLFile(path) {
					add(path)
				}
				return nil
			})
			if walkErr != nil {
				return nil, walkErr
			}
		case err == nil:
			if s.IsHTMLFile(arg) {
				add(arg)
			}
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil || len(matches) == 0 {
				return nil, fmt.Errorf("path %s: %w", arg, errors.Join(err, globErr))
			}
			for _, m := range matches {
				if s.IsHTMLFile(m) {
					add(m)
				}
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsHTMLFile checks a path against the configured scan extensions.
func (s *AuditService) IsHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	exts := s.cfg.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadIgnore reads the configured ignore file. A missing file is an empty
// list; a malformed one is a configuration error.
func (s *AuditService) LoadIgnore(projectPath string) (*domain.IgnoreList, error) {
	name := s.cfg.IgnoreFile
	if name == "" {
		name = ".allyignore"
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, name)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &domain.IgnoreList{}, nil
		}
		return nil, err
	}
	defer f.Close()

	list, err := domain.ParseIgnore(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return list, nil
}

// skipDir filters directories never worth descending into.
func skipDir(name string) bool {
	switch name {
	case "node_modules", ".git", ".ally", "vendor":
		return true
	}
	return false
}

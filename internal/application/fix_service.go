package application

import (
	"context"
	"fmt"
	"os"

	"github.com/allyaudit/ally/internal/domain"
	"github.com/allyaudit/ally/internal/domain/fix"
)

// FixService applies confidence-gated fix patterns to files on disk:
// scan → patch qualifying nodes → rescan once to report the post-fix state.
type FixService struct {
	audit *AuditService
}

func NewFixService(audit *AuditService) *FixService {
	return &FixService{audit: audit}
}

// FileFix records what happened to one file during a fix run.
type FileFix struct {
	File    string        `json:"file"`
	Applied []fix.Applied `json:"applied"`
}

// FixPlan is the outcome of a fix run.
type FixPlan struct {
	DryRun      bool      `json:"dry_run"`
	Files       []FileFix `json:"files,omitempty"`
	Applied     int       `json:"applied"`
	Skipped     int       `json:"skipped"`
	ScoreBefore int       `json:"score_before"`
	ScoreAfter  int       `json:"score_after"`
}

// Fix runs the full cycle over the given paths. It owns the engine
// lifecycle and performs at most two scans per file: one before patching
// and one after, even if a patch introduces new violations.
func (s *FixService) Fix(ctx context.Context, projectPath string, args []string, threshold float64, dryRun bool) (*FixPlan, []error, error) {
	if err := domain.ValidateThreshold(threshold); err != nil {
		return nil, nil, err
	}

	files, err := s.audit.CollectFiles(projectPath, args)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no HTML files found to fix")
	}

	if err := s.audit.Engine().Init(ctx); err != nil {
		return nil, nil, err
	}
	defer s.audit.Engine().Close()

	results, warnings := s.audit.ScanFiles(ctx, files)
	plan := &FixPlan{
		DryRun:      dryRun,
		ScoreBefore: domain.CalculateScore(results),
		ScoreAfter:  domain.CalculateScore(results),
	}

	var touched []string
	for _, page := range results {
		fileFix, skipped, err := s.patchFile(page, threshold, dryRun)
		plan.Skipped += skipped
		if err != nil {
			warnings = append(warnings, fmt.Errorf("skipping %s: %w", page.Source, err))
			continue
		}
		if len(fileFix.Applied) == 0 {
			continue
		}
		for _, a := range fileFix.Applied {
			plan.Applied += a.Replacements
		}
		plan.Files = append(plan.Files, fileFix)
		touched = append(touched, page.Source)
	}

	// One post-fix rescan bounds the cycle to two scans per file.
	if !dryRun && len(touched) > 0 {
		rescanned, rescanWarnings := s.audit.ScanFiles(ctx, files)
		warnings = append(warnings, rescanWarnings...)
		report, persistWarnings := s.audit.BuildReport(projectPath, rescanned)
		warnings = append(warnings, persistWarnings...)
		plan.ScoreAfter = report.Summary.Score
	}

	return plan, warnings, nil
}

// patchFile applies every qualifying pattern to one file's content in a
// single pass. A file deleted since the scan is skipped silently.
func (s *FixService) patchFile(page domain.PageResult, threshold float64, dryRun bool) (FileFix, int, error) {
	fileFix := FileFix{File: page.Source}

	data, err := os.ReadFile(page.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return fileFix, 0, nil
		}
		return fileFix, 0, err
	}

	patched, applied, skipped := fix.ApplyAll(string(data), page.Violations, threshold)
	fileFix.Applied = applied
	if len(applied) == 0 || patched == string(data) {
		return fileFix, skipped, nil
	}

	if !dryRun {
		if err := os.WriteFile(page.Source, []byte(patched), 0644); err != nil {
			return FileFix{File: page.Source}, skipped, err
		}
	}
	return fileFix, skipped, nil
}

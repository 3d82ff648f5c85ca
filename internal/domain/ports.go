package domain

import "context"

// ScanEngine abstracts the external accessibility rule engine plus the
// browser that hosts it. Implementations own a shared, stateful resource:
// callers must not run two scans concurrently against one instance.
type ScanEngine interface {
	Init(ctx context.Context) error
	ScanHTMLFile(ctx context.Context, path string) (*PageResult, error)
	ScanHTMLString(ctx context.Context, html, label string) (*PageResult, error)
	Close() error
}

// ReportStore persists the interchange report between command invocations.
type ReportStore interface {
	Load(projectPath string) (*Report, error)
	Save(projectPath string, report *Report) error
}

// ScoreHistory records one score entry per completed audit.
type ScoreHistory interface {
	Append(projectPath string, entry ScoreEntry) error
	Entries(projectPath string) ([]ScoreEntry, error)
}

// ConfigLoader reads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (AuditConfig, error)
}

// GitInfo resolves repository metadata attached to reports.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}

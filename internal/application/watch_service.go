package application

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/allyaudit/ally/internal/domain"
	"github.com/allyaudit/ally/internal/domain/fix"
)

// WatchOptions configures a watch session.
type WatchOptions struct {
	AutoFix   bool
	Threshold float64
	Debounce  time.Duration
}

// WatchStats accumulates over one watch session and is printed on shutdown.
type WatchStats struct {
	Scans        int
	FixesApplied int
	LastScore    int
}

// WatchService binds file-system change events to debounced
// scan-and-optionally-fix cycles. Each watched file moves through
// Idle → Debouncing → Scanning → (FixApplying → Rescanning) → Idle; a
// change landing mid-cycle queues exactly one follow-up cycle instead of
// interleaving with a file that may still be mid-write.
type WatchService struct {
	audit *AuditService
	out   io.Writer

	mu      sync.Mutex
	closed  bool
	timers  map[string]*time.Timer
	busy    map[string]bool
	pending map[string]bool
	results map[string]domain.PageResult
	stats   WatchStats
	wg      sync.WaitGroup
}

func NewWatchService(audit *AuditService, out io.Writer) *WatchService {
	return &WatchService{
		audit:   audit,
		out:     out,
		timers:  map[string]*time.Timer{},
		busy:    map[string]bool{},
		pending: map[string]bool{},
		results: map[string]domain.PageResult{},
	}
}

// Run watches root until ctx is canceled. On shutdown it stops accepting
// events, lets in-flight cycles finish, closes the engine, and prints a
// session summary. Per-file errors never end the session.
func (s *WatchService) Run(ctx context.Context, root string, opts WatchOptions) error {
	if opts.AutoFix {
		if err := domain.ValidateThreshold(opts.Threshold); err != nil {
			return err
		}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = time.Duration(domain.DefaultDebounceMillis) * time.Millisecond
	}

	ignore, err := s.audit.LoadIgnore(root)
	if err != nil {
		return err
	}

	if err := s.audit.Engine().Init(ctx); err != nil {
		return err
	}
	defer s.audit.Engine().Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root, ignore); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	fmt.Fprintf(s.out, "Watching %s (debounce %s, auto-fix %v)\n", root, opts.Debounce, opts.AutoFix)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				s.shutdown()
				return nil
			}
			s.handleEvent(ctx, watcher, root, ignore, ev, opts)
		case werr, ok := <-watcher.Errors:
			if !ok {
				s.shutdown()
				return nil
			}
			fmt.Fprintf(s.out, "watch error: %v\n", werr)
		}
	}
}

// Stats returns a copy of the session counters.
func (s *WatchService) Stats() WatchStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *WatchService) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, root string, ignore *domain.IgnoreList, ev fsnotify.Event, opts WatchOptions) {
	rel := relPath(root, ev.Name)
	if strings.HasPrefix(rel, ".ally") || ignore.Match(rel) {
		return
	}

	// New directories join the watch set.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = addWatchRecursive(watcher, ev.Name, ignore)
			return
		}
	}

	if !s.audit.IsHTMLFile(ev.Name) {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	s.schedule(ctx, root, ev.Name, opts)
}

// schedule (re)arms the debounce timer for a file. Only the newest event
// within the window triggers a cycle: last-write-wins for triggering.
func (s *WatchService) schedule(ctx context.Context, root, file string, opts WatchOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[file]; ok {
		t.Stop()
	}
	s.timers[file] = time.AfterFunc(opts.Debounce, func() {
		s.cycle(ctx, root, file, opts)
	})
}

// cycle runs one scan-and-optionally-fix pass for a file. A cycle already
// in flight for the same file queues exactly one follow-up.
func (s *WatchService) cycle(ctx context.Context, root, file string, opts WatchOptions) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.busy[file] {
		s.pending[file] = true
		s.mu.Unlock()
		return
	}
	s.busy[file] = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy[file] = false
		rerun := s.pending[file]
		s.pending[file] = false
		closed := s.closed
		s.mu.Unlock()
		s.wg.Done()
		if rerun && !closed {
			s.schedule(ctx, root, file, opts)
		}
	}()

	// Deleted between event and scan: not an error.
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return
	}

	res, err := s.audit.Engine().ScanHTMLFile(ctx, file)
	if err != nil {
		fmt.Fprintf(s.out, "%s %s: %v\n", time.Now().Format("15:04:05"), file, err)
		return
	}

	fixes := 0
	if opts.AutoFix && len(res.Violations) > 0 {
		fixes = s.applyFixes(file, res.Violations, opts.Threshold)
		if fixes > 0 {
			// One rescan reports the post-fix state; never loop further
			// even if the patch introduced new violations.
			if rescanned, err := s.audit.Engine().ScanHTMLFile(ctx, file); err == nil {
				res = rescanned
			}
		}
	}

	s.record(root, file, *res, fixes)
}

// applyFixes patches one file in place and returns the replacement count.
func (s *WatchService) applyFixes(file string, violations []domain.Violation, threshold float64) int {
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(s.out, "fix %s: %v\n", file, err)
		return 0
	}

	patched, applied, _ := fix.ApplyAll(string(data), violations, threshold)
	if len(applied) == 0 || patched == string(data) {
		return 0
	}
	if err := os.WriteFile(file, []byte(patched), 0644); err != nil {
		fmt.Fprintf(s.out, "fix %s: %v\n", file, err)
		return 0
	}

	total := 0
	for _, a := range applied {
		total += a.Replacements
	}
	return total
}

// record folds a cycle's result into the session state and refreshes the
// persisted interchange report.
func (s *WatchService) record(root, file string, res domain.PageResult, fixes int) {
	s.mu.Lock()
	s.results[file] = res
	s.stats.Scans++
	s.stats.FixesApplied += fixes

	all := make([]domain.PageResult, 0, len(s.results))
	for _, r := range s.results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Source < all[j].Source })
	s.mu.Unlock()

	report := s.audit.SnapshotReport(root, all)

	s.mu.Lock()
	s.stats.LastScore = report.Summary.Score
	s.mu.Unlock()

	line := fmt.Sprintf("%s %s: %d violations, score %d",
		time.Now().Format("15:04:05"), file, len(res.Violations), report.Summary.Score)
	if fixes > 0 {
		line += fmt.Sprintf(" (%d fixes applied)", fixes)
	}
	fmt.Fprintln(s.out, line)
}

// shutdown stops new cycles, waits for in-flight ones, and prints the
// session summary.
func (s *WatchService) shutdown() {
	s.mu.Lock()
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.mu.Unlock()

	s.wg.Wait()

	stats := s.Stats()
	fmt.Fprintf(s.out, "\nWatch session: %d scans, %d fixes applied, last score %d\n",
		stats.Scans, stats.FixesApplied, stats.LastScore)
}

func addWatchRecursive(w *fsnotify.Watcher, root string, ignore *domain.IgnoreList) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(d.Name()) || ignore.MatchDir(relPath(root, path)) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

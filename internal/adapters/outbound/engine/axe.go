// Package engine drives axe-core inside a headless Chrome tab via the
// DevTools protocol. The engine instance is a shared, stateful resource:
// one tab, one axe injection per navigation, at most one in-flight scan.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/allyaudit/ally/internal/domain"
)

// axeRunScript evaluates the already-injected axe engine and serializes the
// parts of its result this tool consumes.
const axeRunScript = `axe.run(document, {resultTypes: ['violations', 'passes', 'incomplete']})
	.then(r => JSON.stringify({
		violations: r.violations,
		passes: r.passes.length,
		incomplete: r.incomplete.length,
	}))`

// Options configures the engine.
type Options struct {
	// AxePath points at axe.min.js. Empty means search the default
	// locations (node_modules/axe-core, next to the binary).
	AxePath string
}

// AxeEngine implements domain.ScanEngine.
type AxeEngine struct {
	opts Options

	mu            sync.Mutex
	axeSource     string
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func New(opts Options) *AxeEngine {
	return &AxeEngine{opts: opts}
}

// Init loads the axe source and starts the headless browser. Failures here
// are fatal for the caller; the error text carries remediation guidance.
func (e *AxeEngine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := loadAxeSource(e.opts.AxePath)
	if err != nil {
		return err
	}
	e.axeSource = src

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so startup failures surface now
	// rather than on the first scan.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("starting headless browser: %w (install Chrome or Chromium and make sure it is on PATH)", err)
	}

	e.allocCancel = allocCancel
	e.browserCtx = browserCtx
	e.browserCancel = browserCancel
	return nil
}

// ScanHTMLFile audits a single HTML file.
func (e *AxeEngine) ScanHTMLFile(ctx context.Context, path string) (*domain.PageResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return e.scan(ctx, path, chromedp.Navigate("file://"+filepath.ToSlash(abs)))
}

// ScanHTMLString audits raw markup under the given label.
func (e *AxeEngine) ScanHTMLString(ctx context.Context, html, label string) (*domain.PageResult, error) {
	setContent := chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	}
	return e.scan(ctx, label, setContent)
}

// scan navigates, injects axe, runs it, and parses the result. Serialized
// by the engine mutex: two logical cycles never share the tab.
func (e *AxeEngine) scan(ctx context.Context, source string, load chromedp.Action) (*domain.PageResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browserCtx == nil {
		return nil, fmt.Errorf("engine not initialized")
	}

	tabCtx := e.browserCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	var raw string
	err := chromedp.Run(tabCtx,
		load,
		chromedp.Evaluate(e.axeSource, nil),
		chromedp.Evaluate(axeRunScript, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", source, err)
	}

	return ParsePage([]byte(raw), source)
}

// Close tears down the browser. Safe to call more than once.
func (e *AxeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browserCancel != nil {
		e.browserCancel()
		e.browserCancel = nil
	}
	if e.allocCancel != nil {
		e.allocCancel()
		e.allocCancel = nil
	}
	e.browserCtx = nil
	return nil
}

// loadAxeSource reads axe.min.js from an explicit path or the default
// search locations.
func loadAxeSource(explicit string) (string, error) {
	candidates := []string{
		filepath.Join("node_modules", "axe-core", "axe.min.js"),
		"axe.min.js",
	}
	if explicit != "" {
		candidates = []string{explicit}
	}

	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err == nil {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("axe.min.js not found (tried %v): run `npm install axe-core` or set axe_path in .ally.yaml", candidates)
}

package verify

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// chromeBinaries are the executable names probed by DetectChrome, in
// preference order.
var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// DetectChrome reports whether a Chrome/Chromium binary is reachable on
// PATH. Callers use this at construction time to decide whether to hand the
// engine a ChromeDriver or nil; the engine itself never probes.
func DetectChrome() bool {
	for _, name := range chromeBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// ChromeDriver launches headless Chrome sessions via the DevTools protocol.
type ChromeDriver struct {
	// execPath overrides the browser binary path. Empty means let
	// chromedp find one.
	execPath string
}

// ChromeOption configures a ChromeDriver.
type ChromeOption func(*ChromeDriver)

// WithExecPath sets an explicit browser binary path.
func WithExecPath(path string) ChromeOption {
	return func(d *ChromeDriver) {
		d.execPath = path
	}
}

// NewChromeDriver creates a ChromeDriver. It does not start a browser;
// sessions are launched lazily per combination so each one is isolated.
func NewChromeDriver(opts ...ChromeOption) *ChromeDriver {
	d := &ChromeDriver{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Launch starts a fresh headless browser session.
//
// Design decision: Every session gets its own exec allocator rather than
// sharing one browser across combinations. A shared browser is cheaper, but
// isolation is the point: leaked service workers, caches, or crashed
// renderers from one combination must not contaminate the next.
func (d *ChromeDriver) Launch(ctx context.Context) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
	)
	if d.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(d.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	s := &chromeSession{
		ctx:         taskCtx,
		cancelTask:  taskCancel,
		cancelAlloc: allocCancel,
	}
	s.listen()

	// Materialize the browser process now so launch failures surface
	// here, not on first navigation.
	if err := chromedp.Run(taskCtx); err != nil {
		s.cancelTask()
		s.cancelAlloc()
		return nil, err
	}

	return s, nil
}

// chromeSession is one live headless-browser session.
type chromeSession struct {
	ctx         context.Context
	cancelTask  context.CancelFunc
	cancelAlloc context.CancelFunc

	mu             sync.Mutex
	closed         bool
	scriptErrors   int
	consoleErrors  int
	failedRequests int
}

// listen wires CDP event listeners for error counting. Counters are
// guarded because chromedp delivers events from its own goroutine.
func (s *chromeSession) listen() {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			s.mu.Lock()
			s.scriptErrors++
			s.mu.Unlock()
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				s.mu.Lock()
				s.consoleErrors++
				s.mu.Unlock()
			}
		case *network.EventLoadingFailed:
			if !e.Canceled {
				s.mu.Lock()
				s.failedRequests++
				s.mu.Unlock()
			}
		}
	})
}

// Navigate loads the target under the requested emulation.
func (s *chromeSession) Navigate(_ context.Context, url string, opts NavigateOptions) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	navCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	tasks := chromedp.Tasks{
		network.Enable(),
		chromedp.EmulateViewport(int64(opts.Viewport.Width), int64(opts.Viewport.Height)),
	}
	if opts.UserAgent != "" {
		tasks = append(tasks, emulation.SetUserAgentOverride(opts.UserAgent))
	}
	tasks = append(tasks,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	return chromedp.Run(navCtx, tasks)
}

// CollectDiagnostics evaluates layout and document measurements in the
// loaded page and merges them with the CDP event counters.
func (s *chromeSession) CollectDiagnostics(_ context.Context) (*Diagnostics, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.mu.Unlock()

	var measured struct {
		ScrollWidth     int     `json:"scrollWidth"`
		ScrollHeight    int     `json:"scrollHeight"`
		HasViewportMeta bool    `json:"hasViewportMeta"`
		H1Count         int     `json:"h1Count"`
		FCP             float64 `json:"fcp"`
	}

	const script = `({
		scrollWidth: document.documentElement.scrollWidth,
		scrollHeight: document.documentElement.scrollHeight,
		hasViewportMeta: !!document.querySelector('meta[name="viewport"]'),
		h1Count: document.querySelectorAll('h1').length,
		fcp: (performance.getEntriesByName('first-contentful-paint')[0] || {startTime: 0}).startTime,
	})`

	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &measured)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return &Diagnostics{
		ScriptErrorCount:       s.scriptErrors,
		ConsoleErrorCount:      s.consoleErrors,
		FailedRequestCount:     s.failedRequests,
		ScrollWidth:            measured.ScrollWidth,
		ScrollHeight:           measured.ScrollHeight,
		HasViewportMeta:        measured.HasViewportMeta,
		H1Count:                measured.H1Count,
		FirstContentfulPaintMS: measured.FCP,
	}, nil
}

// Screenshot captures a full-page screenshot at 90% quality.
func (s *chromeSession) Screenshot(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.mu.Unlock()

	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close terminates the browser process. Idempotent: later calls return
// ErrSessionClosed without touching the already-cancelled contexts.
func (s *chromeSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.closed = true
	s.mu.Unlock()

	s.cancelTask()
	s.cancelAlloc()
	return nil
}

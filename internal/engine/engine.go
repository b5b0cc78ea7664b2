package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/compatscan/internal/config"
	"github.com/nao1215/compatscan/internal/fetcher"
	"github.com/nao1215/compatscan/internal/matrix"
	"github.com/nao1215/compatscan/internal/model"
	"github.com/nao1215/compatscan/internal/verify"
)

// errStopped ends a pipeline early after a cooperative stop request.
var errStopped = errors.New("run stopped by request")

// ErrMatrixSize reports a matrix whose cell count does not equal
// browsers × devices. This is a programming error, surfaced loudly rather
// than silently truncating the report.
var ErrMatrixSize = errors.New("internal invariant violation: matrix cell count mismatch")

// Progress checkpoints, in pipeline order. The values are fixed so
// observers can render a meaningful bar regardless of which optional
// stages run.
const (
	progressValidated = 10
	progressFetched   = 30
	progressBrowsers  = 45
	progressDevices   = 55
	progressMatrix    = 75
	progressVerified  = 90
)

// Engine executes compatibility runs. One Engine serves many sequential or
// concurrent runs; per-run state lives in the Run and the RunStore, never
// on the Engine itself.
type Engine struct {
	// client performs variant fetches.
	client *http.Client

	// driver is the browser automation capability; nil means absent.
	driver verify.Driver

	// store tracks observable run state.
	store *RunStore

	// logger is used for structured logging.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHTTPClient sets the HTTP client used for variant fetches.
func WithHTTPClient(client *http.Client) EngineOption {
	return func(e *Engine) {
		e.client = client
	}
}

// WithDriver injects the browser automation capability. Passing nil (or
// omitting the option) records the capability as absent; real verification
// then yields the single run-level unavailable result.
func WithDriver(driver verify.Driver) EngineOption {
	return func(e *Engine) {
		e.driver = driver
	}
}

// WithRunStore sets the run store. Useful when the caller also serves
// state queries from the same store.
func WithRunStore(store *RunStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithEngineLogger sets a custom logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{}

	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		e.client = http.DefaultClient
	}
	if e.store == nil {
		e.store = NewRunStore()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Store returns the engine's run store, for state queries and stop
// requests.
func (e *Engine) Store() *RunStore {
	return e.store
}

// Run carries the per-run working state shared between pipeline steps.
type Run struct {
	// Config is the validated, immutable run configuration.
	Config *config.Config

	// Report accumulates results as steps execute.
	Report *model.CompatReport

	// Variants is the identity-keyed signal cache built by the fetch step.
	Variants map[fetcher.Identity]*model.PageSignals

	// Builder is the matrix builder over Variants, created by the fetch
	// step.
	Builder *matrix.Builder

	// verificationRan records whether live sessions actually executed.
	verificationRan bool
}

// Execute runs one compatibility scan end to end and returns the final
// report.
//
// Only a configuration error prevents a report from being produced:
// partial failures inside the run are reported as data (issues and
// warnings), not as errors. A cooperative stop leaves the run in the
// cancelled state and returns the partial report.
func (e *Engine) Execute(ctx context.Context, cfg *config.Config) (*model.CompatReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	runID := uuid.NewString()
	e.store.Register(runID)

	report := model.NewCompatReport(runID, cfg.TargetURL)
	run := &Run{
		Config:   cfg,
		Report:   report,
		Variants: make(map[fetcher.Identity]*model.PageSignals),
	}

	e.store.Update(runID, model.StatusRunning, progressValidated, "configuration validated")
	started := time.Now()

	pipeline := NewPipeline(e.store, e.logger)
	pipeline.Add(&fetchStep{client: e.client, logger: e.logger}, progressFetched, "page variants fetched")
	pipeline.Add(&browserPassStep{}, progressBrowsers, "browser pass done")
	pipeline.Add(&devicePassStep{}, progressDevices, "device pass done")
	if cfg.EnableMatrix {
		pipeline.Add(&matrixStep{}, progressMatrix, "compatibility matrix built")
	}
	if cfg.RealVerification {
		pipeline.Add(&verifyStep{driver: e.driver, store: e.store, logger: e.logger},
			progressVerified, "real-environment verification done")
	}

	err := pipeline.Execute(ctx, run)
	report.Duration = time.Since(started)

	switch {
	case errors.Is(err, errStopped), errors.Is(err, context.Canceled):
		Aggregate(report, run.verificationRan)
		e.store.Cancel(runID)
		return report, nil
	case err != nil:
		e.store.Fail(runID, err.Error())
		return report, err
	}

	Aggregate(report, run.verificationRan)
	e.store.Complete(runID, report)

	e.logger.Info("run completed",
		"run_id", runID,
		"target", cfg.TargetURL,
		"score", report.Score,
		"duration", report.Duration,
	)

	return report, nil
}

// fetchStep fetches the baseline and all distinct identity variants, then
// prepares the matrix builder over the resulting cache.
type fetchStep struct {
	client *http.Client
	logger *slog.Logger
}

// Name returns the step name.
func (s *fetchStep) Name() string { return "fetch_variants" }

// Do fetches the variants. Identity resolution only matters when the
// matrix pass runs; otherwise a single baseline fetch feeds the browser
// and device passes.
func (s *fetchStep) Do(ctx context.Context, run *Run) error {
	cfg := run.Config

	var identities []fetcher.Identity
	if cfg.EnableMatrix {
		identities = fetcher.DistinctIdentities(cfg.Browsers, cfg.Devices)
	}

	f := fetcher.New(s.client,
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithBaselineUserAgent(cfg.UserAgent),
		fetcher.WithConcurrency(cfg.FetchConcurrency),
		fetcher.WithLogger(s.logger),
	)

	run.Variants = f.FetchVariants(ctx, cfg.TargetURL, identities)
	run.Builder = matrix.NewBuilder(run.Variants, cfg.FeatureDetection)
	run.Report.BaselineSignals = run.Variants[fetcher.Baseline]
	return nil
}

// browserPassStep computes the per-browser verdicts.
type browserPassStep struct{}

// Name returns the step name.
func (s *browserPassStep) Name() string { return "browser_pass" }

// Do computes the verdicts.
func (s *browserPassStep) Do(_ context.Context, run *Run) error {
	run.Report.BrowserVerdicts = run.Builder.BrowserVerdicts(run.Config.Browsers)
	return nil
}

// devicePassStep computes the per-device verdicts.
type devicePassStep struct{}

// Name returns the step name.
func (s *devicePassStep) Name() string { return "device_pass" }

// Do computes the verdicts.
func (s *devicePassStep) Do(_ context.Context, run *Run) error {
	run.Report.DeviceVerdicts = run.Builder.DeviceVerdicts(run.Config.Devices)
	return nil
}

// matrixStep builds the full browser×device matrix and checks the cell
// count invariant.
type matrixStep struct{}

// Name returns the step name.
func (s *matrixStep) Name() string { return "matrix" }

// Do builds the matrix.
func (s *matrixStep) Do(_ context.Context, run *Run) error {
	cells := run.Builder.Build(run.Config.Browsers, run.Config.Devices)

	want := len(run.Config.Browsers) * len(run.Config.Devices)
	if len(cells) != want {
		return fmt.Errorf("%w: got %d cells, want %d", ErrMatrixSize, len(cells), want)
	}

	run.Report.Matrix = cells
	run.Report.FeatureSummary = matrix.FeatureSummary(cells)
	return nil
}

// verifyStep runs real-environment verification over all combinations.
type verifyStep struct {
	driver verify.Driver
	store  *RunStore
	logger *slog.Logger
}

// Name returns the step name.
func (s *verifyStep) Name() string { return "real_verification" }

// Do verifies each combination with a live browser session, or records the
// single unavailable result when no driver was injected.
func (s *verifyStep) Do(ctx context.Context, run *Run) error {
	verifier := verify.New(s.driver,
		verify.WithTimeout(run.Config.Timeout),
		verify.WithScreenshots(run.Config.CaptureScreenshot),
		verify.WithLogger(s.logger),
	)

	runID := run.Report.RunID
	run.Report.RealResults = verifier.VerifyAll(ctx, run.Config.TargetURL,
		run.Config.Browsers, run.Config.Devices,
		func(b model.BrowserProfile, d model.DeviceProfile) string {
			return string(fetcher.ResolveIdentity(b, d))
		},
		func() bool { return s.store.StopRequested(runID) },
	)
	run.verificationRan = verifier.Available()

	return nil
}

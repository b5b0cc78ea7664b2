package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// WarningUnavailable is the run-level marker message used when the
// automation capability is absent.
const WarningUnavailable = "real-environment verification unavailable: no browser automation driver configured"

// Verifier drives real-browser verification across browser×device
// combinations. Sessions run one at a time: each combination launches,
// uses, and closes its own session before the next starts, so a slow
// navigation never starves a sibling of browser resources.
type Verifier struct {
	// driver launches sessions; nil means the capability is absent.
	driver Driver

	// timeout bounds each navigation independently.
	timeout time.Duration

	// captureScreenshot enables full-page captures per combination.
	captureScreenshot bool

	// logger is used for structured logging.
	logger *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithTimeout sets the per-navigation timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		v.timeout = d
	}
}

// WithScreenshots enables full-page screenshot capture.
func WithScreenshots(enabled bool) Option {
	return func(v *Verifier) {
		v.captureScreenshot = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// New creates a Verifier. A nil driver is valid and produces the single
// run-level unavailable result.
func New(driver Driver, opts ...Option) *Verifier {
	v := &Verifier{
		driver:  driver,
		timeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.logger == nil {
		v.logger = slog.Default()
	}

	return v
}

// Available reports whether the automation capability is present.
func (v *Verifier) Available() bool {
	return v.driver != nil
}

// VerifyAll verifies every browser×device combination in the contract
// ordering (browsers outer, devices inner).
//
// When the capability is absent the whole sub-step short-circuits to a
// single result with Available=false. The stop callback is consulted
// between combinations; a true return abandons the remaining combinations
// without touching results already collected.
func (v *Verifier) VerifyAll(
	ctx context.Context,
	targetURL string,
	browsers []model.BrowserProfile,
	devices []model.DeviceProfile,
	userAgentFor func(model.BrowserProfile, model.DeviceProfile) string,
	stop func() bool,
) []model.RealVerificationResult {
	if v.driver == nil {
		return []model.RealVerificationResult{{
			Available: false,
			Issues:    make([]string, 0),
			Warnings:  []string{WarningUnavailable},
		}}
	}

	results := make([]model.RealVerificationResult, 0, len(browsers)*len(devices))
	for _, browser := range browsers {
		for _, device := range devices {
			if stop != nil && stop() {
				v.logger.Info("real verification stopped by request",
					"completed", len(results),
				)
				return results
			}

			ua := ""
			if userAgentFor != nil {
				ua = userAgentFor(browser, device)
			}
			results = append(results, v.verifyOne(ctx, targetURL, browser, device, ua))
		}
	}
	return results
}

// verifyOne runs one combination through the session state machine:
// launching → navigating → evaluating → closed. Close is deferred
// immediately after a successful launch so it runs on every exit path.
func (v *Verifier) verifyOne(
	ctx context.Context,
	targetURL string,
	browser model.BrowserProfile,
	device model.DeviceProfile,
	userAgent string,
) model.RealVerificationResult {
	result := model.RealVerificationResult{
		Browser:  browser.Key(),
		Device:   device.Name,
		Issues:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	session, err := v.driver.Launch(ctx)
	if err != nil {
		v.logger.Warn("session launch failed",
			"browser", browser.Key(),
			"device", device.Name,
			"error", err,
		)
		result.Available = false
		result.Warnings = append(result.Warnings, fmt.Sprintf("session launch failed: %v", err))
		return result
	}
	defer func() {
		if err := session.Close(); err != nil {
			v.logger.Warn("session close failed",
				"browser", browser.Key(),
				"device", device.Name,
				"error", err,
			)
		}
	}()

	result.Available = true

	err = session.Navigate(ctx, targetURL, NavigateOptions{
		Viewport:  device.Viewport,
		UserAgent: userAgent,
		Timeout:   v.timeout,
	})
	if err != nil {
		// Transport-level failure for this one combination; siblings
		// are unaffected.
		v.logger.Warn("navigation failed",
			"browser", browser.Key(),
			"device", device.Name,
			"error", err,
		)
		result.Available = false
		result.Warnings = append(result.Warnings, fmt.Sprintf("navigation failed: %v", err))
		return result
	}

	diag, err := session.CollectDiagnostics(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("diagnostics collection failed: %v", err))
		result.Compatible = len(result.Issues) == 0
		return result
	}

	metrics := &model.SessionMetrics{
		ScrollWidth:            diag.ScrollWidth,
		ScrollHeight:           diag.ScrollHeight,
		FirstContentfulPaintMS: diag.FirstContentfulPaintMS,
		ScriptErrorCount:       diag.ScriptErrorCount,
		ConsoleErrorCount:      diag.ConsoleErrorCount,
		FailedRequestCount:     diag.FailedRequestCount,
	}
	result.Metrics = metrics

	if diag.ScriptErrorCount > 0 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d uncaught script error(s) on %s / %s", diag.ScriptErrorCount, browser.Key(), device.Name))
	}
	if diag.FailedRequestCount > 0 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d sub-resource load(s) failed", diag.FailedRequestCount))
	}
	if diag.ScrollWidth > device.Viewport.Width {
		result.Issues = append(result.Issues,
			fmt.Sprintf("horizontal overflow: content width %dpx exceeds viewport %dpx on %s",
				diag.ScrollWidth, device.Viewport.Width, device.Name))
	}
	if !diag.HasViewportMeta {
		result.Issues = append(result.Issues, "missing viewport meta tag")
	}
	if diag.ConsoleErrorCount > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d console error(s) logged", diag.ConsoleErrorCount))
	}
	if diag.H1Count == 0 {
		result.Warnings = append(result.Warnings, "no H1 heading in rendered DOM")
	}

	if v.captureScreenshot {
		// Screenshot failures are swallowed: absence is never fatal.
		if shot, err := session.Screenshot(ctx); err == nil && len(shot) > 0 {
			metrics.Screenshot = shot
		} else if err != nil {
			v.logger.Debug("screenshot capture failed",
				"browser", browser.Key(),
				"device", device.Name,
				"error", err,
			)
		}
	}

	result.Compatible = len(result.Issues) == 0
	return result
}

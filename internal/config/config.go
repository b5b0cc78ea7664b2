package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// Default configuration values.
// These values match the behavior observers depend on: a config with empty
// browser/device lists is filled with a standard 4-browser / 3-device set
// covering the major desktop engines, one mobile-class engine, and one
// legacy-class engine.
const (
	// DefaultTimeout is the per-fetch and per-navigation timeout.
	// 30 seconds accommodates slow pages without stalling a whole run.
	DefaultTimeout = 30 * time.Second

	// MinTimeout is the smallest accepted timeout. Anything below one
	// second fails before TLS handshakes complete on real networks.
	MinTimeout = 1 * time.Second

	// MaxTimeout is the largest accepted timeout. A single combination is
	// never allowed to hold the run for more than two minutes.
	MaxTimeout = 120 * time.Second

	// MinViewportWidth is the smallest accepted device width. 320 is the
	// narrowest viewport shipped on devices still in circulation.
	MinViewportWidth = 320

	// MinViewportHeight is the smallest accepted device height.
	MinViewportHeight = 480

	// DefaultFetchConcurrency is the worker limit for variant fetches.
	// Distinct client identities are embarrassingly parallel; 4 workers
	// keeps the load on the target modest.
	DefaultFetchConcurrency = 4

	// DefaultMaxBodySize limits the response body size read per variant.
	// 5MB is sufficient for any real HTML document while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "compatscan"
)

// DefaultBrowsers returns the standard browser set applied when the
// configured browser list is empty: two major desktop engines, one
// mobile-class engine, and one legacy-class engine.
func DefaultBrowsers() []model.BrowserProfile {
	return []model.BrowserProfile{
		{Name: "Chrome", Version: "120"},
		{Name: "Firefox", Version: "121"},
		{Name: "Safari", Version: "17"},
		{Name: "IE", Version: "11"},
	}
}

// DefaultDevices returns the standard device set applied when the
// configured device list is empty.
func DefaultDevices() []model.DeviceProfile {
	return []model.DeviceProfile{
		{Name: "Desktop", Viewport: model.Viewport{Width: 1920, Height: 1080}},
		{Name: "Tablet", Viewport: model.Viewport{Width: 768, Height: 1024}},
		{Name: "Mobile", Viewport: model.Viewport{Width: 375, Height: 667}},
	}
}

// Config holds all options for one compatibility run.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity, matching how the config is populated from CLI flags and
// passed through the engine via dependency injection rather than global
// state. The struct is immutable once Validate has been called.
type Config struct {
	// TargetURL is the absolute http(s) URL of the page to analyze.
	TargetURL string

	// Browsers is the list of browser profiles to test. Empty means use
	// DefaultBrowsers().
	Browsers []model.BrowserProfile

	// Devices is the list of device profiles to test. Empty means use
	// DefaultDevices().
	Devices []model.DeviceProfile

	// EnableMatrix enables the full browser×device matrix pass. When
	// false only the simpler per-browser and per-device passes run.
	EnableMatrix bool

	// FeatureDetection enables cross-referencing required features
	// against the static support table in each matrix cell.
	FeatureDetection bool

	// RealVerification enables live-browser verification when an
	// automation driver is available.
	RealVerification bool

	// CaptureScreenshot enables full-page screenshots during real
	// verification. Capture failures are swallowed.
	CaptureScreenshot bool

	// Timeout bounds each fetch and each live navigation independently.
	Timeout time.Duration

	// FetchConcurrency is the worker limit for variant fetches and real
	// verification sessions. Zero means DefaultFetchConcurrency.
	FetchConcurrency int

	// MaxBodySize is the maximum response body size in bytes to read per
	// variant. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// UserAgent is the baseline User-Agent used when no client identity
	// resolves for a fetch.
	UserAgent string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool
}

// NewConfig creates a Config with default values for everything except the
// target URL, which has no sensible default.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeout, concurrency,
// body size). This also serves as documentation of what the defaults are.
func NewConfig(targetURL string) *Config {
	return &Config{
		TargetURL:        targetURL,
		EnableMatrix:     true,
		FeatureDetection: true,
		Timeout:          DefaultTimeout,
		FetchConcurrency: DefaultFetchConcurrency,
		MaxBodySize:      DefaultMaxBodySize,
		UserAgent:        "compatscan/1.0 (+https://github.com/nao1215/compatscan)",
	}
}

// Validate checks the configuration and normalizes it in place: empty
// browser/device lists are replaced with the defaults, and zero-valued
// tunables are replaced with their documented defaults. After Validate
// returns nil the config is fully populated and must not be mutated.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return ErrNoTargetURL
	}

	u, err := url.Parse(c.TargetURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTargetURL, c.TargetURL)
	}

	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.Timeout)
	}

	if len(c.Browsers) == 0 {
		c.Browsers = DefaultBrowsers()
	}
	if len(c.Devices) == 0 {
		c.Devices = DefaultDevices()
	}

	for _, b := range c.Browsers {
		if b.Name == "" {
			return ErrEmptyBrowserName
		}
	}
	for _, d := range c.Devices {
		if d.Name == "" {
			return ErrEmptyDeviceName
		}
		if d.Viewport.Width < MinViewportWidth || d.Viewport.Height < MinViewportHeight {
			return fmt.Errorf("%w: device %q has %dx%d",
				ErrViewportTooSmall, d.Name, d.Viewport.Width, d.Viewport.Height)
		}
	}

	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = DefaultFetchConcurrency
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}

	return nil
}

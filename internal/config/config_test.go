package config

import (
	"errors"
	"testing"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty target URL", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("")
		if err := cfg.Validate(); !errors.Is(err, ErrNoTargetURL) {
			t.Errorf("expected ErrNoTargetURL, got %v", err)
		}
	})

	t.Run("relative URL rejected", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("/just/a/path")
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTargetURL) {
			t.Errorf("expected ErrInvalidTargetURL, got %v", err)
		}
	})

	t.Run("non-http scheme rejected", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("ftp://example.com/file")
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTargetURL) {
			t.Errorf("expected ErrInvalidTargetURL, got %v", err)
		}
	})

	t.Run("timeout below minimum", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		cfg.Timeout = 500 * time.Millisecond
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("timeout above maximum", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		cfg.Timeout = 3 * time.Minute
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("viewport too small", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		cfg.Devices = []model.DeviceProfile{
			{Name: "Tiny", Viewport: model.Viewport{Width: 200, Height: 300}},
		}
		if err := cfg.Validate(); !errors.Is(err, ErrViewportTooSmall) {
			t.Errorf("expected ErrViewportTooSmall, got %v", err)
		}
	})

	t.Run("empty browser name", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		cfg.Browsers = []model.BrowserProfile{{Version: "120"}}
		if err := cfg.Validate(); !errors.Is(err, ErrEmptyBrowserName) {
			t.Errorf("expected ErrEmptyBrowserName, got %v", err)
		}
	})

	t.Run("applies default browser and device sets", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Browsers) != 4 {
			t.Errorf("expected 4 default browsers, got %d", len(cfg.Browsers))
		}
		if len(cfg.Devices) != 3 {
			t.Errorf("expected 3 default devices, got %d", len(cfg.Devices))
		}
	})

	t.Run("applies default tunables", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		cfg.FetchConcurrency = 0
		cfg.MaxBodySize = 0
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.FetchConcurrency != DefaultFetchConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultFetchConcurrency, cfg.FetchConcurrency)
		}
		if cfg.MaxBodySize != DefaultMaxBodySize {
			t.Errorf("expected default max body size %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
		}
	})

	t.Run("keeps explicit profiles", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig("https://example.com")
		cfg.Browsers = []model.BrowserProfile{{Name: "Chrome", Version: "120"}}
		cfg.Devices = []model.DeviceProfile{
			{Name: "Desktop", Viewport: model.Viewport{Width: 1366, Height: 768}},
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Browsers) != 1 || cfg.Browsers[0].Name != "Chrome" {
			t.Errorf("explicit browser list was replaced: %+v", cfg.Browsers)
		}
		if len(cfg.Devices) != 1 || cfg.Devices[0].Name != "Desktop" {
			t.Errorf("explicit device list was replaced: %+v", cfg.Devices)
		}
	})
}

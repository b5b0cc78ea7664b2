package fetcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/compatscan/internal/model"
	"github.com/nao1215/compatscan/internal/signal"
)

// Fetcher fetches page variants and runs each body through the signal
// extractor. One Fetcher serves one run; it is not reused across runs.
type Fetcher struct {
	// client performs the HTTP requests. Injected so tests can point it
	// at an httptest server and so callers control transport settings.
	client *http.Client

	// timeout bounds each individual fetch independently.
	timeout time.Duration

	// maxBodySize limits the response body bytes read per variant.
	maxBodySize int64

	// baselineUA is the User-Agent for the baseline (identity-less) fetch.
	baselineUA string

	// concurrency caps the number of in-flight fetches.
	concurrency int

	// logger is used for structured logging.
	logger *slog.Logger

	// fetchCount tracks issued network fetches, for the de-duplication
	// guarantee and its tests.
	fetchCount int
	mu         sync.Mutex
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum response body size per variant.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithBaselineUserAgent sets the User-Agent for the baseline fetch.
func WithBaselineUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.baselineUA = ua
	}
}

// WithConcurrency caps the number of concurrent fetches.
// Default is 4 if not specified.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher using the given HTTP client.
//
// Design decision: We require an external client rather than building one,
// consistent with the rest of the codebase: transport concerns (proxies,
// TLS settings) belong to the caller, and tests can substitute an
// httptest-backed client.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		timeout:     30 * time.Second,
		maxBodySize: 5 * 1024 * 1024,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// FetchVariants fetches the target once per distinct identity plus once for
// the baseline, and returns the extracted signals keyed by identity. The
// baseline variant is stored under the Baseline key.
//
// Failures are recovered locally: a transport-level failure yields the
// signals of an empty document for that one identity, so a single
// unreachable variant never aborts the run. The returned map always has
// exactly len(identities)+1 entries.
//
// Fetches run concurrently up to the configured limit; the result map is
// assembled after all workers finish, so output is deterministic regardless
// of completion order.
func (f *Fetcher) FetchVariants(ctx context.Context, targetURL string, identities []Identity) map[Identity]*model.PageSignals {
	// Pre-size with the baseline slot.
	results := make([]*model.PageSignals, len(identities)+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	g.Go(func() error {
		results[0] = f.fetchOne(gctx, targetURL, f.baselineUA)
		return nil
	})

	for i, id := range identities {
		g.Go(func() error {
			results[i+1] = f.fetchOne(gctx, targetURL, string(id))
			return nil
		})
	}

	// Workers never return errors; failures degrade to empty variants.
	_ = g.Wait() //nolint:errcheck // Workers always return nil

	variants := make(map[Identity]*model.PageSignals, len(identities)+1)
	variants[Baseline] = results[0]
	for i, id := range identities {
		variants[id] = results[i+1]
	}
	return variants
}

// fetchOne fetches a single variant and extracts its signals.
// A transport failure yields the signals of an empty document.
func (f *Fetcher) fetchOne(ctx context.Context, targetURL, userAgent string) *model.PageSignals {
	f.mu.Lock()
	f.fetchCount++
	f.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, targetURL, nil)
	if err != nil {
		f.logger.Warn("building variant request failed",
			"url", targetURL,
			"error", err,
		)
		return signal.Extract("")
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		// Transport-level failure: timeout, DNS, connection reset.
		f.logger.Warn("variant fetch failed",
			"url", targetURL,
			"error", err,
		)
		return signal.Extract("")
	}
	defer resp.Body.Close() //nolint:errcheck // Read side only

	// Non-2xx is not a failure: error pages still carry markup signals.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		f.logger.Warn("reading variant body failed",
			"url", targetURL,
			"status", resp.StatusCode,
			"error", err,
		)
		return signal.Extract("")
	}

	f.logger.Debug("variant fetched",
		"url", targetURL,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return signal.Extract(string(body))
}

// FetchCount returns the number of network fetches issued so far.
func (f *Fetcher) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCount
}

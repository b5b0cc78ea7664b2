package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/compatscan/internal/signal"
)

// TestFetchVariants tests variant fetching against a local test server.
func TestFetchVariants(t *testing.T) {
	t.Parallel()

	t.Run("one fetch per distinct identity plus baseline", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		seenAgents := make(map[string]int)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			seenAgents[r.UserAgent()]++
			mu.Unlock()
			w.Write([]byte(`<html lang="en"><head><meta charset="utf-8"></head><body><h1>hi</h1></body></html>`))
		}))
		defer server.Close()

		f := New(server.Client(), WithBaselineUserAgent("baseline-ua"))
		identities := []Identity{"ua-one", "ua-two"}

		variants := f.FetchVariants(context.Background(), server.URL, identities)

		if len(variants) != 3 {
			t.Fatalf("expected 3 variants, got %d", len(variants))
		}
		if f.FetchCount() != 3 {
			t.Errorf("expected 3 fetches, got %d", f.FetchCount())
		}
		for _, ua := range []string{"baseline-ua", "ua-one", "ua-two"} {
			mu.Lock()
			n := seenAgents[ua]
			mu.Unlock()
			if n != 1 {
				t.Errorf("expected exactly 1 request with user agent %q, got %d", ua, n)
			}
		}
		if variants[Baseline] == nil {
			t.Fatal("expected baseline variant")
		}
		if !variants[Baseline].Meta.HasH1 {
			t.Error("expected baseline signals to reflect fetched body")
		}
	})

	t.Run("transport failure degrades to empty-document signals", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		f := New(&http.Client{}, WithTimeout(2*time.Second))

		variants := f.FetchVariants(context.Background(), server.URL, []Identity{"ua-one"})

		if len(variants) != 2 {
			t.Fatalf("expected 2 variants, got %d", len(variants))
		}
		for id, s := range variants {
			if s == nil {
				t.Fatalf("variant %q is nil", id)
			}
			if !containsString(s.Issues, signal.IssueMissingViewport) {
				t.Errorf("variant %q: expected empty-document issues, got %v", id, s.Issues)
			}
		}
	})

	t.Run("non-2xx body is still parsed", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`<html><body><h1>Maintenance</h1></body></html>`))
		}))
		defer server.Close()

		f := New(server.Client())

		variants := f.FetchVariants(context.Background(), server.URL, nil)

		if !variants[Baseline].Meta.HasH1 {
			t.Error("expected error-page markup to be parsed")
		}
	})

	t.Run("body larger than the limit is truncated not rejected", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><meta name="viewport" content="width=device-width"></head><body>`))
			for range 1000 {
				w.Write([]byte("<p>padding padding padding</p>"))
			}
			w.Write([]byte(`</body></html>`))
		}))
		defer server.Close()

		f := New(server.Client(), WithMaxBodySize(128))

		variants := f.FetchVariants(context.Background(), server.URL, nil)

		// The viewport meta sits inside the first 128 bytes.
		if !variants[Baseline].Meta.HasViewport {
			t.Error("expected truncated body to still be parsed")
		}
	})
}

// containsString reports whether the slice contains the exact string.
func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

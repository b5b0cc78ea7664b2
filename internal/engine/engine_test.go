package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/compatscan/internal/config"
	"github.com/nao1215/compatscan/internal/model"
	"github.com/nao1215/compatscan/internal/verify"
)

const cleanPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>clean</title>
</head>
<body><h1>Welcome</h1></body>
</html>`

const brokenPage = `<html><body>
<script type="module" src="/app.js"></script>
</body></html>`

// testConfig builds a validated single-combination config against the
// given URL.
func testConfig(targetURL string) *config.Config {
	cfg := config.NewConfig(targetURL)
	cfg.Browsers = []model.BrowserProfile{{Name: "Chrome", Version: "120"}}
	cfg.Devices = []model.DeviceProfile{
		{Name: "Desktop", Viewport: model.Viewport{Width: 1920, Height: 1080}},
	}
	return cfg
}

// pageServer serves the given markup for every request.
func pageServer(t *testing.T, markup string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(markup))
	}))
	t.Cleanup(server.Close)
	return server
}

// TestEngineExecute tests complete runs end to end.
func TestEngineExecute(t *testing.T) {
	t.Parallel()

	t.Run("clean page scores one hundred", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, cleanPage)
		e := New(WithHTTPClient(server.Client()))

		report, err := e.Execute(context.Background(), testConfig(server.URL))
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}

		if report.Score != 100 {
			t.Errorf("score = %d, want 100", report.Score)
		}
		if len(report.Matrix) != 1 {
			t.Fatalf("expected 1 matrix cell, got %d", len(report.Matrix))
		}
		if !report.Matrix[0].Compatible {
			t.Errorf("expected compatible cell, issues=%v", report.Matrix[0].Issues)
		}
		if got := []string{RecommendationAllClear}; len(report.Recommendations) != 1 || report.Recommendations[0] != got[0] {
			t.Errorf("recommendations = %v, want all-clear", report.Recommendations)
		}

		state, ok := e.Store().GetRunState(report.RunID)
		if !ok {
			t.Fatal("expected run state")
		}
		if state.Status != model.StatusCompleted || state.Progress != 100 {
			t.Errorf("state = %+v, want completed at 100", state)
		}
	})

	t.Run("broken page scores zero with recommendations", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, brokenPage)
		e := New(WithHTTPClient(server.Client()))

		report, err := e.Execute(context.Background(), testConfig(server.URL))
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}

		if report.Score != 0 {
			t.Errorf("score = %d, want 0", report.Score)
		}
		if len(report.Recommendations) == 0 {
			t.Error("expected recommendations for broken page")
		}
	})

	t.Run("invalid config returns error without a run", func(t *testing.T) {
		t.Parallel()

		e := New()

		report, err := e.Execute(context.Background(), config.NewConfig(""))
		if !errors.Is(err, config.ErrNoTargetURL) {
			t.Errorf("expected ErrNoTargetURL, got %v", err)
		}
		if report != nil {
			t.Error("expected no report for invalid config")
		}
	})

	t.Run("unreachable target still completes with a report", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, "")
		server.Close() // connection refused

		e := New(WithHTTPClient(&http.Client{}))

		report, err := e.Execute(context.Background(), testConfig(server.URL))
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if report.Score != 0 {
			t.Errorf("score = %d, want 0 for empty-document signals", report.Score)
		}
		state, _ := e.Store().GetRunState(report.RunID)
		if state.Status != model.StatusCompleted {
			t.Errorf("status = %v, want completed", state.Status)
		}
	})

	t.Run("matrix disabled scores from verdicts", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, cleanPage)
		e := New(WithHTTPClient(server.Client()))

		cfg := testConfig(server.URL)
		cfg.EnableMatrix = false

		report, err := e.Execute(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}

		if report.Matrix != nil {
			t.Errorf("expected no matrix, got %d cells", len(report.Matrix))
		}
		if report.Score != 100 {
			t.Errorf("score = %d, want 100 from verdicts", report.Score)
		}
	})

	t.Run("real verification without a driver yields unavailable result", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, cleanPage)
		e := New(WithHTTPClient(server.Client()))

		cfg := testConfig(server.URL)
		cfg.RealVerification = true

		report, err := e.Execute(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}

		if len(report.RealResults) != 1 {
			t.Fatalf("expected 1 real result, got %d", len(report.RealResults))
		}
		if report.RealResults[0].Available {
			t.Error("expected Available=false")
		}
		if len(report.RealResults[0].Warnings) != 1 || report.RealResults[0].Warnings[0] != verify.WarningUnavailable {
			t.Errorf("expected unavailable warning, got %v", report.RealResults[0].Warnings)
		}

		// Simulation-only advisory applies because no session ran.
		found := false
		for _, w := range report.Warnings {
			if w == WarningSimulationOnly {
				found = true
			}
		}
		if !found {
			t.Errorf("expected simulation-only warning, got %v", report.Warnings)
		}

		state, _ := e.Store().GetRunState(report.RunID)
		if state.Status != model.StatusCompleted {
			t.Errorf("status = %v, want completed despite unavailable capability", state.Status)
		}
	})

	t.Run("pre-cancelled context leaves run cancelled with partial report", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, cleanPage)
		e := New(WithHTTPClient(server.Client()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := e.Execute(ctx, testConfig(server.URL))
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if report == nil {
			t.Fatal("expected partial report")
		}

		state, _ := e.Store().GetRunState(report.RunID)
		if state.Status != model.StatusCancelled {
			t.Errorf("status = %v, want cancelled", state.Status)
		}
	})

	t.Run("progress events are monotone through a run", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, cleanPage)

		events := make([]model.ProgressEvent, 0)
		store := NewRunStore(WithObserver(func(ev model.ProgressEvent) {
			events = append(events, ev)
		}))
		e := New(WithHTTPClient(server.Client()), WithRunStore(store))

		if _, err := e.Execute(context.Background(), testConfig(server.URL)); err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}

		last := -1
		for i, ev := range events {
			if ev.Progress < last {
				t.Errorf("event %d progress %d dropped below %d", i, ev.Progress, last)
			}
			last = ev.Progress
		}
		if len(events) == 0 || events[len(events)-1].Status != model.StatusCompleted {
			t.Errorf("expected final event completed, got %v", events)
		}
	})

	t.Run("baseline signals are carried into the report", func(t *testing.T) {
		t.Parallel()

		server := pageServer(t, cleanPage)
		e := New(WithHTTPClient(server.Client()))

		report, err := e.Execute(context.Background(), testConfig(server.URL))
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}

		if report.BaselineSignals == nil || !report.BaselineSignals.Meta.HasViewport {
			t.Errorf("expected baseline signals from fetched page, got %+v", report.BaselineSignals)
		}
		if report.TargetURL != server.URL {
			t.Errorf("target URL = %q, want %q", report.TargetURL, server.URL)
		}
		if report.Duration <= 0 {
			t.Error("expected positive duration")
		}
	})
}

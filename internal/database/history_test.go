package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// openTestDB opens a HistoryDB in a per-test temp directory.
func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return db
}

// storedReport builds a report with the given run ID, target, and scan time.
func storedReport(runID, target string, score int, scanned time.Time) *model.CompatReport {
	report := model.NewCompatReport(runID, target)
	report.DateScanned = scanned
	report.Score = score
	return report
}

// TestHistoryDB tests report persistence.
func TestHistoryDB(t *testing.T) {
	t.Parallel()

	t.Run("save and load by run ID", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		original := storedReport("run-1", "https://example.com", 83, time.Now().UTC())
		original.Recommendations = []string{"missing viewport meta tag"}

		if err := db.SaveReport(ctx, original); err != nil {
			t.Fatalf("SaveReport returned error: %v", err)
		}

		loaded, err := db.GetReport(ctx, "run-1")
		if err != nil {
			t.Fatalf("GetReport returned error: %v", err)
		}
		if loaded.RunID != "run-1" || loaded.TargetURL != "https://example.com" || loaded.Score != 83 {
			t.Errorf("loaded = %s/%s/%d, want run-1/https://example.com/83",
				loaded.RunID, loaded.TargetURL, loaded.Score)
		}
		if len(loaded.Recommendations) != 1 {
			t.Errorf("recommendations = %v, want 1 entry", loaded.Recommendations)
		}
	})

	t.Run("unknown run ID yields ErrReportNotFound", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)

		if _, err := db.GetReport(context.Background(), "missing"); !errors.Is(err, ErrReportNotFound) {
			t.Errorf("expected ErrReportNotFound, got %v", err)
		}
	})

	t.Run("duplicate run ID is rejected", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		report := storedReport("run-1", "https://example.com", 50, time.Now().UTC())
		if err := db.SaveReport(ctx, report); err != nil {
			t.Fatalf("SaveReport returned error: %v", err)
		}
		if err := db.SaveReport(ctx, report); err == nil {
			t.Error("expected unique constraint violation on duplicate run ID")
		}
	})

	t.Run("latest report per target", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		for i, score := range []int{40, 60, 80} {
			report := storedReport(
				"run-"+string(rune('a'+i)),
				"https://example.com", score,
				base.Add(time.Duration(i)*time.Hour),
			)
			if err := db.SaveReport(ctx, report); err != nil {
				t.Fatalf("SaveReport returned error: %v", err)
			}
		}

		latest, err := db.GetLatestReport(ctx, "https://example.com")
		if err != nil {
			t.Fatalf("GetLatestReport returned error: %v", err)
		}
		if latest.Score != 80 {
			t.Errorf("latest score = %d, want 80", latest.Score)
		}

		if _, err := db.GetLatestReport(ctx, "https://other.example.com"); !errors.Is(err, ErrReportNotFound) {
			t.Errorf("expected ErrReportNotFound for unseen target, got %v", err)
		}
	})

	t.Run("list history newest first with target filter", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		saves := []struct {
			runID  string
			target string
			offset time.Duration
		}{
			{"run-old", "https://a.example.com", 0},
			{"run-mid", "https://b.example.com", time.Hour},
			{"run-new", "https://a.example.com", 2 * time.Hour},
		}
		for _, s := range saves {
			if err := db.SaveReport(ctx, storedReport(s.runID, s.target, 70, base.Add(s.offset))); err != nil {
				t.Fatalf("SaveReport returned error: %v", err)
			}
		}

		all, err := db.ListHistory(ctx, "")
		if err != nil {
			t.Fatalf("ListHistory returned error: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(all))
		}
		if all[0].RunID != "run-new" || all[2].RunID != "run-old" {
			t.Errorf("ordering = [%s %s %s], want newest first", all[0].RunID, all[1].RunID, all[2].RunID)
		}

		filtered, err := db.ListHistory(ctx, "https://a.example.com")
		if err != nil {
			t.Fatalf("ListHistory returned error: %v", err)
		}
		if len(filtered) != 2 {
			t.Errorf("expected 2 filtered entries, got %d", len(filtered))
		}
		for _, e := range filtered {
			if e.TargetURL != "https://a.example.com" {
				t.Errorf("unexpected target in filtered list: %s", e.TargetURL)
			}
			if e.Timestamp.IsZero() {
				t.Errorf("entry %s has zero timestamp", e.RunID)
			}
		}
	})
}

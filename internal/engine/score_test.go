package engine

import (
	"reflect"
	"testing"

	"github.com/nao1215/compatscan/internal/model"
)

// cell builds a matrix cell with only the fields scoring looks at.
func cell(compatible bool, issues ...string) model.MatrixCell {
	return model.MatrixCell{Compatible: compatible, Issues: issues}
}

// TestAggregate tests score computation and run-level warnings.
func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("matrix is the scoring source when present", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{
			Matrix: []model.MatrixCell{
				cell(true), cell(true), cell(false, "broken"),
			},
			// Verdicts must not double-count when the matrix ran.
			BrowserVerdicts: []model.Verdict{{Compatible: false}},
		}

		Aggregate(report, true)

		if report.Score != 67 {
			t.Errorf("score = %d, want 67 (round of 2/3)", report.Score)
		}
	})

	t.Run("verdicts score the run without a matrix", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{
			BrowserVerdicts: []model.Verdict{{Compatible: true}, {Compatible: false}},
			DeviceVerdicts:  []model.Verdict{{Compatible: true}, {Compatible: true}},
		}

		Aggregate(report, true)

		if report.Score != 75 {
			t.Errorf("score = %d, want 75", report.Score)
		}
	})

	t.Run("empty run scores zero", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{}

		Aggregate(report, true)

		if report.Score != 0 {
			t.Errorf("score = %d, want 0 on empty denominator", report.Score)
		}
	})

	t.Run("all compatible scores one hundred with all-clear", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{
			Matrix: []model.MatrixCell{cell(true), cell(true)},
		}

		Aggregate(report, true)

		if report.Score != 100 {
			t.Errorf("score = %d, want 100", report.Score)
		}
		want := []string{RecommendationAllClear}
		if !reflect.DeepEqual(report.Recommendations, want) {
			t.Errorf("recommendations = %v, want all-clear only", report.Recommendations)
		}
	})

	t.Run("simulation-only warning when real verification skipped", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{Matrix: []model.MatrixCell{cell(true)}}

		Aggregate(report, false)

		found := false
		for _, w := range report.Warnings {
			if w == WarningSimulationOnly {
				found = true
			}
		}
		if !found {
			t.Errorf("expected simulation-only warning, got %v", report.Warnings)
		}

		// And absent when verification ran.
		ran := &model.CompatReport{Matrix: []model.MatrixCell{cell(true)}}
		Aggregate(ran, true)
		for _, w := range ran.Warnings {
			if w == WarningSimulationOnly {
				t.Error("did not expect simulation-only warning after real verification")
			}
		}
	})

	t.Run("recommendations dedup in first-seen order", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{
			BrowserVerdicts: []model.Verdict{{Issues: []string{"issue-a", "issue-b"}}},
			DeviceVerdicts:  []model.Verdict{{Issues: []string{"issue-b", "issue-c"}}},
			Matrix:          []model.MatrixCell{cell(false, "issue-a", "issue-d")},
			RealResults: []model.RealVerificationResult{
				{Issues: []string{"issue-d", "issue-e"}},
			},
		}

		Aggregate(report, true)

		want := []string{"issue-a", "issue-b", "issue-c", "issue-d", "issue-e"}
		if !reflect.DeepEqual(report.Recommendations, want) {
			t.Errorf("recommendations = %v, want %v", report.Recommendations, want)
		}
	})

	t.Run("real results never affect the score", func(t *testing.T) {
		t.Parallel()

		report := &model.CompatReport{
			Matrix: []model.MatrixCell{cell(true)},
			RealResults: []model.RealVerificationResult{
				{Compatible: false, Issues: []string{"render broke"}},
			},
		}

		Aggregate(report, true)

		if report.Score != 100 {
			t.Errorf("score = %d, want 100 regardless of real results", report.Score)
		}
	})
}

package engine

import (
	"math"

	"github.com/nao1215/compatscan/internal/model"
)

// Aggregator messages that are part of the report contract.
const (
	// RecommendationAllClear is emitted when no verdict produced an issue.
	RecommendationAllClear = "no compatibility issues detected; the page should work across the tested browsers and devices"

	// WarningSimulationOnly is the static advisory appended when real
	// verification did not run: UA-simulation results have bounded
	// confidence.
	WarningSimulationOnly = "results are based on user-agent simulation only; enable real verification for higher confidence"
)

// Aggregate reduces the run's verdicts into the final score,
// recommendations, and run-level warnings, mutating the report in place.
//
// The source of truth is the matrix when it ran, otherwise the combined
// per-browser and per-device verdict lists. Real-verification issues feed
// the recommendation list but not the score: a combination that could not
// be verified must not drag the score down.
func Aggregate(report *model.CompatReport, realVerificationRan bool) {
	compatible, total := 0, 0
	if report.Matrix != nil {
		for _, cell := range report.Matrix {
			total++
			if cell.Compatible {
				compatible++
			}
		}
	} else {
		for _, v := range report.BrowserVerdicts {
			total++
			if v.Compatible {
				compatible++
			}
		}
		for _, v := range report.DeviceVerdicts {
			total++
			if v.Compatible {
				compatible++
			}
		}
	}

	if total == 0 {
		report.Score = 0
	} else {
		report.Score = int(math.Round(100 * float64(compatible) / float64(total)))
	}

	report.Recommendations = collectRecommendations(report)

	if !realVerificationRan {
		report.AddWarning(WarningSimulationOnly)
	}
}

// collectRecommendations gathers every distinct non-empty issue string
// across all verdicts, in first-seen order: browser pass, device pass,
// matrix cells, then real-verification results. An issue-free run yields
// the single all-clear message.
func collectRecommendations(report *model.CompatReport) []string {
	seen := make(map[string]bool)
	recs := make([]string, 0)

	add := func(issues []string) {
		for _, issue := range issues {
			if issue == "" || seen[issue] {
				continue
			}
			seen[issue] = true
			recs = append(recs, issue)
		}
	}

	for _, v := range report.BrowserVerdicts {
		add(v.Issues)
	}
	for _, v := range report.DeviceVerdicts {
		add(v.Issues)
	}
	for _, cell := range report.Matrix {
		add(cell.Issues)
	}
	for _, r := range report.RealResults {
		add(r.Issues)
	}

	if len(recs) == 0 {
		recs = append(recs, RecommendationAllClear)
	}
	return recs
}

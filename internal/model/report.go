package model

import "time"

// CompatReport is the main scan result structure. It aggregates every verdict
// produced during one compatibility run against a single target URL.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and database storage, mirroring how the rest of
// the toolchain consumes reports. The struct is immutable after the engine
// emits it.
type CompatReport struct {
	// RunID is the unique identifier of the run that produced this report.
	RunID string `json:"run_id"`

	// TargetURL is the page that was analyzed.
	TargetURL string `json:"target_url"`

	// DateScanned is the timestamp when the run started.
	DateScanned time.Time `json:"date_scanned"`

	// Duration is the total wall-clock run time.
	Duration time.Duration `json:"duration"`

	// Score is the aggregate compatibility score in [0,100].
	Score int `json:"score"`

	// BrowserVerdicts holds the per-browser pass results, keyed order
	// matching the configured browser list.
	BrowserVerdicts []Verdict `json:"browser_verdicts"`

	// DeviceVerdicts holds the per-device pass results.
	DeviceVerdicts []Verdict `json:"device_verdicts"`

	// Matrix holds the full browser×device verdict grid when the matrix
	// path ran; nil otherwise. Length is exactly
	// len(browsers) × len(devices).
	Matrix []MatrixCell `json:"matrix,omitempty"`

	// RealResults holds live-browser verification results when that path
	// ran. When the automation capability was absent this is a single
	// entry with Available=false.
	RealResults []RealVerificationResult `json:"real_results,omitempty"`

	// FeatureSummary maps each detected required feature to the number of
	// matrix cells whose browser supports it.
	FeatureSummary map[FeatureID]int `json:"feature_summary,omitempty"`

	// Recommendations is the de-duplicated list of every distinct issue
	// found, in first-seen order, or a single positive message when the
	// page passed everywhere.
	Recommendations []string `json:"recommendations"`

	// Warnings is the run-level advisory list.
	Warnings []string `json:"warnings"`

	// BaselineSignals are the signals extracted from the baseline
	// (identity-less) fetch of the target.
	BaselineSignals *PageSignals `json:"baseline_signals,omitempty"`

	// Error records a fatal run error, if any. Not serialized; the
	// message is carried in ErrorMessage.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewCompatReport creates an empty report for the given run and target.
func NewCompatReport(runID, targetURL string) *CompatReport {
	return &CompatReport{
		RunID:           runID,
		TargetURL:       targetURL,
		DateScanned:     time.Now().UTC(),
		BrowserVerdicts: make([]Verdict, 0),
		DeviceVerdicts:  make([]Verdict, 0),
		Recommendations: make([]string, 0),
		Warnings:        make([]string, 0),
	}
}

// AddWarning appends a run-level warning, skipping duplicates.
func (r *CompatReport) AddWarning(w string) {
	for _, existing := range r.Warnings {
		if existing == w {
			return
		}
	}
	r.Warnings = append(r.Warnings, w)
}

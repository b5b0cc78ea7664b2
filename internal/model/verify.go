package model

// SessionMetrics holds raw measurements collected from a live browser session.
type SessionMetrics struct {
	// ScrollWidth is document.scrollWidth after load.
	ScrollWidth int `json:"scroll_width"`

	// ScrollHeight is document.scrollHeight after load.
	ScrollHeight int `json:"scroll_height"`

	// FirstContentfulPaintMS is the first-contentful-paint timing in
	// milliseconds, or 0 when the browser did not report one.
	FirstContentfulPaintMS float64 `json:"first_contentful_paint_ms"`

	// ScriptErrorCount is the number of uncaught script errors observed.
	ScriptErrorCount int `json:"script_error_count"`

	// ConsoleErrorCount is the number of console.error calls observed.
	ConsoleErrorCount int `json:"console_error_count"`

	// FailedRequestCount is the number of sub-resource loads that failed.
	FailedRequestCount int `json:"failed_request_count"`

	// Screenshot is an optional full-page capture. Capture failures are
	// swallowed; a nil screenshot is never an error.
	Screenshot []byte `json:"screenshot,omitempty"`
}

// RealVerificationResult is the ground-truth verdict for one browser×device
// combination obtained from an actual automated browser session.
//
// Available and Compatible are independent: Available=false means
// verification itself could not run (the automation capability is absent or
// the session failed to launch), which is a valid terminal state distinct
// from "the page is broken".
type RealVerificationResult struct {
	// Browser is the browser half of the combination. Empty when the
	// result is the run-level "capability unavailable" marker.
	Browser string `json:"browser,omitempty"`

	// Device is the device half of the combination.
	Device string `json:"device,omitempty"`

	// Available is true when a session actually ran for this combination.
	Available bool `json:"available"`

	// Compatible is true iff Issues is empty. Meaningless when
	// Available is false.
	Compatible bool `json:"compatible"`

	// Issues are hard failures observed in the live session.
	Issues []string `json:"issues"`

	// Warnings are advisory observations from the live session.
	Warnings []string `json:"warnings"`

	// Metrics are the raw session measurements. Nil when Available is false.
	Metrics *SessionMetrics `json:"metrics,omitempty"`
}

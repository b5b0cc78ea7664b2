package model

import "time"

// RunStatus is the lifecycle state of a compatibility run.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The String() method provides the stable
// wire form observers depend on.
type RunStatus int

const (
	// StatusPending means the run is registered but has not started.
	StatusPending RunStatus = iota

	// StatusRunning means the pipeline is executing.
	StatusRunning

	// StatusCompleted means the run finished and a report was emitted.
	StatusCompleted

	// StatusFailed means the run aborted with a fatal error.
	StatusFailed

	// StatusCancelled means a stop was requested and honored.
	StatusCancelled
)

// String returns the wire form of the status.
func (s RunStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a terminal state. Terminal states
// are sticky: once reached, no further progress updates are applied.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// MarshalJSON serializes the status as its string form.
func (s RunStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// RunState is the observable state of one run. It is mutated only by the
// run that owns it and never shared across runs.
type RunState struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// Status is the lifecycle state.
	Status RunStatus `json:"status"`

	// Progress is a monotonically non-decreasing value in [0,100].
	Progress int `json:"progress"`

	// Message describes the current pipeline stage.
	Message string `json:"message"`

	// StartedAt is when the run was registered.
	StartedAt time.Time `json:"started_at"`

	// Result holds the final report once the run completes.
	Result *CompatReport `json:"result,omitempty"`
}

// ProgressEvent is one update pushed to progress observers.
type ProgressEvent struct {
	// RunID identifies the run the event belongs to.
	RunID string `json:"run_id"`

	// Progress is the value in [0,100] at the time of the event.
	Progress int `json:"progress"`

	// Message describes the stage that produced the event.
	Message string `json:"message"`

	// Status is the run status at the time of the event.
	Status RunStatus `json:"status"`
}

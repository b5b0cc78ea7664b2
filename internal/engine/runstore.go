package engine

import (
	"sync"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// RunStore tracks the observable state of runs. One store serves one
// Engine; all access is synchronized, so observers may poll from any
// goroutine while a run mutates its own entry.
type RunStore struct {
	mu       sync.RWMutex
	runs     map[string]*runEntry
	observer func(model.ProgressEvent)
}

// runEntry pairs a run's state with its cooperative stop flag.
type runEntry struct {
	state         model.RunState
	stopRequested bool
}

// StoreOption configures a RunStore.
type StoreOption func(*RunStore)

// WithObserver registers a push-style progress callback. The callback is
// invoked synchronously on every state change, from the goroutine driving
// the run; slow observers should hand off to their own goroutine.
func WithObserver(fn func(model.ProgressEvent)) StoreOption {
	return func(s *RunStore) {
		s.observer = fn
	}
}

// NewRunStore creates an empty RunStore.
func NewRunStore(opts ...StoreOption) *RunStore {
	s := &RunStore{
		runs: make(map[string]*runEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a pending entry for a new run.
func (s *RunStore) Register(runID string) {
	s.mu.Lock()
	s.runs[runID] = &runEntry{
		state: model.RunState{
			RunID:     runID,
			Status:    model.StatusPending,
			StartedAt: time.Now().UTC(),
		},
	}
	s.mu.Unlock()

	s.notify(runID)
}

// Update advances a run's status, progress, and message.
//
// Progress is monotonically non-decreasing: an update with a lower value
// keeps the current one. Terminal states are sticky: once a run completes,
// fails, or is cancelled, further updates are ignored.
func (s *RunStore) Update(runID string, status model.RunStatus, progress int, message string) {
	s.mu.Lock()
	entry, ok := s.runs[runID]
	if !ok || entry.state.Status.Terminal() {
		s.mu.Unlock()
		return
	}

	entry.state.Status = status
	if progress > entry.state.Progress {
		if progress > 100 {
			progress = 100
		}
		entry.state.Progress = progress
	}
	entry.state.Message = message
	s.mu.Unlock()

	s.notify(runID)
}

// Complete marks a run completed and attaches its final report.
func (s *RunStore) Complete(runID string, report *model.CompatReport) {
	s.mu.Lock()
	entry, ok := s.runs[runID]
	if !ok || entry.state.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	entry.state.Status = model.StatusCompleted
	entry.state.Progress = 100
	entry.state.Message = "run completed"
	entry.state.Result = report
	s.mu.Unlock()

	s.notify(runID)
}

// Fail marks a run failed with the given message.
func (s *RunStore) Fail(runID, message string) {
	s.mu.Lock()
	entry, ok := s.runs[runID]
	if !ok || entry.state.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	entry.state.Status = model.StatusFailed
	entry.state.Message = message
	s.mu.Unlock()

	s.notify(runID)
}

// Cancel marks a run cancelled.
func (s *RunStore) Cancel(runID string) {
	s.mu.Lock()
	entry, ok := s.runs[runID]
	if !ok || entry.state.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	entry.state.Status = model.StatusCancelled
	entry.state.Message = "run cancelled"
	s.mu.Unlock()

	s.notify(runID)
}

// GetRunState returns a copy of the run's state. The bool is false when
// the run ID is unknown.
func (s *RunStore) GetRunState(runID string) (model.RunState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.runs[runID]
	if !ok {
		return model.RunState{}, false
	}
	return entry.state, true
}

// RequestStop flags a run for cooperative cancellation. Returns false when
// the run is unknown or already terminal. In-flight fetches and browser
// sessions are not interrupted; the run stops at the next checkpoint.
func (s *RunStore) RequestStop(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.runs[runID]
	if !ok || entry.state.Status.Terminal() {
		return false
	}
	entry.stopRequested = true
	return true
}

// StopRequested reports whether a stop has been requested for the run.
func (s *RunStore) StopRequested(runID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.runs[runID]
	return ok && entry.stopRequested
}

// notify pushes the run's current state to the observer, if any.
func (s *RunStore) notify(runID string) {
	if s.observer == nil {
		return
	}

	s.mu.RLock()
	entry, ok := s.runs[runID]
	if !ok {
		s.mu.RUnlock()
		return
	}
	event := model.ProgressEvent{
		RunID:    runID,
		Progress: entry.state.Progress,
		Message:  entry.state.Message,
		Status:   entry.state.Status,
	}
	s.mu.RUnlock()

	s.observer(event)
}

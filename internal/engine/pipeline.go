package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/compatscan/internal/model"
)

// Step is one stage of the compatibility pipeline. Steps execute in
// sequence, each mutating the accumulated Run.
//
// Design decision: We use an interface rather than function types because
// it allows steps to carry configuration state and provides a Name() for
// logging. Non-fatal problems (an unreachable variant, an unavailable
// driver) are recorded in the run's report and return nil; an error return
// is reserved for genuinely fatal conditions.
type Step interface {
	// Do executes the step against the run.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging and progress messages.
	Name() string
}

// checkpoint pairs a step with the progress value the run reaches when the
// step completes. The fixed checkpoints make progress comparable across
// runs regardless of which optional stages are enabled.
type checkpoint struct {
	step     Step
	progress int
	message  string
}

// Pipeline executes checkpoints in order, advancing the run state in the
// store after each one and honoring cooperative stop requests between
// steps.
type Pipeline struct {
	checkpoints []checkpoint
	store       *RunStore
	logger      *slog.Logger
}

// NewPipeline creates an empty pipeline bound to the given store.
func NewPipeline(store *RunStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		checkpoints: make([]checkpoint, 0),
		store:       store,
		logger:      logger,
	}
}

// Add appends a step with its completion checkpoint.
func (p *Pipeline) Add(step Step, progress int, message string) {
	p.checkpoints = append(p.checkpoints, checkpoint{step: step, progress: progress, message: message})
}

// Execute runs all steps in sequence.
//
// Between steps it checks both context cancellation and the store's
// cooperative stop flag; either one ends the run early. In-flight work
// inside a step is not interrupted by a stop request. Cancellation is
// best-effort between checkpoints.
//
// Returns errStopped when a stop request ended the run, the step's error
// when a step failed fatally, and nil otherwise.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, cp := range p.checkpoints {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled by context",
				"step", cp.step.Name(),
				"run_id", run.Report.RunID,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		if p.store.StopRequested(run.Report.RunID) {
			p.logger.Info("pipeline stopped by request",
				"step", cp.step.Name(),
				"run_id", run.Report.RunID,
			)
			return errStopped
		}

		p.logger.Debug("executing step",
			"step", cp.step.Name(),
			"run_id", run.Report.RunID,
		)

		if err := cp.step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", cp.step.Name(),
				"run_id", run.Report.RunID,
				"error", err,
			)
			run.Report.Error = err
			run.Report.ErrorMessage = err.Error()
			return fmt.Errorf("step %s: %w", cp.step.Name(), err)
		}

		p.store.Update(run.Report.RunID, model.StatusRunning, cp.progress, cp.message)
	}

	return nil
}

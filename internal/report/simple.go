package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/compatscan/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables per-cell detail in the matrix section.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-cell details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.CompatReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeVerdicts(&sb, report)
	w.writeMatrix(&sb, report)
	w.writeRealResults(&sb, report)
	w.writeRecommendations(&sb, report)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the banner and summary line.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CompatReport) {
	fmt.Fprintf(sb, "================================================\n")
	fmt.Fprintf(sb, " Compatibility Report\n")
	fmt.Fprintf(sb, "================================================\n")
	fmt.Fprintf(sb, "Target:   %s\n", report.TargetURL)
	fmt.Fprintf(sb, "Scanned:  %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration: %s\n", report.Duration.Round(10*time.Millisecond))
	fmt.Fprintf(sb, "Score:    %d/100\n\n", report.Score)
}

// writeVerdicts writes the per-browser and per-device verdict lists.
func (w *SimpleWriter) writeVerdicts(sb *strings.Builder, report *model.CompatReport) {
	if len(report.BrowserVerdicts) > 0 {
		fmt.Fprintf(sb, "Browsers:\n")
		for _, v := range report.BrowserVerdicts {
			fmt.Fprintf(sb, "  %s %s\n", statusMark(v.Compatible), v.Name)
			for _, issue := range v.Issues {
				fmt.Fprintf(sb, "      - %s\n", issue)
			}
		}
		sb.WriteString("\n")
	}

	if len(report.DeviceVerdicts) > 0 {
		fmt.Fprintf(sb, "Devices:\n")
		for _, v := range report.DeviceVerdicts {
			fmt.Fprintf(sb, "  %s %s\n", statusMark(v.Compatible), v.Name)
			for _, issue := range v.Issues {
				fmt.Fprintf(sb, "      - %s\n", issue)
			}
		}
		sb.WriteString("\n")
	}
}

// writeMatrix writes the browser×device grid.
func (w *SimpleWriter) writeMatrix(sb *strings.Builder, report *model.CompatReport) {
	if report.Matrix == nil {
		return
	}

	fmt.Fprintf(sb, "Matrix (%d combinations, %d compatible):\n",
		len(report.Matrix), model.CompatibleCount(report.Matrix))
	for _, cell := range report.Matrix {
		fmt.Fprintf(sb, "  %s %s on %s\n", statusMark(cell.Compatible), cell.Browser.Key(), cell.Device.Name)
		if w.verbose {
			for _, issue := range cell.Issues {
				fmt.Fprintf(sb, "      issue:   %s\n", issue)
			}
			for _, warning := range cell.Warnings {
				fmt.Fprintf(sb, "      warning: %s\n", warning)
			}
		}
	}
	sb.WriteString("\n")
}

// writeRealResults writes live verification results, if any.
func (w *SimpleWriter) writeRealResults(sb *strings.Builder, report *model.CompatReport) {
	if len(report.RealResults) == 0 {
		return
	}

	fmt.Fprintf(sb, "Real-environment verification:\n")
	for _, r := range report.RealResults {
		if !r.Available {
			if r.Browser == "" {
				fmt.Fprintf(sb, "  - unavailable\n")
			} else {
				fmt.Fprintf(sb, "  - %s on %s: unavailable\n", r.Browser, r.Device)
			}
			for _, warn := range r.Warnings {
				fmt.Fprintf(sb, "      %s\n", warn)
			}
			continue
		}
		fmt.Fprintf(sb, "  %s %s on %s\n", statusMark(r.Compatible), r.Browser, r.Device)
		for _, issue := range r.Issues {
			fmt.Fprintf(sb, "      - %s\n", issue)
		}
	}
	sb.WriteString("\n")
}

// writeRecommendations writes the recommendation and warning lists.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, report *model.CompatReport) {
	fmt.Fprintf(sb, "Recommendations:\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(sb, "  - %s\n", rec)
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(sb, "\nWarnings:\n")
		for _, warn := range report.Warnings {
			fmt.Fprintf(sb, "  - %s\n", warn)
		}
	}
}

// statusMark returns the pass/fail marker for a verdict.
func statusMark(compatible bool) string {
	if compatible {
		return "[OK]"
	}
	return "[!!]"
}

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/compatscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
// This format is designed for CI job summaries and pull-request comments.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with tables and alerts rather than
// hand-assembling strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CompatReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeMatrix(md, report)
	w.writeRealResults(md, report)
	w.writeRecommendations(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CompatReport) {
	md.H1("Compatibility Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.TargetURL + "`"},
			{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Score", strconv.Itoa(report.Score) + "/100"},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func (w *MarkdownWriter) statusText(report *model.CompatReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	if report.Score == 100 {
		return "✅ Fully compatible"
	}
	return "⚠️ Issues found"
}

// writeMatrix writes the browser×device verdict table.
func (w *MarkdownWriter) writeMatrix(md *markdown.Markdown, report *model.CompatReport) {
	if report.Matrix == nil {
		return
	}

	md.H2("Browser × Device Matrix")

	rows := make([][]string, 0, len(report.Matrix))
	for _, cell := range report.Matrix {
		mark := "✅"
		detail := "-"
		if !cell.Compatible {
			mark = "❌"
			detail = joinLimited(cell.Issues, 3)
		}
		rows = append(rows, []string{cell.Browser.Key(), cell.Device.Name, mark, detail})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Browser", "Device", "Compatible", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRealResults writes the live verification table, if any.
func (w *MarkdownWriter) writeRealResults(md *markdown.Markdown, report *model.CompatReport) {
	if len(report.RealResults) == 0 {
		return
	}

	md.H2("Real-Environment Verification")

	if len(report.RealResults) == 1 && !report.RealResults[0].Available && report.RealResults[0].Browser == "" {
		md.Note("Browser automation was not available for this run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.RealResults))
	for _, r := range report.RealResults {
		status := "✅"
		switch {
		case !r.Available:
			status = "➖ unavailable"
		case !r.Compatible:
			status = "❌"
		}
		detail := "-"
		if len(r.Issues) > 0 {
			detail = joinLimited(r.Issues, 3)
		}
		rows = append(rows, []string{r.Browser, r.Device, status, detail})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Browser", "Device", "Result", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecommendations writes recommendations and run-level warnings.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.CompatReport) {
	md.H2("Recommendations")
	md.BulletList(report.Recommendations...)
	md.PlainText("")

	for _, warn := range report.Warnings {
		md.Warning(warn)
		md.PlainText("")
	}
}

// joinLimited joins up to limit items, appending a count of the rest.
func joinLimited(items []string, limit int) string {
	if len(items) == 0 {
		return "-"
	}

	out := ""
	for i, item := range items {
		if i == limit {
			out += fmt.Sprintf(" (+%d more)", len(items)-limit)
			break
		}
		if i > 0 {
			out += "; "
		}
		out += item
	}
	return out
}

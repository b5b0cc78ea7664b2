// Package log provides slog helpers for compatscan.
//
// The scan handler wraps any slog.Handler and shapes records for this
// domain: raw markup and screenshot attributes are truncated so a single
// page body cannot flood the log, and credential-bearing header attributes
// are masked because variant fetches may carry caller-supplied headers.
package log

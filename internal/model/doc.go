// Package model defines the core data structures used throughout compatscan.
//
// This package contains the following main types:
//   - BrowserProfile / DeviceProfile: The simulated client dimensions
//   - PageSignals: Structured compatibility signals extracted from markup
//   - MatrixCell: One browser×device compatibility verdict
//   - RealVerificationResult: Ground-truth signals from a live browser session
//   - CompatReport: The aggregated scan result
//   - RunState: Observable per-run progress and status
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (signal, fetcher, matrix, verify, engine,
// report) need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage; the JSON field names are a stable contract consumed by
// callers that serialize CompatReport.
package model

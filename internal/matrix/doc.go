// Package matrix builds the browser×device compatibility matrix.
//
// The matrix ordering is an explicit contract: browsers form the outer loop
// and devices the inner loop, matching the configured input arrays, and the
// output length is exactly len(browsers) × len(devices). The ordering holds
// independently of how the underlying variants were fetched, so reports are
// reproducible across runs.
package matrix

// Package engine orchestrates a compatibility run end to end.
//
// The Engine wires the leaf components (variant fetcher, matrix builder,
// real-environment verifier, score aggregator) into a sequential pipeline
// with progress checkpoints, and owns the per-run state machine exposed to
// observers.
//
// Design decision: The run registry is an injected RunStore owned by the
// Engine instance, not a package-level map. Concurrent engines in tests
// must not leak run state into each other. Likewise the browser automation
// capability is a constructor-time injection: the engine receives a
// verify.Driver (or nil) and never probes the environment at run time.
package engine

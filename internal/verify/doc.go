// Package verify confirms compatibility verdicts with real automated
// browser sessions.
//
// The automation capability is injected: the verifier receives a Driver at
// construction time, and a nil driver means the capability is absent. That
// absence is decided once per run (a single run-level "unavailable" result),
// never rediscovered per combination.
//
// Each session is exclusively owned by the combination that launched it and
// is closed on every exit path. This is the one hard resource-safety
// invariant in the system: navigation may time out or throw, but the
// session close still runs exactly once.
package verify

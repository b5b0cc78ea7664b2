// Package signal extracts structured compatibility signals from raw markup.
//
// The extractor is a total function: it never returns an error, and empty or
// garbage input produces a fully-populated PageSignals whose Issues list
// describes everything that is missing. This guarantee exists because
// downstream matrix cells must never be blocked by a single bad fetch.
//
// Design decision: We use github.com/PuerkitoBio/goquery for selector-style
// queries rather than walking the golang.org/x/net/html tree by hand. The
// checks here are existence/attribute queries ("is there a meta viewport",
// "does any script carry type=module"), which map one-to-one onto CSS
// selectors and stay readable as the signal set grows.
package signal

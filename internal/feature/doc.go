// Package feature resolves whether required web-platform features are
// supported by a given browser version.
//
// The support data is a small static minimum-version table, not a mirrored
// caniuse database. Absence of an entry means "unknown", which downgrades to
// a warning rather than an incompatibility: the resolver only produces a
// hard issue when it can prove a configured version is below a known
// minimum.
package feature

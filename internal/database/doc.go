// Package database provides SQLite-based persistence of compatibility
// reports.
//
// The store is a collaborator of the engine, not part of it: the CLI saves
// finished reports here so later invocations can list and re-read them, but
// the engine itself never touches the database. The database file lives
// under the XDG data directory by default.
package database

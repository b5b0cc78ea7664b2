package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/compatscan/internal/model"
)

// ErrReportNotFound is returned when no stored report matches the query.
var ErrReportNotFound = errors.New("report not found")

// HistoryDB stores finished compatibility reports for later comparison.
//
// Design decision: Reports are stored as a JSON blob plus a few indexed
// columns (target, score, timestamp) rather than fully normalized tables.
// The report shape evolves with the model package, and history queries only
// ever filter by target and time.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Open opens or creates a HistoryDB in the given directory. The directory
// is created if it does not exist.
func Open(dbDir string) (*HistoryDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, "compatscan.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS compat_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		target_url TEXT NOT NULL,
		score INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_target ON compat_reports(target_url);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON compat_reports(timestamp);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport persists a finished report.
func (h *HistoryDB) SaveReport(ctx context.Context, report *model.CompatReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO compat_reports (run_id, target_url, score, timestamp, report_json)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err = h.db.ExecContext(ctx, query,
		report.RunID,
		report.TargetURL,
		report.Score,
		report.DateScanned.Format(time.RFC3339),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport loads a stored report by run ID.
func (h *HistoryDB) GetReport(ctx context.Context, runID string) (*model.CompatReport, error) {
	var data string
	err := h.db.QueryRowContext(ctx,
		"SELECT report_json FROM compat_reports WHERE run_id = ?", runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", ErrReportNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report model.CompatReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	return &report, nil
}

// GetLatestReport loads the most recent report for a target URL.
func (h *HistoryDB) GetLatestReport(ctx context.Context, targetURL string) (*model.CompatReport, error) {
	var data string
	err := h.db.QueryRowContext(ctx,
		"SELECT report_json FROM compat_reports WHERE target_url = ? ORDER BY timestamp DESC LIMIT 1",
		targetURL).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: target %s", ErrReportNotFound, targetURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report model.CompatReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	return &report, nil
}

// HistoryEntry is the lightweight listing form of a stored report.
type HistoryEntry struct {
	// RunID identifies the stored run.
	RunID string

	// TargetURL is the page the run analyzed.
	TargetURL string

	// Score is the aggregate score at the time of the run.
	Score int

	// Timestamp is when the run was recorded.
	Timestamp time.Time
}

// ListHistory lists stored runs, newest first, optionally filtered by
// target URL (empty means all targets).
func (h *HistoryDB) ListHistory(ctx context.Context, targetURL string) ([]HistoryEntry, error) {
	query := "SELECT run_id, target_url, score, timestamp FROM compat_reports"
	args := make([]any, 0, 1)
	if targetURL != "" {
		query += " WHERE target_url = ?"
		args = append(args, targetURL)
	}
	query += " ORDER BY timestamp DESC"

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read side only

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var (
			entry HistoryEntry
			ts    string
		)
		if err := rows.Scan(&entry.RunID, &entry.TargetURL, &entry.Score, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.Timestamp = parseTimestamp(ts)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// parseTimestamp parses the formats SQLite hands back for DATETIME columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

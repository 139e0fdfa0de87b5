// Package history records featverify comparison runs and their findings in a
// SQLite database so results can be reviewed after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/featverify/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout sorts lexically in chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded comparison
type Run struct {
	ID            string
	ExpectedPath  string
	ActualPath    string
	ExpectedCases int
	ActualCases   int
	ErrorCount    int
	WarningCount  int
	StartedAt     time.Time
	Duration      time.Duration
}

// Passed reports whether the run recorded no errors
func (r *Run) Passed() bool {
	return r.ErrorCount == 0
}

// NewRun builds a Run from a comparison summary
func NewRun(summary models.RunSummary, startedAt time.Time) *Run {
	return &Run{
		ExpectedPath:  summary.ExpectedPath,
		ActualPath:    summary.ActualPath,
		ExpectedCases: summary.ExpectedCases,
		ActualCases:   summary.ActualCases,
		ErrorCount:    summary.Errors,
		WarningCount:  summary.Warnings,
		StartedAt:     startedAt,
		Duration:      summary.Duration,
	}
}

// Store manages the SQLite history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath and
// applies pending migrations
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the rest wait on locks held by parallel runs
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run and its findings in one transaction. A run without
// an ID is assigned a new UUID. Returns the run ID.
func (s *Store) RecordRun(ctx context.Context, run *Run, findings []models.Finding) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, expected_path, actual_path, expected_cases, actual_cases, error_count, warning_count, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ExpectedPath, run.ActualPath, run.ExpectedCases, run.ActualCases,
		run.ErrorCount, run.WarningCount, formatTime(run.StartedAt), run.Duration.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	if len(findings) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO findings
			(run_id, case_key, severity, message, position) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("prepare finding insert: %w", err)
		}
		defer stmt.Close()

		for i, f := range findings {
			if _, err := stmt.ExecContext(ctx, run.ID, f.CaseKey, f.Severity, f.Message, i); err != nil {
				return "", fmt.Errorf("insert finding %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}

	return run.ID, nil
}

// GetRun returns the run with the given ID, or nil if it does not exist
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, expected_path, actual_path, expected_cases, actual_cases,
		error_count, warning_count, started_at, duration_ms FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	return run, nil
}

// ResolveRunID expands a run id prefix (as shown by the history listing) to
// the full id. The prefix must match exactly one run.
func (s *Store) ResolveRunID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty run id")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE substr(id, 1, length(?)) = ? LIMIT 2`, prefix, prefix)
	if err != nil {
		return "", fmt.Errorf("query run ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate run ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("run not found: %s", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id %s is ambiguous", prefix)
	}
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT id, expected_path, actual_path, expected_cases, actual_cases,
		error_count, warning_count, started_at, duration_ms FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// GetFindings returns a run's findings in recorded order
func (s *Store) GetFindings(ctx context.Context, runID string) ([]models.Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT case_key, severity, message FROM findings WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	var findings []models.Finding
	for rows.Next() {
		var f models.Finding
		if err := rows.Scan(&f.CaseKey, &f.Severity, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}

	return findings, nil
}

// PruneRuns deletes all but the keep most recent runs along with their
// findings. keep <= 0 keeps everything. Returns the number of runs deleted.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Foreign keys are off by default in SQLite, so findings go explicitly
	stale := `SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE run_id IN (`+stale+`)`, keep); err != nil {
		return 0, fmt.Errorf("prune findings: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	return int(deleted), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var startedAt string
	var durationMs int64
	if err := row.Scan(&run.ID, &run.ExpectedPath, &run.ActualPath, &run.ExpectedCases, &run.ActualCases,
		&run.ErrorCount, &run.WarningCount, &startedAt, &durationMs); err != nil {
		return nil, err
	}

	t, err := parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	run.StartedAt = t
	run.Duration = time.Duration(durationMs) * time.Millisecond

	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists batch history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS indicator_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			indicator_id TEXT NOT NULL,
			series_id    TEXT,
			started_at   INTEGER NOT NULL,
			duration_ms  INTEGER,
			outcome      TEXT NOT NULL,
			error_kind   TEXT,
			error_msg    TEXT,
			output_path  TEXT,
			row_count    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_indicator ON indicator_runs(indicator_id, started_at)`,

		`CREATE TABLE IF NOT EXISTS derived_rows (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_ref      INTEGER NOT NULL REFERENCES indicator_runs(id),
			row_index    INTEGER NOT NULL,
			period_label TEXT NOT NULL,
			column_name  TEXT NOT NULL,
			value        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON derived_rows(run_ref)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordIndicatorRun stores the run outcome and, when present, every cell of
// the derived table in one transaction. Undefined cells are stored as NULL.
func (r *SQLiteRecorder) RecordIndicatorRun(run *IndicatorRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rowCount := 0
	if run.Table != nil {
		rowCount = len(run.Table.Rows)
	}
	res, err := tx.Exec(`INSERT INTO indicator_runs
		(run_id, indicator_id, series_id, started_at, duration_ms, outcome, error_kind, error_msg, output_path, row_count)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.RunID, run.IndicatorID, run.SeriesID, run.StartedAt.Unix(), run.Duration.Milliseconds(),
		string(run.Outcome), null.NewString(run.ErrorKind, run.ErrorKind != ""),
		null.NewString(run.ErrorMsg, run.ErrorMsg != ""), null.NewString(run.OutputPath, run.OutputPath != ""),
		rowCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if run.Table != nil {
		ref, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("run id: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO derived_rows
			(run_ref, row_index, period_label, column_name, value) VALUES (?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare rows: %w", err)
		}
		defer stmt.Close()
		for i, row := range run.Table.Rows {
			for j, v := range row.Values {
				if _, err := stmt.Exec(ref, i, row.Label, run.Table.Columns[j+1], v); err != nil {
					return fmt.Errorf("insert row %d: %w", i, err)
				}
			}
		}
	}

	return tx.Commit()
}

// CountRuns returns how many indicator runs have been recorded with outcome.
func (r *SQLiteRecorder) CountRuns(outcome Outcome) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM indicator_runs WHERE outcome = ?`, string(outcome)).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

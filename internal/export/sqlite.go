// Package export writes grouped totals to a SQLite database.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/salesloom-cli/internal/aggregate"
	_ "modernc.org/sqlite"
)

// Total is one exported figure.
type Total struct {
	Column string
	Key    string
	Metric string
	Value  float64
}

// Totals flattens summarize results. metrics names each result metric by
// position.
func Totals(column string, metrics []string, res []aggregate.Result) []Total {
	out := make([]Total, 0, len(res)*len(metrics))
	for _, r := range res {
		for i, m := range metrics {
			out = append(out, Total{Column: column, Key: r.Key, Metric: m, Value: r.Metric(i)})
		}
	}
	return out
}

// DB wraps the export database connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite file at path and applies the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS totals (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			column_name TEXT NOT NULL,
			group_key TEXT NOT NULL,
			metric TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_totals_run ON totals(run_id)`,
	}
	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun stores totals under runID in one transaction. Existing rows for
// the same run are replaced.
func (db *DB) WriteRun(ctx context.Context, runID, source string, totals []Total) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM totals WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear run: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source = excluded.source, created_at = excluded.created_at`,
		runID, source, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO totals (run_id, position, column_name, group_key, metric, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for i, t := range totals {
		if _, err := stmt.ExecContext(ctx, runID, i, t.Column, t.Key, t.Metric, t.Value); err != nil {
			return fmt.Errorf("insert total %s=%s: %w", t.Column, t.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.Debug("exported totals", "run", runID, "rows", len(totals))
	return nil
}

// Run returns the totals stored for runID in insertion order.
func (db *DB) Run(ctx context.Context, runID string) ([]Total, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT column_name, group_key, metric, value FROM totals WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()
	var out []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.Column, &t.Key, &t.Metric, &t.Value); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ExportSQLite opens path, writes one run and closes the database.
func ExportSQLite(ctx context.Context, path, runID, source string, totals []Total) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.WriteRun(ctx, runID, source, totals)
}

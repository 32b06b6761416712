// Package sqlite archives incident rows in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JakeFAU/police-log-etl/internal/archive"
	"github.com/JakeFAU/police-log-etl/internal/ingest"
	"github.com/JakeFAU/police-log-etl/internal/policelog"
)

// RecordStore writes incident rows into SQLite.
type RecordStore struct {
	db    *sql.DB
	table string
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(ctx context.Context, path, table string) (*RecordStore, error) {
	if path == "" {
		return nil, fmt.Errorf("archive.dsn is required")
	}
	name, err := archive.TableName(table)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite permits one writer at a time.
	db.SetMaxOpenConns(1)
	s := &RecordStore{db: db, table: name}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database handle.
func (s *RecordStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *RecordStore) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			object_key TEXT NOT NULL,
			incident_id TEXT NOT NULL,
			incident_date TEXT NOT NULL,
			received TEXT NOT NULL,
			dispatched TEXT NOT NULL,
			arrived TEXT NOT NULL,
			cleared TEXT NOT NULL,
			call_type TEXT NOT NULL,
			address TEXT NOT NULL,
			comment TEXT NOT NULL,
			grid TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL,
			PRIMARY KEY (object_key, row_index)
		);`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_incident ON %s(incident_id);`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// StoreRecords replaces the rows for run.ObjectKey with the table's rows.
func (s *RecordStore) StoreRecords(ctx context.Context, run ingest.RunInfo, table policelog.Table) error {
	if run.ObjectKey == "" {
		return fmt.Errorf("object key is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE object_key = ?`, s.table), run.ObjectKey); err != nil {
		return fmt.Errorf("delete previous rows: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (
		run_id, row_index, object_key,
		incident_id, incident_date, received, dispatched, arrived, cleared,
		call_type, address, comment, grid, fetched_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := run.StartedAt.UTC().Format(time.RFC3339)
	for i, row := range table.Rows {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, run.ObjectKey,
			row.IncidentID, row.Date, row.Received, row.Dispatched, row.Arrived, row.Cleared,
			row.Type, row.Address, row.Comment, row.Grid, fetchedAt,
		); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Records returns the stored rows for an object key in row order.
func (s *RecordStore) Records(ctx context.Context, objectKey string) ([]policelog.Record, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT
		incident_id, incident_date, received, dispatched, arrived, cleared,
		call_type, address, comment, grid
	FROM %s WHERE object_key = ? ORDER BY row_index`, s.table), objectKey)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []policelog.Record
	for rows.Next() {
		var r policelog.Record
		if err := rows.Scan(
			&r.IncidentID, &r.Date, &r.Received, &r.Dispatched, &r.Arrived, &r.Cleared,
			&r.Type, &r.Address, &r.Comment, &r.Grid,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

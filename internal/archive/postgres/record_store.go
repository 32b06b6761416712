// Package postgres archives incident rows in Postgres.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/police-log-etl/internal/archive"
	"github.com/JakeFAU/police-log-etl/internal/ingest"
	"github.com/JakeFAU/police-log-etl/internal/policelog"
)

// Config controls the Postgres connection pool used for incident rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Begin(context.Context) (pgx.Tx, error)
	Close()
}

// RecordStore writes incident rows into Postgres.
type RecordStore struct {
	pool  pool
	table string
}

// NewRecordStore connects to Postgres using the provided config.
func NewRecordStore(ctx context.Context, cfg Config) (*RecordStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("archive.dsn is required")
	}
	table, err := archive.TableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &RecordStore{pool: p, table: table}, nil
}

// NewRecordStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewRecordStoreWithPool(p pool, table string) (*RecordStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	name, err := archive.TableName(table)
	if err != nil {
		return nil, err
	}
	return &RecordStore{pool: p, table: name}, nil
}

// EnsureSchema creates the incident table if it does not exist.
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	run_id       TEXT NOT NULL,
	row_index    INTEGER NOT NULL,
	object_key   TEXT NOT NULL,
	incident_id  TEXT NOT NULL,
	incident_date TEXT NOT NULL,
	received     TEXT NOT NULL,
	dispatched   TEXT NOT NULL,
	arrived      TEXT NOT NULL,
	cleared      TEXT NOT NULL,
	call_type    TEXT NOT NULL,
	address      TEXT NOT NULL,
	comment      TEXT NOT NULL,
	grid         TEXT NOT NULL,
	fetched_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (object_key, row_index)
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create incidents table: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *RecordStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// StoreRecords replaces the rows for run.ObjectKey with the table's rows in a
// single transaction.
func (s *RecordStore) StoreRecords(ctx context.Context, run ingest.RunInfo, table policelog.Table) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("record store is not configured")
	}
	if run.ObjectKey == "" {
		return fmt.Errorf("object key is required")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := s.writeRows(ctx, tx, run, table); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *RecordStore) writeRows(ctx context.Context, tx pgx.Tx, run ingest.RunInfo, table policelog.Table) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE object_key = $1`, s.table), run.ObjectKey); err != nil {
		return fmt.Errorf("delete previous rows: %w", err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	run_id,
	row_index,
	object_key,
	incident_id,
	incident_date,
	received,
	dispatched,
	arrived,
	cleared,
	call_type,
	address,
	comment,
	grid,
	fetched_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
)`, s.table)
	for i, row := range table.Rows {
		args := append([]any{run.ID, i, run.ObjectKey}, rowArgs(row)...)
		args = append(args, run.StartedAt)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return nil
}

func rowArgs(row policelog.Record) []any {
	values := row.Values()
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moneta-app/insight/internal/domain/model"

	_ "modernc.org/sqlite"
)

// schemaVersion tags persisted history so future layout changes can migrate
// instead of silently misreading old rows.
const schemaVersion = 1

const schemaDDL = `
CREATE TABLE IF NOT EXISTS history_meta (
	namespace      TEXT PRIMARY KEY,
	schema_version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	namespace TEXT    NOT NULL,
	seq       INTEGER NOT NULL,
	id        TEXT    NOT NULL,
	amount    REAL    NOT NULL,
	ts        INTEGER NOT NULL,
	merchant  TEXT    NOT NULL DEFAULT '',
	category  TEXT    NOT NULL DEFAULT '',
	lat       REAL,
	lon       REAL,
	recurring INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (namespace, seq)
);
`

// SQLitePersister stores event histories in a local SQLite file.
// CGO-free driver; suitable for on-device use.
type SQLitePersister struct {
	db *sql.DB
}

// NewSQLitePersister opens (creating if needed) the history database at path.
func NewSQLitePersister(path string) (*SQLitePersister, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLitePersister{db: db}, nil
}

// Close releases the underlying database handle.
func (p *SQLitePersister) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Save replaces the stored history for namespace in a single transaction.
func (p *SQLitePersister) Save(ctx context.Context, namespace string, events []model.Event) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history_meta (namespace, schema_version) VALUES (?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET schema_version = excluded.schema_version`,
		namespace, schemaVersion); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (namespace, seq, id, amount, ts, merchant, category, lat, lon, recurring)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		var lat, lon sql.NullFloat64
		if e.Location != nil {
			lat = sql.NullFloat64{Float64: e.Location.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: e.Location.Lon, Valid: true}
		}
		recurring := 0
		if e.Recurring {
			recurring = 1
		}
		if _, err := stmt.ExecContext(ctx, namespace, i, e.ID, e.Amount,
			e.Timestamp.UnixNano(), e.Merchant, e.Category, lat, lon, recurring); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load returns the stored history for namespace, in insertion order.
// An unknown schema version yields ErrSchemaVersion; callers are expected
// to start with an empty history rather than fail the session.
func (p *SQLitePersister) Load(ctx context.Context, namespace string) ([]model.Event, error) {
	var version int
	err := p.db.QueryRowContext(ctx,
		`SELECT schema_version FROM history_meta WHERE namespace = ?`, namespace).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		return []model.Event{}, nil
	case err != nil:
		return nil, fmt.Errorf("read meta: %w", err)
	case version != schemaVersion:
		return nil, fmt.Errorf("namespace %s has version %d: %w", namespace, version, ErrSchemaVersion)
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, amount, ts, merchant, category, lat, lon, recurring
		 FROM events WHERE namespace = ? ORDER BY seq`, namespace)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var (
			e         model.Event
			tsNano    int64
			lat, lon  sql.NullFloat64
			recurring int
		)
		if err := rows.Scan(&e.ID, &e.Amount, &tsNano, &e.Merchant, &e.Category,
			&lat, &lon, &recurring); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp = nanoToTime(tsNano)
		if lat.Valid && lon.Valid {
			e.Location = &model.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
		}
		e.Recurring = recurring != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return events, nil
}

func nanoToTime(n int64) time.Time {
	return time.Unix(0, n)
}

// Reset removes the stored history and its meta row for namespace.
func (p *SQLitePersister) Reset(ctx context.Context, namespace string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM history_meta WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("delete meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

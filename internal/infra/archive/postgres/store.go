// Package postgres persists shape snapshots to PostgreSQL with the same
// bucket layout as the sqlite backend, using JSONB payloads.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"brepcore/internal/infra/archive"
	"brepcore/pkg/brep"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/brepcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Archive is a snapshotting Postgres-backed archive.
type Archive struct {
	db *sql.DB
	mu sync.Mutex
}

// NewArchive connects using dsn (falling back to a local default) and
// ensures the state table exists.
func NewArchive(dsn string) (*Archive, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &Archive{db: db}, nil
}

// Save replaces the stored snapshot.
func (a *Archive) Save(ctx context.Context, snap brep.Snapshot) error {
	buckets, err := archive.EncodeBuckets(snap)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range archive.Buckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`,
			bucket, buckets[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Load returns the stored snapshot, reporting false when no state exists.
func (a *Archive) Load(ctx context.Context) (brep.Snapshot, bool, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return brep.Snapshot{}, false, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap brep.Snapshot
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return brep.Snapshot{}, false, fmt.Errorf("scan state: %w", err)
		}
		if err := archive.DecodeBucket(bucket, payload, &snap); err != nil {
			return brep.Snapshot{}, false, err
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return brep.Snapshot{}, false, fmt.Errorf("iterate state: %w", err)
	}
	return snap, found, nil
}

// Close releases the database handle.
func (a *Archive) Close() error { return a.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (a *Archive) DB() *sql.DB { return a.db }

// OverrideSQLOpen swaps the sql.Open function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

// Package sqlite persists shape snapshots to an embedded SQLite database,
// one row per bucket, replaced after every successful mutation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"brepcore/internal/infra/archive"
	"brepcore/pkg/brep"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Archive is a snapshotting SQLite-backed archive.
type Archive struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewArchive opens (or creates) the database at path and ensures the state
// table exists.
func NewArchive(path string) (*Archive, error) {
	if path == "" {
		path = "brepcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Archive{db: db, path: path}, nil
}

// Save replaces the stored snapshot.
func (a *Archive) Save(ctx context.Context, snap brep.Snapshot) (retErr error) {
	buckets, err := archive.EncodeBuckets(snap)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range archive.Buckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, buckets[bucket]); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		retErr = err
	}
	return retErr
}

// Load returns the stored snapshot, reporting false when the database holds
// no state yet.
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

// Path returns the configured database path.
func (a *Archive) Path() string { return a.path }

// DB exposes the underlying sql.DB for integration testing hooks.
func (a *Archive) DB() *sql.DB { return a.db }

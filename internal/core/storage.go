package core

import (
	"context"
	"fmt"
	"sync"

	"brepcore/internal/config"
	"brepcore/internal/infra/archive/postgres"
	"brepcore/internal/infra/archive/sqlite"
	"brepcore/pkg/brep"
)

// Archive persists shape snapshots. Save replaces the previous snapshot;
// Load returns the latest one, reporting false when none exists.
type Archive interface {
	Save(ctx context.Context, snap brep.Snapshot) error
	Load(ctx context.Context) (brep.Snapshot, bool, error)
	Close() error
}

// MemoryArchive keeps the latest snapshot in process memory. Intended for
// tests and ephemeral runs.
type MemoryArchive struct {
	mu   sync.Mutex
	snap brep.Snapshot
	ok   bool
}

// NewMemoryArchive returns an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive { return &MemoryArchive{} }

// Save replaces the retained snapshot.
func (a *MemoryArchive) Save(_ context.Context, snap brep.Snapshot) error {
	a.mu.Lock()
	a.snap = snap
	a.ok = true
	a.mu.Unlock()
	return nil
}

// Load returns the retained snapshot, if any.
func (a *MemoryArchive) Load(context.Context) (brep.Snapshot, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap, a.ok, nil
}

// Close implements Archive.
func (a *MemoryArchive) Close() error { return nil }

// OpenArchive selects an archive backend from configuration.
func OpenArchive(cfg config.Storage) (Archive, error) {
	switch config.StorageDriver(cfg.Driver) {
	case config.StorageMemory:
		return NewMemoryArchive(), nil
	case config.StorageSQLite:
		return sqlite.NewArchive(cfg.SQLitePath)
	case config.StoragePostgres:
		return postgres.NewArchive(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// OpenShape opens the configured archive, replays its snapshot when present,
// and returns a shape that persists through that archive from then on. When
// the archive is empty a fresh shape with minDistance is returned.
func OpenShape(ctx context.Context, cfg config.Storage, minDistance float64, opts ...Option) (*Shape, error) {
	archive, err := OpenArchive(cfg)
	if err != nil {
		return nil, err
	}
	snap, ok, err := archive.Load(ctx)
	if err != nil {
		_ = archive.Close()
		return nil, err
	}
	if !ok {
		return NewShape(minDistance, append(opts, WithArchive(archive))...), nil
	}
	shape, err := NewShapeFromSnapshot(ctx, snap, opts...)
	if err != nil {
		_ = archive.Close()
		return nil, fmt.Errorf("restore archived shape: %w", err)
	}
	shape.opts.archive = archive
	return shape, nil
}

// Close releases the attached archive, if any.
func (s *Shape) Close() error {
	s.mu.Lock()
	archive := s.opts.archive
	s.opts.archive = nil
	s.mu.Unlock()
	if archive == nil {
		return nil
	}
	return archive.Close()
}

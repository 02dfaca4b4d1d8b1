package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"brepcore/internal/config"
	"brepcore/pkg/geom"
)

func TestMemoryArchiveSaveLoad(t *testing.T) {
	ctx := context.Background()
	archive := NewMemoryArchive()

	if _, ok, err := archive.Load(ctx); ok || err != nil {
		t.Fatalf("empty archive: ok=%v err=%v", ok, err)
	}

	shape := NewShape(0.01)
	buildPolygonShape(t, shape)
	if err := archive.Save(ctx, shape.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, ok, err := archive.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(snap.Faces) != 1 {
		t.Fatalf("faces = %d", len(snap.Faces))
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestShapePersistsThroughArchive(t *testing.T) {
	ctx := context.Background()
	archive := NewMemoryArchive()
	shape := NewShape(0.01, WithArchive(archive))

	if _, err := shape.AddPoint(ctx, geom.Point{X: 1}); err != nil {
		t.Fatalf("add point: %v", err)
	}
	snap, ok, err := archive.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(snap.Points) != 1 || snap.MinDistance != 0.01 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

type failingArchive struct{ err error }

func (a failingArchive) Save(context.Context, Snapshot) error { return a.err }
func (a failingArchive) Load(context.Context) (Snapshot, bool, error) {
	return Snapshot{}, false, nil
}
func (failingArchive) Close() error { return nil }

func TestPersistFailureIsReportedButInsertStands(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk gone")
	shape := NewShape(0, WithArchive(failingArchive{err: boom}))

	h, err := shape.AddPoint(ctx, geom.Point{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	// The in-memory insert is kept and the returned handle resolves.
	if got := shape.Counts()[KindPoint]; got != 1 {
		t.Fatalf("points = %d", got)
	}
	if h.IsZero() {
		t.Fatal("persist failure returned a zero handle")
	}
	if _, ok := shape.Point(h); !ok {
		t.Fatal("handle from failed persist does not resolve")
	}
}

func TestOpenArchiveDriverSelection(t *testing.T) {
	memArchive, err := OpenArchive(config.Storage{Driver: "memory"})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := memArchive.(*MemoryArchive); !ok {
		t.Fatalf("memory driver yielded %T", memArchive)
	}

	if _, err := OpenArchive(config.Storage{Driver: "bogus"}); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestOpenShapeSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{
		Driver:     string(config.StorageSQLite),
		SQLitePath: filepath.Join(t.TempDir(), "state.db"),
	}

	shape, err := OpenShape(ctx, cfg, 0.01)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	buildPolygonShape(t, shape)
	if err := shape.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenShape(ctx, cfg, 99) // minDistance comes from the archive
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.MinDistance() != 0.01 {
		t.Fatalf("MinDistance = %v", reopened.MinDistance())
	}
	counts := reopened.Counts()
	if counts[KindFace] != 1 || counts[KindPoint] != 4 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestOpenShapeMemoryStartsFresh(t *testing.T) {
	ctx := context.Background()
	shape, err := OpenShape(ctx, config.Storage{Driver: "memory"}, 0.5)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = shape.Close() }()
	if shape.MinDistance() != 0.5 {
		t.Fatalf("MinDistance = %v", shape.MinDistance())
	}
	for kind, n := range shape.Counts() {
		if n != 0 {
			t.Fatalf("fresh shape has %d %s objects", n, kind)
		}
	}
}

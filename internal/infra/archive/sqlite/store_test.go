package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"brepcore/pkg/brep"
	"brepcore/pkg/geom"
)

func sampleSnapshot() brep.Snapshot {
	return brep.Snapshot{
		MinDistance: 0.01,
		Points:      []geom.Point{{X: 1}, {Y: 2}},
		Vertices:    []brep.VertexRecord{{Point: 0}, {Point: 1}},
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	archive, err := NewArchive(path)
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	defer func() { _ = archive.Close() }()

	if archive.Path() != path {
		t.Fatalf("Path = %q", archive.Path())
	}
	if _, ok, err := archive.Load(ctx); ok || err != nil {
		t.Fatalf("empty archive: ok=%v err=%v", ok, err)
	}

	if err := archive.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, ok, err := archive.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if snap.MinDistance != 0.01 || len(snap.Points) != 2 || len(snap.Vertices) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	ctx := context.Background()
	archive, err := NewArchive(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	defer func() { _ = archive.Close() }()

	if err := archive.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	bigger := sampleSnapshot()
	bigger.Points = append(bigger.Points, geom.Point{Z: 3})
	if err := archive.Save(ctx, bigger); err != nil {
		t.Fatalf("second save: %v", err)
	}

	snap, ok, err := archive.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(snap.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(snap.Points))
	}
}

func TestReopenReadsPersistedState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")

	first, err := NewArchive(path)
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	if err := first.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewArchive(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()

	snap, ok, err := second.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if len(snap.Points) != 2 {
		t.Fatalf("points = %d", len(snap.Points))
	}
}

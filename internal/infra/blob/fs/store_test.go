package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brepcore/internal/blob/core"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestSanitizeKey(t *testing.T) {
	for _, bad := range []string{"", "  ", "../escape", "/abs", "a/../b"} {
		if _, err := sanitizeKey(bad); err == nil {
			t.Errorf("expected error for key %q", bad)
		}
	}
	clean, err := sanitizeKey("exports/run/a.json")
	if err != nil || clean != "exports/run/a.json" {
		t.Fatalf("sanitize = %q, %v", clean, err)
	}
}

func TestPutWritesDataAndSidecar(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	info, err := s.Put(ctx, "exports/a.json", strings.NewReader("payload"), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 || info.ETag == "" || info.URL == "" {
		t.Fatalf("info = %+v", info)
	}

	if _, err := os.Stat(filepath.Join(s.root, "exports", "a.json")); err != nil {
		t.Fatalf("data file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.root, "exports", "a.json.meta")); err != nil {
		t.Fatalf("sidecar file: %v", err)
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.Put(ctx, "k", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := s.Put(ctx, "k", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestGetAndHead(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	put, err := s.Put(ctx, "k", strings.NewReader("content"), core.PutOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	info, rc, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "content" || info.ETag != put.ETag || info.ContentType != "text/plain" {
		t.Fatalf("get = %q, %+v", data, info)
	}

	head, err := s.Head(ctx, "k")
	if err != nil || head.Size != 7 {
		t.Fatalf("head = %+v, %v", head, err)
	}

	if _, _, err := s.Get(ctx, "missing"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.Put(ctx, "k", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}

	existed, err := s.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete = %v, %v", existed, err)
	}
	existed, err = s.Delete(ctx, "k")
	if err != nil || existed {
		t.Fatalf("second delete = %v, %v", existed, err)
	}
	if _, err := s.Head(ctx, "k"); err == nil {
		t.Fatal("sidecar survived delete")
	}
}

func TestListWalksSidecars(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for _, key := range []string{"exports/b", "exports/a", "other/c"} {
		if _, err := s.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := s.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "exports/a" || infos[1].Key != "exports/b" {
		t.Fatalf("infos = %+v", infos)
	}
}

func TestPresignURLOnlyGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	url, err := s.PresignURL(ctx, "k", core.SignedURLOptions{})
	if err != nil || !strings.HasPrefix(url, "file://") {
		t.Fatalf("presign = %q, %v", url, err)
	}
	if _, err := s.PresignURL(ctx, "k", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("err = %v", err)
	}
}

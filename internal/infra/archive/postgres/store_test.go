package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"brepcore/pkg/brep"
	"brepcore/pkg/geom"
)

// stubConnector backs a *sql.DB with an in-memory bucket table so the full
// SQL path (ping, DDL, transactional upsert, select) runs without a server.
type stubConnector struct {
	mu    sync.Mutex
	state map[string][]byte
	execs []string
}

func newStubDB() (*sql.DB, *stubConnector) {
	c := &stubConnector{state: make(map[string][]byte)}
	return sql.OpenDB(c), c
}

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) { return &stubConn{c: c}, nil }
func (c *stubConnector) Driver() driver.Driver                        { return stubDriver{c} }

type stubDriver struct{ c *stubConnector }

func (d stubDriver) Open(string) (driver.Conn, error) { return &stubConn{c: d.c}, nil }

type stubConn struct{ c *stubConnector }

func (*stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("prepare unsupported") }
func (*stubConn) Close() error                        { return nil }
func (*stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }
func (*stubConn) Ping(context.Context) error          { return nil }

func (s *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return stubTx{}, nil
}

func (s *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.execs = append(s.c.execs, query)
	switch {
	case strings.Contains(query, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.Contains(query, "INSERT INTO state"):
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 args, got %d", len(args))
		}
		bucket, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("bucket arg %T", args[0].Value)
		}
		payload, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("payload arg %T", args[1].Value)
		}
		s.c.state[bucket] = append([]byte(nil), payload...)
		return driver.RowsAffected(1), nil
	default:
		return nil, fmt.Errorf("unexpected exec: %s", query)
	}
}

func (s *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(query, "SELECT bucket, payload FROM state") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	buckets := make([]string, 0, len(s.c.state))
	for bucket := range s.c.state {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)
	rows := &stubRows{}
	for _, bucket := range buckets {
		rows.rows = append(rows.rows, [2]driver.Value{bucket, append([]byte(nil), s.c.state[bucket]...)})
	}
	return rows, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubRows struct {
	rows [][2]driver.Value
	pos  int
}

func (*stubRows) Columns() []string { return []string{"bucket", "payload"} }
func (*stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	dest[0] = r.rows[r.pos][0]
	dest[1] = r.rows[r.pos][1]
	r.pos++
	return nil
}

func sampleSnapshot() brep.Snapshot {
	return brep.Snapshot{
		MinDistance: 0.01,
		Points:      []geom.Point{{X: 1}},
		Vertices:    []brep.VertexRecord{{Point: 0}},
	}
}

func TestNewArchiveAppliesDDL(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	archive, err := NewArchive("")
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	defer func() { _ = archive.Close() }()

	sawDDL := false
	for _, stmt := range conn.execs {
		if strings.Contains(stmt, "CREATE TABLE") {
			sawDDL = true
			break
		}
	}
	if !sawDDL {
		t.Fatalf("state table DDL not applied, execs: %v", conn.execs)
	}
}

func TestSaveAndLoadThroughSQL(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	archive, err := NewArchive("postgres://stub/brepcore")
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	defer func() { _ = archive.Close() }()

	if _, ok, err := archive.Load(ctx); ok || err != nil {
		t.Fatalf("empty archive: ok=%v err=%v", ok, err)
	}

	if err := archive.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(conn.state) == 0 {
		t.Fatal("save wrote no buckets")
	}

	snap, ok, err := archive.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if snap.MinDistance != 0.01 || len(snap.Points) != 1 || len(snap.Vertices) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSaveUpsertsEveryBucket(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	archive, err := NewArchive("")
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	defer func() { _ = archive.Close() }()

	if err := archive.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, bucket := range []string{"meta", "points", "curves", "surfaces", "vertices", "edges", "cycles", "faces"} {
		if _, ok := conn.state[bucket]; !ok {
			t.Errorf("bucket %s not written", bucket)
		}
	}
}

func TestOverrideSQLOpenRestores(t *testing.T) {
	called := false
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		called = true
		return nil, errors.New("stub open")
	})
	if _, err := NewArchive(""); err == nil {
		t.Fatal("expected stubbed open error")
	}
	if !called {
		t.Fatal("override not invoked")
	}
	restore()
}

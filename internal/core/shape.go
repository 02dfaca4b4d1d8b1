package core

import (
	"context"
	"sync"

	"brepcore/pkg/brep"
	"brepcore/pkg/geom"
)

// Shape owns one aggregate store and exposes validate-then-insert operations
// per object kind. Every add validates the candidate against the store state
// as it stands before the call; on validation failure nothing is mutated and
// no handle is produced. When an archive is attached an add can also fail
// after the insert committed, in which case the returned handle is valid and
// accompanies the persist error. The store only grows, so an issued handle
// resolves for the lifetime of the shape.
//
// A single mutex serializes mutation; reads take a shared lock.
type Shape struct {
	mu          sync.RWMutex
	stores      *brep.Stores
	minDistance float64
	opts        shapeOptions
}

// NewShape constructs an empty shape. minDistance is the minimum allowed
// distance between distinct vertices.
func NewShape(minDistance float64, opts ...Option) *Shape {
	options := defaultShapeOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Shape{
		stores:      brep.NewStores(),
		minDistance: minDistance,
		opts:        options,
	}
}

// MinDistance returns the configured vertex uniqueness tolerance.
func (s *Shape) MinDistance() float64 { return s.minDistance }

// add runs one validate-then-insert operation under the write lock and feeds
// the ambient instrumentation. When an archive is attached, a snapshot of the
// committed state is persisted after the insert; a persist failure is
// returned to the caller even though the in-memory insert stands, mirroring
// the snapshotting archive contract.
func (s *Shape) add(ctx context.Context, op string, kind ObjectKind, fn func() (string, error)) error {
	ctx, span := s.opts.tracer.Start(ctx, op)
	start := s.opts.clock.Now()

	s.mu.Lock()
	handle, err := fn()
	var snapshot Snapshot
	persist := err == nil && s.opts.archive != nil
	if persist {
		snapshot = brep.ExportSnapshot(s.minDistance, s.stores)
	}
	s.mu.Unlock()

	if persist {
		if saveErr := s.opts.archive.Save(ctx, snapshot); saveErr != nil {
			err = saveErr
		}
	}

	duration := s.opts.clock.Now().Sub(start)
	s.opts.metrics.Observe(ctx, op, err == nil, duration)
	entry := AuditEntry{
		ID:         newAuditID(),
		Operation:  op,
		Kind:       kind,
		Status:     AuditStatusSuccess,
		Handle:     handle,
		OccurredAt: s.opts.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		entry.Handle = ""
		s.opts.logger.Warn("add rejected", "operation", op, "error", err)
	} else {
		s.opts.logger.Debug("add committed", "operation", op, "handle", handle)
	}
	s.opts.audit.Record(ctx, entry)
	span.End(err)
	return err
}

// AddPoint validates and inserts a point. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddPoint(ctx context.Context, p geom.Point) (brep.Handle[geom.Point], error) {
	var h brep.Handle[geom.Point]
	err := s.add(ctx, "add_point", KindPoint, func() (string, error) {
		if err := brep.ValidatePoint(p, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Points.Insert(p)
		return h.String(), nil
	})
	return h, err
}

// AddCurve validates and inserts a curve. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddCurve(ctx context.Context, c geom.Curve) (brep.Handle[geom.Curve], error) {
	var h brep.Handle[geom.Curve]
	err := s.add(ctx, "add_curve", KindCurve, func() (string, error) {
		if err := brep.ValidateCurve(c, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Curves.Insert(c)
		return h.String(), nil
	})
	return h, err
}

// AddSurface validates and inserts a surface. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddSurface(ctx context.Context, sf geom.Surface) (brep.Handle[geom.Surface], error) {
	var h brep.Handle[geom.Surface]
	err := s.add(ctx, "add_surface", KindSurface, func() (string, error) {
		if err := brep.ValidateSurface(sf, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Surfaces.Insert(sf)
		return h.String(), nil
	})
	return h, err
}

// AddVertex validates and inserts a vertex. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddVertex(ctx context.Context, v brep.Vertex) (brep.Handle[brep.Vertex], error) {
	var h brep.Handle[brep.Vertex]
	err := s.add(ctx, "add_vertex", KindVertex, func() (string, error) {
		if err := brep.ValidateVertex(v, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Vertices.Insert(v)
		return h.String(), nil
	})
	return h, err
}

// AddEdge validates and inserts an edge. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddEdge(ctx context.Context, e brep.Edge) (brep.Handle[brep.Edge], error) {
	var h brep.Handle[brep.Edge]
	err := s.add(ctx, "add_edge", KindEdge, func() (string, error) {
		if err := brep.ValidateEdge(e, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Edges.Insert(e)
		return h.String(), nil
	})
	return h, err
}

// AddCycle validates and inserts a cycle. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddCycle(ctx context.Context, c brep.Cycle) (brep.Handle[brep.Cycle], error) {
	var h brep.Handle[brep.Cycle]
	err := s.add(ctx, "add_cycle", KindCycle, func() (string, error) {
		if err := brep.ValidateCycle(c, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Cycles.Insert(c)
		return h.String(), nil
	})
	return h, err
}

// AddFace validates and inserts a face. A non-nil error with a
// non-zero handle means the insert committed but archiving it failed.
func (s *Shape) AddFace(ctx context.Context, f brep.Face) (brep.Handle[brep.Face], error) {
	var h brep.Handle[brep.Face]
	err := s.add(ctx, "add_face", KindFace, func() (string, error) {
		if err := brep.ValidateFace(f, s.minDistance, s.stores); err != nil {
			return "", err
		}
		h = s.stores.Faces.Insert(f)
		return h.String(), nil
	})
	return h, err
}

// Read access -----------------------------------------------------------------

// Snapshot encodes the current store content.
func (s *Shape) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return brep.ExportSnapshot(s.minDistance, s.stores)
}

// Counts returns the number of stored values per kind.
func (s *Shape) Counts() map[ObjectKind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[ObjectKind]int{
		KindPoint:   s.stores.Points.Len(),
		KindCurve:   s.stores.Curves.Len(),
		KindSurface: s.stores.Surfaces.Len(),
		KindVertex:  s.stores.Vertices.Len(),
		KindEdge:    s.stores.Edges.Len(),
		KindCycle:   s.stores.Cycles.Len(),
		KindFace:    s.stores.Faces.Len(),
	}
}

// Point dereferences a point handle.
func (s *Shape) Point(h brep.Handle[geom.Point]) (geom.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Points.Get(h)
}

// Curve dereferences a curve handle.
func (s *Shape) Curve(h brep.Handle[geom.Curve]) (geom.Curve, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Curves.Get(h)
}

// Surface dereferences a surface handle.
func (s *Shape) Surface(h brep.Handle[geom.Surface]) (geom.Surface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Surfaces.Get(h)
}

// Vertex dereferences a vertex handle.
func (s *Shape) Vertex(h brep.Handle[brep.Vertex]) (brep.Vertex, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Vertices.Get(h)
}

// Edge dereferences an edge handle.
func (s *Shape) Edge(h brep.Handle[brep.Edge]) (brep.Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Edges.Get(h)
}

// Cycle dereferences a cycle handle.
func (s *Shape) Cycle(h brep.Handle[brep.Cycle]) (brep.Cycle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Cycles.Get(h)
}

// Face dereferences a face handle.
func (s *Shape) Face(h brep.Handle[brep.Face]) (brep.Face, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Faces.Get(h)
}

// Points returns all points in insertion order.
func (s *Shape) Points() []geom.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Points.Values()
}

// Vertices returns all vertices in insertion order.
func (s *Shape) Vertices() []brep.Vertex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Vertices.Values()
}

// Edges returns all edges in insertion order.
func (s *Shape) Edges() []brep.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Edges.Values()
}

// Cycles returns all cycles in insertion order.
func (s *Shape) Cycles() []brep.Cycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Cycles.Values()
}

// Faces returns all faces in insertion order.
func (s *Shape) Faces() []brep.Face {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Faces.Values()
}

// VertexHandles returns every vertex handle in insertion order.
func (s *Shape) VertexHandles() []brep.Handle[brep.Vertex] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Vertices.Handles()
}

// FaceHandles returns every face handle in insertion order.
func (s *Shape) FaceHandles() []brep.Handle[brep.Face] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Faces.Handles()
}

// ContainsVertex reports whether h was issued by this shape's vertex store.
func (s *Shape) ContainsVertex(h brep.Handle[brep.Vertex]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Vertices.Contains(h)
}

// ContainsEdge reports whether h was issued by this shape's edge store.
func (s *Shape) ContainsEdge(h brep.Handle[brep.Edge]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores.Edges.Contains(h)
}

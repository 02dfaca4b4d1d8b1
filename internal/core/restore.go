package core

import (
	"context"
	"fmt"

	"brepcore/pkg/brep"
	"brepcore/pkg/geom"
)

// NewShapeFromSnapshot rebuilds a shape by replaying every snapshot record
// through the validating facade in dependency order. Invariants are therefore
// re-established rather than assumed from the archived bytes; a snapshot that
// no longer validates is rejected.
func NewShapeFromSnapshot(ctx context.Context, snap Snapshot, opts ...Option) (*Shape, error) {
	shape := NewShape(snap.MinDistance, opts...)
	// Replay must not re-persist every intermediate state.
	archive := shape.opts.archive
	shape.opts.archive = nil

	points := make([]brep.Handle[geom.Point], 0, len(snap.Points))
	for i, p := range snap.Points {
		h, err := shape.AddPoint(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("replay point %d: %w", i, err)
		}
		points = append(points, h)
	}
	curves := make([]brep.Handle[geom.Curve], 0, len(snap.Curves))
	for i, c := range snap.Curves {
		h, err := shape.AddCurve(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("replay curve %d: %w", i, err)
		}
		curves = append(curves, h)
	}
	surfaces := make([]brep.Handle[geom.Surface], 0, len(snap.Surfaces))
	for i, sf := range snap.Surfaces {
		h, err := shape.AddSurface(ctx, sf)
		if err != nil {
			return nil, fmt.Errorf("replay surface %d: %w", i, err)
		}
		surfaces = append(surfaces, h)
	}

	vertices := make([]brep.Handle[brep.Vertex], 0, len(snap.Vertices))
	for i, record := range snap.Vertices {
		if record.Point >= uint64(len(points)) {
			return nil, fmt.Errorf("replay vertex %d: unknown point %d", i, record.Point)
		}
		h, err := shape.AddVertex(ctx, brep.Vertex{Point: points[record.Point]})
		if err != nil {
			return nil, fmt.Errorf("replay vertex %d: %w", i, err)
		}
		vertices = append(vertices, h)
	}

	edges := make([]brep.Handle[brep.Edge], 0, len(snap.Edges))
	for i, record := range snap.Edges {
		if record.Curve >= uint64(len(curves)) {
			return nil, fmt.Errorf("replay edge %d: unknown curve %d", i, record.Curve)
		}
		edge := brep.Edge{Curve: curves[record.Curve]}
		switch len(record.Vertices) {
		case 0:
		case 2:
			var bounds [2]brep.Handle[brep.Vertex]
			for j, idx := range record.Vertices {
				if idx >= uint64(len(vertices)) {
					return nil, fmt.Errorf("replay edge %d: unknown vertex %d", i, idx)
				}
				bounds[j] = vertices[idx]
			}
			edge.Vertices = &bounds
		default:
			return nil, fmt.Errorf("replay edge %d: %d bounding vertices", i, len(record.Vertices))
		}
		h, err := shape.AddEdge(ctx, edge)
		if err != nil {
			return nil, fmt.Errorf("replay edge %d: %w", i, err)
		}
		edges = append(edges, h)
	}

	cycles := make([]brep.Handle[brep.Cycle], 0, len(snap.Cycles))
	for i, record := range snap.Cycles {
		cycle := brep.Cycle{Edges: make([]brep.Handle[brep.Edge], 0, len(record.Edges))}
		for _, idx := range record.Edges {
			if idx >= uint64(len(edges)) {
				return nil, fmt.Errorf("replay cycle %d: unknown edge %d", i, idx)
			}
			cycle.Edges = append(cycle.Edges, edges[idx])
		}
		h, err := shape.AddCycle(ctx, cycle)
		if err != nil {
			return nil, fmt.Errorf("replay cycle %d: %w", i, err)
		}
		cycles = append(cycles, h)
	}

	for i, record := range snap.Faces {
		var face brep.Face
		switch record.Kind {
		case brep.FaceBoundary:
			if record.Surface >= uint64(len(surfaces)) {
				return nil, fmt.Errorf("replay face %d: unknown surface %d", i, record.Surface)
			}
			face = brep.Face{Kind: brep.FaceBoundary, Surface: surfaces[record.Surface]}
			for _, idx := range record.Exteriors {
				if idx >= uint64(len(cycles)) {
					return nil, fmt.Errorf("replay face %d: unknown cycle %d", i, idx)
				}
				face.Exteriors = append(face.Exteriors, cycles[idx])
			}
			for _, idx := range record.Interiors {
				if idx >= uint64(len(cycles)) {
					return nil, fmt.Errorf("replay face %d: unknown cycle %d", i, idx)
				}
				face.Interiors = append(face.Interiors, cycles[idx])
			}
		case brep.FaceTriangles:
			face = brep.TriangleFace(record.Triangles...)
		default:
			return nil, fmt.Errorf("replay face %d: unknown kind %q", i, record.Kind)
		}
		if _, err := shape.AddFace(ctx, face); err != nil {
			return nil, fmt.Errorf("replay face %d: %w", i, err)
		}
	}

	shape.opts.archive = archive
	return shape, nil
}

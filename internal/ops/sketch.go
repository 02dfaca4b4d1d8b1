// Package ops builds composite model constructs on top of the shape facade.
package ops

import (
	"context"
	"fmt"

	"brepcore/internal/core"
	"brepcore/pkg/brep"
	"brepcore/pkg/geom"
)

// Sketch is a closed polygon defined by corner points in a plane.
type Sketch struct {
	points []geom.Point
}

// NewSketch returns a sketch with the given corner points, in order. The
// polygon is closed implicitly; the last point connects back to the first.
func NewSketch(points ...geom.Point) Sketch {
	return Sketch{points: append([]geom.Point(nil), points...)}
}

// Points returns the corner points of the sketch.
func (s Sketch) Points() []geom.Point {
	return append([]geom.Point(nil), s.points...)
}

// PolygonResult references the objects a polygon build inserted.
type PolygonResult struct {
	Surface  brep.Handle[geom.Surface]
	Points   []brep.Handle[geom.Point]
	Vertices []brep.Handle[brep.Vertex]
	Edges    []brep.Handle[brep.Edge]
	Cycle    brep.Handle[brep.Cycle]
	Face     brep.Handle[brep.Face]
}

// BuildPolygon inserts the sketch into shape as a face on the xy plane: one
// point and vertex per corner, a bounded line segment edge per side, a single
// exterior cycle, and a boundary face. Insertion stops at the first
// validation failure, leaving the objects added so far in place.
func BuildPolygon(ctx context.Context, shape *core.Shape, sketch Sketch) (PolygonResult, error) {
	corners := sketch.Points()
	if len(corners) < 3 {
		return PolygonResult{}, fmt.Errorf("polygon needs at least 3 points, got %d", len(corners))
	}

	var result PolygonResult

	surface, err := shape.AddSurface(ctx, geom.XYPlane())
	if err != nil {
		return result, fmt.Errorf("add surface: %w", err)
	}
	result.Surface = surface

	for i, corner := range corners {
		point, err := shape.AddPoint(ctx, corner)
		if err != nil {
			return result, fmt.Errorf("add point %d: %w", i, err)
		}
		result.Points = append(result.Points, point)
		vertex, err := shape.AddVertex(ctx, brep.Vertex{Point: point})
		if err != nil {
			return result, fmt.Errorf("add vertex %d: %w", i, err)
		}
		result.Vertices = append(result.Vertices, vertex)
	}

	for i := range corners {
		j := (i + 1) % len(corners)
		curve, err := shape.AddCurve(ctx, geom.LineFromPoints(corners[i], corners[j]))
		if err != nil {
			return result, fmt.Errorf("add curve %d: %w", i, err)
		}
		edge, err := shape.AddEdge(ctx, brep.BoundedEdge(curve, result.Vertices[i], result.Vertices[j]))
		if err != nil {
			return result, fmt.Errorf("add edge %d: %w", i, err)
		}
		result.Edges = append(result.Edges, edge)
	}

	cycle, err := shape.AddCycle(ctx, brep.Cycle{Edges: result.Edges})
	if err != nil {
		return result, fmt.Errorf("add cycle: %w", err)
	}
	result.Cycle = cycle

	face, err := shape.AddFace(ctx, brep.BoundaryFace(surface, []brep.Handle[brep.Cycle]{cycle}, nil))
	if err != nil {
		return result, fmt.Errorf("add face: %w", err)
	}
	result.Face = face
	return result, nil
}

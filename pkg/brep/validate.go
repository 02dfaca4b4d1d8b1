package brep

import (
	"errors"
	"fmt"

	"brepcore/pkg/geom"
)

// ErrUniqueness is returned when a candidate vertex lies closer than the
// configured minimum distance to an already-stored vertex.
var ErrUniqueness = errors.New("uniqueness validation failed")

// ErrGeometric is reserved for geometric checks (intersection, overlap) that
// are not implemented in this revision. It is never produced.
var ErrGeometric = errors.New("geometric validation failed")

// StructuralIssues lists the references an entity holds that do not resolve
// against the current stores. Only the fields relevant to the validated kind
// are ever populated.
type StructuralIssues struct {
	// MissingCurve is set when edge validation found the curve absent. A
	// pointer keeps the zero handle representable as a recorded miss.
	MissingCurve *Handle[geom.Curve]
	// MissingVertices collects absent vertices found in edge validation.
	MissingVertices map[Handle[Vertex]]struct{}
	// MissingEdges collects absent edges found in cycle validation.
	MissingEdges map[Handle[Edge]]struct{}
	// MissingSurface is set when face validation found the surface absent.
	MissingSurface *Handle[geom.Surface]
	// MissingCycles collects absent cycles found in face validation.
	MissingCycles map[Handle[Cycle]]struct{}
}

func (i StructuralIssues) empty() bool {
	return i.MissingCurve == nil && i.MissingSurface == nil &&
		len(i.MissingVertices) == 0 && len(i.MissingEdges) == 0 && len(i.MissingCycles) == 0
}

func (i StructuralIssues) count() int {
	n := len(i.MissingVertices) + len(i.MissingEdges) + len(i.MissingCycles)
	if i.MissingCurve != nil {
		n++
	}
	if i.MissingSurface != nil {
		n++
	}
	return n
}

// StructuralError reports that one or more references of a candidate entity
// are absent from their stores. Callers inspect Issues to decide which
// dependencies to insert before retrying.
type StructuralError struct {
	Issues StructuralIssues
}

func (e *StructuralError) Error() string {
	if e.Issues.empty() {
		return "structural validation failed"
	}
	return fmt.Sprintf("structural validation failed: %d unresolved reference(s)", e.Issues.count())
}

// MissingCurve reports whether validation found the given curve absent.
func (e *StructuralError) MissingCurve(h Handle[geom.Curve]) bool {
	return e.Issues.MissingCurve != nil && *e.Issues.MissingCurve == h
}

// MissingVertex reports whether validation found the given vertex absent.
func (e *StructuralError) MissingVertex(h Handle[Vertex]) bool {
	_, ok := e.Issues.MissingVertices[h]
	return ok
}

// MissingEdge reports whether validation found the given edge absent.
func (e *StructuralError) MissingEdge(h Handle[Edge]) bool {
	_, ok := e.Issues.MissingEdges[h]
	return ok
}

// MissingSurface reports whether validation found the given surface absent.
func (e *StructuralError) MissingSurface(h Handle[geom.Surface]) bool {
	return e.Issues.MissingSurface != nil && *e.Issues.MissingSurface == h
}

// MissingCycle reports whether validation found the given cycle absent.
func (e *StructuralError) MissingCycle(h Handle[Cycle]) bool {
	_, ok := e.Issues.MissingCycles[h]
	return ok
}

// ValidatePoint accepts any point. Geometric checks on leaves are not part of
// this revision.
func ValidatePoint(_ geom.Point, _ float64, _ *Stores) error { return nil }

// ValidateCurve accepts any curve.
func ValidateCurve(_ geom.Curve, _ float64, _ *Stores) error { return nil }

// ValidateSurface accepts any surface.
func ValidateSurface(_ geom.Surface, _ float64, _ *Stores) error { return nil }

// ValidateVertex checks that the vertex's point is stored and that no stored
// vertex lies within minDistance of it. The scan is linear in the current
// vertex count.
func ValidateVertex(v Vertex, minDistance float64, s *Stores) error {
	position, ok := s.Points.Get(v.Point)
	if !ok {
		// The missing point is not recorded in the issue set. Kept as is for
		// compatibility with existing callers.
		return &StructuralError{}
	}
	for _, existing := range s.Vertices.Values() {
		stored, ok := s.Points.Get(existing.Point)
		if !ok {
			continue
		}
		if stored.Distance(position) < minDistance {
			return ErrUniqueness
		}
	}
	return nil
}

// ValidateEdge checks that the edge's curve and any bounding vertices are
// stored. All absent references are collected before failing.
func ValidateEdge(e Edge, _ float64, s *Stores) error {
	issues := StructuralIssues{}
	if !s.Curves.Contains(e.Curve) {
		curve := e.Curve
		issues.MissingCurve = &curve
	}
	if e.Vertices != nil {
		for _, vertex := range e.Vertices {
			if !s.Vertices.Contains(vertex) {
				if issues.MissingVertices == nil {
					issues.MissingVertices = make(map[Handle[Vertex]]struct{}, 2)
				}
				issues.MissingVertices[vertex] = struct{}{}
			}
		}
	}
	if !issues.empty() {
		return &StructuralError{Issues: issues}
	}
	return nil
}

// ValidateCycle checks that every edge of the cycle is stored. Closure,
// self-intersection, and duplicate-cycle detection are documented gaps and
// not checked here.
func ValidateCycle(c Cycle, _ float64, s *Stores) error {
	issues := StructuralIssues{}
	for _, edge := range c.Edges {
		if !s.Edges.Contains(edge) {
			if issues.MissingEdges == nil {
				issues.MissingEdges = make(map[Handle[Edge]]struct{})
			}
			issues.MissingEdges[edge] = struct{}{}
		}
	}
	if !issues.empty() {
		return &StructuralError{Issues: issues}
	}
	return nil
}

// ValidateFace checks the boundary variant: the surface and every exterior
// and interior cycle must be stored. Exterior and interior cycles share one
// missing set. The triangles variant always passes.
func ValidateFace(f Face, _ float64, s *Stores) error {
	if f.Kind != FaceBoundary {
		return nil
	}
	issues := StructuralIssues{}
	if !s.Surfaces.Contains(f.Surface) {
		surface := f.Surface
		issues.MissingSurface = &surface
	}
	for _, cycles := range [][]Handle[Cycle]{f.Exteriors, f.Interiors} {
		for _, cycle := range cycles {
			if !s.Cycles.Contains(cycle) {
				if issues.MissingCycles == nil {
					issues.MissingCycles = make(map[Handle[Cycle]]struct{})
				}
				issues.MissingCycles[cycle] = struct{}{}
			}
		}
	}
	if !issues.empty() {
		return &StructuralError{Issues: issues}
	}
	return nil
}

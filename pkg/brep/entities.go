// Package brep defines the object model of the b-rep modeling kernel:
// handle-based stores, topological entities layered over geometric leaves,
// and the validation protocol that keeps the object graph consistent.
//
// Topological entities reference other entities exclusively through handles.
// The resulting graph (face → cycle → edge → vertex → point) is acyclic and
// one-directional; each kind lives in its own independent store.
package brep

import "brepcore/pkg/geom"

// ObjectKind identifies one of the seven stored object kinds.
type ObjectKind string

// Object kind identifiers used in snapshots, audit entries, and metrics.
const (
	// KindPoint identifies a geometric point.
	KindPoint ObjectKind = "point"
	// KindCurve identifies a geometric curve.
	KindCurve ObjectKind = "curve"
	// KindSurface identifies a geometric surface.
	KindSurface ObjectKind = "surface"
	// KindVertex identifies a topological vertex.
	KindVertex ObjectKind = "vertex"
	// KindEdge identifies a topological edge.
	KindEdge ObjectKind = "edge"
	// KindCycle identifies a topological cycle.
	KindCycle ObjectKind = "cycle"
	// KindFace identifies a topological face.
	KindFace ObjectKind = "face"
)

// Vertex marks a point as being part of the object graph.
type Vertex struct {
	Point Handle[geom.Point]
}

// Edge is a segment of a curve, bounded by two vertices or unbounded. A nil
// Vertices field means the edge spans the whole curve (a closed curve, or an
// infinite one).
type Edge struct {
	Curve    Handle[geom.Curve]
	Vertices *[2]Handle[Vertex]
}

// BoundedEdge returns an edge on curve running from a to b.
func BoundedEdge(curve Handle[geom.Curve], a, b Handle[Vertex]) Edge {
	return Edge{Curve: curve, Vertices: &[2]Handle[Vertex]{a, b}}
}

// Cycle is an ordered sequence of edges intended to form a closed loop.
// Closure is not yet enforced.
type Cycle struct {
	Edges []Handle[Edge]
}

// FaceKind identifies the variant a Face value carries.
type FaceKind string

// Face variants.
const (
	// FaceBoundary is a face described by a surface and boundary cycles.
	FaceBoundary FaceKind = "boundary"
	// FaceTriangles is a face carrying pre-triangulated geometry with no
	// symbolic boundary.
	FaceTriangles FaceKind = "triangles"
)

// Face is a bounded region of a surface. The boundary variant references a
// surface plus exterior and interior (hole) cycles; the triangles variant
// holds raw triangles and no references.
type Face struct {
	Kind      FaceKind
	Surface   Handle[geom.Surface]
	Exteriors []Handle[Cycle]
	Interiors []Handle[Cycle]
	Triangles []geom.Triangle
}

// BoundaryFace returns a face bounded by the given cycles on surface.
func BoundaryFace(surface Handle[geom.Surface], exteriors, interiors []Handle[Cycle]) Face {
	return Face{Kind: FaceBoundary, Surface: surface, Exteriors: exteriors, Interiors: interiors}
}

// TriangleFace returns a face carrying pre-triangulated geometry.
func TriangleFace(triangles ...geom.Triangle) Face {
	return Face{Kind: FaceTriangles, Triangles: triangles}
}

// Stores aggregates one independent store per object kind.
type Stores struct {
	Points   *Store[geom.Point]
	Curves   *Store[geom.Curve]
	Surfaces *Store[geom.Surface]
	Vertices *Store[Vertex]
	Edges    *Store[Edge]
	Cycles   *Store[Cycle]
	Faces    *Store[Face]
}

// NewStores returns an empty aggregate store.
func NewStores() *Stores {
	return &Stores{
		Points:   NewStore[geom.Point](),
		Curves:   NewStore[geom.Curve](),
		Surfaces: NewStore[geom.Surface](),
		Vertices: NewStore[Vertex](),
		Edges:    NewStore[Edge](),
		Cycles:   NewStore[Cycle](),
		Faces:    NewStore[Face](),
	}
}

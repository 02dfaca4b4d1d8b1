package geom

// SurfaceKind identifies the concrete form of a Surface value.
type SurfaceKind string

// Supported surface kinds.
const (
	// SurfacePlane is a plane described by an origin and two axis vectors.
	SurfacePlane SurfaceKind = "plane"
)

// Surface is a two-dimensional geometric value. Plane surfaces span the
// parallelogram grid defined by Origin, U, and V.
type Surface struct {
	Kind   SurfaceKind `json:"kind"`
	Origin Point       `json:"origin"`
	U      Vector      `json:"u"`
	V      Vector      `json:"v"`
}

// Plane returns a plane surface with the given origin and axes.
func Plane(origin Point, u, v Vector) Surface {
	return Surface{Kind: SurfacePlane, Origin: origin, U: u, V: v}
}

// XYPlane returns the canonical plane spanned by the x and y axes.
func XYPlane() Surface {
	return Plane(Point{}, Vector{X: 1}, Vector{Y: 1})
}

// PointAt converts surface coordinates (u, v) to a point in model space.
func (s Surface) PointAt(u, v float64) Point {
	return s.Origin.Translate(s.U.Scale(u).Add(s.V.Scale(v)))
}

// Normal returns the surface normal (not normalized).
func (s Surface) Normal() Vector {
	return s.U.Cross(s.V)
}

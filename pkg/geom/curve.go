package geom

// CurveKind identifies the concrete form of a Curve value.
type CurveKind string

// Supported curve kinds.
const (
	// CurveLine is an infinite line described by origin and direction.
	CurveLine CurveKind = "line"
	// CurveCircle is a circle described by center and radius in the XY plane.
	CurveCircle CurveKind = "circle"
)

// Curve is a one-dimensional geometric value. The populated fields depend on
// Kind: lines use Origin and Direction, circles use Center and Radius.
type Curve struct {
	Kind      CurveKind `json:"kind"`
	Origin    Point     `json:"origin,omitempty"`
	Direction Vector    `json:"direction,omitempty"`
	Center    Point     `json:"center,omitempty"`
	Radius    float64   `json:"radius,omitempty"`
}

// Line returns a line curve through origin with the given direction.
func Line(origin Point, direction Vector) Curve {
	return Curve{Kind: CurveLine, Origin: origin, Direction: direction}
}

// LineFromPoints returns the line through a and b, oriented from a to b.
func LineFromPoints(a, b Point) Curve {
	return Line(a, b.Sub(a))
}

// Circle returns a circle curve with the given center and radius.
func Circle(center Point, radius float64) Curve {
	return Curve{Kind: CurveCircle, Center: center, Radius: radius}
}

package brep

import "brepcore/pkg/geom"

// Snapshot is a self-contained, JSON-serializable encoding of an aggregate
// store. Cross-references are recorded as insertion indices into the sibling
// buckets, which archives replay in dependency order through the validating
// facade.
type Snapshot struct {
	MinDistance float64        `json:"min_distance"`
	Points      []geom.Point   `json:"points"`
	Curves      []geom.Curve   `json:"curves"`
	Surfaces    []geom.Surface `json:"surfaces"`
	Vertices    []VertexRecord `json:"vertices"`
	Edges       []EdgeRecord   `json:"edges"`
	Cycles      []CycleRecord  `json:"cycles"`
	Faces       []FaceRecord   `json:"faces"`
}

// VertexRecord encodes a vertex by the index of its point.
type VertexRecord struct {
	Point uint64 `json:"point"`
}

// EdgeRecord encodes an edge by its curve index and zero or two vertex
// indices.
type EdgeRecord struct {
	Curve    uint64   `json:"curve"`
	Vertices []uint64 `json:"vertices,omitempty"`
}

// CycleRecord encodes a cycle as an ordered list of edge indices.
type CycleRecord struct {
	Edges []uint64 `json:"edges"`
}

// FaceRecord encodes either face variant. Surface and cycle indices are only
// meaningful for the boundary kind.
type FaceRecord struct {
	Kind      FaceKind        `json:"kind"`
	Surface   uint64          `json:"surface,omitempty"`
	Exteriors []uint64        `json:"exteriors,omitempty"`
	Interiors []uint64        `json:"interiors,omitempty"`
	Triangles []geom.Triangle `json:"triangles,omitempty"`
}

// ExportSnapshot encodes the current content of the stores.
func ExportSnapshot(minDistance float64, s *Stores) Snapshot {
	snap := Snapshot{
		MinDistance: minDistance,
		Points:      s.Points.Values(),
		Curves:      s.Curves.Values(),
		Surfaces:    s.Surfaces.Values(),
	}
	for _, v := range s.Vertices.Values() {
		snap.Vertices = append(snap.Vertices, VertexRecord{Point: v.Point.Index()})
	}
	for _, e := range s.Edges.Values() {
		record := EdgeRecord{Curve: e.Curve.Index()}
		if e.Vertices != nil {
			record.Vertices = []uint64{e.Vertices[0].Index(), e.Vertices[1].Index()}
		}
		snap.Edges = append(snap.Edges, record)
	}
	for _, c := range s.Cycles.Values() {
		record := CycleRecord{Edges: make([]uint64, 0, len(c.Edges))}
		for _, edge := range c.Edges {
			record.Edges = append(record.Edges, edge.Index())
		}
		snap.Cycles = append(snap.Cycles, record)
	}
	for _, f := range s.Faces.Values() {
		record := FaceRecord{Kind: f.Kind}
		switch f.Kind {
		case FaceBoundary:
			record.Surface = f.Surface.Index()
			for _, cycle := range f.Exteriors {
				record.Exteriors = append(record.Exteriors, cycle.Index())
			}
			for _, cycle := range f.Interiors {
				record.Interiors = append(record.Interiors, cycle.Index())
			}
		case FaceTriangles:
			record.Triangles = append(record.Triangles, f.Triangles...)
		}
		snap.Faces = append(snap.Faces, record)
	}
	return snap
}

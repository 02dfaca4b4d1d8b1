package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brepcore/pkg/brep"
)

// snapshotDocument is the JSON artifact payload.
type snapshotDocument struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Counts      map[string]int `json:"counts"`
	Snapshot    brep.Snapshot  `json:"snapshot"`
}

func render(format Format, snap brep.Snapshot) (rendered, error) {
	switch format {
	case FormatJSON:
		return renderJSON(snap)
	case FormatOBJ:
		return renderOBJ(snap)
	default:
		return rendered{}, fmt.Errorf("unsupported export format %s", format)
	}
}

func renderJSON(snap brep.Snapshot) (rendered, error) {
	doc := snapshotDocument{
		GeneratedAt: time.Now().UTC(),
		Counts: map[string]int{
			"points":   len(snap.Points),
			"curves":   len(snap.Curves),
			"surfaces": len(snap.Surfaces),
			"vertices": len(snap.Vertices),
			"edges":    len(snap.Edges),
			"cycles":   len(snap.Cycles),
			"faces":    len(snap.Faces),
		},
		Snapshot: snap,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return rendered{}, fmt.Errorf("marshal json: %w", err)
	}
	return rendered{
		artifact: Artifact{
			ID:          newID(),
			Format:      FormatJSON,
			ContentType: "application/json",
			SizeBytes:   int64(len(payload)),
			CreatedAt:   time.Now().UTC(),
		},
		payload: payload,
	}, nil
}

// renderOBJ writes a Wavefront OBJ mesh. Every stored point becomes a vertex
// line. Boundary faces contribute one polygon per exterior cycle, walking the
// cycle's edges and taking each edge's first bounding vertex; interior cycles
// are omitted because the format cannot express holes. Triangle faces append
// their own vertices after the shared pool.
func renderOBJ(snap brep.Snapshot) (rendered, error) {
	var b strings.Builder
	b.WriteString("# brepcore snapshot export\n")
	for _, p := range snap.Points {
		fmt.Fprintf(&b, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	next := len(snap.Points) // count of emitted vertex lines
	for i, face := range snap.Faces {
		switch face.Kind {
		case brep.FaceBoundary:
			for _, cycleIdx := range face.Exteriors {
				if cycleIdx >= uint64(len(snap.Cycles)) {
					return rendered{}, fmt.Errorf("face %d: cycle index %d out of range", i, cycleIdx)
				}
				loop, err := cycleLoop(snap, snap.Cycles[cycleIdx])
				if err != nil {
					return rendered{}, fmt.Errorf("face %d: %w", i, err)
				}
				if len(loop) < 3 {
					continue
				}
				b.WriteString("f")
				for _, pointIdx := range loop {
					fmt.Fprintf(&b, " %d", pointIdx+1)
				}
				b.WriteString("\n")
			}
		case brep.FaceTriangles:
			for _, tri := range face.Triangles {
				fmt.Fprintf(&b, "v %g %g %g\n", tri.A.X, tri.A.Y, tri.A.Z)
				fmt.Fprintf(&b, "v %g %g %g\n", tri.B.X, tri.B.Y, tri.B.Z)
				fmt.Fprintf(&b, "v %g %g %g\n", tri.C.X, tri.C.Y, tri.C.Z)
				fmt.Fprintf(&b, "f %d %d %d\n", next+1, next+2, next+3)
				next += 3
			}
		}
	}
	payload := []byte(b.String())
	return rendered{
		artifact: Artifact{
			ID:          newID(),
			Format:      FormatOBJ,
			ContentType: "model/obj",
			SizeBytes:   int64(len(payload)),
			CreatedAt:   time.Now().UTC(),
		},
		payload: payload,
	}, nil
}

// cycleLoop resolves a cycle record to the point indices of its edges' first
// bounding vertices, in edge order. Edges without bounding vertices cannot be
// polygonized.
func cycleLoop(snap brep.Snapshot, cycle brep.CycleRecord) ([]uint64, error) {
	loop := make([]uint64, 0, len(cycle.Edges))
	for _, edgeIdx := range cycle.Edges {
		if edgeIdx >= uint64(len(snap.Edges)) {
			return nil, fmt.Errorf("edge index %d out of range", edgeIdx)
		}
		edge := snap.Edges[edgeIdx]
		if len(edge.Vertices) != 2 {
			return nil, fmt.Errorf("edge %d has no bounding vertices", edgeIdx)
		}
		vertexIdx := edge.Vertices[0]
		if vertexIdx >= uint64(len(snap.Vertices)) {
			return nil, fmt.Errorf("vertex index %d out of range", vertexIdx)
		}
		pointIdx := snap.Vertices[vertexIdx].Point
		if pointIdx >= uint64(len(snap.Points)) {
			return nil, fmt.Errorf("point index %d out of range", pointIdx)
		}
		loop = append(loop, pointIdx)
	}
	return loop, nil
}

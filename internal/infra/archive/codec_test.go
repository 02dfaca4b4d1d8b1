package archive

import (
	"testing"

	"brepcore/pkg/brep"
	"brepcore/pkg/geom"
)

func sampleSnapshot() brep.Snapshot {
	return brep.Snapshot{
		MinDistance: 0.01,
		Points:      []geom.Point{{X: 1}, {Y: 2}},
		Curves:      []geom.Curve{geom.Circle(geom.Point{}, 1)},
		Surfaces:    []geom.Surface{geom.XYPlane()},
		Vertices:    []brep.VertexRecord{{Point: 0}, {Point: 1}},
		Edges:       []brep.EdgeRecord{{Curve: 0, Vertices: []uint64{0, 1}}},
		Cycles:      []brep.CycleRecord{{Edges: []uint64{0}}},
		Faces:       []brep.FaceRecord{{Kind: brep.FaceBoundary, Surface: 0, Exteriors: []uint64{0}}},
	}
}

func TestEncodeDecodeBuckets(t *testing.T) {
	snap := sampleSnapshot()
	buckets, err := EncodeBuckets(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, bucket := range Buckets {
		if _, ok := buckets[bucket]; !ok {
			t.Fatalf("bucket %s missing", bucket)
		}
	}

	var decoded brep.Snapshot
	for _, bucket := range Buckets {
		if err := DecodeBucket(bucket, buckets[bucket], &decoded); err != nil {
			t.Fatalf("decode %s: %v", bucket, err)
		}
	}
	if decoded.MinDistance != snap.MinDistance {
		t.Fatalf("MinDistance = %v", decoded.MinDistance)
	}
	if len(decoded.Points) != 2 || decoded.Points[0] != snap.Points[0] {
		t.Fatalf("points = %+v", decoded.Points)
	}
	if len(decoded.Edges) != 1 || len(decoded.Edges[0].Vertices) != 2 {
		t.Fatalf("edges = %+v", decoded.Edges)
	}
	if len(decoded.Faces) != 1 || decoded.Faces[0].Kind != brep.FaceBoundary {
		t.Fatalf("faces = %+v", decoded.Faces)
	}
}

func TestDecodeBucketIgnoresUnknownAndEmpty(t *testing.T) {
	var snap brep.Snapshot
	if err := DecodeBucket("legacy", []byte(`{"x":1}`), &snap); err != nil {
		t.Fatalf("unknown bucket: %v", err)
	}
	if err := DecodeBucket("points", nil, &snap); err != nil {
		t.Fatalf("empty payload: %v", err)
	}
}

func TestDecodeBucketRejectsMalformedPayload(t *testing.T) {
	var snap brep.Snapshot
	if err := DecodeBucket("points", []byte("not json"), &snap); err == nil {
		t.Fatal("expected decode error")
	}
}

// Package archive provides the shared bucket encoding used by the snapshot
// archive backends. Each store bucket is serialized independently so backends
// can upsert rows per bucket.
package archive

import (
	"encoding/json"
	"fmt"

	"brepcore/pkg/brep"
)

// Buckets lists every bucket written by the archive backends, in write order.
var Buckets = []string{"meta", "points", "curves", "surfaces", "vertices", "edges", "cycles", "faces"}

type meta struct {
	MinDistance float64 `json:"min_distance"`
}

// EncodeBuckets serializes a snapshot into per-bucket payloads.
func EncodeBuckets(snap brep.Snapshot) (map[string][]byte, error) {
	sections := map[string]any{
		"meta":     meta{MinDistance: snap.MinDistance},
		"points":   snap.Points,
		"curves":   snap.Curves,
		"surfaces": snap.Surfaces,
		"vertices": snap.Vertices,
		"edges":    snap.Edges,
		"cycles":   snap.Cycles,
		"faces":    snap.Faces,
	}
	out := make(map[string][]byte, len(sections))
	for bucket, section := range sections {
		payload, err := json.Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = payload
	}
	return out, nil
}

// DecodeBucket merges one bucket payload into the snapshot. Unknown buckets
// are ignored so older archives stay readable.
func DecodeBucket(bucket string, payload []byte, snap *brep.Snapshot) error {
	if len(payload) == 0 {
		return nil
	}
	var err error
	switch bucket {
	case "meta":
		var m meta
		if err = json.Unmarshal(payload, &m); err == nil {
			snap.MinDistance = m.MinDistance
		}
	case "points":
		err = json.Unmarshal(payload, &snap.Points)
	case "curves":
		err = json.Unmarshal(payload, &snap.Curves)
	case "surfaces":
		err = json.Unmarshal(payload, &snap.Surfaces)
	case "vertices":
		err = json.Unmarshal(payload, &snap.Vertices)
	case "edges":
		err = json.Unmarshal(payload, &snap.Edges)
	case "cycles":
		err = json.Unmarshal(payload, &snap.Cycles)
	case "faces":
		err = json.Unmarshal(payload, &snap.Faces)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

// Package export renders model snapshots into artifacts and stores them in a
// blob backend asynchronously.
package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"brepcore/pkg/brep"
)

// Format identifies an artifact output format.
type Format string

const (
	// FormatJSON renders the full snapshot as a JSON document.
	FormatJSON Format = "json"
	// FormatOBJ renders faces as a Wavefront OBJ mesh.
	FormatOBJ Format = "obj"
)

// Status describes the lifecycle stage of an export request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Artifact captures one stored export output.
type Artifact struct {
	ID          string    `json:"id"`
	Format      Format    `json:"format"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ETag        string    `json:"etag,omitempty"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record tracks an export request and its resulting artifacts.
type Record struct {
	ID          string     `json:"id"`
	Formats     []Format   `json:"formats"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Artifacts   []Artifact `json:"artifacts,omitempty"`
	RequestedBy string     `json:"requested_by,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r *Record) copy() Record {
	out := *r
	if r.Formats != nil {
		out.Formats = append([]Format(nil), r.Formats...)
	}
	if r.Artifacts != nil {
		out.Artifacts = append([]Artifact(nil), r.Artifacts...)
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Input represents an enqueue request for the worker.
type Input struct {
	Formats     []Format
	RequestedBy string
	Reason      string
}

// SnapshotSource supplies the model state to render. It is satisfied by the
// shape facade.
type SnapshotSource interface {
	Snapshot() brep.Snapshot
}

// Scheduler queues export requests and exposes status.
type Scheduler interface {
	Enqueue(ctx context.Context, input Input) (Record, error)
	GetExport(id string) (Record, bool)
}

// AuditLogger records export audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures audit trail metadata for exports.
type AuditEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor,omitempty"`
	Status     Status         `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func newID() string { return uuid.NewString() }

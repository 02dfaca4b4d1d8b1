package export

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"brepcore/internal/blob"
)

// Worker executes snapshot exports asynchronously. Each request renders the
// source's current snapshot once per requested format and stores the results
// as immutable blobs.
type Worker struct {
	source SnapshotSource
	store  blob.Store
	audit  AuditLogger

	queue chan task
	mu    sync.RWMutex
	jobs  map[string]*Record

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type task struct {
	id    string
	input Input
}

type rendered struct {
	artifact Artifact
	payload  []byte
}

// NewWorker constructs an export worker. The audit logger may be nil.
func NewWorker(source SnapshotSource, store blob.Store, audit AuditLogger, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		source: source,
		store:  store,
		audit:  audit,
		queue:  make(chan task, queueSize),
		jobs:   make(map[string]*Record),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case t := <-w.queue:
			w.process(t)
		}
	}
}

// Enqueue schedules an export job and returns the queued record.
func (w *Worker) Enqueue(ctx context.Context, input Input) (Record, error) {
	if w.source == nil {
		return Record{}, fmt.Errorf("export source not configured")
	}
	formats := input.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON}
	}
	uniq := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	for _, format := range formats {
		if _, duplicate := seen[format]; duplicate {
			continue
		}
		switch format {
		case FormatJSON, FormatOBJ:
		default:
			return Record{}, fmt.Errorf("unsupported export format %s", format)
		}
		uniq = append(uniq, format)
		seen[format] = struct{}{}
	}

	id := newID()
	now := time.Now().UTC()
	record := Record{
		ID:          id,
		Formats:     uniq,
		Status:      StatusQueued,
		RequestedBy: input.RequestedBy,
		Reason:      input.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[id] = &record
	queued := record.copy()
	w.mu.Unlock()

	if w.audit != nil {
		w.audit.Record(ctx, AuditEntry{
			ID:         newID(),
			Action:     "snapshot_export",
			Actor:      input.RequestedBy,
			Status:     StatusQueued,
			Reason:     input.Reason,
			OccurredAt: now,
		})
	}

	select {
	case w.queue <- task{id: id, input: input}:
	default:
		return Record{}, fmt.Errorf("export queue full")
	}
	return queued, nil
}

// GetExport returns a snapshot of the export record.
func (w *Worker) GetExport(id string) (Record, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return Record{}, false
	}
	return record.copy(), true
}

func (w *Worker) process(t task) {
	w.mu.RLock()
	record, ok := w.jobs[t.id]
	var formats []Format
	if ok {
		formats = append([]Format(nil), record.Formats...)
	}
	w.mu.RUnlock()
	if !ok {
		return
	}

	w.updateStatus(t.id, StatusRunning, "")

	snap := w.source.Snapshot()
	artifacts := make([]Artifact, 0, len(formats))
	for _, format := range formats {
		out, err := render(format, snap)
		if err != nil {
			w.fail(t.id, err.Error())
			return
		}
		if w.store != nil {
			key := fmt.Sprintf("exports/%s/%s.%s", t.id, out.artifact.ID, format)
			info, err := w.store.Put(w.ctx, key, bytes.NewReader(out.payload), blob.PutOptions{
				ContentType: out.artifact.ContentType,
				Metadata:    map[string]string{"export_id": t.id, "format": string(format)},
			})
			if err != nil {
				w.fail(t.id, fmt.Sprintf("store artifact failed: %v", err))
				return
			}
			out.artifact.Key = info.Key
			out.artifact.ETag = info.ETag
			out.artifact.URL = info.URL
			if info.Size > 0 {
				out.artifact.SizeBytes = info.Size
			}
		}
		artifacts = append(artifacts, out.artifact)
	}
	w.complete(t.id, artifacts)
}

func (w *Worker) updateStatus(id string, status Status, message string) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.Error = message
		record.UpdatedAt = now
		actor = record.RequestedBy
	}
	w.mu.Unlock()
	if w.audit != nil {
		entry := AuditEntry{ID: newID(), Action: "snapshot_export", Actor: actor, Status: status, OccurredAt: now}
		if message != "" {
			entry.Metadata = map[string]any{"note": message}
		}
		w.audit.Record(w.ctx, entry)
	}
}

func (w *Worker) complete(id string, artifacts []Artifact) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusSucceeded
		record.Error = ""
		record.Artifacts = artifacts
		record.UpdatedAt = now
		record.CompletedAt = &now
		actor = record.RequestedBy
	}
	w.mu.Unlock()
	if w.audit != nil {
		w.audit.Record(w.ctx, AuditEntry{
			ID:         newID(),
			Action:     "snapshot_export",
			Actor:      actor,
			Status:     StatusSucceeded,
			Metadata:   map[string]any{"artifacts": len(artifacts)},
			OccurredAt: now,
		})
	}
}

func (w *Worker) fail(id, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	var actor string
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
		actor = record.RequestedBy
	}
	w.mu.Unlock()
	if w.audit != nil {
		w.audit.Record(w.ctx, AuditEntry{
			ID:         newID(),
			Action:     "snapshot_export",
			Actor:      actor,
			Status:     StatusFailed,
			Metadata:   map[string]any{"error": reason},
			OccurredAt: now,
		})
	}
}

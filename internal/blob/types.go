// Package blob is the facade over the blob storage backends. Consumers
// depend on the Store interface here; the infra implementations are wired
// through the constructors and the Open factory.
package blob

import (
	"brepcore/internal/blob/core"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver = core.Driver

const (
	DriverFilesystem = core.DriverFilesystem // local filesystem (default, dev)
	DriverS3         = core.DriverS3         // S3 / MinIO compatible
	DriverMemory     = core.DriverMemory     // in-memory (tests)
)

// PutOptions specifies optional parameters for Put.
type PutOptions = core.PutOptions

// SignedURLOptions holds options for generating a pre-signed URL.
type SignedURLOptions = core.SignedURLOptions

// Info describes a stored blob.
type Info = core.Info

// Store is the thin S3-like abstraction used by higher layers.
type Store = core.Store

// ErrUnsupported is returned when an optional capability is not available.
var ErrUnsupported = core.ErrUnsupported

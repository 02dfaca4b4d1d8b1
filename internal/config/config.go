// Package config loads backend configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// StorageDriver identifies a snapshot archive backend.
type StorageDriver string

// Supported storage drivers.
const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// BlobDriver identifies an artifact blob backend.
type BlobDriver string

// Supported blob drivers.
const (
	BlobFilesystem BlobDriver = "fs"     // local filesystem (default, dev)
	BlobS3         BlobDriver = "s3"     // S3 / MinIO compatible
	BlobMemory     BlobDriver = "memory" // in-memory (tests)
)

// Storage configures the snapshot archive.
type Storage struct {
	Driver      string `env:"BREPCORE_STORAGE_DRIVER" envDefault:"memory"`
	SQLitePath  string `env:"BREPCORE_SQLITE_PATH" envDefault:"brepcore.db"`
	PostgresDSN string `env:"BREPCORE_POSTGRES_DSN"`
}

// Blob configures the artifact blob store.
type Blob struct {
	Driver string `env:"BREPCORE_BLOB_DRIVER" envDefault:"fs"`
	FSRoot string `env:"BREPCORE_BLOB_FS_ROOT" envDefault:"./blobdata"`

	S3Bucket          string `env:"BREPCORE_BLOB_S3_BUCKET"`
	S3Region          string `env:"BREPCORE_BLOB_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"BREPCORE_BLOB_S3_ENDPOINT"`
	S3PathStyle       bool   `env:"BREPCORE_BLOB_S3_PATH_STYLE"`
	S3AccessKeyID     string `env:"BREPCORE_BLOB_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"BREPCORE_BLOB_S3_SECRET_ACCESS_KEY"`
	S3SessionToken    string `env:"BREPCORE_BLOB_S3_SESSION_TOKEN"`
}

// Export configures the artifact export worker.
type Export struct {
	QueueSize int `env:"BREPCORE_EXPORT_QUEUE_SIZE" envDefault:"32"`
}

// Config aggregates all backend configuration.
type Config struct {
	Storage Storage
	Blob    Blob
	Export  Export
}

// Load parses the full configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

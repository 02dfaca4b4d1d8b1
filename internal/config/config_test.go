package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != string(StorageMemory) {
		t.Fatalf("storage driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.SQLitePath != "brepcore.db" {
		t.Fatalf("sqlite path = %q", cfg.Storage.SQLitePath)
	}
	if cfg.Blob.Driver != string(BlobFilesystem) {
		t.Fatalf("blob driver = %q", cfg.Blob.Driver)
	}
	if cfg.Blob.FSRoot != "./blobdata" {
		t.Fatalf("fs root = %q", cfg.Blob.FSRoot)
	}
	if cfg.Blob.S3Region != "us-east-1" {
		t.Fatalf("s3 region = %q", cfg.Blob.S3Region)
	}
	if cfg.Export.QueueSize != 32 {
		t.Fatalf("queue size = %d", cfg.Export.QueueSize)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BREPCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("BREPCORE_SQLITE_PATH", "/tmp/model.db")
	t.Setenv("BREPCORE_BLOB_DRIVER", "s3")
	t.Setenv("BREPCORE_BLOB_S3_BUCKET", "models")
	t.Setenv("BREPCORE_BLOB_S3_PATH_STYLE", "true")
	t.Setenv("BREPCORE_EXPORT_QUEUE_SIZE", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.SQLitePath != "/tmp/model.db" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.Blob.Driver != "s3" || cfg.Blob.S3Bucket != "models" || !cfg.Blob.S3PathStyle {
		t.Fatalf("blob = %+v", cfg.Blob)
	}
	if cfg.Export.QueueSize != 8 {
		t.Fatalf("queue size = %d", cfg.Export.QueueSize)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("BREPCORE_EXPORT_QUEUE_SIZE", "many")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

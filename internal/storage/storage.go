package storage

import (
	"context"
	"fmt"

	"mysql-table-backup/internal/apperrors"
)

// Provider names accepted in the [storage] configuration group.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ManifestName is the file written beside the snapshots after a backup run.
const ManifestName = "manifest.yaml"

// Store abstracts where snapshot files live. One snapshot file per table,
// named <table>.json, plus the run manifest in the same namespace.
type Store interface {
	// Exists reports whether the named object exists.
	Exists(ctx context.Context, name string) (bool, error)
	// Read returns the full contents of the named object.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write stores the object, overwriting any existing object of the same
	// name without prompting.
	Write(ctx context.Context, name string, data []byte) error
	// Location describes the store for logs and error messages.
	Location() string
}

// Config selects and parameterizes a storage backend
type Config struct {
	Provider  string
	Directory string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// NewStore creates a snapshot store for the configured provider
func NewStore(cfg Config) (Store, error) {
	switch cfg.Provider {
	case ProviderLocal, "":
		return NewLocalStore(cfg.Directory)
	case ProviderS3:
		return NewS3Store(cfg)
	default:
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("unsupported storage provider: %s", cfg.Provider), nil)
	}
}

// SnapshotName returns the object name for a table's snapshot
func SnapshotName(tableName string) string {
	return tableName + ".json"
}

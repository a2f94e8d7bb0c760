package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mysql-table-backup/internal/apperrors"
)

// LocalStore keeps snapshot files in a flat directory on the local file
// system. The directory must already exist; refusing to create it catches
// mistyped paths before any table is touched.
type LocalStore struct {
	directory string
}

// NewLocalStore creates a local snapshot store rooted at the given directory
func NewLocalStore(directory string) (*LocalStore, error) {
	if directory == "" {
		directory = "."
	}

	info, err := os.Stat(directory)
	if os.IsNotExist(err) {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("the snapshot directory %s does not exist", directory), err)
	}
	if err != nil {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("cannot read the snapshot directory %s", directory), err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("%s is not a directory", directory), nil)
	}

	return &LocalStore{directory: directory}, nil
}

// Exists reports whether the named snapshot file exists and is a regular file
func (ls *LocalStore) Exists(ctx context.Context, name string) (bool, error) {
	info, err := os.Stat(ls.path(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStorageError(fmt.Sprintf("failed to stat %s", name), err)
	}
	return !info.IsDir(), nil
}

// Read returns the contents of the named snapshot file
func (ls *LocalStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(ls.path(name))
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", name), err)
	}
	return data, nil
}

// Write stores the named snapshot file, overwriting any existing file
func (ls *LocalStore) Write(ctx context.Context, name string, data []byte) error {
	if err := os.WriteFile(ls.path(name), data, 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", name), err)
	}
	return nil
}

// Location describes the store for logs and error messages
func (ls *LocalStore) Location() string {
	return ls.directory
}

func (ls *LocalStore) path(name string) string {
	return filepath.Join(ls.directory, name)
}

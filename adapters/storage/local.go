// Package storage provides the local-filesystem object store. Buckets map
// to directories under a base path.
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	apperrors "zyra/internal/errors"
	"zyra/ports"
)

// LocalStore implements ports.ObjectStore on the local filesystem.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a store rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, apperrors.StorageError("init", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NotFound("object " + path)
		}
		return nil, apperrors.StorageError("download", err)
	}
	return data, nil
}

func (s *LocalStore) Upload(ctx context.Context, bucket, path string, data []byte) (string, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", apperrors.StorageError("upload", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", apperrors.StorageError("upload", err)
	}
	return path, nil
}

func (s *LocalStore) Delete(ctx context.Context, bucket, path string) error {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.NotFound("object " + path)
		}
		return apperrors.StorageError("delete", err)
	}
	return nil
}

func (s *LocalStore) Exists(ctx context.Context, bucket, path string) (bool, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, apperrors.StorageError("stat", err)
	}
	return true, nil
}

// resolve joins bucket and path under the base directory, rejecting
// traversal outside it.
func (s *LocalStore) resolve(bucket, path string) (string, error) {
	full := filepath.Join(s.basePath, bucket, path)
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", apperrors.StorageError("resolve", err)
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", apperrors.StorageError("resolve", err)
	}
	if abs != base && !strings.HasPrefix(abs, base+string(os.PathSeparator)) {
		return "", apperrors.InvalidInput("object path escapes the storage root")
	}
	return full, nil
}

var _ ports.ObjectStore = (*LocalStore)(nil)

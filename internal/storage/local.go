package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps objects on the filesystem. Used in development and
// single-node deployments.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a filesystem store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "./data/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	full := filepath.Join(s.dir, cleaned)
	if !strings.HasPrefix(full, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", errors.New("invalid storage key")
	}
	return full, nil
}

// Upload writes an object to disk.
func (s *LocalStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

// Get reads an object from disk. Missing keys return nil bytes.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// PresignGet returns the public path; local files need no signing.
func (s *LocalStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "/uploads/" + key, nil
}

// Delete removes an object from disk.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

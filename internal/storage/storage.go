package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/magazine-next/internal/config"

	"github.com/google/uuid"
)

// Store is a key-addressed object store for proof uploads, covers and
// edition PDFs.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// New builds the store configured by the storage section.
func New(cfg *config.StorageConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocalStore(cfg.Local.Dir)
	case "s3":
		return NewS3Store(&cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// BuildKey composes an object key under a prefix with a random basename,
// preserving the original extension.
func BuildKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().Format("2006/01"), uuid.NewString(), ext)
}

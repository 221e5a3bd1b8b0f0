package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/magazine-next/internal/config"
	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/storage"
)

var uploadScenePrefixes = map[string]string{
	"proof":   constants.StoragePrefixProofs,
	"edition": constants.StoragePrefixEditions,
	"cover":   constants.StoragePrefixCovers,
}

// UploadResult describes a stored file.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadService validates uploads and hands them to the configured store.
type UploadService struct {
	cfg   *config.Config
	store storage.Store
}

// NewUploadService creates the upload service.
func NewUploadService(cfg *config.Config, store storage.Store) *UploadService {
	return &UploadService{cfg: cfg, store: store}
}

// SaveFile validates and stores a multipart upload, returning its key and URL.
func (s *UploadService) SaveFile(ctx context.Context, file *multipart.FileHeader, scene string) (*UploadResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("upload store not configured")
	}
	prefix, ok := uploadScenePrefixes[strings.ToLower(strings.TrimSpace(scene))]
	if !ok {
		return nil, ErrInvalidUpload
	}
	if s.cfg.Upload.MaxSize > 0 && file.Size > s.cfg.Upload.MaxSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, s.cfg.Upload.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !containsFold(s.cfg.Upload.AllowedExtensions, ext) {
			return nil, fmt.Errorf("%w: extension %q not allowed", ErrInvalidUpload, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	contentType := http.DetectContentType(head[:n])
	if len(s.cfg.Upload.AllowedTypes) > 0 && !containsFold(s.cfg.Upload.AllowedTypes, contentType) {
		return nil, fmt.Errorf("%w: content type %q not allowed", ErrInvalidUpload, contentType)
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	key := storage.BuildKey(prefix, file.Filename)
	url, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}
	return &UploadResult{Key: key, URL: url}, nil
}

// PresignGet returns a time-limited download URL for a stored key.
func (s *UploadService) PresignGet(ctx context.Context, key string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("upload store not configured")
	}
	return s.store.PresignGet(ctx, key, time.Duration(s.cfg.Storage.S3.PresignExpireMinutes)*time.Minute)
}

func containsFold(items []string, value string) bool {
	for _, item := range items {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}

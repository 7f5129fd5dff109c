package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/config"
)

var ErrInvalidStorageKey = errors.New("invalid storage key")

// Storage keeps uploaded files. Keys are relative slash-separated paths.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Name() string
}

// NewStorage picks the object store when its credentials are configured, local disk otherwise.
func NewStorage(cfg config.StorageConfig, logger *zap.Logger) (Storage, error) {
	if cfg.UseObjectStore() {
		logger.Info("using object storage", zap.String("bucket", cfg.SupabaseBucket))
		return NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket), nil
	}

	local := NewLocalStorage(cfg.UploadPath)
	if err := local.EnsureUploadDir(); err != nil {
		return nil, err
	}
	logger.Info("using local storage", zap.String("path", cfg.UploadPath))
	return local, nil
}

// NewStorageKey builds a unique key for a user's upload, keeping the file extension.
func NewStorageKey(userID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", userID, uuid.New(), ext)
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidStorageKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidStorageKey
		}
	}
	return key, nil
}

type LocalStorage struct {
	uploadPath string
}

func NewLocalStorage(uploadPath string) *LocalStorage {
	return &LocalStorage{uploadPath: uploadPath}
}

func (s *LocalStorage) Name() string { return "local" }

func (s *LocalStorage) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *LocalStorage) path(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.uploadPath, filepath.FromSlash(key)), nil
}

func (s *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

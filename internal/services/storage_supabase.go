package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"
)

// SupabaseStorage stores objects through the Supabase Storage REST API.
type SupabaseStorage struct {
	client *resty.Client
	bucket string
}

func NewSupabaseStorage(baseURL, serviceKey, bucket string) *SupabaseStorage {
	client := resty.New().
		SetBaseURL(baseURL+"/storage/v1").
		SetAuthToken(serviceKey).
		SetHeader("apikey", serviceKey)

	return &SupabaseStorage{client: client, bucket: bucket}
}

func (s *SupabaseStorage) Name() string { return "supabase" }

func (s *SupabaseStorage) objectPath(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/object/%s/%s", s.bucket, key), nil
}

func (s *SupabaseStorage) Save(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(r).
		Post(path)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to upload object: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (s *SupabaseStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download object: status %d", resp.StatusCode())
	}
	return io.NopCloser(bytes.NewReader(resp.Body())), nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}

	resp, err := s.client.R().SetContext(ctx).Delete(path)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("failed to delete object: status %d", resp.StatusCode())
	}
	return nil
}

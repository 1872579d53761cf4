// Package storage implements the ObjectStore port on Supabase Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Ensure SupabaseStore implements the port
var _ driven.ObjectStore = (*SupabaseStore)(nil)

// SupabaseStore keeps audio blobs in a single Supabase Storage bucket.
// The storage-go client does not accept a context, so cancellation only
// applies up to the call boundary.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

// NewSupabaseStore creates an object store backed by Supabase Storage.
// The url is the project storage endpoint, e.g.
// https://[project-ref].supabase.co/storage/v1
func NewSupabaseStore(url, serviceKey, bucket string) (*SupabaseStore, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("storage URL and service key are required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	client := storage_go.NewClient(url, serviceKey, nil)

	return &SupabaseStore{
		client: client,
		bucket: bucket,
	}, nil
}

// Upload stores the blob under key, overwriting any existing object.
func (s *SupabaseStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upsert := true
	opts := storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := s.client.UploadFile(s.bucket, key, body, opts); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a time-limited URL for the blob under key.
func (s *SupabaseStore) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := s.client.CreateSignedUrl(s.bucket, key, int(expiresIn.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", key, err)
	}
	return resp.SignedURL, nil
}

// Delete removes the blob under key.
func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"art-gallery-backend/internal/imageref"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

type SupabaseStore struct {
	client  *supabase.Client
	bucket  string
	baseURL string
}

func NewSupabaseStore(supabaseURL, serviceKey, bucket string) (*SupabaseStore, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	client, err := supabase.NewClient(baseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseStore{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (s *SupabaseStore) Name() string {
	return "supabase"
}

func (s *SupabaseStore) Upload(ctx context.Context, folder, originalName, contentType string, r io.Reader) (imageref.UploadResult, error) {
	storagePath := path.Join(folder, uuid.New().String()+strings.ToLower(filepath.Ext(originalName)))

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := false
	_, err := s.client.Storage.UploadFile(s.bucket, storagePath, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return imageref.UploadResult{}, fmt.Errorf("supabase upload failed: %w", err)
	}

	return imageref.UploadResult{
		URL:      s.PublicURL(storagePath),
		Filename: storagePath,
		Backend:  s.Name(),
	}, nil
}

func (s *SupabaseStore) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

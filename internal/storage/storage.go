package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"art-gallery-backend/internal/imageref"
)

// RemoteStore uploads files to an object-storage service and reports the
// resulting URLs. Deletion of remote objects is managed outside this service.
type RemoteStore interface {
	Name() string
	Upload(ctx context.Context, folder, originalName, contentType string, r io.Reader) (imageref.UploadResult, error)
}

// Uploader sends incoming files to the configured remote store, or to the
// local upload directory when no remote store is configured.
type Uploader struct {
	local  *LocalStore
	remote RemoteStore
}

func NewUploader(local *LocalStore, remote RemoteStore) *Uploader {
	return &Uploader{
		local:  local,
		remote: remote,
	}
}

// Backend names where new uploads go.
func (u *Uploader) Backend() string {
	if u.remote != nil {
		return u.remote.Name()
	}
	return "local"
}

func (u *Uploader) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (imageref.UploadResult, error) {
	src, err := fh.Open()
	if err != nil {
		return imageref.UploadResult{}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	if u.remote != nil {
		result, err := u.remote.Upload(ctx, folder, fh.Filename, fh.Header.Get("Content-Type"), src)
		if err != nil {
			return imageref.UploadResult{}, fmt.Errorf("failed to upload %s to %s: %w", fh.Filename, u.remote.Name(), err)
		}
		return result, nil
	}

	result, err := u.local.Save(ctx, folder, fh.Filename, src)
	if err != nil {
		return imageref.UploadResult{}, fmt.Errorf("failed to store %s locally: %w", fh.Filename, err)
	}
	return result, nil
}

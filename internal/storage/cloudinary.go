package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"art-gallery-backend/internal/imageref"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryStore{
		cld:    cld,
		folder: folder,
	}, nil
}

func (s *CloudinaryStore) Name() string {
	return "cloudinary"
}

// Upload reports the secure URL as the file path, the same shape the
// storefront has always stored for Cloudinary images.
func (s *CloudinaryStore) Upload(ctx context.Context, folder, originalName, contentType string, r io.Reader) (imageref.UploadResult, error) {
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: path.Join(s.folder, folder),
	})
	if err != nil {
		return imageref.UploadResult{}, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return imageref.UploadResult{}, fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return imageref.UploadResult{}, fmt.Errorf("cloudinary upload of %s returned no url", originalName)
	}

	return imageref.UploadResult{
		SecureURL: resp.SecureURL,
		Path:      resp.SecureURL,
		Filename:  resp.PublicID,
		Backend:   s.Name(),
	}, nil
}

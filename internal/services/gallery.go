package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"sort"
	"time"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/storage"
)

// GalleryItem is one image known to the back office: either a file in the
// local upload directory or a remote object referenced by an entity.
type GalleryItem struct {
	Ref        imageref.Ref
	URL        string
	Path       string
	Size       int64
	ModifiedAt time.Time
	UsedBy     []models.ImageUsage
}

type GalleryService struct {
	local  *storage.LocalStore
	images repository.ImageRepository
	intake *ImageIntake
}

func NewGalleryService(local *storage.LocalStore, images repository.ImageRepository, intake *ImageIntake) *GalleryService {
	return &GalleryService{
		local:  local,
		images: images,
		intake: intake,
	}
}

// List returns local files newest first, followed by remote references.
func (s *GalleryService) List(ctx context.Context) ([]GalleryItem, error) {
	local, remote, err := usageByPath(ctx, s.images, s.intake.Resolver())
	if err != nil {
		return nil, err
	}

	items := []GalleryItem{}
	for _, folder := range []string{"", imageref.DirBlogs.Folder()} {
		files, err := s.local.List(folder)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			ref := imageref.Ref{Kind: imageref.KindLocal, Value: "uploads/" + f.Path}
			items = append(items, GalleryItem{
				Ref:        ref,
				URL:        s.intake.Resolver().DisplayRef(ref, imageref.DirUploads),
				Path:       f.Path,
				Size:       f.Size,
				ModifiedAt: f.ModTime,
				UsedBy:     orEmpty(local[f.Path]),
			})
		}
	}

	urls := make([]string, 0, len(remote))
	for u := range remote {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	for _, u := range urls {
		items = append(items, GalleryItem{
			Ref:    imageref.Ref{Kind: imageref.KindRemote, Value: u},
			URL:    u,
			UsedBy: remote[u],
		})
	}
	return items, nil
}

// Upload stores a file without attaching it to an entity and returns its
// reference, so it can be submitted later as a pre-resolved URL.
func (s *GalleryService) Upload(ctx context.Context, folder imageref.Dir, fh *multipart.FileHeader) (imageref.Ref, string, error) {
	ref, err := s.intake.Accept(ctx, "file", folder, fh)
	if err != nil {
		return imageref.Ref{}, "", err
	}
	slog.Info("gallery upload stored", "ref", ref.Value, "kind", ref.Kind)
	return ref, s.intake.Resolver().DisplayRef(ref, folder), nil
}

// Delete removes a local upload that no entity references. target may be a
// path relative to the upload root or a URL under /uploads/.
func (s *GalleryService) Delete(ctx context.Context, target string) error {
	if s.intake.Resolver().IsRemote(target) {
		return invalidf("path", "remote images cannot be deleted here")
	}
	rel, ok := s.intake.Resolver().LocalPath(target, imageref.DirUploads)
	if !ok || !s.intake.Resolver().Owns(target) {
		return invalidf("path", "must name a file under the upload directory")
	}

	local, _, err := usageByPath(ctx, s.images, s.intake.Resolver())
	if err != nil {
		return err
	}
	if users := local[rel]; len(users) > 0 {
		return fmt.Errorf("%w: %d reference(s)", ErrImageInUse, len(users))
	}

	if err := s.local.Delete(rel); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}

	slog.Info("gallery image deleted", "path", rel)
	return nil
}

func orEmpty(usage []models.ImageUsage) []models.ImageUsage {
	if usage == nil {
		return []models.ImageUsage{}
	}
	return usage
}

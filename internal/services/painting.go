package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/validation"

	"github.com/google/uuid"
)

// PaintingInput carries the fields of a create or update request. Nil
// pointers leave the stored value untouched on update.
type PaintingInput struct {
	Title       *string
	Description *string
	Artist      *string
	CategoryID  *string
	PriceCents  *int64
	Currency    *string
	Medium      *string
	Dimensions  *string
	Year        *int64
	IsAvailable *bool
	IsFeatured  *bool

	Files     []*multipart.FileHeader
	ImageURLs []string

	// KeepImages lists existing images to retain, matched against either the
	// stored string or its display URL. It only applies when KeepSet is true.
	KeepImages []string
	KeepSet    bool
}

func (in PaintingInput) hasNewImages() bool {
	return len(in.Files) > 0 || len(in.ImageURLs) > 0
}

type PaintingService struct {
	paintings  repository.PaintingRepository
	categories repository.CategoryRepository
	intake     *ImageIntake
	janitor    *ImageJanitor
}

func NewPaintingService(
	paintings repository.PaintingRepository,
	categories repository.CategoryRepository,
	intake *ImageIntake,
	janitor *ImageJanitor,
) *PaintingService {
	return &PaintingService{
		paintings:  paintings,
		categories: categories,
		intake:     intake,
		janitor:    janitor,
	}
}

func (s *PaintingService) List(ctx context.Context, filter models.PaintingFilter) ([]*models.Painting, int, error) {
	paintings, total, err := s.paintings.Paintings(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list paintings: %w", err)
	}
	return paintings, total, nil
}

func (s *PaintingService) Get(ctx context.Context, id string) (*models.Painting, error) {
	return s.paintings.ByID(ctx, id)
}

func (s *PaintingService) Create(ctx context.Context, in PaintingInput) (*models.Painting, error) {
	if in.Title == nil || validation.Required("title", *in.Title) != nil {
		return nil, invalidf("title", "is required")
	}
	if in.PriceCents == nil {
		return nil, invalidf("price", "is required")
	}
	if !in.hasNewImages() {
		return nil, invalid("images", imageref.ErrNoImage)
	}

	now := time.Now().UTC()
	painting := &models.Painting{
		ID:          uuid.New().String(),
		Currency:    "USD",
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apply(ctx, painting, in); err != nil {
		return nil, err
	}

	refs, uploaded, err := s.intakeImages(ctx, in)
	if err != nil {
		return nil, err
	}
	painting.Images = toImages(refs)

	if err := s.paintings.Create(ctx, painting); err != nil {
		s.janitor.Discard(uploaded, imageref.DirUploads)
		return nil, fmt.Errorf("failed to create painting: %w", err)
	}

	slog.Info("painting created", "painting_id", painting.ID, "images", len(painting.Images))
	return painting, nil
}

// Update applies in to the painting. Images are left alone unless the
// request carries a keep-list or new images; the result must still hold at
// least one image. Images dropped from the list are released after the
// painting is saved.
func (s *PaintingService) Update(ctx context.Context, id string, in PaintingInput) (*models.Painting, CleanupReport, error) {
	painting, err := s.paintings.ByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.apply(ctx, painting, in); err != nil {
		return nil, nil, err
	}

	previous := painting.Images
	if !in.KeepSet && !in.hasNewImages() {
		if err := s.paintings.Update(ctx, painting); err != nil {
			return nil, nil, fmt.Errorf("failed to update painting: %w", err)
		}
		return painting, nil, nil
	}

	kept := previous
	if in.KeepSet {
		kept = s.keep(previous, in.KeepImages)
	}

	refs, uploaded, err := s.intakeImages(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	images := append(append([]models.PaintingImage{}, kept...), toImages(refs)...)
	if len(images) == 0 {
		return nil, nil, invalid("images", imageref.ErrNoImage)
	}
	painting.Images = images

	if err := s.paintings.Update(ctx, painting); err != nil {
		s.janitor.Discard(uploaded, imageref.DirUploads)
		return nil, nil, fmt.Errorf("failed to update painting: %w", err)
	}

	report := s.janitor.ReleaseAll(ctx, s.dropped(previous, kept), imageref.DirUploads)
	slog.Info("painting updated", "painting_id", painting.ID, "images", len(images), "released", len(report))
	return painting, report, nil
}

// Delete removes the painting and releases its images. Another painting or
// entity that still uses an image keeps the file alive.
func (s *PaintingService) Delete(ctx context.Context, id string) (CleanupReport, error) {
	painting, err := s.paintings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.paintings.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete painting: %w", err)
	}

	report := s.janitor.ReleaseAll(ctx, s.refs(painting.Images), imageref.DirUploads)
	slog.Info("painting deleted", "painting_id", id, "released", len(report))
	return report, nil
}

func (s *PaintingService) apply(ctx context.Context, p *models.Painting, in PaintingInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.Required("title", title); err != nil {
			return invalid("title", err)
		}
		if err := validation.MaxLength("title", title, 200); err != nil {
			return invalid("title", err)
		}
		p.Title = title
	}
	if in.Description != nil {
		if err := validation.MaxLength("description", *in.Description, 5000); err != nil {
			return invalid("description", err)
		}
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Artist != nil {
		p.Artist = strings.TrimSpace(*in.Artist)
	}
	if in.CategoryID != nil {
		categoryID := strings.TrimSpace(*in.CategoryID)
		if categoryID == "" {
			p.CategoryID = sql.NullString{}
		} else {
			if _, err := s.categories.ByID(ctx, categoryID); err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return invalidf("category_id", "unknown category")
				}
				return err
			}
			p.CategoryID = sql.NullString{String: categoryID, Valid: true}
		}
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return invalidf("price", "must not be negative")
		}
		p.PriceCents = *in.PriceCents
	}
	if in.Currency != nil && strings.TrimSpace(*in.Currency) != "" {
		p.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Medium != nil {
		p.Medium = strings.TrimSpace(*in.Medium)
	}
	if in.Dimensions != nil {
		p.Dimensions = strings.TrimSpace(*in.Dimensions)
	}
	if in.Year != nil {
		if *in.Year == 0 {
			p.Year = sql.NullInt64{}
		} else {
			p.Year = sql.NullInt64{Int64: *in.Year, Valid: true}
		}
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	return nil
}

// intakeImages stores new files and accepts pre-resolved URLs, in that
// order. On error every file uploaded so far is discarded.
func (s *PaintingService) intakeImages(ctx context.Context, in PaintingInput) (refs, uploaded []imageref.Ref, err error) {
	for _, fh := range in.Files {
		ref, err := s.intake.Accept(ctx, "images", imageref.DirUploads, fh)
		if err != nil {
			s.janitor.Discard(uploaded, imageref.DirUploads)
			return nil, nil, err
		}
		refs = append(refs, ref)
		uploaded = append(uploaded, ref)
	}
	for _, raw := range in.ImageURLs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ref, err := s.intake.AcceptURL("image_urls", raw)
		if err != nil {
			s.janitor.Discard(uploaded, imageref.DirUploads)
			return nil, nil, err
		}
		refs = append(refs, ref)
	}
	return refs, uploaded, nil
}

func (s *PaintingService) keep(existing []models.PaintingImage, keepList []string) []models.PaintingImage {
	wanted := make(map[string]bool, len(keepList))
	for _, k := range keepList {
		if k = strings.TrimSpace(k); k != "" {
			wanted[k] = true
		}
	}

	resolver := s.intake.Resolver()
	kept := []models.PaintingImage{}
	for _, img := range existing {
		display := resolver.DisplayRef(resolver.Restore(img.URL, img.Kind), imageref.DirUploads)
		if wanted[img.URL] || wanted[display] {
			kept = append(kept, img)
		}
	}
	return kept
}

func (s *PaintingService) dropped(previous, kept []models.PaintingImage) []imageref.Ref {
	stillUsed := make(map[string]bool, len(kept))
	for _, img := range kept {
		stillUsed[img.URL] = true
	}

	var out []models.PaintingImage
	for _, img := range previous {
		if !stillUsed[img.URL] {
			out = append(out, img)
		}
	}
	return s.refs(out)
}

func (s *PaintingService) refs(images []models.PaintingImage) []imageref.Ref {
	resolver := s.intake.Resolver()
	refs := make([]imageref.Ref, 0, len(images))
	for _, img := range images {
		refs = append(refs, resolver.Restore(img.URL, img.Kind))
	}
	return refs
}

func toImages(refs []imageref.Ref) []models.PaintingImage {
	images := make([]models.PaintingImage, 0, len(refs))
	for _, ref := range refs {
		images = append(images, models.PaintingImage{
			ID:   uuid.New().String(),
			URL:  ref.Value,
			Kind: string(ref.Kind),
		})
	}
	return images
}

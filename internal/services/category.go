package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/validation"

	"github.com/google/uuid"
)

type CategoryInput struct {
	Name        *string
	Description *string
	Image       ImageChange
}

type CategoryService struct {
	categories repository.CategoryRepository
	paintings  repository.PaintingRepository
	intake     *ImageIntake
	janitor    *ImageJanitor
}

func NewCategoryService(
	categories repository.CategoryRepository,
	paintings repository.PaintingRepository,
	intake *ImageIntake,
	janitor *ImageJanitor,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		paintings:  paintings,
		intake:     intake,
		janitor:    janitor,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categories.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.categories.ByID(ctx, id)
}

// Create stores a new category. The image is optional.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == nil {
		return nil, invalidf("name", "is required")
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(category, in); err != nil {
		return nil, err
	}

	ref, uploaded, err := s.intake.resolve(ctx, "image", imageref.DirUploads, in.Image)
	if err != nil {
		return nil, err
	}
	category.ImageURL = ref.Value
	category.ImageKind = string(ref.Kind)

	if err := s.categories.Create(ctx, category); err != nil {
		if uploaded {
			s.janitor.Discard([]imageref.Ref{ref}, imageref.DirUploads)
		}
		return nil, err
	}

	slog.Info("category created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

// Update applies in to the category. A new file or URL replaces the image,
// Remove clears it, and anything else keeps it.
func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, CleanupReport, error) {
	category, err := s.categories.ByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.apply(category, in); err != nil {
		return nil, nil, err
	}

	old := s.intake.Resolver().Restore(category.ImageURL, category.ImageKind)

	ref, uploaded, err := s.intake.resolve(ctx, "image", imageref.DirUploads, in.Image)
	if err != nil {
		return nil, nil, err
	}

	changed := false
	switch {
	case in.Image.replaces():
		category.ImageURL, category.ImageKind = ref.Value, string(ref.Kind)
		changed = ref.Value != old.Value
	case in.Image.Remove:
		category.ImageURL, category.ImageKind = "", ""
		changed = !old.IsZero()
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if uploaded {
			s.janitor.Discard([]imageref.Ref{ref}, imageref.DirUploads)
		}
		return nil, nil, err
	}

	var report CleanupReport
	if changed {
		report = s.janitor.ReleaseAll(ctx, []imageref.Ref{old}, imageref.DirUploads)
	}
	slog.Info("category updated", "category_id", category.ID, "released", len(report))
	return category, report, nil
}

// Delete refuses while paintings still belong to the category.
func (s *CategoryService) Delete(ctx context.Context, id string) (CleanupReport, error) {
	category, err := s.categories.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.paintings.CountByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count paintings: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %d painting(s)", ErrCategoryInUse, count)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, err
	}

	old := s.intake.Resolver().Restore(category.ImageURL, category.ImageKind)
	report := s.janitor.ReleaseAll(ctx, []imageref.Ref{old}, imageref.DirUploads)
	slog.Info("category deleted", "category_id", id, "released", len(report))
	return report, nil
}

func (s *CategoryService) apply(c *models.Category, in CategoryInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.Required("name", name); err != nil {
			return invalid("name", err)
		}
		if err := validation.MaxLength("name", name, 100); err != nil {
			return invalid("name", err)
		}
		slug := Slugify(name)
		if slug == "" {
			return invalidf("name", "must contain letters or digits")
		}
		c.Name = name
		c.Slug = slug
	}
	if in.Description != nil {
		if err := validation.MaxLength("description", *in.Description, 2000); err != nil {
			return invalid("description", err)
		}
		c.Description = strings.TrimSpace(*in.Description)
	}
	return nil
}

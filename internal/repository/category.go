package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"art-gallery-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category name or slug already exists")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	ByID(ctx context.Context, id string) (*models.Category, error)
	BySlug(ctx context.Context, slug string) (*models.Category, error)
	Categories(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (id, name, slug, description, image_url, image_kind, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		category.ImageURL,
		category.ImageKind,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	return err
}

func (r *categoryRepository) ByID(ctx context.Context, id string) (*models.Category, error) {
	category := &models.Category{}
	err := r.db.GetContext(ctx, category, `SELECT * FROM categories WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	return category, err
}

func (r *categoryRepository) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	category := &models.Category{}
	err := r.db.GetContext(ctx, category, `SELECT * FROM categories WHERE slug = $1`, slug)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	return category, err
}

func (r *categoryRepository) Categories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY LOWER(name) ASC`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories
	          SET name = $1, slug = $2, description = $3, image_url = $4, image_kind = $5, updated_at = $6
	          WHERE id = $7`

	category.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
		category.ImageURL,
		category.ImageKind,
		category.UpdatedAt,
		category.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrCategoryNotFound)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrCategoryNotFound)
}

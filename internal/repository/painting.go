package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"art-gallery-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPaintingNotFound = errors.New("painting not found")
)

const paintingColumns = `id, title, description, artist, category_id, price_cents, currency, medium,
	dimensions, year, is_available, is_featured, created_at, updated_at`

type PaintingRepository interface {
	Create(ctx context.Context, painting *models.Painting) error
	ByID(ctx context.Context, id string) (*models.Painting, error)
	Paintings(ctx context.Context, filter models.PaintingFilter) ([]*models.Painting, int, error)
	Update(ctx context.Context, painting *models.Painting) error
	SetAvailable(ctx context.Context, id string, available bool) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type paintingRepository struct {
	db *sqlx.DB
}

func NewPaintingRepository(db *sqlx.DB) PaintingRepository {
	return &paintingRepository{db: db}
}

// Create inserts the painting and its ordered images in one transaction.
func (r *paintingRepository) Create(ctx context.Context, painting *models.Painting) error {
	query := `INSERT INTO paintings (` + paintingColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			painting.ID,
			painting.Title,
			painting.Description,
			painting.Artist,
			painting.CategoryID,
			painting.PriceCents,
			painting.Currency,
			painting.Medium,
			painting.Dimensions,
			painting.Year,
			painting.IsAvailable,
			painting.IsFeatured,
			painting.CreatedAt,
			painting.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return insertImages(ctx, tx, painting)
	})
}

func (r *paintingRepository) ByID(ctx context.Context, id string) (*models.Painting, error) {
	painting := &models.Painting{}
	query := `SELECT ` + paintingColumns + ` FROM paintings WHERE id = $1`

	err := r.db.GetContext(ctx, painting, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPaintingNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, []*models.Painting{painting}); err != nil {
		return nil, err
	}
	return painting, nil
}

// Paintings returns one page of paintings matching filter, newest first,
// together with the total number of matches.
func (r *paintingRepository) Paintings(ctx context.Context, filter models.PaintingFilter) ([]*models.Painting, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Available != nil {
		where = append(where, "is_available = ?")
		args = append(args, *filter.Available)
	}
	if filter.Featured != nil {
		where = append(where, "is_featured = ?")
		args = append(args, *filter.Featured)
	}
	if filter.Search != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(artist) LIKE ?)")
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM paintings` + clause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paintingColumns + ` FROM paintings` + clause + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var paintings []*models.Painting
	if err := r.db.SelectContext(ctx, &paintings, r.db.Rebind(query), args...); err != nil {
		return nil, 0, err
	}

	if err := r.attachImages(ctx, paintings); err != nil {
		return nil, 0, err
	}
	return paintings, total, nil
}

// Update rewrites the painting row and replaces its image list.
func (r *paintingRepository) Update(ctx context.Context, painting *models.Painting) error {
	query := `UPDATE paintings
	          SET title = $1, description = $2, artist = $3, category_id = $4, price_cents = $5,
	              currency = $6, medium = $7, dimensions = $8, year = $9, is_available = $10,
	              is_featured = $11, updated_at = $12
	          WHERE id = $13`

	painting.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			painting.Title,
			painting.Description,
			painting.Artist,
			painting.CategoryID,
			painting.PriceCents,
			painting.Currency,
			painting.Medium,
			painting.Dimensions,
			painting.Year,
			painting.IsAvailable,
			painting.IsFeatured,
			painting.UpdatedAt,
			painting.ID,
		)
		if err != nil {
			return err
		}
		if err := exactlyOne(res, ErrPaintingNotFound); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM painting_images WHERE painting_id = $1`, painting.ID); err != nil {
			return err
		}
		return insertImages(ctx, tx, painting)
	})
}

func (r *paintingRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	query := `UPDATE paintings SET is_available = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, available, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrPaintingNotFound)
}

func (r *paintingRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM paintings WHERE category_id = $1`, categoryID)
	return count, err
}

func (r *paintingRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM painting_images WHERE painting_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM paintings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return exactlyOne(res, ErrPaintingNotFound)
	})
}

func insertImages(ctx context.Context, tx *sqlx.Tx, painting *models.Painting) error {
	query := `INSERT INTO painting_images (id, painting_id, url, kind, position) VALUES ($1, $2, $3, $4, $5)`

	for i := range painting.Images {
		img := &painting.Images[i]
		img.PaintingID = painting.ID
		img.Position = i
		if _, err := tx.ExecContext(ctx, query, img.ID, img.PaintingID, img.URL, img.Kind, img.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *paintingRepository) attachImages(ctx context.Context, paintings []*models.Painting) error {
	if len(paintings) == 0 {
		return nil
	}

	ids := make([]string, len(paintings))
	byID := make(map[string]*models.Painting, len(paintings))
	for i, p := range paintings {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Images = []models.PaintingImage{}
	}

	query, args, err := sqlx.In(`SELECT id, painting_id, url, kind, position FROM painting_images
	                             WHERE painting_id IN (?) ORDER BY painting_id, position`, ids)
	if err != nil {
		return err
	}

	var images []models.PaintingImage
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, img := range images {
		if p, ok := byID[img.PaintingID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return nil
}

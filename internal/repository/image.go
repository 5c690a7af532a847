package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ImageRecord is one stored image string together with its owner.
type ImageRecord struct {
	URL        string `db:"url"`
	Kind       string `db:"kind"`
	EntityType string `db:"entity_type"`
	EntityID   string `db:"entity_id"`
}

const (
	EntityPainting = "painting"
	EntityCategory = "category"
	EntityBlogPost = "blog_post"
)

// ImageRepository lists image strings across every entity that stores one.
type ImageRepository interface {
	References(ctx context.Context) ([]ImageRecord, error)
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

// References returns every non-empty stored image string.
func (r *imageRepository) References(ctx context.Context) ([]ImageRecord, error) {
	query := `SELECT url, kind, 'painting' AS entity_type, painting_id AS entity_id FROM painting_images
	          UNION ALL
	          SELECT image_url AS url, image_kind AS kind, 'category' AS entity_type, id AS entity_id
	              FROM categories WHERE image_url <> ''
	          UNION ALL
	          SELECT cover_image AS url, cover_image_kind AS kind, 'blog_post' AS entity_type, id AS entity_id
	              FROM blog_posts WHERE cover_image <> ''`

	var records []ImageRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}
	return records, nil
}

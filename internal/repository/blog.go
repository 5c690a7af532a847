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
	ErrBlogPostNotFound = errors.New("blog post not found")
	ErrDuplicateSlug    = errors.New("slug already exists")
)

type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	ByID(ctx context.Context, id string) (*models.BlogPost, error)
	BySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Posts(ctx context.Context, publishedOnly bool) ([]*models.BlogPost, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id string) error
}

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	query := `INSERT INTO blog_posts (id, title, slug, excerpt, content, author, tags, cover_image,
	              cover_image_kind, published, published_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Content,
		post.Author,
		post.Tags,
		post.CoverImage,
		post.CoverImageKind,
		post.Published,
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *blogRepository) ByID(ctx context.Context, id string) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	err := r.db.GetContext(ctx, post, `SELECT * FROM blog_posts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrBlogPostNotFound
	}
	return post, err
}

func (r *blogRepository) BySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	err := r.db.GetContext(ctx, post, `SELECT * FROM blog_posts WHERE slug = $1`, slug)
	if err == sql.ErrNoRows {
		return nil, ErrBlogPostNotFound
	}
	return post, err
}

func (r *blogRepository) Posts(ctx context.Context, publishedOnly bool) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost

	query := `SELECT * FROM blog_posts ORDER BY created_at DESC, id`
	args := []any{}
	if publishedOnly {
		query = `SELECT * FROM blog_posts WHERE published = $1 ORDER BY published_at DESC, created_at DESC, id`
		args = append(args, true)
	}

	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *blogRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM blog_posts WHERE slug = $1 AND id <> $2`, slug, excludeID)
	return count > 0, err
}

func (r *blogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	query := `UPDATE blog_posts
	          SET title = $1, slug = $2, excerpt = $3, content = $4, author = $5, tags = $6,
	              cover_image = $7, cover_image_kind = $8, published = $9, published_at = $10, updated_at = $11
	          WHERE id = $12`

	post.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Content,
		post.Author,
		post.Tags,
		post.CoverImage,
		post.CoverImageKind,
		post.Published,
		post.PublishedAt,
		post.UpdatedAt,
		post.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrBlogPostNotFound)
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrBlogPostNotFound)
}

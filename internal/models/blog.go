package models

import (
	"database/sql"
	"time"
)

type BlogPost struct {
	ID             string       `db:"id"`
	Title          string       `db:"title"`
	Slug           string       `db:"slug"`
	Excerpt        string       `db:"excerpt"`
	Content        string       `db:"content"`
	Author         string       `db:"author"`
	Tags           string       `db:"tags"`
	CoverImage     string       `db:"cover_image"`
	CoverImageKind string       `db:"cover_image_kind"`
	Published      bool         `db:"published"`
	PublishedAt    sql.NullTime `db:"published_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

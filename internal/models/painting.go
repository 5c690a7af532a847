package models

import (
	"database/sql"
	"time"
)

type Painting struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Artist      string         `db:"artist"`
	CategoryID  sql.NullString `db:"category_id"`
	PriceCents  int64          `db:"price_cents"`
	Currency    string         `db:"currency"`
	Medium      string         `db:"medium"`
	Dimensions  string         `db:"dimensions"`
	Year        sql.NullInt64  `db:"year"`
	IsAvailable bool           `db:"is_available"`
	IsFeatured  bool           `db:"is_featured"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`

	Images []PaintingImage `db:"-"`
}

// PaintingImage is one entry of a painting's ordered image list. Kind is
// "local" or "remote"; empty for rows imported without a discriminator.
type PaintingImage struct {
	ID         string `db:"id"`
	PaintingID string `db:"painting_id"`
	URL        string `db:"url"`
	Kind       string `db:"kind"`
	Position   int    `db:"position"`
}

// PaintingFilter narrows painting listings. Nil pointers mean "any".
type PaintingFilter struct {
	CategoryID string
	Available  *bool
	Featured   *bool
	Search     string
	Limit      int
	Offset     int
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"art-gallery-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

var (
	ErrContactNotFound = errors.New("contact message not found")
)

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	ByID(ctx context.Context, id string) (*models.ContactMessage, error)
	Messages(ctx context.Context, unreadOnly bool) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, id string, read bool) error
	Delete(ctx context.Context, id string) error
}

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `INSERT INTO contact_messages (id, name, email, subject, message, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, msg.IsRead, msg.CreatedAt)
	return err
}

func (r *contactRepository) ByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{}
	err := r.db.GetContext(ctx, msg, `SELECT * FROM contact_messages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrContactNotFound
	}
	return msg, err
}

func (r *contactRepository) Messages(ctx context.Context, unreadOnly bool) ([]*models.ContactMessage, error) {
	var msgs []*models.ContactMessage

	query := `SELECT * FROM contact_messages ORDER BY created_at DESC, id`
	args := []any{}
	if unreadOnly {
		query = `SELECT * FROM contact_messages WHERE is_read = $1 ORDER BY created_at DESC, id`
		args = append(args, false)
	}

	if err := r.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *contactRepository) MarkRead(ctx context.Context, id string, read bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrContactNotFound)
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrContactNotFound)
}

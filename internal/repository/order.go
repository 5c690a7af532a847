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
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ByID(ctx context.Context, id string) (*models.Order, error)
	Orders(ctx context.Context, status string) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `INSERT INTO orders (id, painting_id, painting_title, customer_name, customer_email, customer_phone,
	              message, status, admin_notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.PaintingID,
		order.PaintingTitle,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.Message,
		order.Status,
		order.AdminNotes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	return err
}

func (r *orderRepository) ByID(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.GetContext(ctx, order, `SELECT * FROM orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// Orders lists orders newest first; an empty status returns every order.
func (r *orderRepository) Orders(ctx context.Context, status string) ([]*models.Order, error) {
	var orders []*models.Order

	query := `SELECT * FROM orders ORDER BY created_at DESC, id`
	args := []any{}
	if status != "" {
		query = `SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC, id`
		args = append(args, status)
	}

	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	query := `UPDATE orders SET status = $1, admin_notes = $2, updated_at = $3 WHERE id = $4`

	order.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, order.Status, order.AdminNotes, order.UpdatedAt, order.ID)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrOrderNotFound)
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return exactlyOne(res, ErrOrderNotFound)
}

package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusContacted = "contacted"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a purchase inquiry for a painting. The painting title is copied at
// creation so the inquiry stays readable after the painting is removed.
type Order struct {
	ID            string    `db:"id"`
	PaintingID    string    `db:"painting_id"`
	PaintingTitle string    `db:"painting_title"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	CustomerPhone string    `db:"customer_phone"`
	Message       string    `db:"message"`
	Status        string    `db:"status"`
	AdminNotes    string    `db:"admin_notes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

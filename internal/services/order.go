package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/validation"

	"github.com/google/uuid"
)

var orderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusContacted, models.OrderStatusCancelled},
	models.OrderStatusContacted: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func validStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusContacted, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}

type OrderService struct {
	orders    repository.OrderRepository
	paintings repository.PaintingRepository
	notifier  Notifier
}

func NewOrderService(orders repository.OrderRepository, paintings repository.PaintingRepository, notifier Notifier) *OrderService {
	return &OrderService{
		orders:    orders,
		paintings: paintings,
		notifier:  notifier,
	}
}

// Create records a purchase inquiry for an available painting.
func (s *OrderService) Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	email := strings.TrimSpace(req.CustomerEmail)

	if err := validation.Required("customer_name", name); err != nil {
		return nil, invalid("customer_name", err)
	}
	if err := validation.Email(email); err != nil {
		return nil, invalid("customer_email", err)
	}
	if err := validation.MaxLength("message", req.Message, 5000); err != nil {
		return nil, invalid("message", err)
	}

	painting, err := s.paintings.ByID(ctx, req.PaintingID)
	if err != nil {
		return nil, err
	}
	if !painting.IsAvailable {
		return nil, ErrPaintingUnavailable
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.New().String(),
		PaintingID:    painting.ID,
		PaintingTitle: painting.Title,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Message:       strings.TrimSpace(req.Message),
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("order created", "order_id", order.ID, "painting_id", order.PaintingID)
	s.notifier.OrderPlaced(ctx, order)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, status string) ([]*models.Order, error) {
	if status != "" && !validStatus(status) {
		return nil, invalidf("status", "unknown status %q", status)
	}
	orders, err := s.orders.Orders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.ByID(ctx, id)
}

// UpdateStatus moves the order along pending -> contacted -> completed, or
// to cancelled before completion. Keeping the current status only updates
// the notes. Completing an order marks the painting as sold.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string, notes *string) (*models.Order, error) {
	if !validStatus(status) {
		return nil, invalidf("status", "unknown status %q", status)
	}

	order, err := s.orders.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status != order.Status && !CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	previous := order.Status
	order.Status = status
	if notes != nil {
		order.AdminNotes = strings.TrimSpace(*notes)
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if status == models.OrderStatusCompleted && previous != status {
		err := s.paintings.SetAvailable(ctx, order.PaintingID, false)
		if err != nil && !errors.Is(err, repository.ErrPaintingNotFound) {
			return nil, fmt.Errorf("failed to mark painting sold: %w", err)
		}
	}

	slog.Info("order status updated", "order_id", order.ID, "from", previous, "to", status)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/validation"

	"github.com/google/uuid"
)

type ContactService struct {
	messages repository.ContactRepository
	notifier Notifier
}

func NewContactService(messages repository.ContactRepository, notifier Notifier) *ContactService {
	return &ContactService{
		messages: messages,
		notifier: notifier,
	}
}

func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: time.Now().UTC(),
	}

	if err := validation.Required("name", msg.Name); err != nil {
		return nil, invalid("name", err)
	}
	if err := validation.Email(msg.Email); err != nil {
		return nil, invalid("email", err)
	}
	if err := validation.MaxLength("subject", msg.Subject, 200); err != nil {
		return nil, invalid("subject", err)
	}
	if err := validation.Required("message", msg.Message); err != nil {
		return nil, invalid("message", err)
	}
	if err := validation.MaxLength("message", msg.Message, 5000); err != nil {
		return nil, invalid("message", err)
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	slog.Info("contact message received", "message_id", msg.ID)
	s.notifier.ContactReceived(ctx, msg)
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, unreadOnly bool) ([]*models.ContactMessage, error) {
	msgs, err := s.messages.Messages(ctx, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

func (s *ContactService) MarkRead(ctx context.Context, id string, read bool) error {
	return s.messages.MarkRead(ctx, id, read)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.messages.Delete(ctx, id)
}

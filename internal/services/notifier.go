package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"art-gallery-backend/internal/models"

	"github.com/resend/resend-go/v2"
)

// Notifier tells the gallery owner about new inquiries. Implementations log
// delivery failures instead of returning them.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
	ContactReceived(ctx context.Context, msg *models.ContactMessage)
}

type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
	isDev  bool
}

// NewEmailNotifier logs instead of sending when running in development or
// when no API key or recipient is configured.
func NewEmailNotifier(apiKey, from, to string, isDev bool) *EmailNotifier {
	var client *resend.Client
	if apiKey != "" && to != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailNotifier{
		client: client,
		from:   from,
		to:     to,
		isDev:  isDev,
	}
}

func (n *EmailNotifier) OrderPlaced(ctx context.Context, order *models.Order) {
	subject := fmt.Sprintf("New inquiry for %q", order.PaintingTitle)

	var body strings.Builder
	fmt.Fprintf(&body, "Painting: %s (%s)\n", order.PaintingTitle, order.PaintingID)
	fmt.Fprintf(&body, "From: %s <%s>\n", order.CustomerName, order.CustomerEmail)
	if order.CustomerPhone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", order.CustomerPhone)
	}
	if order.Message != "" {
		fmt.Fprintf(&body, "\n%s\n", order.Message)
	}

	n.send(ctx, "order", subject, body.String(), order.CustomerEmail)
}

func (n *EmailNotifier) ContactReceived(ctx context.Context, msg *models.ContactMessage) {
	subject := "New contact message"
	if msg.Subject != "" {
		subject = fmt.Sprintf("Contact: %s", msg.Subject)
	}
	body := fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Message)

	n.send(ctx, "contact", subject, body, msg.Email)
}

func (n *EmailNotifier) send(ctx context.Context, kind, subject, body, replyTo string) {
	if n.client == nil {
		slog.Info("email sent (dev mode)", "type", kind, "to", n.to, "subject", subject)
		return
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Text:    body,
		ReplyTo: replyTo,
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		slog.Error("failed to send email", "type", kind, "to", n.to, "error", err)
		return
	}
	slog.Info("email sent", "type", kind, "to", n.to)
}

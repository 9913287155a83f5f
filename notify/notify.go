// Package notify tells founders and lawyers about marketplace activity.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/config"
	templates "github.com/linesmerrill/lexmatch-api/templates/html"
)

const senderName = "LexMatch"

// ErrNoRecipient is returned for messages without an address
var ErrNoRecipient = errors.New("message has no recipient email")

// Message is a single email notification
type Message struct {
	ToName   string
	ToEmail  string
	Subject  string
	Body     string
	Link     string
	LinkText string
}

// Notifier delivers messages
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// New picks the sendgrid notifier when an api key is configured and the log
// notifier otherwise
func New(conf *config.Config) Notifier {
	if conf.SendgridAPIKey == "" {
		zap.S().Infow("SENDGRID_API_KEY not set, notifications will only be logged")
		return LogNotifier{}
	}
	return NewSendgridNotifier(conf.SendgridAPIKey, conf.NotifyFromEmail)
}

// LogNotifier writes messages to the log instead of sending them
type LogNotifier struct{}

// Notify logs msg
func (LogNotifier) Notify(_ context.Context, msg Message) error {
	zap.S().Infow("notification",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendgridNotifier sends messages as email through SendGrid
type SendgridNotifier struct {
	client sender
	from   *mail.Email
}

// NewSendgridNotifier creates a notifier sending from fromEmail
func NewSendgridNotifier(apiKey, fromEmail string) *SendgridNotifier {
	return &SendgridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(senderName, fromEmail),
	}
}

// Notify sends msg; a non-2xx status from SendGrid is an error
func (s *SendgridNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return ErrNoRecipient
	}
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	htmlContent := templates.RenderEmail(msg.Subject, msg.Body, msg.Link, msg.LinkText)
	message := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, htmlContent)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.ToEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

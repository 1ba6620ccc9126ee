package infrastructure

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends plain notification emails.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NewMailer returns a SendGrid mailer when apiKey is set and a logging no-op
// otherwise.
func NewMailer(apiKey, sender string) Mailer {
	if apiKey == "" {
		log.Printf("SENDGRID_API_KEY not set, emails will only be logged")
		return NoopMailer{}
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("UserHub", sender),
	}
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (m *SendGridMailer) Send(ctx context.Context, recipient, subject, body string) error {
	to := mail.NewEmail("", recipient)
	message := mail.NewSingleEmailPlainText(m.from, subject, to, body)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("send email: sendgrid status %d", response.StatusCode)
	}
	return nil
}

type NoopMailer struct{}

func (NoopMailer) Send(ctx context.Context, recipient, subject, body string) error {
	log.Printf("email to %s suppressed: %s", recipient, subject)
	return nil
}

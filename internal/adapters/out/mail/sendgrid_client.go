// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	ErrSendGridAPIKeyEmpty = errors.New("sendgrid: api key is empty")
	ErrFromEmpty           = errors.New("sendgrid: from address is empty")
	ErrToEmpty             = errors.New("sendgrid: to address is empty")
)

const senderName = "solstarter"

// EmailClient sends one plain-text email.
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SendGridClient implements EmailClient.
type SendGridClient struct {
	apiKey string
}

var _ EmailClient = (*SendGridClient)(nil)

func NewSendGridClient(apiKey string) *SendGridClient {
	return &SendGridClient{apiKey: strings.TrimSpace(apiKey)}
}

// Send sends an email using SendGrid
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c == nil || c.apiKey == "" {
		return ErrSendGridAPIKeyEmpty
	}
	if from == "" {
		return ErrFromEmpty
	}
	if to == "" {
		return ErrToEmpty
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(senderName, from),
		subject,
		mail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	response, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid: send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	log.Printf("[sendgrid] mail sent: status=%d to=%s subject=%s", response.StatusCode, to, subject)
	return nil
}

package mail

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional mail. Handlers depend on the interface
// so tests can swap in a recorder.
type Sender interface {
	Send(toEmail, subject, content string) error
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
}

func NewSendGridSender(apiKey, fromEmail string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (s *SendGridSender) Send(toEmail, subject, content string) error {
	from := sgmail.NewEmail("", s.fromEmail)
	to := sgmail.NewEmail("", toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, content, "")

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

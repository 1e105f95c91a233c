package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends transactional mail through a single configured domain.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

// Send delivers one message. html, when non-empty, is set as the HTML body
// alongside the plain-text part.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

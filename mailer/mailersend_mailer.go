package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
	ttl     time.Duration
}

func NewMailerSend(apiKey, fromName, fromEmail string, ttl time.Duration) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
		ttl: ttl,
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendVerificationCode(ctx context.Context, toEmail, code string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	content := VerificationMessage(code, m.ttl)

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: toEmail}})
	msg.SetSubject(content.Subject)
	if strings.TrimSpace(content.Text) != "" {
		msg.SetText(content.Text)
	}
	if strings.TrimSpace(content.HTML) != "" {
		msg.SetHTML(content.HTML)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}

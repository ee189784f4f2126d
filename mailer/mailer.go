package mailer

import (
	"context"
	"fmt"
	"time"

	"hotel-server/confs"
)

type Mailer interface {
	SendVerificationCode(ctx context.Context, toEmail, code string) error
}

// Message is a rendered email ready for any transport.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

func VerificationMessage(code string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	return Message{
		Subject: "Hotel Management - Verification Code",
		Text:    fmt.Sprintf("Your verification code is: %s\n\nThe code expires in %d minutes.", code, minutes),
		HTML: fmt.Sprintf(`
			<h2>Your verification code is: <strong style="color: #1890ff;">%s</strong></h2>
			<p>The code expires in %d minutes, please use it soon.</p>
		`, code, minutes),
	}
}

// New picks the transport named by cfg.Driver.
func New(cfg confs.EmailConfig, codeTTL time.Duration) (Mailer, error) {
	switch cfg.Driver {
	case "", "dev":
		return NewDevMailer(codeTTL), nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.FromName, cfg.FromEmail, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS, codeTTL), nil
	case "mailersend":
		m := NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.FromEmail, codeTTL)
		if !m.enabled {
			return nil, fmt.Errorf("MAILERSEND_API_KEY and MAIL_FROM_EMAIL are required for the mailersend driver")
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported MAIL_DRIVER %q", cfg.Driver)
	}
}

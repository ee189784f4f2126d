package mailer

import (
	"context"
	"time"

	"hotel-server/logger"
)

// DevMailer logs the code instead of sending anything.
type DevMailer struct {
	ttl time.Duration
}

func NewDevMailer(ttl time.Duration) *DevMailer {
	return &DevMailer{ttl: ttl}
}

func (d *DevMailer) SendVerificationCode(ctx context.Context, toEmail, code string) error {
	msg := VerificationMessage(code, d.ttl)
	logger.InfoContext(ctx, "[DEV MAIL] verification code",
		"to", toEmail,
		"subject", msg.Subject,
		"code", code,
	)
	return nil
}

// Package email sends transactional mail over SMTP.
package email

import (
	"context"

	"anchor_crm_backend/platform/config"
	"anchor_crm_backend/platform/logger"

	"github.com/wneessen/go-mail"
)

// Sender delivers mail through the configured SMTP relay. When email is
// disabled it logs the message and reports success, so development setups
// work without a relay.
type Sender struct {
	cfg config.EmailConfig
	log *logger.Logger
}

func NewSender(cfg config.EmailConfig, log *logger.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Send delivers one plain-text message.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.GetEmailEnabled() {
		s.log.Info("email disabled, skipping send",
			"to", to,
			"subject", subject,
		)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.GetSMTPHost(),
		mail.WithPort(s.cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.GetSMTPUsername()),
		mail.WithPassword(s.cfg.GetSMTPPassword()),
	)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}

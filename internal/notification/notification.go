// Package notification turns domain events into outbound mail. It has no
// HTTP surface; main wires it onto the event bus.
package notification

import (
	"context"
	"fmt"

	"anchor_crm_backend/internal/events"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/platform/logger"
)

// MailSender delivers one message. Satisfied by email.Sender.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// UserDirectory reads the org directory to find notification recipients.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]orgdomain.User, error)
}

type Service struct {
	sender MailSender
	users  UserDirectory
	log    *logger.Logger
}

func New(sender MailSender, users UserDirectory, log *logger.Logger) *Service {
	return &Service{sender: sender, users: users, log: log}
}

// Subscribe wires the notification handlers onto the event bus.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadAwaitingDocsApproval{}.EventName(), events.HandlerFunc(s.onAwaitingDocsApproval))
}

// onAwaitingDocsApproval mails every active approver when a docs submission
// needs review.
func (s *Service) onAwaitingDocsApproval(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAwaitingDocsApproval)
	if !ok {
		return nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Docs approval needed: %s", e.LeadName)
	body := fmt.Sprintf(
		"Lead %q (%s) has documents awaiting approval.\nSubmitted by a %s user.\n\nPlease review and approve or send it back to follow up.",
		e.LeadName, e.LeadID, e.ActorRole,
	)

	for _, u := range users {
		if !u.Role.IsApprover() || u.Status != orgdomain.UserActive || u.Email == "" {
			continue
		}
		if err := s.sender.Send(ctx, u.Email, subject, body); err != nil {
			s.log.Error("failed to send approval notification",
				"error", err,
				"to", u.Email,
				"leadId", e.LeadID,
			)
		}
	}
	return nil
}

// SendStaleDigest mails one manager their stale-lead digest. The scheduler
// composes the body; this keeps the mail plumbing in one place.
func (s *Service) SendStaleDigest(ctx context.Context, to, body string) error {
	return s.sender.Send(ctx, to, "Daily stale lead digest", body)
}

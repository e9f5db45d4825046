package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
)

// ContactService sends messages from the public contact form. Nothing is
// cached.
type ContactService interface {
	Send(ctx context.Context, msg models.ContactMessage) error
}

type contactService struct {
	client client.Client
	notify notify.Notifier
}

func NewContactService(c client.Client, n notify.Notifier) ContactService {
	return &contactService{client: c, notify: n}
}

func (s *contactService) Send(ctx context.Context, msg models.ContactMessage) error {
	if err := models.Validate(msg); err != nil {
		if verr, ok := models.AsValidation(err); ok {
			for _, f := range verr.Fields {
				s.notify.Error(f.Message())
			}
		}
		return err
	}
	if err := s.client.SendContact(ctx, msg); err != nil {
		s.notify.Error("Failed to send message: " + client.Message(err))
		return fmt.Errorf("send contact: %w", err)
	}
	s.notify.Success("Message sent successfully")
	return nil
}

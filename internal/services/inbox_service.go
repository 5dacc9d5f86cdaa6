package services

import (
	"context"

	"bizbook/internal/domain"
	"bizbook/internal/validate"
)

const maxMessage = 5000

type InboxService struct {
	Store InboxStore
}

func NewInboxService(store InboxStore) *InboxService {
	return &InboxService{Store: store}
}

func (s *InboxService) List(ctx context.Context) ([]domain.Message, error) {
	return s.Store.ListMessages(ctx)
}

func (s *InboxService) Get(ctx context.Context, id int64) (domain.Message, error) {
	return s.Store.GetMessage(ctx, id)
}

// Submit stores a contact-form message as unread.
func (s *InboxService) Submit(ctx context.Context, in domain.NewMessage) (domain.Message, error) {
	name, ok := validate.Text(in.CustomerName, maxName)
	if !ok {
		return domain.Message{}, domain.Invalid("customerName", "is required")
	}
	body, ok := validate.Text(in.Message, maxMessage)
	if !ok {
		return domain.Message{}, domain.Invalid("message", "is required")
	}
	out := domain.NewMessage{CustomerName: name, Message: body}
	if in.CustomerEmail != "" {
		if out.CustomerEmail, ok = validate.Email(in.CustomerEmail); !ok {
			return domain.Message{}, domain.Invalid("customerEmail", "is not a valid address")
		}
	}
	if in.CustomerPhone != "" {
		if out.CustomerPhone, ok = validate.Phone(in.CustomerPhone); !ok {
			return domain.Message{}, domain.Invalid("customerPhone", "is not a valid phone number")
		}
	}
	if out.Subject, ok = validate.Optional(in.Subject, maxShort); !ok {
		return domain.Message{}, domain.Invalid("subject", "is too long")
	}
	return s.Store.CreateMessage(ctx, out)
}

// MarkRead is idempotent and returns the message after the update.
func (s *InboxService) MarkRead(ctx context.Context, id int64) (domain.Message, error) {
	if err := s.Store.MarkMessageRead(ctx, id); err != nil {
		return domain.Message{}, err
	}
	return s.Store.GetMessage(ctx, id)
}

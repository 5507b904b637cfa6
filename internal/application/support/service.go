package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/funfans/funfans-api/internal/domain"
	"github.com/funfans/funfans-api/internal/pkg/id"
)

// MessageStore is the persistence capability for support messages.
// Insert-only: the channel never mutates or deletes records.
type MessageStore interface {
	Put(ctx context.Context, m *domain.SupportMessage) error
	ListByUser(ctx context.Context, userID string) ([]domain.SupportMessage, error)
	Scan(ctx context.Context) ([]domain.SupportMessage, error)
}

type Service interface {
	// Create persists a user-to-staff message. Empty or whitespace-only text
	// is rejected before anything is written. Persistence and staff
	// notification are independent capabilities: Create never triggers the
	// notification dispatcher.
	Create(ctx context.Context, userID, text string) (*domain.SupportMessage, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SupportMessage, error)
	ListAll(ctx context.Context) ([]domain.SupportMessage, error)
}

type service struct {
	repo MessageStore
}

func NewService(repo MessageStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID, text string) (*domain.SupportMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message must not be empty: %w", domain.ErrBadRequest)
	}
	if userID == "" {
		return nil, fmt.Errorf("user id required: %w", domain.ErrBadRequest)
	}
	m := &domain.SupportMessage{
		MessageID: id.New(),
		UserID:    userID,
		Sender:    domain.SenderUser,
		Message:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.SupportMessage, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]domain.SupportMessage, error) {
	return s.repo.Scan(ctx)
}

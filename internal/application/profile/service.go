package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/funfans/funfans-api/internal/domain"
)

// ProfileStore is the persistence capability for platform profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	PutIfAbsent(ctx context.Context, p *domain.Profile) error
}

// Materialize derives the initial platform profile for a newly observed
// identity. Pure and deterministic: the same identity always yields the same
// profile.
func Materialize(userID, email string) *domain.Profile {
	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	return &domain.Profile{
		UserID:      userID,
		DisplayName: name,
		AvatarURL:   fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", name),
		Role:        domain.RoleUser,
		Followers:   0,
	}
}

type Service interface {
	// Ensure returns the profile for the identity, materializing it on first
	// sight. Idempotent: repeat calls (including racing ones) return the
	// already-stored profile.
	Ensure(ctx context.Context, userID, email string) (*domain.Profile, error)
}

type service struct {
	repo ProfileStore
}

func NewService(repo ProfileStore) Service {
	return &service{repo: repo}
}

func (s *service) Ensure(ctx context.Context, userID, email string) (*domain.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	p = Materialize(userID, email)
	p.CreatedAt = time.Now().UTC()
	if err := s.repo.PutIfAbsent(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race to another first sighting; theirs wins.
			return s.repo.Get(ctx, userID)
		}
		return nil, err
	}
	return p, nil
}

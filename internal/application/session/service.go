package session

import (
	"context"
	"fmt"
	"time"

	"github.com/funfans/funfans-api/internal/domain"
	"github.com/funfans/funfans-api/internal/pkg/token"
)

// SessionStore is the session persistence the service needs.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
}

// UserStore resolves the user a session belongs to.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// TokenSigner mints bearer tokens on refresh.
type TokenSigner interface {
	Sign(userID, email, role, sessionID string) (string, error)
}

type Service interface {
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, refreshToken string) (bearer, newRefreshToken string, err error)
}

type service struct {
	sessions        SessionStore
	users           UserStore
	signer          TokenSigner
	refreshTokenDur time.Duration
}

func NewService(sessions SessionStore, users UserStore, signer TokenSigner, refreshTokenDur time.Duration) Service {
	return &service{sessions: sessions, users: users, signer: signer, refreshTokenDur: refreshTokenDur}
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return sess, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Update(ctx, sessionID, map[string]interface{}{"enable": false})
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sess, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	if !sess.Enable || sess.RefreshExpiresAt < time.Now().Unix() {
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return "", "", err
	}

	newToken, err := token.NewRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := s.sessions.Update(ctx, sess.SessionID, map[string]interface{}{
		"refresh_token":      newToken,
		"refresh_expires_at": time.Now().Add(s.refreshTokenDur).Unix(),
	}); err != nil {
		return "", "", err
	}
	bearer, err := s.signer.Sign(u.UserID, u.Email, u.Role, sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}

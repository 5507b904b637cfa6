package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/funfans/funfans-api/internal/application/notification"
	"github.com/funfans/funfans-api/internal/domain"
	"github.com/funfans/funfans-api/internal/pkg/id"
	"github.com/funfans/funfans-api/internal/pkg/token"
	"github.com/funfans/funfans-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the minimal user persistence the identity service needs.
type UserStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// SessionStore persists minted sessions.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
}

// CodeStore persists verification codes. Codes are single-use: consumption
// deletes them.
type CodeStore interface {
	Put(ctx context.Context, v *domain.VerificationCode) error
	Get(ctx context.Context, target, purpose string) (*domain.VerificationCode, error)
	Delete(ctx context.Context, target, purpose string) error
}

// Dispatcher renders and sends one transactional email.
type Dispatcher interface {
	Dispatch(ctx context.Context, req notification.EmailRequest) ([]byte, error)
}

// TokenSigner mints bearer tokens for authenticated sessions.
type TokenSigner interface {
	Sign(userID, email, role, sessionID string) (string, error)
}

// SignInResult is what a successful credential check yields.
type SignInResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

// Service is the identity provider: credential checks, session issuance and
// the three code-based verification flows. It is the sole owner of Users and
// Sessions; verification codes are minted here, never by the dispatcher.
type Service interface {
	SignUp(ctx context.Context, email, password string) error
	ConfirmSignUp(ctx context.Context, email, code string) error
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
	RequestEmailChange(ctx context.Context, userID, newEmail string) error
	ConfirmEmailChange(ctx context.Context, userID, code string) error
}

// ServiceDeps bundles the collaborators for NewService.
type ServiceDeps struct {
	UserRepo        UserStore
	SessionRepo     SessionStore
	CodeRepo        CodeStore
	Dispatcher      Dispatcher
	Signer          TokenSigner
	RefreshTokenDur time.Duration
}

type service struct {
	users    UserStore
	sessions SessionStore
	codes    CodeStore
	notify   Dispatcher
	signer   TokenSigner

	refreshTokenDur time.Duration
	now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:           deps.UserRepo,
		sessions:        deps.SessionRepo,
		codes:           deps.CodeRepo,
		notify:          deps.Dispatcher,
		signer:          deps.Signer,
		refreshTokenDur: deps.RefreshTokenDur,
		now:             time.Now,
	}
}

func (s *service) SignUp(ctx context.Context, email, password string) error {
	if err := validate.Email(email); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if err := validate.Password(password); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("%s: %w", domain.MsgUserAlreadyRegistered, domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:         id.New(),
		Email:          email,
		PasswordHash:   string(hash),
		Role:           domain.RoleUser,
		EmailConfirmed: false,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	return s.issueCode(ctx, email, domain.PurposeSignup)
}

func (s *service) ConfirmSignUp(ctx context.Context, email, code string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)
	}
	if err := s.consumeCode(ctx, email, domain.PurposeSignup, code); err != nil {
		return err
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{"email_confirmed": true})
}

func (s *service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.MsgInvalidCredentials, domain.ErrUnauthorized)
	}
	if !u.Enable {
		return nil, fmt.Errorf("%s: %w", domain.MsgInvalidCredentials, domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%s: %w", domain.MsgInvalidCredentials, domain.ErrUnauthorized)
	}
	if !u.EmailConfirmed {
		return nil, fmt.Errorf("%s: %w", domain.MsgEmailNotConfirmed, domain.ErrUnauthorized)
	}

	refreshToken, err := token.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.signer.Sign(u.UserID, u.Email, u.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &SignInResult{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

// RequestPasswordReset never discloses whether the email is registered:
// unknown addresses succeed silently with nothing sent.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	if err := validate.Email(email); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.issueCode(ctx, email, domain.PurposePasswordReset)
}

func (s *service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if err := validate.Password(newPassword); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)
	}
	if err := s.consumeCode(ctx, email, domain.PurposePasswordReset, code); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)})
}

func (s *service) RequestEmailChange(ctx context.Context, userID, newEmail string) error {
	if err := validate.Email(newEmail); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if _, err := s.users.GetByEmail(ctx, newEmail); err == nil {
		return fmt.Errorf("%s: %w", domain.MsgUserAlreadyRegistered, domain.ErrConflict)
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"pending_email": newEmail}); err != nil {
		return err
	}
	// The code goes to the new address: confirming it proves control of it.
	return s.issueCode(ctx, newEmail, domain.PurposeEmailChange)
}

func (s *service) ConfirmEmailChange(ctx context.Context, userID, code string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.PendingEmail == "" {
		return fmt.Errorf("no email change pending: %w", domain.ErrBadRequest)
	}
	if err := s.consumeCode(ctx, u.PendingEmail, domain.PurposeEmailChange, code); err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]interface{}{
		"email":         u.PendingEmail,
		"pending_email": "",
	})
}

// issueCode mints a fresh 6-digit code bound to (target, purpose), persists it
// with the 15-minute expiry and dispatches the matching email. A new code
// replaces any previous one for the same pair.
func (s *service) issueCode(ctx context.Context, target, purpose string) error {
	code, err := token.NewVerificationCode()
	if err != nil {
		return err
	}
	now := s.now()
	v := &domain.VerificationCode{
		Target:    target,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: now.Add(domain.CodeTTLMinutes * time.Minute).Unix(),
		CreatedAt: now.Unix(),
	}
	if err := s.codes.Put(ctx, v); err != nil {
		return err
	}
	if _, err := s.notify.Dispatch(ctx, notification.EmailRequest{
		To:   target,
		Type: purpose,
		Code: code,
	}); err != nil {
		return fmt.Errorf("dispatch %s email: %w", purpose, err)
	}
	return nil
}

// consumeCode enforces the single-use invariant: fetch, compare, check expiry,
// then delete. An expired or already-consumed code is always rejected.
func (s *service) consumeCode(ctx context.Context, target, purpose, code string) error {
	v, err := s.codes.Get(ctx, target, purpose)
	if err != nil {
		return fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)
	}
	if v.Code != code {
		return fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)
	}
	if v.ExpiresAt < s.now().Unix() {
		return fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)
	}
	if err := s.codes.Delete(ctx, target, purpose); err != nil {
		slog.Warn("failed to delete consumed verification code", "target", target, "purpose", purpose, "err", err)
	}
	return nil
}

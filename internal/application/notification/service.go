package notification

import (
	"context"
	"fmt"

	"github.com/funfans/funfans-api/internal/pkg/validate"
)

// Mailer is the email-sending capability. Send returns the provider's raw
// response body so the dispatcher can pass it through to its caller.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) ([]byte, error)
}

// EmailRequest is one transactional email to render and send.
type EmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Type    string `json:"type" validate:"required,oneof=signup password_reset email_change support"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type Service interface {
	// Dispatch renders the templated email for req and hands it to the
	// sending capability. Either the full render-and-send sequence completes,
	// or it fails before anything is sent; there is no partial send and no
	// deduplication — identical calls send identical emails again.
	Dispatch(ctx context.Context, req EmailRequest) ([]byte, error)
}

type service struct {
	mailer Mailer
}

func NewService(mailer Mailer) Service {
	return &service{mailer: mailer}
}

func (s *service) Dispatch(ctx context.Context, req EmailRequest) ([]byte, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	subject, html, err := render(req)
	if err != nil {
		return nil, err
	}
	resp, err := s.mailer.Send(ctx, req.To, subject, html)
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	return resp, nil
}

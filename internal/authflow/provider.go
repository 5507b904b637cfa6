package authflow

import "context"

// Identity is what the flow exposes downstream once authenticated.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the flow's reference to a provider-owned session. The provider
// mints and owns it; the flow only holds it and hands it to the session
// service.
type Session struct {
	Identity     Identity `json:"identity"`
	Bearer       string   `json:"bearer"`
	RefreshToken string   `json:"refresh_token"`
}

// Provider is the identity provider capability boundary. Implementations may
// resolve with provider-specific errors; the machine pattern-matches their
// text against the known failure signatures and passes the rest through raw.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) error
	ResetPassword(ctx context.Context, email string) error
}

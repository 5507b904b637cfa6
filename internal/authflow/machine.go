package authflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/funfans/funfans-api/internal/domain"
	"github.com/funfans/funfans-api/internal/pkg/validate"
)

// ErrBusy is returned when a submission arrives while another one is still in
// flight on this machine. It guards a single form instance only; a second
// machine provides no such protection.
var ErrBusy = errors.New("submission already in flight")

// Machine owns the auth/recovery flow state. It is driven by a single UI
// event loop and is not safe for concurrent use.
//
// States: Anonymous → {LoginForm, RegisterForm} → Authenticating →
// Authenticated, with ForgotPassword and ForgotEmail reachable only from
// LoginForm and always returning there. Authenticated is terminal here;
// control passes to the rest of the platform.
type Machine struct {
	provider Provider
	sessions *SessionService

	state    State
	loading  bool
	notice   string
	identity *Identity
}

// NewMachine builds a machine in the Anonymous state. The session service is
// injected explicitly; the machine never reaches for ambient state.
func NewMachine(provider Provider, sessions *SessionService) *Machine {
	return &Machine{provider: provider, sessions: sessions, state: StateAnonymous}
}

// Start leaves Anonymous: a session persisted from a previous run restores
// Authenticated directly, otherwise the login form is shown.
func (m *Machine) Start() {
	if m.state != StateAnonymous {
		return
	}
	if cur := m.sessions.Current(); cur != nil {
		m.identity = &Identity{ID: cur.UserID, Email: cur.Email}
		m.state = StateAuthenticated
		return
	}
	m.state = StateLoginForm
}

func (m *Machine) State() State   { return m.state }
func (m *Machine) Loading() bool  { return m.loading }
func (m *Machine) Notice() string { return m.notice }

// Identity exposes {id, email} once authenticated, nil before that.
func (m *Machine) Identity() *Identity { return m.identity }

// ShowLogin switches to the login form from the register form or a recovery
// sub-state.
func (m *Machine) ShowLogin() {
	switch m.state {
	case StateRegisterForm, StateForgotPassword, StateForgotEmail:
		m.state = StateLoginForm
		m.notice = ""
	}
}

// ShowRegister switches to the register form. Only reachable from the login
// form.
func (m *Machine) ShowRegister() {
	if m.state == StateLoginForm {
		m.state = StateRegisterForm
		m.notice = ""
	}
}

// ShowForgotPassword enters the forgot-password sub-state. Only reachable
// from the login form.
func (m *Machine) ShowForgotPassword() {
	if m.state == StateLoginForm {
		m.state = StateForgotPassword
		m.notice = ""
	}
}

// ShowForgotEmail enters the forgot-email sub-state. Only reachable from the
// login form.
func (m *Machine) ShowForgotEmail() {
	if m.state == StateLoginForm {
		m.state = StateForgotEmail
		m.notice = ""
	}
}

// Cancel leaves a recovery sub-state back to the login form.
func (m *Machine) Cancel() {
	if m.state == StateForgotPassword || m.state == StateForgotEmail {
		m.state = StateLoginForm
		m.notice = ""
	}
}

// SubmitLogin validates locally, then asks the provider to sign in. On
// success the machine is Authenticated and the session is handed to the
// session service; on failure it returns to the login form with a classified
// error. Validation failures never reach the provider.
func (m *Machine) SubmitLogin(ctx context.Context, email, password string) error {
	if m.state != StateLoginForm {
		return fmt.Errorf("login not available in state %s", m.state)
	}
	if m.loading {
		return ErrBusy
	}
	if err := validate.Email(email); err != nil {
		return validationError(err)
	}
	if err := validate.Password(password); err != nil {
		return validationError(err)
	}

	m.notice = ""
	m.loading = true
	m.state = StateAuthenticating
	defer func() { m.loading = false }()

	sess, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		m.state = StateLoginForm
		return mapProviderError(err)
	}

	m.identity = &sess.Identity
	m.state = StateAuthenticated
	if err := m.sessions.Begin(sess); err != nil {
		// The user is authenticated either way; failing to persist the
		// session only costs the next restart.
		return &FlowError{Kind: KindPersistence, Message: msgGenericFailure, cause: err}
	}
	return nil
}

// SubmitRegister validates locally (email, password policy, confirmation
// match), then asks the provider to sign up. Success clears the form and
// returns to the login form with the confirmation-pending notice — no session
// is created until the email is confirmed.
func (m *Machine) SubmitRegister(ctx context.Context, email, password, confirmPassword string) error {
	if m.state != StateRegisterForm {
		return fmt.Errorf("registration not available in state %s", m.state)
	}
	if m.loading {
		return ErrBusy
	}
	if err := validate.Email(email); err != nil {
		return validationError(err)
	}
	if err := validate.Password(password); err != nil {
		return validationError(err)
	}
	if err := validate.PasswordsMatch(password, confirmPassword); err != nil {
		return validationError(err)
	}

	m.notice = ""
	m.loading = true
	m.state = StateAuthenticating
	defer func() { m.loading = false }()

	if err := m.provider.SignUp(ctx, email, password); err != nil {
		m.state = StateRegisterForm
		return mapProviderError(err)
	}

	m.state = StateLoginForm
	m.notice = NoticeRegistered
	return nil
}

// SubmitPasswordReset validates the email only, then requests the reset. The
// success notice is identical whether or not the email is registered; the
// provider is expected to uphold the same non-disclosure on its side.
func (m *Machine) SubmitPasswordReset(ctx context.Context, email string) error {
	if m.state != StateForgotPassword {
		return fmt.Errorf("password reset not available in state %s", m.state)
	}
	if m.loading {
		return ErrBusy
	}
	if err := validate.Email(email); err != nil {
		return validationError(err)
	}

	m.notice = ""
	m.loading = true
	defer func() { m.loading = false }()

	if err := m.provider.ResetPassword(ctx, email); err != nil {
		return mapProviderError(err)
	}

	m.state = StateLoginForm
	m.notice = NoticeRecoverySent
	return nil
}

// SubmitForgotEmail performs no lookup and contacts nothing: it emits the
// static contact-support instruction and returns to the login form.
func (m *Machine) SubmitForgotEmail() error {
	if m.state != StateForgotEmail {
		return fmt.Errorf("forgot email not available in state %s", m.state)
	}
	m.state = StateLoginForm
	m.notice = NoticeContactSupport
	return nil
}

// SignOut tears down the session and returns to the login form.
func (m *Machine) SignOut() error {
	err := m.sessions.SignOut()
	m.identity = nil
	m.notice = ""
	m.state = StateLoginForm
	return err
}

// mapProviderError classifies a provider failure by its known signature
// substrings; anything unrecognized surfaces with the provider's raw text.
// Errors already classified (e.g. network failures from the HTTP adapter)
// pass through unchanged.
func mapProviderError(err error) error {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, domain.MsgInvalidCredentials):
		return &FlowError{Kind: KindInvalidCredentials, Message: msgInvalidCredentials, cause: err}
	case strings.Contains(msg, domain.MsgEmailNotConfirmed):
		return &FlowError{Kind: KindEmailNotConfirmed, Message: msgEmailNotConfirmed, cause: err}
	case strings.Contains(msg, domain.MsgUserAlreadyRegistered):
		return &FlowError{Kind: KindDuplicateRegistration, Message: msgDuplicateRegistration, cause: err}
	default:
		return &FlowError{Kind: KindProvider, Message: msg, cause: err}
	}
}

package authflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockProvider struct{ mock.Mock }

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	args := m.Called(ctx, email, password)
	if s, _ := args.Get(0).(*Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProvider) SignUp(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}
func (m *mockProvider) ResetPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// --- helpers ---

func newLoginMachine(p Provider) (*Machine, *SessionService) {
	sessions := NewSessionService(&MemorySessionStore{})
	m := NewMachine(p, sessions)
	m.Start()
	return m, sessions
}

func flowKind(t *testing.T, err error) Kind {
	t.Helper()
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	return fe.Kind
}

// --- Start ---

func TestStart_NoPersistedSession_ShowsLogin(t *testing.T) {
	m, _ := newLoginMachine(&mockProvider{})
	assert.Equal(t, StateLoginForm, m.State())
	assert.Nil(t, m.Identity())
}

func TestStart_PersistedSession_RestoresAuthenticated(t *testing.T) {
	store := &MemorySessionStore{}
	require.NoError(t, store.Save(&StoredSession{UserID: "u1", Email: "a@b.com", Bearer: "tok"}))
	sessions := NewSessionService(store)
	require.NoError(t, sessions.Init())

	m := NewMachine(&mockProvider{}, sessions)
	m.Start()

	assert.Equal(t, StateAuthenticated, m.State())
	require.NotNil(t, m.Identity())
	assert.Equal(t, "u1", m.Identity().ID)
	assert.Equal(t, "a@b.com", m.Identity().Email)
}

// --- navigation ---

func TestNavigation_FormSwitches(t *testing.T) {
	m, _ := newLoginMachine(&mockProvider{})

	m.ShowRegister()
	assert.Equal(t, StateRegisterForm, m.State())
	m.ShowLogin()
	assert.Equal(t, StateLoginForm, m.State())

	m.ShowForgotPassword()
	assert.Equal(t, StateForgotPassword, m.State())
	m.Cancel()
	assert.Equal(t, StateLoginForm, m.State())

	m.ShowForgotEmail()
	assert.Equal(t, StateForgotEmail, m.State())
	m.Cancel()
	assert.Equal(t, StateLoginForm, m.State())
}

// Recovery sub-states are reachable only from the login form.
func TestNavigation_RecoveryOnlyFromLogin(t *testing.T) {
	m, _ := newLoginMachine(&mockProvider{})
	m.ShowRegister()

	m.ShowForgotPassword()
	assert.Equal(t, StateRegisterForm, m.State())
	m.ShowForgotEmail()
	assert.Equal(t, StateRegisterForm, m.State())
}

// --- SubmitLogin ---

// Local validation rejects bad input before the provider is ever called.
func TestSubmitLogin_LocalValidation_NoProviderCall(t *testing.T) {
	p := &mockProvider{}
	m, _ := newLoginMachine(p)

	err := m.SubmitLogin(context.Background(), "not-an-email", "secret123")
	require.Error(t, err)
	assert.Equal(t, KindValidation, flowKind(t, err))
	assert.Equal(t, "Email inválido", err.Error())

	err = m.SubmitLogin(context.Background(), "a@b.com", "short")
	require.Error(t, err)
	assert.Equal(t, KindValidation, flowKind(t, err))
	assert.Equal(t, "A senha deve ter no mínimo 6 caracteres", err.Error())

	assert.Equal(t, StateLoginForm, m.State())
	assert.False(t, m.Loading())
	p.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitLogin_HappyPath(t *testing.T) {
	p := &mockProvider{}
	p.On("SignIn", mock.Anything, "a@b.com", "secret123").Return(&Session{
		Identity:     Identity{ID: "u1", Email: "a@b.com"},
		Bearer:       "tok",
		RefreshToken: "refresh",
	}, nil)

	m, sessions := newLoginMachine(p)
	err := m.SubmitLogin(context.Background(), "a@b.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.False(t, m.Loading())
	require.NotNil(t, m.Identity())
	assert.Equal(t, "u1", m.Identity().ID)

	require.True(t, sessions.Authenticated())
	assert.Equal(t, "tok", sessions.Current().Bearer)
	p.AssertExpectations(t)
}

// The provider's failure signatures map to the fixed PT-BR messages.
func TestSubmitLogin_ProviderErrorMapping(t *testing.T) {
	cases := []struct {
		name        string
		providerErr error
		wantKind    Kind
		wantMessage string
	}{
		{
			"invalid credentials",
			errors.New("Invalid login credentials"),
			KindInvalidCredentials,
			"Email ou senha incorretos",
		},
		{
			"email not confirmed",
			errors.New("Email not confirmed"),
			KindEmailNotConfirmed,
			"Por favor, confirme seu email antes de fazer login",
		},
		{
			"wrapped signature still matches",
			errors.New("Invalid login credentials: unauthorized"),
			KindInvalidCredentials,
			"Email ou senha incorretos",
		},
		{
			"unrecognized passes raw text through",
			errors.New("upstream exploded"),
			KindProvider,
			"upstream exploded",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &mockProvider{}
			p.On("SignIn", mock.Anything, "a@b.com", "secret123").Return(nil, tc.providerErr)

			m, sessions := newLoginMachine(p)
			err := m.SubmitLogin(context.Background(), "a@b.com", "secret123")

			require.Error(t, err)
			assert.Equal(t, tc.wantKind, flowKind(t, err))
			assert.Equal(t, tc.wantMessage, err.Error())
			assert.Equal(t, StateLoginForm, m.State())
			assert.False(t, m.Loading())
			assert.False(t, sessions.Authenticated())
		})
	}
}

// Already-classified errors from the transport adapter pass through unchanged.
func TestSubmitLogin_ClassifiedErrorPassesThrough(t *testing.T) {
	p := &mockProvider{}
	p.On("SignIn", mock.Anything, "a@b.com", "secret123").
		Return(nil, &FlowError{Kind: KindNetwork, Message: "Ocorreu um erro. Tente novamente."})

	m, _ := newLoginMachine(p)
	err := m.SubmitLogin(context.Background(), "a@b.com", "secret123")

	require.Error(t, err)
	assert.Equal(t, KindNetwork, flowKind(t, err))
	assert.Equal(t, StateLoginForm, m.State())
}

// The loading guard is released on every path, so a retry is always possible.
func TestSubmitLogin_LoadingReleasedAfterFailure(t *testing.T) {
	p := &mockProvider{}
	p.On("SignIn", mock.Anything, "a@b.com", "secret123").Return(nil, errors.New("Invalid login credentials")).Once()
	p.On("SignIn", mock.Anything, "a@b.com", "secret124").Return(&Session{
		Identity: Identity{ID: "u1", Email: "a@b.com"},
	}, nil).Once()

	m, _ := newLoginMachine(p)
	require.Error(t, m.SubmitLogin(context.Background(), "a@b.com", "secret123"))
	assert.False(t, m.Loading())

	require.NoError(t, m.SubmitLogin(context.Background(), "a@b.com", "secret124"))
	assert.Equal(t, StateAuthenticated, m.State())
	p.AssertExpectations(t)
}

func TestSubmitLogin_WrongState(t *testing.T) {
	m, _ := newLoginMachine(&mockProvider{})
	m.ShowRegister()

	err := m.SubmitLogin(context.Background(), "a@b.com", "secret123")
	require.Error(t, err)
}

// --- SubmitRegister ---

func TestSubmitRegister_PasswordMismatch_NoProviderCall(t *testing.T) {
	p := &mockProvider{}
	m, _ := newLoginMachine(p)
	m.ShowRegister()

	err := m.SubmitRegister(context.Background(), "a@b.com", "secret123", "secret124")

	require.Error(t, err)
	assert.Equal(t, KindValidation, flowKind(t, err))
	assert.Equal(t, "As senhas não coincidem", err.Error())
	assert.Equal(t, StateRegisterForm, m.State())
	p.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitRegister_HappyPath_BackToLoginWithNotice(t *testing.T) {
	p := &mockProvider{}
	p.On("SignUp", mock.Anything, "a@b.com", "secret123").Return(nil)

	m, sessions := newLoginMachine(p)
	m.ShowRegister()
	err := m.SubmitRegister(context.Background(), "a@b.com", "secret123", "secret123")

	require.NoError(t, err)
	assert.Equal(t, StateLoginForm, m.State())
	assert.Equal(t, NoticeRegistered, m.Notice())
	// Registration never authenticates; confirmation comes first.
	assert.False(t, sessions.Authenticated())
	assert.Nil(t, m.Identity())
	p.AssertExpectations(t)
}

func TestSubmitRegister_DuplicateEmail(t *testing.T) {
	p := &mockProvider{}
	p.On("SignUp", mock.Anything, "a@b.com", "secret123").Return(errors.New("User already registered"))

	m, _ := newLoginMachine(p)
	m.ShowRegister()
	err := m.SubmitRegister(context.Background(), "a@b.com", "secret123", "secret123")

	require.Error(t, err)
	assert.Equal(t, KindDuplicateRegistration, flowKind(t, err))
	assert.Equal(t, "Este email já está cadastrado", err.Error())
	assert.Equal(t, StateRegisterForm, m.State())
	assert.False(t, m.Loading())
}

// --- SubmitPasswordReset ---

func TestSubmitPasswordReset_HappyPath(t *testing.T) {
	p := &mockProvider{}
	p.On("ResetPassword", mock.Anything, "a@b.com").Return(nil)

	m, _ := newLoginMachine(p)
	m.ShowForgotPassword()
	err := m.SubmitPasswordReset(context.Background(), "a@b.com")

	require.NoError(t, err)
	assert.Equal(t, StateLoginForm, m.State())
	assert.Equal(t, NoticeRecoverySent, m.Notice())
	assert.False(t, m.Loading())
	p.AssertExpectations(t)
}

// The same notice appears regardless of whether the address is registered;
// the machine has no way to tell and the provider answers uniformly.
func TestSubmitPasswordReset_UnknownEmail_SameNotice(t *testing.T) {
	p := &mockProvider{}
	p.On("ResetPassword", mock.Anything, "ghost@b.com").Return(nil)

	m, _ := newLoginMachine(p)
	m.ShowForgotPassword()
	err := m.SubmitPasswordReset(context.Background(), "ghost@b.com")

	require.NoError(t, err)
	assert.Equal(t, NoticeRecoverySent, m.Notice())
}

func TestSubmitPasswordReset_InvalidEmail_NoProviderCall(t *testing.T) {
	p := &mockProvider{}
	m, _ := newLoginMachine(p)
	m.ShowForgotPassword()

	err := m.SubmitPasswordReset(context.Background(), "not-an-email")

	require.Error(t, err)
	assert.Equal(t, KindValidation, flowKind(t, err))
	assert.Equal(t, StateForgotPassword, m.State())
	p.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything)
}

func TestSubmitPasswordReset_ProviderFailure_StaysOnForm(t *testing.T) {
	p := &mockProvider{}
	p.On("ResetPassword", mock.Anything, "a@b.com").Return(errors.New("upstream exploded"))

	m, _ := newLoginMachine(p)
	m.ShowForgotPassword()
	err := m.SubmitPasswordReset(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.Equal(t, StateForgotPassword, m.State())
	assert.False(t, m.Loading())
}

// --- SubmitForgotEmail ---

// The forgot-email flow performs no lookup at all: static notice, back to login.
func TestSubmitForgotEmail_StaticNotice_NoCalls(t *testing.T) {
	p := &mockProvider{}
	m, _ := newLoginMachine(p)
	m.ShowForgotEmail()

	err := m.SubmitForgotEmail()

	require.NoError(t, err)
	assert.Equal(t, StateLoginForm, m.State())
	assert.Equal(t, NoticeContactSupport, m.Notice())
	p.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything)
}

// --- SignOut ---

func TestSignOut_ClearsSessionAndIdentity(t *testing.T) {
	p := &mockProvider{}
	p.On("SignIn", mock.Anything, "a@b.com", "secret123").Return(&Session{
		Identity: Identity{ID: "u1", Email: "a@b.com"},
		Bearer:   "tok",
	}, nil)

	m, sessions := newLoginMachine(p)
	require.NoError(t, m.SubmitLogin(context.Background(), "a@b.com", "secret123"))

	require.NoError(t, m.SignOut())
	assert.Equal(t, StateLoginForm, m.State())
	assert.Nil(t, m.Identity())
	assert.False(t, sessions.Authenticated())
}

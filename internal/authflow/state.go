package authflow

// State is the single source of truth for which auth screen is active.
// Invalid combinations (e.g. register + forgot-password at once) are
// unrepresentable by construction.
type State int

const (
	StateAnonymous State = iota
	StateLoginForm
	StateRegisterForm
	StateForgotPassword
	StateForgotEmail
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateLoginForm:
		return "login_form"
	case StateRegisterForm:
		return "register_form"
	case StateForgotPassword:
		return "forgot_password"
	case StateForgotEmail:
		return "forgot_email"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

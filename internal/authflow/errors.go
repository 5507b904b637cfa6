package authflow

// Kind classifies a flow failure. Validation failures never reach the
// network; the rest are produced by mapping collaborator errors.
type Kind int

const (
	KindValidation Kind = iota
	KindInvalidCredentials
	KindEmailNotConfirmed
	KindDuplicateRegistration
	KindProvider
	KindDelivery
	KindPersistence
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindEmailNotConfirmed:
		return "email_not_confirmed"
	case KindDuplicateRegistration:
		return "duplicate_registration"
	case KindProvider:
		return "provider"
	case KindDelivery:
		return "delivery"
	case KindPersistence:
		return "persistence"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// FlowError is a classified, user-presentable failure. Message is the inline
// text shown to the user; the underlying cause, when any, is preserved for
// logging.
type FlowError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *FlowError) Error() string { return e.Message }

func (e *FlowError) Unwrap() error { return e.cause }

func validationError(err error) *FlowError {
	return &FlowError{Kind: KindValidation, Message: err.Error(), cause: err}
}

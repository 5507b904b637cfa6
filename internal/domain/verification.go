package domain

// Verification code purposes. A code proves control of the target email
// address for exactly one of these.
const (
	PurposeSignup        = "signup"
	PurposePasswordReset = "password_reset"
	PurposeEmailChange   = "email_change"
)

// CodeTTLMinutes is the validity window of a verification code. The email
// templates state the same window textually; enforcement happens at
// consumption time, not at render time.
const CodeTTLMinutes = 15

// VerificationCode is an ephemeral single-use secret bound to a
// (target, purpose) pair.
// PK: target (email address), SK: purpose.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type VerificationCode struct {
	Target    string `json:"target" dynamodbav:"target"`
	Purpose   string `json:"purpose" dynamodbav:"purpose"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
}

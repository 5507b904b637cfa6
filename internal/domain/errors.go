package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Known identity-provider failure signatures. The client-side flow machine
// pattern-matches error text against these exact strings, so identity errors
// must carry them verbatim.
const (
	MsgInvalidCredentials    = "Invalid login credentials"
	MsgEmailNotConfirmed     = "Email not confirmed"
	MsgUserAlreadyRegistered = "User already registered"
)

package validate

import (
	"errors"
	"strings"
)

// Credential validators used by the auth flows. They run before any network
// call; messages are the user-facing PT-BR strings rendered inline.
var (
	ErrInvalidEmail      = errors.New("Email inválido")
	ErrPasswordTooShort  = errors.New("A senha deve ter no mínimo 6 caracteres")
	ErrPasswordsMismatch = errors.New("As senhas não coincidem")
)

// MinPasswordLen matches the identity provider's password policy.
const MinPasswordLen = 6

// Email checks RFC-shape validity of a (trimmed) email address.
func Email(s string) error {
	if err := v.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Password enforces the minimum password length.
func Password(s string) error {
	if len(s) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// PasswordsMatch checks password == confirmation.
func PasswordsMatch(password, confirm string) error {
	if password != confirm {
		return ErrPasswordsMismatch
	}
	return nil
}

// Package identity turns bearer credentials into stable user identifiers.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrTokenExpired is returned for well-formed credentials past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken covers every other rejected credential.
	ErrInvalidToken = errors.New("invalid token")
)

const (
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeInvalidAudience = "INVALID_AUDIENCE"
	CodeInvalidIssuer   = "INVALID_ISSUER"
	CodeMissingSubject  = "MISSING_SUBJECT"
)

// Identity is what a verified credential says about its holder.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Verifier validates a bearer credential.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// VerifyError carries a verifier-specific code alongside the sentinel it wraps.
type VerifyError struct {
	Code string
	Err  error
}

func (e *VerifyError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return e.Code + ": " + e.Err.Error()
}

func (e *VerifyError) Unwrap() error { return e.Err }

func (e *VerifyError) Is(target error) bool {
	if e.Code == CodeTokenExpired {
		return target == ErrTokenExpired
	}
	return target == ErrInvalidToken
}

func invalid(code string, err error) error {
	return &VerifyError{Code: code, Err: err}
}

// Code extracts the verifier code from err, defaulting to CodeInvalidToken.
func Code(err error) string {
	var verr *VerifyError
	if errors.As(err, &verr) && verr.Code != "" {
		return verr.Code
	}
	return CodeInvalidToken
}

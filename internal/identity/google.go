package identity

import (
	"context"
	"errors"
	"sync"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

// googleCertsMu guards the verifier library's package-level certificate cache.
var googleCertsMu sync.Mutex

// GoogleVerifier accepts Google-signed ID tokens issued to one of the
// configured OAuth client ids.
type GoogleVerifier struct {
	audiences []string
	check     func(token string, audiences []string) error
}

func NewGoogleVerifier(clientIDs []string) (*GoogleVerifier, error) {
	if len(clientIDs) == 0 {
		return nil, errors.New("at least one google client id is required")
	}
	return &GoogleVerifier{audiences: clientIDs, check: verifyWithGoogleCerts}, nil
}

func verifyWithGoogleCerts(token string, audiences []string) error {
	googleCertsMu.Lock()
	defer googleCertsMu.Unlock()
	v := googleAuthIDTokenVerifier.Verifier{}
	return v.VerifyIDToken(token, audiences)
}

// Verify reports TOKEN_EXPIRED only for tokens whose signature checked out.
func (v *GoogleVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	if err := v.check(raw, v.audiences); err != nil {
		if errors.Is(err, googleAuthIDTokenVerifier.ErrTokenUsedTooLate) {
			return Identity{}, invalid(CodeTokenExpired, err)
		}
		return Identity{}, invalid(CodeInvalidToken, err)
	}

	claims, err := googleAuthIDTokenVerifier.Decode(raw)
	if err != nil {
		return Identity{}, invalid(CodeInvalidToken, err)
	}
	if claims.Sub == "" {
		return Identity{}, invalid(CodeMissingSubject, nil)
	}
	return Identity{UserID: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}

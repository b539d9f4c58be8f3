package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
)

const testClientID = "client.apps.googleusercontent.com"

func newTestGoogleVerifier(t *testing.T, key *rsa.PrivateKey) *GoogleVerifier {
	t.Helper()
	v, err := NewGoogleVerifier([]string{testClientID})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	certs := &googleAuthIDTokenVerifier.Certs{
		Keys:   map[string]*rsa.PublicKey{"k1": &key.PublicKey},
		Expiry: time.Now().Add(time.Hour),
	}
	v.check = func(token string, audiences []string) error {
		return googleAuthIDTokenVerifier.VerifySignedJWTWithCerts(token, certs, audiences,
			googleAuthIDTokenVerifier.Issuers, googleAuthIDTokenVerifier.MaxTokenLifetime)
	}
	return v
}

func signGoogleToken(t *testing.T, key *rsa.PrivateKey, issuedAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   "accounts.google.com",
		"aud":   testClientID,
		"sub":   "google-uid-1",
		"email": "alice@example.com",
		"name":  "Alice",
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "k1"
	raw, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestGoogleVerifierAcceptsSignedToken(t *testing.T) {
	key := generateKey(t)
	v := newTestGoogleVerifier(t, key)

	id, err := v.Verify(context.Background(), signGoogleToken(t, key, time.Now()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "google-uid-1" || id.Email != "alice@example.com" || id.Name != "Alice" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestGoogleVerifierExpiredToken(t *testing.T) {
	key := generateKey(t)
	v := newTestGoogleVerifier(t, key)

	_, err := v.Verify(context.Background(), signGoogleToken(t, key, time.Now().Add(-3*time.Hour)))
	if !errors.Is(err, ErrTokenExpired) || Code(err) != CodeTokenExpired {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestGoogleVerifierForgedExpiredTokenIsInvalid(t *testing.T) {
	key := generateKey(t)
	v := newTestGoogleVerifier(t, key)
	forger := generateKey(t)

	_, err := v.Verify(context.Background(), signGoogleToken(t, forger, time.Now().Add(-3*time.Hour)))
	if errors.Is(err, ErrTokenExpired) {
		t.Fatalf("forged token must not be reported as expired: %v", err)
	}
	if !errors.Is(err, ErrInvalidToken) || Code(err) != CodeInvalidToken {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

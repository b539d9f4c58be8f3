package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the HS256 token body. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// JWTVerifier accepts HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret   []byte
	audience string
	issuer   string
	now      func() time.Time
}

func NewJWTVerifier(secret, audience, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{
		secret:   []byte(secret),
		audience: audience,
		issuer:   issuer,
		now:      time.Now,
	}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	_, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, invalid(CodeTokenExpired, err)
		}
		return Identity{}, invalid(CodeInvalidToken, err)
	}

	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return Identity{}, invalid(CodeInvalidAudience, fmt.Errorf("audience %v", claims.Audience))
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return Identity{}, invalid(CodeInvalidIssuer, fmt.Errorf("issuer %q", claims.Issuer))
	}
	if claims.Subject == "" {
		return Identity{}, invalid(CodeMissingSubject, nil)
	}

	return Identity{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Sign issues a token for id valid for ttl. Used for development tokens and tests.
func (v *JWTVerifier) Sign(id Identity, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: id.Email,
		Name:  id.Name,
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

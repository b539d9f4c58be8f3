package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"quiz-retake-service/internal/app"
	"quiz-retake-service/internal/domain"
	"quiz-retake-service/internal/identity"
)

const (
	codeNoAuthHeader       = "NO_AUTH_HEADER"
	codeInvalidTokenFormat = "INVALID_TOKEN_FORMAT"
)

type callerKey struct{}

// authenticate verifies the bearer credential and stores the caller on the
// request context. The profile refresh is best-effort.
func authenticate(verifier identity.Verifier, profiles app.ProfileStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeMessage(w, http.StatusUnauthorized, codeNoAuthHeader, "No authorization header")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeMessage(w, http.StatusUnauthorized, codeInvalidTokenFormat, "Invalid token format")
				return
			}

			id, err := verifier.Verify(r.Context(), strings.TrimSpace(token))
			if errors.Is(err, identity.ErrTokenExpired) {
				writeMessage(w, http.StatusUnauthorized, identity.CodeTokenExpired, "Token expired")
				return
			}
			if err != nil {
				glog.V(2).Infof("rejected token on %s: %v", r.URL.Path, err)
				writeMessage(w, http.StatusForbidden, identity.Code(err), "Invalid token")
				return
			}

			if profiles != nil {
				profile := domain.Profile{UserID: id.UserID, Email: id.Email, DisplayName: id.Name}
				if err := profiles.UpsertProfile(r.Context(), profile); err != nil {
					glog.Warningf("profile upsert for %s: %v", id.UserID, err)
				}
			}

			caller := app.Caller{UserID: id.UserID, Email: id.Email, Name: id.Name}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
		})
	}
}

func callerFrom(r *http.Request) app.Caller {
	caller, _ := r.Context().Value(callerKey{}).(app.Caller)
	return caller
}

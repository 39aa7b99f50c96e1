package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pcbuilderguide/pcbg/internal/apperr"
	"github.com/pcbuilderguide/pcbg/internal/auth"
)

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Identity, error)
}

// JWTMiddleware rejects requests without a bearer token (401) or with one that
// fails verification (403). On success the identity is available via auth.FromContext.
func JWTMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r.Header.Get("Authorization"))
			if tokenStr == "" {
				writeError(w, apperr.ErrUnauthenticated.Error(), http.StatusUnauthorized)
				return
			}

			id, err := v.VerifyToken(tokenStr)
			if err != nil {
				writeError(w, apperr.ErrInvalidToken.Error(), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// bearerToken returns the credential from "Bearer <token>", or "" if absent.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

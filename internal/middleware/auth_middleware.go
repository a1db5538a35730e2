package middleware

import (
	"net/http"
	"strings"

	"github.com/memberhub/memberhub/internal/service"
	"github.com/memberhub/memberhub/internal/upstream"
	"github.com/sirupsen/logrus"
)

// TokenVerifier checks a bearer token before it is forwarded to the member API.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *logrus.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate places the caller's bearer token in the request context. Requests
// without an Authorization header pass through untouched; a malformed or rejected
// header ends the request with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			m.respondUnauthorized(w, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		claims, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			m.logger.WithError(err).Debug("Token verification failed")
			if service.IsTokenExpired(err) {
				m.respondUnauthorized(w, "Token has expired")
				return
			}
			m.respondUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx := upstream.WithToken(r.Context(), tokenString)
		ctx = withClaims(ctx, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"
)

// AdminMiddleware guards administrator endpoints with a shared token.
// Approval must never depend on route placement alone, so requests without
// the exact configured token are rejected, and an unconfigured token
// disables the endpoints entirely.
type AdminMiddleware struct {
	token string
}

// NewAdminMiddleware creates an AdminMiddleware checking against token.
func NewAdminMiddleware(token string) *AdminMiddleware {
	if token == "" {
		log.Warn().Msg("Admin token is not configured; admin endpoints are disabled")
	}
	return &AdminMiddleware{token: token}
}

// Authorized reports whether the presented credential matches the configured
// admin token.
func (a *AdminMiddleware) Authorized(presented string) bool {
	if a.token == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.token), []byte(presented)) == 1
}

// RequireAdmin rejects requests that do not carry the admin token.
func (a *AdminMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authorized(BearerToken(r.Header.Get("Authorization"))) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"administrator authorization required"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

package api

import (
	"net/http"
	"strings"
	"time"

	"rental/pkg/config"
	"rental/pkg/session"
)

// Authenticate resolves the requester from a bearer session token.
//
// Expected header:
// - Authorization: Bearer <JWT>
//
// Outside prod a missing Authorization header may fall back to X-User-Id to keep local testing simple.
// Requests without any identity pass through anonymously; operations that need a requester
// reject them (see RequireRequester).
func Authenticate(cfg config.Config, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token := strings.TrimSpace(authz[7:])
				s, err := session.Verify(token, cfg.JWT.Secret, cfg.JWT.Issuer, now())
				if err != nil {
					WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid session token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), s.UserID)))
				return
			}

			// Dev fallback
			if cfg.AppEnv != "prod" {
				if userID := strings.TrimSpace(r.Header.Get("X-User-Id")); userID != "" {
					next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), userID)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRequester rejects anonymous requests.
func RequireRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RequesterFromContext(r.Context()) == "" {
			WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing session token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

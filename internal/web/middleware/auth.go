package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/projtrack/projtrack/internal/core"
)

type contextKey struct{ name string }

var userKey = contextKey{"current-user"}

// Authenticator resolves a session token to the calling user.
type Authenticator func(ctx context.Context, token string) (core.CurrentUser, error)

// UserFromContext returns the authenticated user placed by SessionAuth.
// The zero CurrentUser means the request was not authenticated.
func UserFromContext(ctx context.Context) core.CurrentUser {
	u, _ := ctx.Value(userKey).(core.CurrentUser)
	return u
}

// WithUser returns a context carrying the given user. Exported for tests.
func WithUser(ctx context.Context, u core.CurrentUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// SessionAuth validates the session cookie on every request and injects
// the resolved user into the request context. Requests without a valid
// session get a 401.
func SessionAuth(auth Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := auth(r.Context(), cookie.Value)
			if err != nil {
				slog.Warn("auth: invalid session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required","code":"AUTH001"}`))
}

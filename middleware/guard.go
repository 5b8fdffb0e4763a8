package middleware

import (
	"context"
	"net/http"

	aegis "github.com/aegisauth/aegis"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "token"

type userIDContextKey struct{}

// UserIDFromContext returns the authenticated user ID injected by [Guard].
func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDContextKey{}).(string)
	return uid, ok
}

// Guard rejects requests without a valid session cookie and injects the
// authenticated user ID into the request context.
func Guard(engine *aegis.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			uid, err := engine.Validate(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey{}, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

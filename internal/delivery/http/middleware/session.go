package middleware

import (
	"context"
	"net/http"
	"time"
)

// SessionCookie names the cookie that carries the dashboard session id.
const SessionCookie = "tcas_session"

type sessionKey struct{}

// Session resolves the request's session through issue, which returns the
// id unchanged when it is still live and a new id otherwise. The cookie is
// rewritten whenever the id changes.
func Session(issue func(id string) string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current string
			if c, err := r.Cookie(SessionCookie); err == nil {
				current = c.Value
			}
			id := issue(current)
			if id != current {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
		})
	}
}

// SessionID returns the id stored by Session, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

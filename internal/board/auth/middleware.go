package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-formguard/internal/board/store"
)

type contextKey struct{}

// UserFinder resolves a session subject to an account.
type UserFinder interface {
	UserByUsername(ctx context.Context, username string) (*store.User, error)
}

// CurrentUser returns the authenticated user attached to the request, if any.
func CurrentUser(ctx context.Context) (*store.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*store.User)
	return u, ok
}

// OptionalUser resolves the session cookie when present and attaches the user
// to the request context. Requests without a valid session pass through
// unauthenticated.
func OptionalUser(sessions *Sessions, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := sessions.FromRequest(r)
			if err == nil {
				if user, err := users.UserByUsername(r.Context(), username); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), contextKey{}, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects unauthenticated requests to the login page, carrying
// the original URL in the next parameter.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

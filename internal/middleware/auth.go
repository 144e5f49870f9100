// Package middleware gates every route on session state and decides,
// once per request, whether the caller gets HTML or JSON.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"todolist/internal/auth"
)

// ResponseMode says how a request wants failures and results delivered.
type ResponseMode int

const (
	// ModeHTML callers get redirects and rendered views.
	ModeHTML ResponseMode = iota
	// ModeJSON callers (XHR / Accept: application/json) get structured
	// responses and real status codes.
	ModeJSON
)

type ctxKey int

const (
	modeKey ctxKey = iota
	userIDKey
	usernameKey
)

// WithResponseMode resolves the caller's ResponseMode once and stores
// it in the request context. Every later branch reads this value
// instead of re-sniffing headers.
func WithResponseMode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mode := ModeHTML
		if r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
			strings.Contains(r.Header.Get("Accept"), "application/json") {
			mode = ModeJSON
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), modeKey, mode)))
	})
}

// Mode returns the request's resolved ResponseMode.
func Mode(r *http.Request) ResponseMode {
	if m, ok := r.Context().Value(modeKey).(ResponseMode); ok {
		return m
	}
	return ModeHTML
}

// UserID returns the authenticated user's id, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Username returns the authenticated user's name, or "".
func Username(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}

func resolveSession(r *http.Request, sessions auth.Sessions) (*auth.Session, error) {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		return nil, auth.ErrUnauthenticated
	}
	return sessions.Resolve(r.Context(), cookie.Value)
}

// RequireAuth validates the session cookie and injects the owner
// identity into the request context. Unauthenticated machine callers
// get a 401; browsers get sent to the login page.
func RequireAuth(sessions auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := resolveSession(r, sessions)
			if err != nil {
				if Mode(r) == ModeJSON {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"error":"authentication required"}`))
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
			ctx = context.WithValue(ctx, usernameKey, sess.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated wraps the login and register routes: a caller
// who already holds a valid session is sent to the task list before
// the handler runs.
func RedirectIfAuthenticated(sessions auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := resolveSession(r, sessions); err == nil {
				http.Redirect(w, r, "/todos", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

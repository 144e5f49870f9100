package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/auth"
)

func modeFor(t *testing.T, decorate func(*http.Request)) ResponseMode {
	t.Helper()
	var got ResponseMode
	h := WithResponseMode(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Mode(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	decorate(req)
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestResponseModeResolution(t *testing.T) {
	assert.Equal(t, ModeHTML, modeFor(t, func(r *http.Request) {}))
	assert.Equal(t, ModeHTML, modeFor(t, func(r *http.Request) {
		r.Header.Set("Accept", "text/html,application/xhtml+xml")
	}))
	assert.Equal(t, ModeJSON, modeFor(t, func(r *http.Request) {
		r.Header.Set("X-Requested-With", "XMLHttpRequest")
	}))
	assert.Equal(t, ModeJSON, modeFor(t, func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
	}))
}

func TestRequireAuthRejectsWithoutSession(t *testing.T) {
	sessions := auth.NewMemorySessions()
	protected := WithResponseMode(RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))

	// browser caller: redirect to login
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// machine caller: structured 401
	req = httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestRequireAuthInjectsIdentity(t *testing.T) {
	sessions := auth.NewMemorySessions()
	token, err := sessions.Create(context.Background(), "u1", "alice")
	require.NoError(t, err)

	var gotID, gotName string
	protected := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
		gotName = Username(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	protected.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u1", gotID)
	assert.Equal(t, "alice", gotName)
}

func TestRequireAuthRejectsExpiredSession(t *testing.T) {
	sessions := auth.NewMemorySessions()
	token, err := sessions.Create(context.Background(), "u1", "alice")
	require.NoError(t, err)
	require.NoError(t, sessions.Destroy(context.Background(), token))

	protected := WithResponseMode(RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	sessions := auth.NewMemorySessions()
	token, err := sessions.Create(context.Background(), "u1", "alice")
	require.NoError(t, err)

	var ran bool
	gate := RedirectIfAuthenticated(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	// authenticated caller is bounced to the task list before the handler
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	assert.False(t, ran)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/todos", rec.Header().Get("Location"))

	// anonymous caller reaches the login page
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.True(t, ran)
}

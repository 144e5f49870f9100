package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todolist/internal/models"
	"todolist/internal/web"
)

// fakeUserStore keeps users in a map keyed by username.
type fakeUserStore struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, hashedPw string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, ErrDuplicateUsername
	}
	f.nextID++
	u := &models.User{ID: fmt.Sprintf("u%d", f.nextID), Username: username, Password: hashedPw}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeUserStore, *MemorySessions) {
	t.Helper()
	views, err := web.NewRenderer()
	require.NoError(t, err)
	users := newFakeUserStore()
	sessions := NewMemorySessions()
	return NewHandler(users, sessions, views), users, sessions
}

func postForm(h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	h, users, _ := newTestHandler(t)

	rec := postForm(h.Register, "/register", url.Values{
		"username": {"alice"}, "password": {"secret1"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	stored := users.users["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{"missing fields", "", "", "Username and password are required"},
		{"short username", "ab", "secret1", "Username must be at least 3 characters"},
		{"short password", "alice", "12345", "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, _ := newTestHandler(t)
			rec := postForm(h.Register, "/register", url.Values{
				"username": {tt.username}, "password": {tt.password},
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Empty(t, users.users)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h, _, _ := newTestHandler(t)

	form := url.Values{"username": {"alice"}, "password": {"secret1"}}
	rec := postForm(h.Register, "/register", form)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = postForm(h.Register, "/register", form)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h, _, sessions := newTestHandler(t)
	postForm(h.Register, "/register", url.Values{"username": {"alice"}, "password": {"secret1"}})

	rec := postForm(h.Login, "/login", url.Values{"username": {"alice"}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/todos", rec.Header().Get("Location"))

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie must be set")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	sess, err := sessions.Resolve(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
}

func TestLoginFailureIsOpaque(t *testing.T) {
	h, _, _ := newTestHandler(t)
	postForm(h.Register, "/register", url.Values{"username": {"alice"}, "password": {"secret1"}})

	wrongPw := postForm(h.Login, "/login", url.Values{"username": {"alice"}, "password": {"wrong-pw"}})
	noUser := postForm(h.Login, "/login", url.Values{"username": {"mallory"}, "password": {"secret1"}})

	// unknown user and wrong password are indistinguishable
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.Contains(t, wrongPw.Body.String(), "Invalid credentials")
	assert.Contains(t, noUser.Body.String(), "Invalid credentials")
}

func TestLogoutWithoutSession(t *testing.T) {
	h, _, _ := newTestHandler(t)

	// no cookie at all
	rec := postForm(h.Logout, "/logout", url.Values{})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// stale cookie
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-or-bogus"})
	rec = httptest.NewRecorder()
	h.Logout(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogoutDestroysSession(t *testing.T) {
	h, _, sessions := newTestHandler(t)

	token, err := sessions.Create(context.Background(), "u1", "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	_, err = sessions.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// cookie cleared
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie must be expired")
}

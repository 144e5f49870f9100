package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"todolist/internal/models"
	"todolist/internal/web"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, hashedPw string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the registration, login, and logout HTTP handlers.
type Handler struct {
	users    UserStore
	sessions Sessions
	views    *web.Renderer
}

func NewHandler(users UserStore, sessions Sessions, views *web.Renderer) *Handler {
	return &Handler{users: users, sessions: sessions, views: views}
}

// GetLogin renders the login page.
func (h *Handler) GetLogin(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "login.html", web.AuthPage{})
}

// GetRegister renders the registration page.
func (h *Handler) GetRegister(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "register.html", web.AuthPage{})
}

// Register validates the form, hashes the password, and creates the
// user. The plaintext password is never stored.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if msg := validateCredentials(username, password); msg != "" {
		h.views.Render(w, http.StatusBadRequest, "register.html", web.AuthPage{Error: msg})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Printf("bcrypt hash: %v", err)
		h.views.Render(w, http.StatusInternalServerError, "register.html",
			web.AuthPage{Error: "Registration failed. Please try again."})
		return
	}

	if _, err := h.users.CreateUser(r.Context(), username, string(hashed)); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			h.views.Render(w, http.StatusConflict, "register.html",
				web.AuthPage{Error: "Username already exists"})
			return
		}
		log.Printf("create user: %v", err)
		h.views.Render(w, http.StatusInternalServerError, "register.html",
			web.AuthPage{Error: "Registration failed. Please try again."})
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// Login verifies credentials and issues a session cookie. The failure
// message never says whether the username or the password was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.views.Render(w, http.StatusBadRequest, "login.html",
			web.AuthPage{Error: "Username and password are required"})
		return
	}

	user, err := h.verify(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.views.Render(w, http.StatusUnauthorized, "login.html",
				web.AuthPage{Error: "Invalid credentials"})
			return
		}
		log.Printf("login: %v", err)
		h.views.Render(w, http.StatusInternalServerError, "login.html",
			web.AuthPage{Error: "Login failed. Please try again."})
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID, user.Username)
	if err != nil {
		log.Printf("create session: %v", err)
		h.views.Render(w, http.StatusInternalServerError, "login.html",
			web.AuthPage{Error: "Login failed. Please try again."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// Logout destroys the session, if any, and always lands on the login
// page. A missing or expired session is not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("destroy session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

// verify looks up the user and compares the bcrypt hash. Unknown user
// and wrong password collapse into the same ErrInvalidCredentials.
func (h *Handler) verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := h.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func validateCredentials(username, password string) string {
	switch {
	case username == "" || password == "":
		return "Username and password are required"
	case len(username) < 3:
		return "Username must be at least 3 characters"
	case len(password) < 6:
		return "Password must be at least 6 characters"
	}
	return ""
}

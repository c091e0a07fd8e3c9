package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"craftstore/internal/apperr"
	"craftstore/internal/metrics"
	"craftstore/internal/storage"
)

const sessionName = "craftstore-session"

type AuthHandler struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
	Metrics  *metrics.Metrics
}

// sessionUserID extracts the authenticated user ID from the request's
// session cookie.
func sessionUserID(ss *sessions.CookieStore, r *http.Request) (int, bool) {
	session, err := ss.Get(r, sessionName)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values["userId"].(int)
	return id, ok
}

// requireUser resolves the caller's session to a live user. A dangling
// session whose user no longer exists is treated as unauthenticated.
func requireUser(ss *sessions.CookieStore, st *storage.Storage, r *http.Request) (int, error) {
	id, ok := sessionUserID(ss, r)
	if !ok {
		return 0, apperr.Unauthorized("Not authenticated")
	}
	if _, exists := st.GetUser(id); !exists {
		return 0, apperr.Unauthorized("Not authenticated")
	}
	return id, nil
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type userResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, exists := h.Storage.GetUserByUsername(req.Username); exists {
		writeError(w, apperr.Conflict("A user with this username already exists"))
		return
	}
	if _, exists := h.Storage.GetUserByEmail(req.Email); exists {
		writeError(w, apperr.Conflict("This email is already registered"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	user := h.Storage.CreateUser(req.Username, req.Email, string(hash))
	h.Metrics.UsersRegisteredTotal.Inc()

	if err := h.startSession(w, r, user.ID); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Unknown user and bad password produce the same message so the
	// endpoint cannot be used to enumerate usernames.
	user, exists := h.Storage.GetUserByUsername(req.Username)
	if !exists {
		writeError(w, apperr.Unauthorized("Invalid username or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, apperr.Unauthorized("Invalid username or password"))
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Login successful", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Sessions.Get(r, sessionName)
	session.Options.MaxAge = -1 // Expire immediately
	delete(session.Values, "userId")
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to destroy session", "error", err)
		writeError(w, apperr.Internal("Failed to log out"))
		return
	}
	writeMessage(w, http.StatusOK, "Logout successful")
}

type sessionInfo struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	ID              int    `json:"id,omitempty"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionUserID(h.Sessions, r)
	if !ok {
		writeJSON(w, http.StatusOK, sessionInfo{IsAuthenticated: false})
		return
	}
	user, exists := h.Storage.GetUser(id)
	if !exists {
		writeJSON(w, http.StatusOK, sessionInfo{IsAuthenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, sessionInfo{
		IsAuthenticated: true,
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := h.Sessions.Get(r, sessionName)
	session.Values["userId"] = userID
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		return apperr.Internal("Failed to save session")
	}
	return nil
}

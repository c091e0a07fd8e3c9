package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"craftstore/internal/apperr"
	"craftstore/internal/storage"
)

type WaitlistHandler struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
}

type joinWaitlistRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=64"`
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinWaitlistRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, exists := h.Storage.GetWaitlistEntryByEmail(req.Email); exists {
		writeError(w, apperr.Conflict("Email is already on the waitlist"))
		return
	}

	entry := h.Storage.CreateWaitlistEntry(req.Email, req.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Successfully joined the waitlist",
		"entry":   entry,
	})
}

func (h *WaitlistHandler) Count(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count": h.Storage.WaitlistCount()})
}

// List exposes subscriber emails, so it requires a session.
func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := requireUser(h.Sessions, h.Storage, r); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Storage.ListWaitlistEntries())
}

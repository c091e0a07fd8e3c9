package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/sessions"

	"craftstore/internal/apperr"
	"craftstore/internal/models"
	"craftstore/internal/storage"
)

type StoreHandler struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
}

// pathID parses an integer path segment.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, apperr.Validation("Invalid " + name)
	}
	return id, nil
}

// ownedStore loads a store and verifies the caller owns it. The
// existence check runs first: a missing store is 404 no matter who asks.
func ownedStore(st *storage.Storage, storeID, userID int) (models.Store, error) {
	store, ok := st.GetStore(storeID)
	if !ok {
		return models.Store{}, apperr.NotFound("Store not found")
	}
	if store.UserID != userID {
		return models.Store{}, apperr.Forbidden("You do not have access to this store")
	}
	return store, nil
}

// PublicStores lists every store with its derived revenue read model.
func (h *StoreHandler) PublicStores(w http.ResponseWriter, r *http.Request) {
	stores := h.Storage.ListStores()
	now := time.Now()
	out := make([]models.PublicStore, 0, len(stores))
	for _, st := range stores {
		today, total, active := h.Storage.StoreRevenue(st.ID, now)
		out = append(out, models.PublicStore{
			ID:           st.ID,
			Name:         st.Name,
			Description:  st.Description,
			ServerIP:     st.ServerIP,
			LogoURL:      st.LogoURL,
			CustomDomain: st.CustomDomain,
			TodayRevenue: today,
			TotalRevenue: total,
			ActiveUsers:  active,
			CreatedAt:    st.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Storage.ListStoresByUser(userID))
}

type createStoreRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=30"`
	Description string `json:"description" validate:"omitempty,min=10,max=500"`
	ServerIP    string `json:"serverIp"`
}

func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createStoreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	store := h.Storage.CreateStore(userID, req.Name, req.Description, req.ServerIP)
	writeJSON(w, http.StatusCreated, store)
}

func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	store, ok := h.Storage.GetStore(id)
	if !ok {
		writeError(w, apperr.NotFound("Store not found"))
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := ownedStore(h.Storage, id, userID); err != nil {
		writeError(w, err)
		return
	}

	var patch storage.StorePatch
	if err := decodeAndValidate(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.Name != nil && (len(*patch.Name) < 3 || len(*patch.Name) > 30) {
		writeError(w, apperr.Validation("name must be between 3 and 30 characters"))
		return
	}
	if patch.Description != nil && (len(*patch.Description) < 10 || len(*patch.Description) > 500) {
		writeError(w, apperr.Validation("description must be between 10 and 500 characters"))
		return
	}

	store, _ := h.Storage.UpdateStore(id, patch)
	writeJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := ownedStore(h.Storage, id, userID); err != nil {
		writeError(w, err)
		return
	}

	h.Storage.DeleteStore(id)
	writeMessage(w, http.StatusOK, "Store deleted")
}

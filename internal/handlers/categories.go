package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"craftstore/internal/apperr"
	"craftstore/internal/storage"
)

type CategoryHandler struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
}

// ListCategories is a public read, sorted ascending by display order.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeId")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Storage.ListCategories(storeID))
}

type createCategoryRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=50"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	IconURL      string `json:"iconUrl"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	storeID, err := pathID(r, "storeId")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := ownedStore(h.Storage, storeID, userID); err != nil {
		writeError(w, err)
		return
	}

	var req createCategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	category := h.Storage.CreateCategory(storeID, storage.NewCategory{
		Name:         req.Name,
		Description:  req.Description,
		IconURL:      req.IconURL,
		DisplayOrder: req.DisplayOrder,
	})
	writeJSON(w, http.StatusCreated, category)
}

// categoryInStore loads a category and checks it belongs to the store
// named in the path.
func (h *CategoryHandler) categoryInStore(r *http.Request, storeID int) (int, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return 0, err
	}
	category, ok := h.Storage.GetCategory(id)
	if !ok || category.StoreID != storeID {
		return 0, apperr.NotFound("Category not found")
	}
	return id, nil
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	storeID, err := pathID(r, "storeId")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := ownedStore(h.Storage, storeID, userID); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.categoryInStore(r, storeID)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch storage.CategoryPatch
	if err := decodeAndValidate(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	category, _ := h.Storage.UpdateCategory(id, patch)
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	storeID, err := pathID(r, "storeId")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := ownedStore(h.Storage, storeID, userID); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.categoryInStore(r, storeID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.Storage.DeleteCategory(id)
	writeMessage(w, http.StatusOK, "Category deleted")
}

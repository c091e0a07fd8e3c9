package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"craftstore/internal/apperr"
	"craftstore/internal/storage"
)

type PrivilegeHandler struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
}

// ListPrivileges is a public read, optionally filtered by
// ?categoryId=. Sorted ascending by display order.
func (h *PrivilegeHandler) ListPrivileges(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeId")
	if err != nil {
		writeError(w, err)
		return
	}

	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperr.Validation("Invalid categoryId"))
			return
		}
		writeJSON(w, http.StatusOK, h.Storage.ListPrivilegesByCategory(categoryID))
		return
	}
	writeJSON(w, http.StatusOK, h.Storage.ListPrivileges(storeID))
}

type createPrivilegeRequest struct {
	Name            string   `json:"name" validate:"required,min=1,max=50"`
	Description     string   `json:"description" validate:"omitempty,max=500"`
	Price           int      `json:"price" validate:"required,gt=0"`
	CategoryID      *int     `json:"categoryId"`
	ImageURL        string   `json:"imageUrl"`
	ServerCommands  []string `json:"serverCommands"`
	Duration        *int     `json:"duration" validate:"omitempty,gt=0"`
	DiscountPercent int      `json:"discountPercent" validate:"gte=0,lte=100"`
	DisplayOrder    int      `json:"displayOrder" validate:"gte=0"`
}

// checkCategoryStore rejects a categoryId that references a category of
// a different store.
func (h *PrivilegeHandler) checkCategoryStore(categoryID *int, storeID int) error {
	if categoryID == nil {
		return nil
	}
	category, ok := h.Storage.GetCategory(*categoryID)
	if !ok || category.StoreID != storeID {
		return apperr.Validation("categoryId does not reference a category of this store")
	}
	return nil
}

func (h *PrivilegeHandler) CreatePrivilege(w http.ResponseWriter, r *http.Request) {
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

	var req createPrivilegeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkCategoryStore(req.CategoryID, storeID); err != nil {
		writeError(w, err)
		return
	}

	privilege := h.Storage.CreatePrivilege(storeID, storage.NewPrivilege{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		ImageURL:        req.ImageURL,
		ServerCommands:  req.ServerCommands,
		Duration:        req.Duration,
		DiscountPercent: req.DiscountPercent,
		DisplayOrder:    req.DisplayOrder,
	})
	writeJSON(w, http.StatusCreated, privilege)
}

func (h *PrivilegeHandler) privilegeInStore(r *http.Request, storeID int) (int, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return 0, err
	}
	privilege, ok := h.Storage.GetPrivilege(id)
	if !ok || privilege.StoreID != storeID {
		return 0, apperr.NotFound("Privilege not found")
	}
	return id, nil
}

func (h *PrivilegeHandler) UpdatePrivilege(w http.ResponseWriter, r *http.Request) {
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
	id, err := h.privilegeInStore(r, storeID)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch storage.PrivilegePatch
	if err := decodeAndValidate(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if patch.Price != nil && *patch.Price <= 0 {
		writeError(w, apperr.Validation("price must be greater than 0"))
		return
	}
	if patch.DiscountPercent != nil && (*patch.DiscountPercent < 0 || *patch.DiscountPercent > 100) {
		writeError(w, apperr.Validation("discountPercent must be between 0 and 100"))
		return
	}
	if err := h.checkCategoryStore(patch.CategoryID, storeID); err != nil {
		writeError(w, err)
		return
	}

	privilege, _ := h.Storage.UpdatePrivilege(id, patch)
	writeJSON(w, http.StatusOK, privilege)
}

func (h *PrivilegeHandler) DeletePrivilege(w http.ResponseWriter, r *http.Request) {
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
	id, err := h.privilegeInStore(r, storeID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.Storage.DeletePrivilege(id)
	writeMessage(w, http.StatusOK, "Privilege deleted")
}

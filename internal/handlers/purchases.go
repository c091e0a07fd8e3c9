package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"craftstore/internal/apperr"
	"craftstore/internal/metrics"
	"craftstore/internal/models"
	"craftstore/internal/payment"
	"craftstore/internal/storage"
)

type PurchaseHandler struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
	Payments payment.Provider
	Metrics  *metrics.Metrics
}

type createPurchaseRequest struct {
	PrivilegeID int    `json:"privilegeId" validate:"required,gt=0"`
	PlayerName  string `json:"playerName" validate:"required,min=1,max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type purchaseResponse struct {
	Purchase   models.Purchase `json:"purchase"`
	PaymentURL string          `json:"paymentUrl"`
}

// CreatePurchase is the anonymous storefront checkout. The final price
// is snapshotted here and never recomputed.
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeId")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, ok := h.Storage.GetStore(storeID); !ok {
		writeError(w, apperr.NotFound("Store not found"))
		return
	}

	var req createPurchaseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	privilege, ok := h.Storage.GetPrivilege(req.PrivilegeID)
	if !ok || privilege.StoreID != storeID {
		writeError(w, apperr.NotFound("Privilege not found"))
		return
	}

	finalPrice := storage.FinalPrice(privilege.Price, privilege.DiscountPercent)
	purchase := h.Storage.CreatePurchase(storeID, storage.NewPurchase{
		PrivilegeID: &privilege.ID,
		PlayerName:  req.PlayerName,
		Email:       req.Email,
		Price:       finalPrice,
	})

	redirect, err := h.Payments.Begin(purchase)
	if err != nil {
		slog.Error("Failed to open payment", "purchase_id", purchase.ID, "error", err)
		writeError(w, apperr.Internal("Failed to create purchase"))
		return
	}

	h.Metrics.PurchasesCreatedTotal.Inc()
	h.Metrics.PurchaseAmountTotal.Add(float64(finalPrice))

	slog.Info("Purchase created",
		"purchase_id", purchase.ID,
		"store_id", storeID,
		"privilege_id", privilege.ID,
		"price", finalPrice,
	)
	writeJSON(w, http.StatusCreated, purchaseResponse{Purchase: purchase, PaymentURL: redirect.PaymentURL})
}

// ListPurchases is the owner's view of a store's sales, most recent
// first.
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, h.Storage.ListPurchasesByStore(storeID))
}

// ownedPurchase loads a purchase and checks the caller owns the store it
// belongs to.
func (h *PurchaseHandler) ownedPurchase(r *http.Request, userID int) (models.Purchase, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return models.Purchase{}, err
	}
	purchase, ok := h.Storage.GetPurchase(id)
	if !ok {
		return models.Purchase{}, apperr.NotFound("Purchase not found")
	}
	if _, err := ownedStore(h.Storage, purchase.StoreID, userID); err != nil {
		return models.Purchase{}, err
	}
	return purchase, nil
}

type statusUpdateRequest struct {
	Status        string `json:"status" validate:"required,oneof=completed failed"`
	TransactionID string `json:"transactionId"`
}

func (h *PurchaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	purchase, err := h.ownedPurchase(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.settle(purchase.ID, req.Status, req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Deliver marks the purchase delivered; the first call records command
// logs for the privilege's server commands. Idempotent.
func (h *PurchaseHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(h.Sessions, h.Storage, r)
	if err != nil {
		writeError(w, err)
		return
	}
	purchase, err := h.ownedPurchase(r, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	delivered, err := h.Storage.MarkDelivered(purchase.ID)
	if err != nil {
		writeError(w, apperr.NotFound("Purchase not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"purchase":    delivered,
		"commandLogs": h.Storage.ListCommandLogs(delivered.ID),
	})
}

type paymentCallbackRequest struct {
	Reference     string `json:"reference" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=completed failed"`
	TransactionID string `json:"transactionId"`
}

// PaymentCallback settles a purchase from the payment provider's
// server-to-server notification.
func (h *PurchaseHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req paymentCallbackRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	purchaseID, err := h.Payments.Resolve(req.Reference)
	if err != nil {
		writeError(w, apperr.NotFound("Unknown payment reference"))
		return
	}

	updated, err := h.settle(purchaseID, req.Status, req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Payment settled", "purchase_id", updated.ID, "status", updated.Status)
	writeJSON(w, http.StatusOK, updated)
}

func (h *PurchaseHandler) settle(purchaseID int, status, transactionID string) (models.Purchase, error) {
	updated, err := h.Storage.UpdatePurchaseStatus(purchaseID, status, transactionID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return models.Purchase{}, apperr.NotFound("Purchase not found")
	case errors.Is(err, storage.ErrIllegalTransition):
		return models.Purchase{}, apperr.Conflict("Purchase is already settled")
	case err != nil:
		return models.Purchase{}, err
	}
	switch status {
	case models.PurchaseCompleted:
		h.Metrics.PurchasesCompletedTotal.Inc()
	case models.PurchaseFailed:
		h.Metrics.PurchasesFailedTotal.Inc()
	}
	return updated, nil
}

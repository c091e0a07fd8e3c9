package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"craftstore/internal/metrics"
	"craftstore/internal/payment"
	"craftstore/internal/storage"
)

// RouterOptions carries everything the API surface depends on.
type RouterOptions struct {
	Storage  *storage.Storage
	Sessions *sessions.CookieStore
	Payments payment.Provider
	Metrics  *metrics.Metrics

	// Limiter guards registration, login and checkout. Nil disables
	// rate limiting (tests).
	Limiter *RateLimiter
}

// NewRouter wires every API route onto a ServeMux.
func NewRouter(opts RouterOptions) *http.ServeMux {
	authHandler := &AuthHandler{Storage: opts.Storage, Sessions: opts.Sessions, Metrics: opts.Metrics}
	storeHandler := &StoreHandler{Storage: opts.Storage, Sessions: opts.Sessions}
	categoryHandler := &CategoryHandler{Storage: opts.Storage, Sessions: opts.Sessions}
	privilegeHandler := &PrivilegeHandler{Storage: opts.Storage, Sessions: opts.Sessions}
	purchaseHandler := &PurchaseHandler{Storage: opts.Storage, Sessions: opts.Sessions, Payments: opts.Payments, Metrics: opts.Metrics}
	waitlistHandler := &WaitlistHandler{Storage: opts.Storage, Sessions: opts.Sessions}

	limited := func(next http.HandlerFunc) http.HandlerFunc {
		if opts.Limiter == nil {
			return next
		}
		return opts.Limiter.Middleware(next)
	}

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", limited(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", limited(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)

	// Stores. The literal /public pattern takes precedence over the
	// {id} wildcard, so it never resolves as a store ID.
	mux.HandleFunc("GET /api/stores/public", storeHandler.PublicStores)
	mux.HandleFunc("GET /api/stores", storeHandler.ListStores)
	mux.HandleFunc("POST /api/stores", storeHandler.CreateStore)
	mux.HandleFunc("GET /api/stores/{id}", storeHandler.GetStore)
	mux.HandleFunc("PUT /api/stores/{id}", storeHandler.UpdateStore)
	mux.HandleFunc("DELETE /api/stores/{id}", storeHandler.DeleteStore)

	// Categories
	mux.HandleFunc("GET /api/stores/{storeId}/categories", categoryHandler.ListCategories)
	mux.HandleFunc("POST /api/stores/{storeId}/categories", categoryHandler.CreateCategory)
	mux.HandleFunc("PUT /api/stores/{storeId}/categories/{id}", categoryHandler.UpdateCategory)
	mux.HandleFunc("DELETE /api/stores/{storeId}/categories/{id}", categoryHandler.DeleteCategory)

	// Privileges
	mux.HandleFunc("GET /api/stores/{storeId}/privileges", privilegeHandler.ListPrivileges)
	mux.HandleFunc("POST /api/stores/{storeId}/privileges", privilegeHandler.CreatePrivilege)
	mux.HandleFunc("PUT /api/stores/{storeId}/privileges/{id}", privilegeHandler.UpdatePrivilege)
	mux.HandleFunc("DELETE /api/stores/{storeId}/privileges/{id}", privilegeHandler.DeletePrivilege)

	// Purchases
	mux.HandleFunc("POST /api/stores/{storeId}/purchases", limited(purchaseHandler.CreatePurchase))
	mux.HandleFunc("GET /api/stores/{storeId}/purchases", purchaseHandler.ListPurchases)
	mux.HandleFunc("PATCH /api/purchases/{id}/status", purchaseHandler.UpdateStatus)
	mux.HandleFunc("POST /api/purchases/{id}/deliver", purchaseHandler.Deliver)
	mux.HandleFunc("POST /api/payments/callback", purchaseHandler.PaymentCallback)

	// Waitlist
	mux.HandleFunc("POST /api/waitlist", waitlistHandler.Join)
	mux.HandleFunc("GET /api/waitlist", waitlistHandler.List)
	mux.HandleFunc("GET /api/waitlist/count", waitlistHandler.Count)

	return mux
}

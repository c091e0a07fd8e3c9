package models

import (
	"time"
)

// Purchase statuses. A purchase starts pending and moves to exactly one
// of the terminal states.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Default store theme colors.
const (
	DefaultPrimaryColor   = "#0EA5E9"
	DefaultSecondaryColor = "#3B82F6"
)

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ServerIP       string    `json:"serverIp"`
	LogoURL        string    `json:"logoUrl"`
	BannerURL      string    `json:"bannerUrl"`
	PrimaryColor   string    `json:"primaryColor"`
	SecondaryColor string    `json:"secondaryColor"`
	CustomDomain   string    `json:"customDomain"`
	CustomCSS      string    `json:"customCss"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Category struct {
	ID           int       `json:"id"`
	StoreID      int       `json:"storeId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IconURL      string    `json:"iconUrl"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Privilege struct {
	ID              int       `json:"id"`
	StoreID         int       `json:"storeId"`
	CategoryID      *int      `json:"categoryId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           int       `json:"price"` // minor currency units
	ImageURL        string    `json:"imageUrl"`
	ServerCommands  []string  `json:"serverCommands"`
	Duration        *int      `json:"duration"` // days; nil = perpetual
	DiscountPercent int       `json:"discountPercent"`
	DisplayOrder    int       `json:"displayOrder"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Purchase struct {
	ID            int        `json:"id"`
	StoreID       int        `json:"storeId"`
	PrivilegeID   *int       `json:"privilegeId"`
	PlayerName    string     `json:"playerName"`
	Email         string     `json:"email"`
	Price         int        `json:"price"` // final price, snapshot at creation
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	IsDelivered   bool       `json:"isDelivered"`
	PurchaseDate  time.Time  `json:"purchaseDate"`
	ExpiryDate    *time.Time `json:"expiryDate"`
}

// CommandLog records one server command dispatched when a purchase is
// delivered. Execution on the game server happens out of band.
type CommandLog struct {
	ID            int       `json:"id"`
	PurchaseID    int       `json:"purchaseId"`
	Command       string    `json:"command"`
	ExecutionTime time.Time `json:"executionTime"`
	Status        string    `json:"status"` // success, failed
	ErrorMessage  string    `json:"errorMessage"`
}

type WaitlistEntry struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicStore is the read model served on the public storefront listing.
type PublicStore struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ServerIP     string    `json:"serverIp"`
	LogoURL      string    `json:"logoUrl"`
	CustomDomain string    `json:"customDomain"`
	TodayRevenue int       `json:"todayRevenue"`
	TotalRevenue int       `json:"totalRevenue"`
	ActiveUsers  int       `json:"activeUsers"`
	CreatedAt    time.Time `json:"createdAt"`
}

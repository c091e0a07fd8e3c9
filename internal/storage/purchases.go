package storage

import (
	"math"
	"sort"
	"time"

	"craftstore/internal/models"
)

// FinalPrice applies a percentage discount to a price in minor currency
// units, rounding to the nearest unit.
func FinalPrice(price, discountPercent int) int {
	if discountPercent == 0 {
		return price
	}
	return int(math.Round(float64(price) * (1 - float64(discountPercent)/100)))
}

func (s *Storage) GetPurchase(id int) (models.Purchase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.purchases[id]
	return p, ok
}

// ListPurchasesByStore returns the store's purchases most recent first;
// ties keep insertion order.
func (s *Storage) ListPurchasesByStore(storeID int) []models.Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Purchase
	for _, p := range s.purchases {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out
}

type NewPurchase struct {
	PrivilegeID *int
	PlayerName  string
	Email       string
	Price       int // final price, already discounted
}

// CreatePurchase records a pending purchase. The expiry date is derived
// from the privilege's duration at creation time and never recomputed.
func (s *Storage) CreatePurchase(storeID int, np NewPurchase) models.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := models.Purchase{
		ID:           s.nextPurchaseID,
		StoreID:      storeID,
		PrivilegeID:  np.PrivilegeID,
		PlayerName:   np.PlayerName,
		Email:        np.Email,
		Price:        np.Price,
		Status:       models.PurchasePending,
		PurchaseDate: now,
	}
	if np.PrivilegeID != nil {
		if priv, ok := s.privileges[*np.PrivilegeID]; ok && priv.Duration != nil {
			expiry := now.AddDate(0, 0, *priv.Duration)
			p.ExpiryDate = &expiry
		}
	}
	s.nextPurchaseID++
	s.purchases[p.ID] = p
	return p
}

// UpdatePurchaseStatus moves a purchase through the pending ->
// completed|failed machine. Completed and failed are terminal;
// anything else returns ErrIllegalTransition.
func (s *Storage) UpdatePurchaseStatus(id int, status, transactionID string) (models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return models.Purchase{}, ErrNotFound
	}
	if p.Status != models.PurchasePending || (status != models.PurchaseCompleted && status != models.PurchaseFailed) {
		return models.Purchase{}, ErrIllegalTransition
	}
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	s.purchases[id] = p
	return p, nil
}

// MarkDelivered flags the purchase as delivered and, on the first call,
// records one command log per privilege server command. Repeat calls are
// no-ops.
func (s *Storage) MarkDelivered(id int) (models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return models.Purchase{}, ErrNotFound
	}
	if p.IsDelivered {
		return p, nil
	}
	p.IsDelivered = true
	s.purchases[id] = p

	if p.PrivilegeID != nil {
		if priv, ok := s.privileges[*p.PrivilegeID]; ok {
			now := time.Now()
			for _, cmd := range priv.ServerCommands {
				log := models.CommandLog{
					ID:            s.nextCommandLogID,
					PurchaseID:    p.ID,
					Command:       cmd,
					ExecutionTime: now,
					Status:        "success",
				}
				s.nextCommandLogID++
				s.commandLogs[log.ID] = log
			}
		}
	}
	return p, nil
}

func (s *Storage) ListCommandLogs(purchaseID int) []models.CommandLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CommandLog
	for _, l := range s.commandLogs {
		if l.PurchaseID == purchaseID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// StoreRevenue aggregates completed purchases for one store: revenue
// since the local start of day, all-time revenue, and the number of
// distinct players with a completed purchase.
func (s *Storage) StoreRevenue(storeID int, now time.Time) (todayRevenue, totalRevenue, activePlayers int) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make(map[string]struct{})
	for _, p := range s.purchases {
		if p.StoreID != storeID || p.Status != models.PurchaseCompleted {
			continue
		}
		totalRevenue += p.Price
		players[p.PlayerName] = struct{}{}
		if !p.PurchaseDate.Before(startOfDay) {
			todayRevenue += p.Price
		}
	}
	return todayRevenue, totalRevenue, len(players)
}

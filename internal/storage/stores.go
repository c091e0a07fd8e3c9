package storage

import (
	"sort"
	"time"

	"craftstore/internal/models"
)

func (s *Storage) GetStore(id int) (models.Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stores[id]
	return st, ok
}

func (s *Storage) ListStoresByUser(userID int) []models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Store
	for _, st := range s.stores {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Storage) ListStores() []models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Store, 0, len(s.stores))
	for _, st := range s.stores {
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Storage) CreateStore(userID int, name, description, serverIP string) models.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	st := models.Store{
		ID:             s.nextStoreID,
		UserID:         userID,
		Name:           name,
		Description:    description,
		ServerIP:       serverIP,
		PrimaryColor:   models.DefaultPrimaryColor,
		SecondaryColor: models.DefaultSecondaryColor,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.nextStoreID++
	s.stores[st.ID] = st
	return st
}

// StorePatch carries a partial store update; nil fields are left as-is.
type StorePatch struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ServerIP       *string `json:"serverIp"`
	LogoURL        *string `json:"logoUrl"`
	BannerURL      *string `json:"bannerUrl"`
	PrimaryColor   *string `json:"primaryColor"`
	SecondaryColor *string `json:"secondaryColor"`
	CustomDomain   *string `json:"customDomain"`
	CustomCSS      *string `json:"customCss"`
	IsActive       *bool   `json:"isActive"`
}

func (s *Storage) UpdateStore(id int, patch StorePatch) (models.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[id]
	if !ok {
		return models.Store{}, false
	}
	if patch.Name != nil {
		st.Name = *patch.Name
	}
	if patch.Description != nil {
		st.Description = *patch.Description
	}
	if patch.ServerIP != nil {
		st.ServerIP = *patch.ServerIP
	}
	if patch.LogoURL != nil {
		st.LogoURL = *patch.LogoURL
	}
	if patch.BannerURL != nil {
		st.BannerURL = *patch.BannerURL
	}
	if patch.PrimaryColor != nil {
		st.PrimaryColor = *patch.PrimaryColor
	}
	if patch.SecondaryColor != nil {
		st.SecondaryColor = *patch.SecondaryColor
	}
	if patch.CustomDomain != nil {
		st.CustomDomain = *patch.CustomDomain
	}
	if patch.CustomCSS != nil {
		st.CustomCSS = *patch.CustomCSS
	}
	if patch.IsActive != nil {
		st.IsActive = *patch.IsActive
	}
	st.UpdatedAt = time.Now()
	s.stores[id] = st
	return st, true
}

// DeleteStore removes the store and cascades to its categories,
// privileges, purchases and their command logs so no orphaned children
// remain.
func (s *Storage) DeleteStore(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[id]; !ok {
		return false
	}
	delete(s.stores, id)
	for cid, c := range s.categories {
		if c.StoreID == id {
			delete(s.categories, cid)
		}
	}
	for pid, p := range s.privileges {
		if p.StoreID == id {
			delete(s.privileges, pid)
		}
	}
	gone := make(map[int]bool)
	for pid, p := range s.purchases {
		if p.StoreID == id {
			delete(s.purchases, pid)
			gone[pid] = true
		}
	}
	for lid, l := range s.commandLogs {
		if gone[l.PurchaseID] {
			delete(s.commandLogs, lid)
		}
	}
	return true
}

package storage

import (
	"sort"
	"time"

	"craftstore/internal/models"
)

func (s *Storage) GetPrivilege(id int) (models.Privilege, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.privileges[id]
	return p, ok
}

func (s *Storage) ListPrivileges(storeID int) []models.Privilege {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Privilege
	for _, p := range s.privileges {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	sortPrivileges(out)
	return out
}

func (s *Storage) ListPrivilegesByCategory(categoryID int) []models.Privilege {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Privilege
	for _, p := range s.privileges {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sortPrivileges(out)
	return out
}

// Ascending display order, insertion order on ties.
func sortPrivileges(ps []models.Privilege) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].DisplayOrder < ps[j].DisplayOrder })
}

type NewPrivilege struct {
	Name            string
	Description     string
	Price           int
	CategoryID      *int
	ImageURL        string
	ServerCommands  []string
	Duration        *int
	DiscountPercent int
	DisplayOrder    int
}

func (s *Storage) CreatePrivilege(storeID int, np NewPrivilege) models.Privilege {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	commands := make([]string, len(np.ServerCommands))
	copy(commands, np.ServerCommands)
	p := models.Privilege{
		ID:              s.nextPrivilegeID,
		StoreID:         storeID,
		CategoryID:      np.CategoryID,
		Name:            np.Name,
		Description:     np.Description,
		Price:           np.Price,
		ImageURL:        np.ImageURL,
		ServerCommands:  commands,
		Duration:        np.Duration,
		DiscountPercent: np.DiscountPercent,
		DisplayOrder:    np.DisplayOrder,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.nextPrivilegeID++
	s.privileges[p.ID] = p
	return p
}

type PrivilegePatch struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Price           *int      `json:"price"`
	CategoryID      *int      `json:"categoryId"`
	ImageURL        *string   `json:"imageUrl"`
	ServerCommands  *[]string `json:"serverCommands"`
	Duration        *int      `json:"duration"`
	DiscountPercent *int      `json:"discountPercent"`
	DisplayOrder    *int      `json:"displayOrder"`
	IsActive        *bool     `json:"isActive"`
}

func (s *Storage) UpdatePrivilege(id int, patch PrivilegePatch) (models.Privilege, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.privileges[id]
	if !ok {
		return models.Privilege{}, false
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		p.CategoryID = patch.CategoryID
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.ServerCommands != nil {
		commands := make([]string, len(*patch.ServerCommands))
		copy(commands, *patch.ServerCommands)
		p.ServerCommands = commands
	}
	if patch.Duration != nil {
		p.Duration = patch.Duration
	}
	if patch.DiscountPercent != nil {
		p.DiscountPercent = *patch.DiscountPercent
	}
	if patch.DisplayOrder != nil {
		p.DisplayOrder = *patch.DisplayOrder
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.UpdatedAt = time.Now()
	s.privileges[id] = p
	return p, true
}

func (s *Storage) DeletePrivilege(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.privileges[id]; !ok {
		return false
	}
	delete(s.privileges, id)
	return true
}

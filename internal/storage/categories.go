package storage

import (
	"sort"
	"time"

	"craftstore/internal/models"
)

func (s *Storage) GetCategory(id int) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	return c, ok
}

// ListCategories returns the store's categories ascending by display
// order; ties keep insertion order.
func (s *Storage) ListCategories(storeID int) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

type NewCategory struct {
	Name         string
	Description  string
	IconURL      string
	DisplayOrder int
}

func (s *Storage) CreateCategory(storeID int, nc NewCategory) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{
		ID:           s.nextCategoryID,
		StoreID:      storeID,
		Name:         nc.Name,
		Description:  nc.Description,
		IconURL:      nc.IconURL,
		DisplayOrder: nc.DisplayOrder,
		CreatedAt:    time.Now(),
	}
	s.nextCategoryID++
	s.categories[c.ID] = c
	return c
}

type CategoryPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	IconURL      *string `json:"iconUrl"`
	DisplayOrder *int    `json:"displayOrder"`
}

func (s *Storage) UpdateCategory(id int, patch CategoryPatch) (models.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, false
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.IconURL != nil {
		c.IconURL = *patch.IconURL
	}
	if patch.DisplayOrder != nil {
		c.DisplayOrder = *patch.DisplayOrder
	}
	s.categories[id] = c
	return c, true
}

func (s *Storage) DeleteCategory(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return false
	}
	delete(s.categories, id)
	// Privileges keep their store but lose the grouping.
	for pid, p := range s.privileges {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			s.privileges[pid] = p
		}
	}
	return true
}

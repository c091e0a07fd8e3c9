package storage

import (
	"sort"
	"strings"
	"time"

	"craftstore/internal/models"
)

func (s *Storage) GetWaitlistEntryByEmail(email string) (models.WaitlistEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.waitlist {
		if strings.EqualFold(e.Email, email) {
			return e, true
		}
	}
	return models.WaitlistEntry{}, false
}

func (s *Storage) CreateWaitlistEntry(email, name string) models.WaitlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := models.WaitlistEntry{
		ID:        s.nextWaitlistID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.nextWaitlistID++
	s.waitlist[e.ID] = e
	return e
}

func (s *Storage) ListWaitlistEntries() []models.WaitlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WaitlistEntry, 0, len(s.waitlist))
	for _, e := range s.waitlist {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Storage) WaitlistCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.waitlist)
}

package storage

import (
	"log/slog"
	"strings"
	"time"

	"craftstore/internal/models"
)

func (s *Storage) GetUser(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// GetUserByUsername matches case-insensitively.
func (s *Storage) GetUserByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

// GetUserByEmail matches case-insensitively.
func (s *Storage) GetUserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// CreateUser stores a new user and appends it to the archive off the
// request path. An archive failure is logged, never surfaced.
func (s *Storage) CreateUser(username, email, passwordHash string) models.User {
	s.mu.Lock()
	u := models.User{
		ID:        s.nextUserID,
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	s.nextUserID++
	s.users[u.ID] = u
	s.mu.Unlock()

	go func(u models.User) {
		if err := s.archive.Append(u); err != nil {
			slog.Error("Failed to archive user", "username", u.Username, "error", err)
		}
	}(u)

	return u
}

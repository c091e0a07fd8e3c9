package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"craftstore/internal/models"
)

// serializedUser is the on-disk shape. The password hash is kept so a
// seeded user can still log in after a restart; models.User hides it
// from JSON, so the archive spells its own fields out.
type serializedUser struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// JSONFile is a UserArchive backed by a pretty-printed JSON array on
// disk, matching the users.json format the dashboard tooling expects.
type JSONFile struct {
	path string
	mu   sync.Mutex
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (a *JSONFile) Append(user models.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.read()
	if err != nil {
		return err
	}
	users = append(users, serializedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
	})
	return a.write(users)
}

func (a *JSONFile) Load() ([]models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	records, err := a.read()
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(records))
	for _, r := range records {
		users = append(users, models.User{
			ID:        r.ID,
			Username:  r.Username,
			Email:     r.Email,
			Password:  r.Password,
			CreatedAt: r.CreatedAt,
		})
	}
	return users, nil
}

func (a *JSONFile) read() ([]serializedUser, error) {
	data, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user archive: %w", err)
	}
	var users []serializedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse user archive %s: %w", a.path, err)
	}
	return users, nil
}

func (a *JSONFile) write(users []serializedUser) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.path, data, 0o600); err != nil {
		return fmt.Errorf("write user archive: %w", err)
	}
	return nil
}

// Package archive provides the best-effort user durability backstop. The
// in-memory storage is authoritative; the archive only survives restarts.
package archive

import (
	"craftstore/internal/models"
)

// UserArchive is an append-only record of registered users. Append must
// never be allowed to fail a registration: callers invoke it off the
// request path and log errors.
type UserArchive interface {
	Append(user models.User) error
	Load() ([]models.User, error)
}

// Noop discards writes and loads nothing. Used in tests and when the
// archive is disabled.
type Noop struct{}

func (Noop) Append(models.User) error { return nil }
func (Noop) Load() ([]models.User, error) { return nil, nil }

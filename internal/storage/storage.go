// Package storage holds every domain entity in memory. Each table is a
// map keyed by an auto-incrementing integer ID; a single mutex guards all
// read-modify-write sequences. The storage enforces no constraints beyond
// ID uniqueness; uniqueness of usernames, ownership and the like are the
// handlers' job.
package storage

import (
	"errors"
	"log/slog"
	"sync"

	"craftstore/internal/archive"
	"craftstore/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type Storage struct {
	mu sync.RWMutex

	users       map[int]models.User
	stores      map[int]models.Store
	categories  map[int]models.Category
	privileges  map[int]models.Privilege
	purchases   map[int]models.Purchase
	commandLogs map[int]models.CommandLog
	waitlist    map[int]models.WaitlistEntry

	nextUserID       int
	nextStoreID      int
	nextCategoryID   int
	nextPrivilegeID  int
	nextPurchaseID   int
	nextCommandLogID int
	nextWaitlistID   int

	archive archive.UserArchive
}

// New creates an empty storage and seeds the user table from the archive
// so accounts survive a process restart. The archive stays best-effort: a
// load failure is logged and the storage starts empty.
func New(arch archive.UserArchive) *Storage {
	s := &Storage{
		users:       make(map[int]models.User),
		stores:      make(map[int]models.Store),
		categories:  make(map[int]models.Category),
		privileges:  make(map[int]models.Privilege),
		purchases:   make(map[int]models.Purchase),
		commandLogs: make(map[int]models.CommandLog),
		waitlist:    make(map[int]models.WaitlistEntry),

		nextUserID:       1,
		nextStoreID:      1,
		nextCategoryID:   1,
		nextPrivilegeID:  1,
		nextPurchaseID:   1,
		nextCommandLogID: 1,
		nextWaitlistID:   1,

		archive: arch,
	}

	seeded, err := arch.Load()
	if err != nil {
		slog.Error("Failed to load user archive, starting empty", "error", err)
		return s
	}
	for _, u := range seeded {
		s.users[u.ID] = u
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	if len(seeded) > 0 {
		slog.Info("Seeded users from archive", "count", len(seeded))
	}
	return s
}

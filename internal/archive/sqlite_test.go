package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftstore/internal/models"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")

	a, err := NewSQLite(path)
	require.NoError(t, err)
	defer a.Close()

	u := models.User{
		ID:        1,
		Username:  "steve",
		Email:     "steve@example.com",
		Password:  "$2a$10$hash",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, a.Append(u))
	require.NoError(t, a.Append(models.User{ID: 2, Username: "alex", Email: "alex@example.com", CreatedAt: time.Now()}))

	got, err := a.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "steve", got[0].Username)
	assert.Equal(t, "$2a$10$hash", got[0].Password)
	assert.Equal(t, 2, got[1].ID)
}

func TestSQLiteRejectsDuplicateUsername(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")

	a, err := NewSQLite(path)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Append(models.User{ID: 1, Username: "steve", Email: "a@example.com", CreatedAt: time.Now()}))
	assert.Error(t, a.Append(models.User{ID: 2, Username: "steve", Email: "b@example.com", CreatedAt: time.Now()}))
}

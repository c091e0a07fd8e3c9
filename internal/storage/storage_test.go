package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftstore/internal/archive"
	"craftstore/internal/models"
)

func newTestStorage() *Storage {
	return New(archive.Noop{})
}

func intPtr(v int) *int { return &v }

func TestCreateStoreRoundTrip(t *testing.T) {
	s := newTestStorage()

	created := s.CreateStore(1, "SkyWars Shop", "Best ranks on the server", "play.example.com")
	got, ok := s.GetStore(created.ID)

	require.True(t, ok)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, created.UserID)
	assert.Equal(t, models.DefaultPrimaryColor, created.PrimaryColor)
	assert.Equal(t, models.DefaultSecondaryColor, created.SecondaryColor)
	assert.True(t, created.IsActive)
}

func TestIDsNeverReused(t *testing.T) {
	s := newTestStorage()

	first := s.CreateStore(1, "First", "", "")
	require.True(t, s.DeleteStore(first.ID))

	second := s.CreateStore(1, "Second", "", "")
	assert.Greater(t, second.ID, first.ID)
}

func TestUserLookupIsCaseInsensitive(t *testing.T) {
	s := newTestStorage()
	s.CreateUser("Notch", "notch@example.com", "hash")

	_, ok := s.GetUserByUsername("nOtCh")
	assert.True(t, ok)
	_, ok = s.GetUserByEmail("NOTCH@EXAMPLE.COM")
	assert.True(t, ok)
	_, ok = s.GetUserByUsername("herobrine")
	assert.False(t, ok)
}

func TestListCategoriesSortedByDisplayOrder(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")

	s.CreateCategory(st.ID, NewCategory{Name: "Ranks", DisplayOrder: 2})
	s.CreateCategory(st.ID, NewCategory{Name: "Kits", DisplayOrder: 0})
	s.CreateCategory(st.ID, NewCategory{Name: "Cosmetics", DisplayOrder: 2})
	s.CreateCategory(st.ID, NewCategory{Name: "Keys", DisplayOrder: 1})

	names := func() []string {
		var out []string
		for _, c := range s.ListCategories(st.ID) {
			out = append(out, c.Name)
		}
		return out
	}

	want := []string{"Kits", "Keys", "Ranks", "Cosmetics"}
	assert.Equal(t, want, names())
	// Stable under repeated calls with no intervening writes.
	assert.Equal(t, want, names())
}

func TestListPrivilegesFilters(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	ranks := s.CreateCategory(st.ID, NewCategory{Name: "Ranks"})

	vip := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP", Price: 500, CategoryID: intPtr(ranks.ID), DisplayOrder: 1})
	mvp := s.CreatePrivilege(st.ID, NewPrivilege{Name: "MVP", Price: 900, CategoryID: intPtr(ranks.ID), DisplayOrder: 0})
	s.CreatePrivilege(st.ID, NewPrivilege{Name: "Kit", Price: 100})

	byStore := s.ListPrivileges(st.ID)
	require.Len(t, byStore, 3)

	byCategory := s.ListPrivilegesByCategory(ranks.ID)
	require.Len(t, byCategory, 2)
	assert.Equal(t, mvp.ID, byCategory[0].ID)
	assert.Equal(t, vip.ID, byCategory[1].ID)
}

func TestFinalPrice(t *testing.T) {
	assert.Equal(t, 850, FinalPrice(1000, 15))
	assert.Equal(t, 1000, FinalPrice(1000, 0))
	assert.Equal(t, 0, FinalPrice(1000, 100))
	assert.Equal(t, 500, FinalPrice(999, 50)) // rounds half away from zero
}

func TestPurchaseExpiry(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")

	timed := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP 30d", Price: 1000, Duration: intPtr(30)})
	perpetual := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP Forever", Price: 5000})

	before := time.Now()
	p1 := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &timed.ID, PlayerName: "Steve", Price: 1000})
	after := time.Now()

	require.NotNil(t, p1.ExpiryDate)
	assert.False(t, p1.ExpiryDate.Before(before.AddDate(0, 0, 30)))
	assert.False(t, p1.ExpiryDate.After(after.AddDate(0, 0, 30)))

	p2 := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &perpetual.ID, PlayerName: "Steve", Price: 5000})
	assert.Nil(t, p2.ExpiryDate)
}

func TestPurchaseStatusMachine(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	priv := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP", Price: 1000})
	p := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Steve", Price: 1000})

	updated, err := s.UpdatePurchaseStatus(p.ID, models.PurchaseCompleted, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseCompleted, updated.Status)
	assert.Equal(t, "tx-1", updated.TransactionID)

	// Completed is terminal.
	_, err = s.UpdatePurchaseStatus(p.ID, models.PurchaseFailed, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = s.UpdatePurchaseStatus(999, models.PurchaseCompleted, "")
	assert.ErrorIs(t, err, ErrNotFound)

	// Only the two terminal states are reachable from pending.
	p2 := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Alex", Price: 1000})
	_, err = s.UpdatePurchaseStatus(p2.ID, "refunded", "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMarkDeliveredWritesCommandLogsOnce(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	priv := s.CreatePrivilege(st.ID, NewPrivilege{
		Name:           "VIP",
		Price:          1000,
		ServerCommands: []string{"lp user %player% parent set vip", "give %player% diamond 1"},
	})
	p := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Steve", Price: 1000})

	delivered, err := s.MarkDelivered(p.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)

	logs := s.ListCommandLogs(p.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, "lp user %player% parent set vip", logs[0].Command)
	assert.Equal(t, "success", logs[0].Status)

	// Idempotent: a second delivery writes nothing.
	_, err = s.MarkDelivered(p.ID)
	require.NoError(t, err)
	assert.Len(t, s.ListCommandLogs(p.ID), 2)
}

func TestListPurchasesMostRecentFirst(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	priv := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP", Price: 1000})

	first := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Steve", Price: 1000})
	second := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Alex", Price: 1000})

	got := s.ListPurchasesByStore(st.ID)
	require.Len(t, got, 2)
	// Equal timestamps fall back to insertion order; otherwise newest
	// first.
	if got[0].PurchaseDate.Equal(got[1].PurchaseDate) {
		assert.Equal(t, first.ID, got[0].ID)
	} else {
		assert.Equal(t, second.ID, got[0].ID)
	}
}

func TestDeleteStoreCascades(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	other := s.CreateStore(2, "Other", "", "")

	cat := s.CreateCategory(st.ID, NewCategory{Name: "Ranks"})
	priv := s.CreatePrivilege(st.ID, NewPrivilege{
		Name:           "VIP",
		Price:          1000,
		CategoryID:     intPtr(cat.ID),
		ServerCommands: []string{"give %player% diamond"},
	})
	p := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Steve", Price: 1000})
	_, err := s.UpdatePurchaseStatus(p.ID, models.PurchaseCompleted, "tx-1")
	require.NoError(t, err)
	_, err = s.MarkDelivered(p.ID)
	require.NoError(t, err)
	require.Len(t, s.ListCommandLogs(p.ID), 1)

	keep := s.CreatePrivilege(other.ID, NewPrivilege{Name: "MVP", Price: 2000})

	require.True(t, s.DeleteStore(st.ID))

	_, ok := s.GetCategory(cat.ID)
	assert.False(t, ok)
	_, ok = s.GetPrivilege(priv.ID)
	assert.False(t, ok)
	_, ok = s.GetPurchase(p.ID)
	assert.False(t, ok)
	// Command logs of the store's purchases go with it.
	assert.Empty(t, s.ListCommandLogs(p.ID))

	// Unrelated stores are untouched.
	_, ok = s.GetPrivilege(keep.ID)
	assert.True(t, ok)

	assert.False(t, s.DeleteStore(st.ID))
}

func TestDeleteCategoryUngroupsPrivileges(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	cat := s.CreateCategory(st.ID, NewCategory{Name: "Ranks"})
	priv := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP", Price: 1000, CategoryID: intPtr(cat.ID)})

	require.True(t, s.DeleteCategory(cat.ID))

	got, ok := s.GetPrivilege(priv.ID)
	require.True(t, ok)
	assert.Nil(t, got.CategoryID)
}

func TestStoreRevenue(t *testing.T) {
	s := newTestStorage()
	st := s.CreateStore(1, "Shop", "", "")
	priv := s.CreatePrivilege(st.ID, NewPrivilege{Name: "VIP", Price: 1000})

	completedToday := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Steve", Price: 1000})
	_, err := s.UpdatePurchaseStatus(completedToday.ID, models.PurchaseCompleted, "tx-1")
	require.NoError(t, err)

	// Pending and failed purchases never count.
	s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Alex", Price: 1000})
	failed := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Herobrine", Price: 1000})
	_, err = s.UpdatePurchaseStatus(failed.ID, models.PurchaseFailed, "")
	require.NoError(t, err)

	// A completed purchase from yesterday counts for total only.
	old := s.CreatePurchase(st.ID, NewPurchase{PrivilegeID: &priv.ID, PlayerName: "Steve", Price: 500})
	_, err = s.UpdatePurchaseStatus(old.ID, models.PurchaseCompleted, "tx-2")
	require.NoError(t, err)
	s.mu.Lock()
	p := s.purchases[old.ID]
	p.PurchaseDate = p.PurchaseDate.AddDate(0, 0, -1)
	s.purchases[old.ID] = p
	s.mu.Unlock()

	today, total, active := s.StoreRevenue(st.ID, time.Now())
	assert.Equal(t, 1000, today)
	assert.Equal(t, 1500, total)
	assert.Equal(t, 1, active) // Steve is the only player with completed purchases
}

// chanArchive records appends so tests can wait for the async write.
type chanArchive struct {
	appended chan models.User
	seed     []models.User
}

func (a *chanArchive) Append(u models.User) error { a.appended <- u; return nil }
func (a *chanArchive) Load() ([]models.User, error) { return a.seed, nil }

func TestCreateUserArchivesAsync(t *testing.T) {
	arch := &chanArchive{appended: make(chan models.User, 1)}
	s := New(arch)

	created := s.CreateUser("steve", "steve@example.com", "hash")

	select {
	case got := <-arch.appended:
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "steve", got.Username)
	case <-time.After(time.Second):
		t.Fatal("user was not archived")
	}
}

func TestNewSeedsFromArchive(t *testing.T) {
	arch := &chanArchive{
		appended: make(chan models.User, 1),
		seed: []models.User{
			{ID: 3, Username: "steve", Email: "steve@example.com", Password: "hash", CreatedAt: time.Now()},
		},
	}
	s := New(arch)

	got, ok := s.GetUser(3)
	require.True(t, ok)
	assert.Equal(t, "steve", got.Username)

	// The counter resumes past the seeded IDs.
	next := s.CreateUser("alex", "alex@example.com", "hash")
	assert.Equal(t, 4, next.ID)
	<-arch.appended
}

func TestWaitlist(t *testing.T) {
	s := newTestStorage()

	e := s.CreateWaitlistEntry("steve@example.com", "Steve")
	assert.Equal(t, 1, e.ID)

	_, ok := s.GetWaitlistEntryByEmail("STEVE@example.com")
	assert.True(t, ok)

	s.CreateWaitlistEntry("alex@example.com", "Alex")
	assert.Equal(t, 2, s.WaitlistCount())
	assert.Len(t, s.ListWaitlistEntries(), 2)
}

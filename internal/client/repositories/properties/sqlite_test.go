package properties

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dkhrunov/propkeeper/internal/client/models"
	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE properties (
  id          TEXT PRIMARY KEY,
  user_id     TEXT NOT NULL,
  name        TEXT NOT NULL,
  street      TEXT NOT NULL,
  city        TEXT NOT NULL,
  state       TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country     TEXT NOT NULL DEFAULT '',
  latitude    REAL NOT NULL DEFAULT 0,
  longitude   REAL NOT NULL DEFAULT 0,
  type        TEXT NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  created_at  TIMESTAMP NOT NULL,
  updated_at  TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func makeProperty(id, userID, name string, updatedAt time.Time) *models.Property {
	return &models.Property{
		ID:     id,
		UserID: userID,
		Name:   name,
		Address: models.Address{
			Street:     "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
		},
		Type:       models.PropertyTypeHouse,
		SyncStatus: models.SyncPending,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	p := makeProperty("p1", "u1", "Lake House", now)
	p.Address.Latitude = 39.78
	p.Address.Longitude = -89.65
	require.NoError(t, r.Insert(ctx, p))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Lake House", got.Name)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, models.SyncPending, got.SyncStatus)
	assert.Equal(t, "Springfield", got.Address.City)
	assert.InDelta(t, 39.78, got.Address.Latitude, 1e-9)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	p := makeProperty("p1", "u1", "Old Name", now)
	require.NoError(t, r.Insert(ctx, p))

	p.Name = "New Name"
	p.SyncStatus = models.SyncPending
	p.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, r.Update(ctx, p))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	p := makeProperty("ghost", "u1", "Ghost", time.Now().UTC())
	assert.ErrorIs(t, r.Update(context.Background(), p), common.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, makeProperty("p1", "u1", "House", time.Now().UTC())))
	require.NoError(t, r.DeleteByID(ctx, "p1"))

	_, err := r.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, r.DeleteByID(ctx, "p1"), common.ErrNotFound)
}

func TestGetAllByUser_ScopedToOwner(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, r.Insert(ctx, makeProperty("p1", "u1", "A", now)))
	require.NoError(t, r.Insert(ctx, makeProperty("p2", "u1", "B", now)))
	require.NoError(t, r.Insert(ctx, makeProperty("p3", "u2", "C", now)))

	got, err := r.GetAllByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "u1", p.UserID)
	}
}

func TestSearch_CaseInsensitiveAcrossFields(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	lake := makeProperty("p1", "u1", "Lake House", now)
	city := makeProperty("p2", "u1", "Downtown Flat", now)
	city.Address.City = "Lakeview"
	other := makeProperty("p3", "u2", "Lake Cabin", now)
	require.NoError(t, r.Insert(ctx, lake))
	require.NoError(t, r.Insert(ctx, city))
	require.NoError(t, r.Insert(ctx, other))

	got, err := r.Search(ctx, "u1", "LAKE")
	require.NoError(t, err)

	ids := make(map[string]struct{})
	for _, p := range got {
		ids[p.ID] = struct{}{}
	}
	// matches name on p1, city on p2; p3 belongs to another user
	assert.Equal(t, map[string]struct{}{"p1": {}, "p2": {}}, ids)
}

func TestGetNeedingSync_OrderAndFilter(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)

	oldest := makeProperty("p1", "u1", "Oldest", base.Add(-2*time.Hour))
	oldest.SyncStatus = models.SyncFailed
	newest := makeProperty("p2", "u1", "Newest", base)
	synced := makeProperty("p3", "u1", "Synced", base.Add(-time.Hour))
	synced.SyncStatus = models.SyncSynced

	require.NoError(t, r.Insert(ctx, oldest))
	require.NoError(t, r.Insert(ctx, newest))
	require.NoError(t, r.Insert(ctx, synced))

	got, err := r.GetNeedingSync(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// newest-first, synced excluded
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)
	for _, p := range got {
		assert.NotEqual(t, models.SyncSynced, p.SyncStatus)
	}
}

func TestSetSyncStatus(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, makeProperty("p1", "u1", "House", time.Now().UTC())))

	require.NoError(t, r.SetSyncStatus(ctx, "p1", models.SyncSynced))
	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncSynced, got.SyncStatus)

	assert.ErrorIs(t, r.SetSyncStatus(ctx, "missing", models.SyncSynced), common.ErrNotFound)
}

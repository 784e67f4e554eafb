package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func setupStore(t *testing.T) *Store {
	s, err := New(setupTestDB(t))
	require.NoError(t, err)
	return s
}

func TestLoadFreshStore(t *testing.T) {
	s := setupStore(t)

	doc := s.Document()
	require.Len(t, doc.Takeaways, 1)
	assert.Equal(t, "Default Takeaway", doc.Takeaways[0].Name)
	assert.Equal(t, "default-takeaway", doc.Takeaways[0].Slug)
	assert.Empty(t, doc.Takeaways[0].Items)
	assert.Equal(t, doc.Takeaways[0].ID, doc.ActiveTakeawayID)
	assert.Equal(t, 2, doc.SchemaVersion)
}

func TestLoadMalformedBlob(t *testing.T) {
	testCases := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{definitely not json"},
		{name: "wrong shape", blob: `{"pizzas": []}`},
		{name: "empty takeaways", blob: `{"takeaways": []}`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			require.NoError(t, db.AutoMigrate(&Entry{}))
			require.NoError(t, db.Create(&Entry{Key: storageKey, Value: tt.blob}).Error)

			s, err := New(db)
			require.NoError(t, err)

			doc := s.Document()
			require.Len(t, doc.Takeaways, 1)
			assert.Equal(t, "Default Takeaway", doc.Takeaways[0].Name)
			assert.Empty(t, doc.Takeaways[0].Items)
		})
	}
}

func TestSavePersistsAcrossLoads(t *testing.T) {
	db := setupTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	created, err := s.CreateTakeaway("Crust Blackburn")
	require.NoError(t, err)
	assert.Equal(t, "crust-blackburn", created.Slug)

	// A second store over the same database sees the persisted document
	s2, err := New(db)
	require.NoError(t, err)
	doc := s2.Document()
	require.Len(t, doc.Takeaways, 2)
	assert.Equal(t, "Crust Blackburn", doc.Takeaways[0].Name)
	assert.Equal(t, created.ID, doc.ActiveTakeawayID)
}

func TestCreateTakeawayRequiresName(t *testing.T) {
	s := setupStore(t)

	_, err := s.CreateTakeaway("   ")
	assert.ErrorIs(t, err, models.ErrNameRequired)
	assert.Len(t, s.Document().Takeaways, 1)
}

func TestCreateTakeawaySlugCollision(t *testing.T) {
	s := setupStore(t)

	first, err := s.CreateTakeaway("Crust")
	require.NoError(t, err)
	second, err := s.CreateTakeaway("Crust")
	require.NoError(t, err)

	assert.Equal(t, "crust", first.Slug)
	assert.Equal(t, "crust-2", second.Slug)
}

func TestRenameTakeaway(t *testing.T) {
	s := setupStore(t)
	created, err := s.CreateTakeaway("Crust")
	require.NoError(t, err)

	t.Run("noop rename keeps slug", func(t *testing.T) {
		renamed, err := s.RenameTakeaway(created.ID, "Crust")
		require.NoError(t, err)
		assert.Equal(t, "crust", renamed.Slug)
	})

	t.Run("rename onto existing name gets suffix", func(t *testing.T) {
		other, err := s.CreateTakeaway("Khan")
		require.NoError(t, err)
		renamed, err := s.RenameTakeaway(other.ID, "Crust")
		require.NoError(t, err)
		assert.Equal(t, "crust-2", renamed.Slug)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.RenameTakeaway("ghost", "Anything")
		assert.ErrorIs(t, err, models.ErrTakeawayNotFound)
	})
}

func TestDeleteLastTakeawayRejected(t *testing.T) {
	s := setupStore(t)
	only := s.Document().Takeaways[0]

	err := s.DeleteTakeaway(only.ID)
	assert.ErrorIs(t, err, models.ErrLastTakeaway)
	require.Len(t, s.Document().Takeaways, 1)
	assert.Equal(t, only.ID, s.Document().Takeaways[0].ID)
}

func TestDeleteTakeawayReassignsActive(t *testing.T) {
	s := setupStore(t)
	created, err := s.CreateTakeaway("Crust")
	require.NoError(t, err)
	require.Equal(t, created.ID, s.Document().ActiveTakeawayID)

	require.NoError(t, s.DeleteTakeaway(created.ID))
	assert.Len(t, s.Document().Takeaways, 1)
	assert.Equal(t, s.Document().Takeaways[0].ID, s.Document().ActiveTakeawayID)
}

func TestActiveTakeawayFallbackPersists(t *testing.T) {
	db := setupTestDB(t)
	s, err := New(db)
	require.NoError(t, err)

	// Simulate a dangling active id left behind by older data
	s.Document().ActiveTakeawayID = "ghost"

	active := s.ActiveTakeaway()
	require.NotNil(t, active)
	assert.Equal(t, s.Document().Takeaways[0].ID, active.ID)

	// The fallback choice was persisted, not just patched in memory
	s2, err := New(db)
	require.NoError(t, err)
	assert.Equal(t, active.ID, s2.Document().ActiveTakeawayID)
}

func TestSetActiveTakeaway(t *testing.T) {
	s := setupStore(t)
	original := s.Document().Takeaways[0]
	created, err := s.CreateTakeaway("Crust")
	require.NoError(t, err)
	require.Equal(t, created.ID, s.Document().ActiveTakeawayID)

	require.NoError(t, s.SetActiveTakeaway(original.ID))
	assert.Equal(t, original.ID, s.Document().ActiveTakeawayID)

	err = s.SetActiveTakeaway("ghost")
	assert.ErrorIs(t, err, models.ErrTakeawayNotFound)
	assert.Equal(t, original.ID, s.Document().ActiveTakeawayID)
}

func TestResetTakeawayClearsItemsOnly(t *testing.T) {
	s := setupStore(t)
	tw := s.Document().FindTakeaway(s.Document().ActiveTakeawayID)
	tw.Items = []models.Item{{ID: "i1", Name: "Chicken Burger"}}
	require.NoError(t, s.Save())

	require.NoError(t, s.ResetTakeaway(tw.ID))
	assert.Empty(t, s.Document().Takeaways[0].Items)
	assert.Equal(t, "Default Takeaway", s.Document().Takeaways[0].Name)
}

func TestPINLifecycle(t *testing.T) {
	s := setupStore(t)

	// Disabled lock always unlocks
	assert.True(t, s.CheckPIN(""))
	assert.True(t, s.CheckPIN("anything"))

	require.NoError(t, s.SetPIN("1234"))
	assert.True(t, s.CheckPIN("1234"))
	assert.True(t, s.CheckPIN(" 1234 "))
	assert.False(t, s.CheckPIN("9999"))

	assert.ErrorIs(t, s.SetPIN("  "), models.ErrPINRequired)

	require.NoError(t, s.DisablePIN())
	assert.True(t, s.CheckPIN(""))
}

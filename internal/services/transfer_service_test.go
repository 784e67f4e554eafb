package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
)

func TestBackupRoundTripIsLossFree(t *testing.T) {
	st := newTestStore(t)
	items := NewItemService(st)
	svc := NewTransferService(st)

	crust, err := st.CreateTakeaway("Crust")
	require.NoError(t, err)
	_, err = st.SetBusinessName(crust.ID, "Crust Blackburn Ltd")
	require.NoError(t, err)
	_, err = items.AddItem(crust.ID, models.ItemFields{
		Name:      "Chicken Burger",
		Category:  "Burgers",
		Allergens: map[string]bool{"eggs": true, "milk": true},
	})
	require.NoError(t, err)
	require.NoError(t, st.SetPIN("1234"))

	exported, err := svc.ExportBackup()
	require.NoError(t, err)

	// Restore into a fresh store and export again: every persisted field
	// must survive the trip
	st2 := newTestStore(t)
	svc2 := NewTransferService(st2)
	require.NoError(t, svc2.ImportBackup(exported))

	reExported, err := svc2.ExportBackup()
	require.NoError(t, err)
	assert.JSONEq(t, exported, reExported)
}

func TestImportBackupRejectsGarbage(t *testing.T) {
	st := newTestStore(t)
	svc := NewTransferService(st)
	before, err := svc.ExportBackup()
	require.NoError(t, err)

	testCases := []struct {
		name string
		text string
	}{
		{name: "not json", text: "{nope"},
		{name: "no takeaways key", text: `{"menus": []}`},
		{name: "takeaways wrong type", text: `{"takeaways": 42}`},
		{name: "empty takeaways", text: `{"takeaways": []}`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ImportBackup(tt.text)
			require.Error(t, err)

			// The current document is untouched
			after, exportErr := svc.ExportBackup()
			require.NoError(t, exportErr)
			assert.JSONEq(t, before, after)
		})
	}
}

func TestImportBackupReplacesWholeDocument(t *testing.T) {
	st := newTestStore(t)
	items := NewItemService(st)
	svc := NewTransferService(st)
	_, err := items.AddItem(activeID(st), models.ItemFields{Name: "Will Vanish"})
	require.NoError(t, err)

	backup := `{
		"activeTakeawayId": "t1",
		"takeaways": [
			{"id": "t1", "slug": "crust", "name": "Crust", "items": [
				{"id": "i1", "name": "Burger", "allergens": {"milk": true}}
			]}
		]
	}`
	require.NoError(t, svc.ImportBackup(backup))

	doc := st.Document()
	require.Len(t, doc.Takeaways, 1)
	assert.Equal(t, "Crust", doc.Takeaways[0].Name)
	assert.Equal(t, "t1", doc.ActiveTakeawayID)
	require.Len(t, doc.Takeaways[0].Items, 1)
	assert.Equal(t, "Burger", doc.Takeaways[0].Items[0].Name)
}

func TestImportBackupAcceptsLegacyMapShape(t *testing.T) {
	st := newTestStore(t)
	svc := NewTransferService(st)

	backup := `{
		"version": 2,
		"selectedTakeawayId": "b",
		"takeawaysOrder": ["b", "a"],
		"takeaways": {
			"a": {"id": "a", "slug": "khan", "name": "Khan", "items": []},
			"b": {"id": "b", "slug": "crust", "name": "Crust", "items": []}
		},
		"pin": {"enabled": true, "value": "1234"}
	}`
	require.NoError(t, svc.ImportBackup(backup))

	doc := st.Document()
	require.Len(t, doc.Takeaways, 2)
	// takeawaysOrder decides the sequence
	assert.Equal(t, "crust", doc.Takeaways[0].Slug)
	assert.Equal(t, "khan", doc.Takeaways[1].Slug)
	assert.Equal(t, "b", doc.ActiveTakeawayID)
	assert.True(t, st.CheckPIN("1234"))
}

func TestImportBackupNormalizes(t *testing.T) {
	st := newTestStore(t)
	svc := NewTransferService(st)

	backup := `{
		"takeaways": [
			{"name": "  No Slug  ", "items": [
				{"name": "  Kept  "},
				{"name": "   "},
				{"name": ""}
			]},
			{"name": "No Slug", "items": []}
		]
	}`
	require.NoError(t, svc.ImportBackup(backup))

	doc := st.Document()
	require.Len(t, doc.Takeaways, 2)

	first, second := doc.Takeaways[0], doc.Takeaways[1]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "no-slug", first.Slug)
	// The second takeaway slugifies to the same value and gets a suffix
	assert.Equal(t, "no-slug-2", second.Slug)

	// Empty-name items are dropped, fields coerced to defaults
	require.Len(t, first.Items, 1)
	assert.Equal(t, "Kept", first.Items[0].Name)
	assert.NotEmpty(t, first.Items[0].ID)
	assert.False(t, first.Items[0].CreatedAt.IsZero())
	assert.False(t, first.Items[0].Allergens["milk"])

	// A dangling active pointer falls back to the first takeaway
	assert.Equal(t, first.ID, doc.ActiveTakeawayID)
}

func TestPublicViewStripsOwnerFields(t *testing.T) {
	st := newTestStore(t)
	items := NewItemService(st)
	svc := NewTransferService(st)

	crust, err := st.CreateTakeaway("Crust")
	require.NoError(t, err)
	_, err = st.SetBusinessName(crust.ID, "Crust Blackburn")
	require.NoError(t, err)
	_, err = items.AddItem(crust.ID, models.ItemFields{
		Name:      "Chicken Burger",
		Allergens: map[string]bool{"eggs": true, "milk": true},
	})
	require.NoError(t, err)
	require.NoError(t, st.SetPIN("1234"))

	view := svc.PublicView()
	assert.False(t, view.GeneratedAt.IsZero())
	assert.Len(t, view.Allergens, 14)
	require.Len(t, view.Takeaways, 2)

	crustView := view.Takeaways[0]
	assert.Equal(t, "crust", crustView.Slug)
	// The business name override is what customers see
	assert.Equal(t, "Crust Blackburn", crustView.Name)
	require.Len(t, crustView.Items, 1)
	// Allergen flags reduce to the true keys in catalog order
	assert.Equal(t, []string{"eggs", "milk"}, crustView.Items[0].Allergens)

	// Nothing owner-only leaks into the serialized artifact
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	lower := strings.ToLower(string(raw))
	assert.NotContains(t, lower, "pin")
	assert.NotContains(t, lower, "1234")
	assert.NotContains(t, lower, crust.ID)
}

func TestPublicTakeawayBySlug(t *testing.T) {
	st := newTestStore(t)
	svc := NewTransferService(st)

	got, err := svc.PublicTakeaway("default-takeaway")
	require.NoError(t, err)
	assert.Equal(t, "Default Takeaway", got.Name)
	assert.Empty(t, got.Items)

	_, err = svc.PublicTakeaway("ghost")
	assert.ErrorIs(t, err, models.ErrTakeawayNotFound)
}

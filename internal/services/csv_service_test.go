package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
)

const expectedItemHeader = "name,category,ingredients,note," +
	"celery,gluten,crustaceans,eggs,fish,lupin,milk,molluscs,mustard,nuts,peanuts,sesame,soya,sulphites"

func TestExportItemsHeader(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	csv, err := svc.ExportItems(activeID(st))
	require.NoError(t, err)
	assert.Equal(t, expectedItemHeader, csv)
}

func TestExportItemsAllergenCells(t *testing.T) {
	st := newTestStore(t)
	items := NewItemService(st)
	svc := NewCSVService(st)

	_, err := items.AddItem(activeID(st), models.ItemFields{
		Name:      "Chicken Burger",
		Allergens: map[string]bool{"eggs": true, "milk": true},
	})
	require.NoError(t, err)

	csv, err := svc.ExportItems(activeID(st))
	require.NoError(t, err)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 2)
	header := strings.Split(lines[0], ",")
	row := strings.Split(lines[1], ",")
	require.Len(t, row, len(header))

	for i, col := range header {
		switch col {
		case "eggs", "milk":
			assert.Equal(t, "1", row[i], "column %s", col)
		case "name":
			assert.Equal(t, "Chicken Burger", row[i])
		case "category", "ingredients", "note":
			assert.Equal(t, "", row[i])
		default:
			assert.Equal(t, "0", row[i], "column %s", col)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	st := newTestStore(t)
	items := NewItemService(st)
	svc := NewCSVService(st)
	source := activeID(st)

	_, err := items.AddItem(source, models.ItemFields{
		Name:        "Chicken Burger",
		Category:    "Burgers",
		Ingredients: "chicken, bun, mayo",
		Note:        `extra "spicy"`,
		Allergens:   map[string]bool{"eggs": true, "milk": true},
	})
	require.NoError(t, err)

	csv, err := svc.ExportItems(source)
	require.NoError(t, err)

	// Import into a fresh empty takeaway
	target, err := st.CreateTakeaway("Fresh")
	require.NoError(t, err)
	count, err := svc.ImportItems(target.ID, csv)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got := st.Document().FindTakeaway(target.ID).Items
	require.Len(t, got, 1)
	assert.Equal(t, "Chicken Burger", got[0].Name)
	assert.Equal(t, "Burgers", got[0].Category)
	assert.Equal(t, "chicken, bun, mayo", got[0].Ingredients)
	assert.Equal(t, `extra "spicy"`, got[0].Note)
	assert.True(t, got[0].Allergens["eggs"])
	assert.True(t, got[0].Allergens["milk"])
	for _, key := range models.AllergenKeys() {
		if key == "eggs" || key == "milk" {
			continue
		}
		assert.False(t, got[0].Allergens[key], "allergen %s", key)
	}
}

func TestImportItemsMissingNameColumn(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	_, err := svc.ImportItems(activeID(st), "category,note\nBurgers,hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Empty(t, st.Document().Takeaways[0].Items)
}

func TestImportItemsToleratesReorderedColumns(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	csv := "milk,name,category\n1,Lassi,Drinks"
	count, err := svc.ImportItems(activeID(st), csv)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	item := st.Document().Takeaways[0].Items[0]
	assert.Equal(t, "Lassi", item.Name)
	assert.Equal(t, "Drinks", item.Category)
	assert.True(t, item.Allergens["milk"])
	assert.False(t, item.Allergens["eggs"])
}

func TestImportItemsIsAppendOnly(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)
	id := activeID(st)

	csv := "name\nPakora"
	_, err := svc.ImportItems(id, csv)
	require.NoError(t, err)
	_, err = svc.ImportItems(id, csv)
	require.NoError(t, err)

	// Single-takeaway import never merges; re-import duplicates
	assert.Len(t, st.Document().Takeaways[0].Items, 2)
}

func TestExportBulkIncludesEmptyTakeaway(t *testing.T) {
	st := newTestStore(t)
	items := NewItemService(st)
	svc := NewCSVService(st)

	crust, err := st.CreateTakeaway("Crust")
	require.NoError(t, err)
	_, err = items.AddItem(crust.ID, models.ItemFields{Name: "Chicken Burger"})
	require.NoError(t, err)

	lines := strings.Split(svc.ExportBulk(), "\n")
	// Header, one item row for crust, one blank-item row for the empty
	// default takeaway
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Crust,crust,Chicken Burger,"))
	assert.True(t, strings.HasPrefix(lines[2], "Default Takeaway,default-takeaway,,,,"))
	assert.True(t, strings.HasSuffix(lines[2], strings.Repeat(",0", 14)))
}

func TestBulkRoundTripPreservesEmptyTakeaway(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	_, err := st.CreateTakeaway("Empty Corner")
	require.NoError(t, err)
	csv := svc.ExportBulk()

	// Import into a brand-new store
	st2 := newTestStore(t)
	svc2 := NewCSVService(st2)
	result, err := svc2.ImportBulk(csv)
	require.NoError(t, err)
	// "Default Takeaway" matches the fresh store's own default by slug;
	// only "Empty Corner" is new
	assert.Equal(t, 1, result.TakeawaysCreated)
	assert.Equal(t, 0, result.ItemsCreated)

	imported := st2.Document().FindTakeawayBySlug("empty-corner")
	require.NotNil(t, imported)
	assert.Empty(t, imported.Items)
}

func TestImportBulkMissingColumn(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	_, err := svc.ImportBulk("takeaway_name,item_name\nCrust,Burger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takeaway_slug")
	// Zero partial mutation
	assert.Len(t, st.Document().Takeaways, 1)
	assert.Empty(t, st.Document().Takeaways[0].Items)
}

func TestImportBulkUpsertIdempotence(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	csv := strings.Join([]string{
		"takeaway_name,takeaway_slug,item_name,category,milk",
		"Crust,crust,Chicken Burger,Burgers,1",
		"Crust,crust,Fish & Chips,Mains,0",
	}, "\n")

	first, err := svc.ImportBulk(csv)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TakeawaysCreated)
	assert.Equal(t, 2, first.ItemsCreated)
	assert.Equal(t, 0, first.ItemsUpdated)

	second, err := svc.ImportBulk(csv)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TakeawaysCreated)
	assert.Equal(t, 0, second.ItemsCreated)
	assert.Equal(t, 2, second.ItemsUpdated)

	crust := st.Document().FindTakeawayBySlug("crust")
	require.NotNil(t, crust)
	require.Len(t, crust.Items, 2)
	assert.True(t, crust.Items[0].Allergens["milk"] || crust.Items[1].Allergens["milk"])
}

func TestImportBulkUpdatesByNormalizedName(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	_, err := svc.ImportBulk("takeaway_name,takeaway_slug,item_name,category\nCrust,crust,Chicken Burger,Burgers")
	require.NoError(t, err)

	// Same item under a differently-spaced, differently-cased name
	result, err := svc.ImportBulk("takeaway_name,takeaway_slug,item_name,category\nCrust,crust,  chicken   BURGER ,Grill")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsUpdated)
	assert.Equal(t, 0, result.ItemsCreated)

	crust := st.Document().FindTakeawayBySlug("crust")
	require.Len(t, crust.Items, 1)
	assert.Equal(t, "chicken   BURGER", crust.Items[0].Name)
	assert.Equal(t, "Grill", crust.Items[0].Category)
}

func TestImportBulkEmptySlugGroupsByName(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	csv := strings.Join([]string{
		"takeaway_name,takeaway_slug,item_name",
		"Spice Corner,,Veg Curry",
		"Spice Corner,,Lamb Karahi",
	}, "\n")

	result, err := svc.ImportBulk(csv)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TakeawaysCreated)
	assert.Equal(t, 2, result.ItemsCreated)

	spice := st.Document().FindTakeawayBySlug("spice-corner")
	require.NotNil(t, spice)
	assert.Len(t, spice.Items, 2)
}

func TestImportBulkSkipsRowsWithoutTakeawayName(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	csv := strings.Join([]string{
		"takeaway_name,takeaway_slug,item_name",
		",orphan,Lost Item",
		"Crust,,Burger",
	}, "\n")

	result, err := svc.ImportBulk(csv)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TakeawaysCreated)
	assert.Equal(t, 1, result.ItemsCreated)
	assert.Nil(t, st.Document().FindTakeawayBySlug("orphan"))
}

func TestImportBulkNewTakeawaysGoFirst(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	csv := strings.Join([]string{
		"takeaway_name,takeaway_slug,item_name",
		"Alpha,,A Dish",
		"Beta,,B Dish",
	}, "\n")
	_, err := svc.ImportBulk(csv)
	require.NoError(t, err)

	doc := st.Document()
	require.Len(t, doc.Takeaways, 3)
	assert.Equal(t, "beta", doc.Takeaways[0].Slug)
	assert.Equal(t, "alpha", doc.Takeaways[1].Slug)
	assert.Equal(t, "default-takeaway", doc.Takeaways[2].Slug)
}

func TestTemplates(t *testing.T) {
	st := newTestStore(t)
	svc := NewCSVService(st)

	items := svc.ItemsTemplate()
	assert.True(t, strings.HasPrefix(items, expectedItemHeader+"\n"))
	assert.Contains(t, items, "Chicken Burger")

	bulk := svc.BulkTemplate()
	assert.True(t, strings.HasPrefix(bulk, "takeaway_name,takeaway_slug,item_name,"))
	assert.Contains(t, bulk, "crust-blackburn")

	// The bulk template is importable as-is
	result, err := svc.ImportBulk(bulk)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TakeawaysCreated)
	assert.Equal(t, 3, result.ItemsCreated)
}

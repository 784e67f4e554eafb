package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jaffery572/allergen-matrix-api/internal/metrics"
	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/slug"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// BulkImportResult summarizes what a bulk CSV import did
type BulkImportResult struct {
	TakeawaysCreated int `json:"takeawaysCreated"`
	ItemsCreated     int `json:"itemsCreated"`
	ItemsUpdated     int `json:"itemsUpdated"`
}

// CSVService moves item lists in and out of the store as CSV text, both for a
// single takeaway and in bulk across all takeaways
type CSVService interface {
	// ExportItems renders one takeaway's items as CSV
	ExportItems(takeawayID string) (string, error)
	// ImportItems appends every data row of the CSV as a new item and
	// returns how many were imported
	ImportItems(takeawayID, text string) (int, error)
	// ExportBulk renders all takeaways as one bulk CSV
	ExportBulk() string
	// ImportBulk upserts items across takeaways, creating unseen takeaways
	ImportBulk(text string) (BulkImportResult, error)
	// ItemsTemplate returns a starter CSV for the single-takeaway format
	ItemsTemplate() string
	// BulkTemplate returns a starter CSV for the bulk format
	BulkTemplate() string
}

// csvService is the implementation of the CSVService interface
type csvService struct {
	store *store.Store
}

// NewCSVService creates a new instance of CSVService
func NewCSVService(st *store.Store) CSVService {
	return &csvService{store: st}
}

// itemHeader is the single-takeaway header: fixed fields then the allergen
// keys in catalog order
func itemHeader() []string {
	return append([]string{"name", "category", "ingredients", "note"}, models.AllergenKeys()...)
}

// bulkHeader prefixes the takeaway-identifying pair of columns
func bulkHeader() []string {
	return append([]string{"takeaway_name", "takeaway_slug", "item_name", "category", "ingredients", "note"}, models.AllergenKeys()...)
}

// allergenCells renders an item's allergen flags as 1/0 cells in catalog
// order, regardless of how the stored map is keyed
func allergenCells(item models.Item) []string {
	cells := make([]string, 0, 14)
	for _, key := range models.AllergenKeys() {
		if item.Allergens[key] {
			cells = append(cells, "1")
		} else {
			cells = append(cells, "0")
		}
	}
	return cells
}

// rowAllergens reads an item's allergen flags from a data row. A missing
// column reads as false.
func rowAllergens(row []string, idx map[string]int) map[string]bool {
	out := make(map[string]bool, 14)
	for _, key := range models.AllergenKeys() {
		j, ok := idx[key]
		out[key] = ok && cell(row, j) == "1"
	}
	return out
}

func column(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

func (s *csvService) ExportItems(takeawayID string) (string, error) {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return "", err
	}
	rows := [][]string{itemHeader()}
	for _, item := range t.Items {
		row := []string{item.Name, item.Category, item.Ingredients, item.Note}
		rows = append(rows, append(row, allergenCells(item)...))
	}
	return writeCSV(rows), nil
}

func (s *csvService) ImportItems(takeawayID, text string) (int, error) {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return 0, err
	}
	rows := parseCSV(text)
	if len(rows) == 0 {
		return 0, errors.New("CSV file is empty")
	}
	idx := headerIndex(rows[0])
	if _, ok := idx["name"]; !ok {
		return 0, errors.New("CSV missing required column: name")
	}

	now := time.Now().UTC()
	var imported []models.Item
	for _, row := range rows[1:] {
		name := cell(row, idx["name"])
		if name == "" {
			continue
		}
		imported = append(imported, models.Item{
			ID:          uuid.NewString(),
			Name:        name,
			Category:    cell(row, column(idx, "category")),
			Ingredients: cell(row, column(idx, "ingredients")),
			Note:        cell(row, column(idx, "note")),
			Allergens:   rowAllergens(row, idx),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if len(imported) == 0 {
		return 0, errors.New("no items found in CSV")
	}

	// Every row becomes a new item, prepended as a block in file order
	t.Items = append(imported, t.Items...)
	if err := s.store.Touch(t); err != nil {
		return 0, err
	}
	metrics.ItemsImported.WithLabelValues("single").Add(float64(len(imported)))
	log.WithFields(logrus.Fields{
		"takeaway": t.Slug,
		"items":    len(imported),
	}).Info("CSV import applied")
	return len(imported), nil
}

func (s *csvService) ExportBulk() string {
	rows := [][]string{bulkHeader()}
	for _, t := range s.store.Document().Takeaways {
		for _, item := range t.Items {
			row := []string{t.Name, t.Slug, item.Name, item.Category, item.Ingredients, item.Note}
			rows = append(rows, append(row, allergenCells(item)...))
		}
		// A takeaway with no items still gets one blank-item row so it
		// survives the round trip
		if len(t.Items) == 0 {
			row := []string{t.Name, t.Slug, "", "", "", ""}
			for range models.AllergenKeys() {
				row = append(row, "0")
			}
			rows = append(rows, row)
		}
	}
	return writeCSV(rows)
}

func (s *csvService) ImportBulk(text string) (BulkImportResult, error) {
	var result BulkImportResult

	rows := parseCSV(text)
	if len(rows) == 0 {
		return result, errors.New("CSV file is empty")
	}
	idx := headerIndex(rows[0])
	for _, required := range []string{"takeaway_name", "takeaway_slug", "item_name"} {
		if _, ok := idx[required]; !ok {
			return result, fmt.Errorf("bulk CSV missing required column: %s", required)
		}
	}

	// The import works on a clone and commits at the end, so a bad file can
	// never leave the live document half-written.
	candidate := s.store.Document().Clone()
	bySlug := make(map[string]*models.Takeaway, len(candidate.Takeaways))
	for i := range candidate.Takeaways {
		bySlug[candidate.Takeaways[i].Slug] = &candidate.Takeaways[i]
	}
	var created []*models.Takeaway

	now := time.Now().UTC()
	for _, row := range rows[1:] {
		twName := cell(row, idx["takeaway_name"])
		if twName == "" {
			continue
		}
		desired := cell(row, idx["takeaway_slug"])
		if desired == "" {
			desired = twName
		}
		resolved := slug.Slugify(desired)

		tw := bySlug[resolved]
		if tw == nil {
			tw = &models.Takeaway{
				ID:        uuid.NewString(),
				Name:      twName,
				Slug:      resolved,
				CreatedAt: now,
				UpdatedAt: now,
				Items:     []models.Item{},
			}
			bySlug[resolved] = tw
			created = append(created, tw)
			result.TakeawaysCreated++
		}

		// A row with no item name still creates the takeaway above, so an
		// empty takeaway round-trips through bulk export and import
		itemName := cell(row, idx["item_name"])
		if itemName == "" {
			continue
		}

		key := normalizeItemName(itemName)
		var target *models.Item
		for i := range tw.Items {
			if normalizeItemName(tw.Items[i].Name) == key {
				target = &tw.Items[i]
				break
			}
		}

		if target != nil {
			target.Name = itemName
			target.Category = cell(row, column(idx, "category"))
			target.Ingredients = cell(row, column(idx, "ingredients"))
			target.Note = cell(row, column(idx, "note"))
			target.Allergens = rowAllergens(row, idx)
			target.UpdatedAt = now
			result.ItemsUpdated++
		} else {
			item := models.Item{
				ID:          uuid.NewString(),
				Name:        itemName,
				Category:    cell(row, column(idx, "category")),
				Ingredients: cell(row, column(idx, "ingredients")),
				Note:        cell(row, column(idx, "note")),
				Allergens:   rowAllergens(row, idx),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			tw.Items = append([]models.Item{item}, tw.Items...)
			result.ItemsCreated++
		}
		tw.UpdatedAt = now
	}

	// Newly created takeaways go to the front in most-recent-first order
	if len(created) > 0 {
		merged := make([]models.Takeaway, 0, len(candidate.Takeaways)+len(created))
		for i := len(created) - 1; i >= 0; i-- {
			merged = append(merged, *created[i])
		}
		merged = append(merged, candidate.Takeaways...)
		candidate.Takeaways = merged
	}

	if err := s.store.Replace(candidate); err != nil {
		return BulkImportResult{}, err
	}
	metrics.ItemsImported.WithLabelValues("bulk_created").Add(float64(result.ItemsCreated))
	metrics.ItemsImported.WithLabelValues("bulk_updated").Add(float64(result.ItemsUpdated))
	metrics.TakeawaysCreated.WithLabelValues("bulk_import").Add(float64(result.TakeawaysCreated))
	log.WithFields(logrus.Fields{
		"takeaways_created": result.TakeawaysCreated,
		"items_created":     result.ItemsCreated,
		"items_updated":     result.ItemsUpdated,
	}).Info("Bulk CSV import applied")
	return result, nil
}

func (s *csvService) ItemsTemplate() string {
	sample := models.Item{
		Name:        "Chicken Burger",
		Category:    "Burgers",
		Ingredients: "chicken, bun, mayo",
		Allergens:   map[string]bool{"gluten": true, "eggs": true, "milk": true},
	}
	row := []string{sample.Name, sample.Category, sample.Ingredients, sample.Note}
	return writeCSV([][]string{itemHeader(), append(row, allergenCells(sample)...)})
}

func (s *csvService) BulkTemplate() string {
	samples := []struct {
		takeaway string
		item     models.Item
	}{
		{"Crust Blackburn", models.Item{Name: "Chicken Burger", Category: "Burgers", Ingredients: "chicken, bun, mayo", Allergens: map[string]bool{"gluten": true, "eggs": true, "milk": true}}},
		{"Crust Blackburn", models.Item{Name: "Fish & Chips", Category: "Mains", Ingredients: "fish, potato", Allergens: map[string]bool{"fish": true}}},
		{"Khan Takeaway", models.Item{Name: "Veg Curry", Category: "Mains", Ingredients: "veg, spices", Allergens: map[string]bool{"soya": true}}},
	}
	rows := [][]string{bulkHeader()}
	for _, s := range samples {
		row := []string{s.takeaway, slug.Slugify(s.takeaway), s.item.Name, s.item.Category, s.item.Ingredients, s.item.Note}
		rows = append(rows, append(row, allergenCells(s.item)...))
	}
	return writeCSV(rows)
}

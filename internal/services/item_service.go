package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

// Sort modes accepted by ListItems
const (
	SortNewest       = "newest"
	SortAlphabetical = "alphabetical"
	SortCategory     = "category"
)

// ItemService provides CRUD and query operations scoped to one takeaway's
// item list
type ItemService interface {
	// AddItem creates a new item at the front of the takeaway's list
	AddItem(takeawayID string, fields models.ItemFields) (models.Item, error)
	// UpdateItem merges the provided fields into an existing item
	UpdateItem(takeawayID, itemID string, fields models.ItemFields) (models.Item, error)
	// DeleteItem removes an item from the takeaway
	DeleteItem(takeawayID, itemID string) error
	// ListItems returns a filtered, sorted view of the takeaway's items
	ListItems(takeawayID, query, sortMode string) ([]models.Item, error)
}

// itemService is the implementation of the ItemService interface
type itemService struct {
	store *store.Store
}

// NewItemService creates a new instance of ItemService
func NewItemService(st *store.Store) ItemService {
	return &itemService{store: st}
}

func (s *itemService) AddItem(takeawayID string, fields models.ItemFields) (models.Item, error) {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return models.Item{}, err
	}
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return models.Item{}, models.ErrNameRequired
	}

	now := time.Now().UTC()
	item := models.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    strings.TrimSpace(fields.Category),
		Ingredients: strings.TrimSpace(fields.Ingredients),
		Note:        strings.TrimSpace(fields.Note),
		Allergens:   models.NormalizeAllergens(fields.Allergens),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// Most-recent-first display order
	t.Items = append([]models.Item{item}, t.Items...)
	if err := s.store.Touch(t); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

func (s *itemService) UpdateItem(takeawayID, itemID string, fields models.ItemFields) (models.Item, error) {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return models.Item{}, err
	}
	item := t.FindItem(itemID)
	if item == nil {
		return models.Item{}, models.ErrItemNotFound
	}
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return models.Item{}, models.ErrNameRequired
	}

	item.Name = name
	item.Category = strings.TrimSpace(fields.Category)
	item.Ingredients = strings.TrimSpace(fields.Ingredients)
	item.Note = strings.TrimSpace(fields.Note)
	if fields.Allergens != nil {
		item.Allergens = models.NormalizeAllergens(fields.Allergens)
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.Touch(t); err != nil {
		return models.Item{}, err
	}
	return *item, nil
}

func (s *itemService) DeleteItem(takeawayID, itemID string) error {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return err
	}
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			t.Items = append(t.Items[:i], t.Items[i+1:]...)
			return s.store.Touch(t)
		}
	}
	return models.ErrItemNotFound
}

func (s *itemService) ListItems(takeawayID, query, sortMode string) ([]models.Item, error) {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return nil, err
	}
	return SortItems(Search(t, query), sortMode), nil
}

// Search returns the items matching the query with a case-insensitive
// substring match over name, category and ingredients. The stored order is
// preserved and never mutated; an empty query matches everything.
func Search(t *models.Takeaway, query string) []models.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Item, 0, len(t.Items))
	for _, item := range t.Items {
		if q == "" ||
			strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Category), q) ||
			strings.Contains(strings.ToLower(item.Ingredients), q) {
			out = append(out, item)
		}
	}
	return out
}

// SortItems orders the given items by the requested mode: newest (UpdatedAt
// descending), alphabetical (name ascending) or category (category
// ascending). Ties keep the original order. Unknown modes sort as newest.
func SortItems(items []models.Item, mode string) []models.Item {
	switch mode {
	case SortAlphabetical:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
	case SortCategory:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Category) < strings.ToLower(items[j].Category)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		})
	}
	return items
}

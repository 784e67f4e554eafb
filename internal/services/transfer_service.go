package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaffery572/allergen-matrix-api/internal/metrics"
	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/slug"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

// TransferService handles whole-document interchange: the loss-free JSON
// backup and the read-only public projection
type TransferService interface {
	// ExportBackup serializes the entire document, every persisted field
	ExportBackup() (string, error)
	// ImportBackup fully replaces the current document with a normalized
	// copy of the backup; the current document is untouched on rejection
	ImportBackup(text string) error
	// PublicView builds the customer-facing projection of all takeaways
	PublicView() models.PublicView
	// PublicTakeaway builds the projection of one takeaway by slug
	PublicTakeaway(slugValue string) (models.PublicTakeaway, error)
}

// transferService is the implementation of the TransferService interface
type transferService struct {
	store *store.Store
}

// NewTransferService creates a new instance of TransferService
func NewTransferService(st *store.Store) TransferService {
	return &transferService{store: st}
}

func (s *transferService) ExportBackup() (string, error) {
	raw, err := json.MarshalIndent(s.store.Document(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// backupEnvelope accepts both the canonical shape and the legacy export
// format, which kept takeaways in an id-keyed object plus an order array and
// named the active pointer selectedTakeawayId.
type backupEnvelope struct {
	ActiveTakeawayID   string              `json:"activeTakeawayId"`
	SelectedTakeawayID string              `json:"selectedTakeawayId"`
	Takeaways          json.RawMessage     `json:"takeaways"`
	TakeawaysOrder     []string            `json:"takeawaysOrder"`
	PIN                *models.PINSettings `json:"pin"`
}

func (s *transferService) ImportBackup(text string) error {
	var envelope backupEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return errors.New("backup is not valid JSON")
	}
	if len(envelope.Takeaways) == 0 {
		return errors.New("backup has no takeaways collection")
	}

	takeaways, err := decodeTakeaways(envelope.Takeaways, envelope.TakeawaysOrder)
	if err != nil {
		return err
	}
	if len(takeaways) == 0 {
		return errors.New("backup contains no takeaways")
	}

	doc := &models.Document{Takeaways: normalizeTakeaways(takeaways)}

	active := envelope.ActiveTakeawayID
	if active == "" {
		active = envelope.SelectedTakeawayID
	}
	if doc.FindTakeaway(active) == nil {
		active = doc.Takeaways[0].ID
	}
	doc.ActiveTakeawayID = active
	if envelope.PIN != nil {
		doc.PIN = *envelope.PIN
	}

	if err := s.store.Replace(doc); err != nil {
		return err
	}
	metrics.TakeawaysCreated.WithLabelValues("restore").Add(float64(len(doc.Takeaways)))
	log.WithField("takeaways", len(doc.Takeaways)).Info("Backup restored")
	return nil
}

// decodeTakeaways reads the takeaways collection as either a sequence or the
// legacy id-keyed map. For the map shape the order array decides the
// sequence; map entries missing from it are appended afterwards.
func decodeTakeaways(raw json.RawMessage, order []string) ([]models.Takeaway, error) {
	var seq []models.Takeaway
	if err := json.Unmarshal(raw, &seq); err == nil {
		return seq, nil
	}

	var byID map[string]models.Takeaway
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, errors.New("backup has no recognizable takeaways collection")
	}
	out := make([]models.Takeaway, 0, len(byID))
	taken := make(map[string]bool, len(byID))
	for _, id := range order {
		if t, ok := byID[id]; ok && !taken[id] {
			out = append(out, t)
			taken[id] = true
		}
	}
	for id, t := range byID {
		if !taken[id] {
			out = append(out, t)
		}
	}
	return out, nil
}

// normalizeTakeaways re-validates restored data: fresh ids and slugs where
// absent, defaulted timestamps, items with empty names dropped, allergen maps
// rebuilt on the catalog keys.
func normalizeTakeaways(in []models.Takeaway) []models.Takeaway {
	now := time.Now().UTC()
	out := make([]models.Takeaway, 0, len(in))
	for _, t := range in {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			t.Name = "Takeaway"
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Slug == "" || slugTaken(out, t.Slug) {
			seed := t.Slug
			if seed == "" {
				seed = t.Name
			}
			t.Slug = slug.EnsureUnique(seed, t.ID, out)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = now
		}

		items := make([]models.Item, 0, len(t.Items))
		for _, item := range t.Items {
			item.Name = strings.TrimSpace(item.Name)
			if item.Name == "" {
				continue
			}
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			item.Category = strings.TrimSpace(item.Category)
			item.Ingredients = strings.TrimSpace(item.Ingredients)
			item.Note = strings.TrimSpace(item.Note)
			item.Allergens = models.NormalizeAllergens(item.Allergens)
			if item.CreatedAt.IsZero() {
				item.CreatedAt = now
			}
			if item.UpdatedAt.IsZero() {
				item.UpdatedAt = now
			}
			items = append(items, item)
		}
		t.Items = items
		out = append(out, t)
	}
	return out
}

func slugTaken(takeaways []models.Takeaway, s string) bool {
	for _, t := range takeaways {
		if t.Slug == s {
			return true
		}
	}
	return false
}

func (s *transferService) PublicView() models.PublicView {
	doc := s.store.Document()
	view := models.PublicView{
		GeneratedAt: time.Now().UTC(),
		Takeaways:   make([]models.PublicTakeaway, 0, len(doc.Takeaways)),
		Allergens:   models.Catalog(),
	}
	for i := range doc.Takeaways {
		view.Takeaways = append(view.Takeaways, projectTakeaway(&doc.Takeaways[i]))
	}
	return view
}

func (s *transferService) PublicTakeaway(slugValue string) (models.PublicTakeaway, error) {
	t := s.store.Document().FindTakeawayBySlug(slugValue)
	if t == nil {
		return models.PublicTakeaway{}, models.ErrTakeawayNotFound
	}
	return projectTakeaway(t), nil
}

// projectTakeaway strips a takeaway down to its customer-facing fields: no
// internal ids beyond the slug, no owner settings, allergen flags reduced to
// the keys marked true in catalog order.
func projectTakeaway(t *models.Takeaway) models.PublicTakeaway {
	out := models.PublicTakeaway{
		Slug:      t.Slug,
		Name:      t.DisplayName(),
		UpdatedAt: t.UpdatedAt,
		Items:     make([]models.PublicItem, 0, len(t.Items)),
	}
	for _, item := range t.Items {
		keys := make([]string, 0, 4)
		for _, key := range models.AllergenKeys() {
			if item.Allergens[key] {
				keys = append(keys, key)
			}
		}
		out.Items = append(out.Items, models.PublicItem{
			Name:        item.Name,
			Category:    item.Category,
			Ingredients: item.Ingredients,
			Note:        item.Note,
			Allergens:   keys,
		})
	}
	return out
}

// Package store owns the lifecycle of the persisted menu document: one JSON
// blob, read whole on startup and rewritten whole after every mutation.
package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jaffery572/allergen-matrix-api/internal/metrics"
	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/slug"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

const (
	// storageKey is the well-known key the document blob lives under
	storageKey = "amxb_v2"

	schemaVersion = 2

	defaultTakeawayName = "Default Takeaway"
)

// Store wraps the key/value table and the live in-memory document. It is the
// single owner of the document; services mutate through it and every mutating
// operation persists immediately.
type Store struct {
	db  *gorm.DB
	doc *models.Document
}

// New migrates the key/value table and loads the persisted document
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	s := &Store{db: db}
	s.Load()
	return s, nil
}

// DefaultDocument builds a fresh document holding exactly one empty takeaway
func DefaultDocument() *models.Document {
	now := time.Now().UTC()
	t := models.Takeaway{
		ID:        uuid.NewString(),
		Name:      defaultTakeawayName,
		Slug:      slug.Slugify(defaultTakeawayName),
		CreatedAt: now,
		UpdatedAt: now,
		Items:     []models.Item{},
	}
	return &models.Document{
		SchemaVersion:    schemaVersion,
		ActiveTakeawayID: t.ID,
		Takeaways:        []models.Takeaway{t},
	}
}

// Load reads the persisted blob. An absent, unparseable or shape-invalid blob
// is treated as "no prior data": a fresh default document is returned instead.
// Load never fails outward.
func (s *Store) Load() *models.Document {
	var entry Entry
	err := s.db.First(&entry, "key = ?", storageKey).Error
	if err == nil {
		var doc models.Document
		if jsonErr := json.Unmarshal([]byte(entry.Value), &doc); jsonErr == nil && len(doc.Takeaways) > 0 {
			doc.SchemaVersion = schemaVersion
			s.doc = &doc
			log.WithField("takeaways", len(doc.Takeaways)).Info("Loaded persisted document")
			return s.doc
		}
		log.WithField("key", storageKey).Warn("Persisted document is malformed, starting fresh")
	}
	s.doc = DefaultDocument()
	return s.doc
}

// Save serializes the full document and rewrites the blob under the fixed key
func (s *Store) Save() error {
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return err
	}
	entry := Entry{Key: storageKey, Value: string(raw)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
		return err
	}
	metrics.DocumentSaves.Inc()
	return nil
}

// Document returns the live in-memory document
func (s *Store) Document() *models.Document {
	return s.doc
}

// Replace swaps in a whole new document and persists it. Used by the backup
// restore and the bulk import, which build a full candidate before committing.
func (s *Store) Replace(doc *models.Document) error {
	doc.SchemaVersion = schemaVersion
	s.doc = doc
	return s.Save()
}

// Touch refreshes the takeaway's UpdatedAt and persists the document
func (s *Store) Touch(t *models.Takeaway) error {
	t.UpdatedAt = time.Now().UTC()
	return s.Save()
}

// FindTakeaway returns the takeaway with the given id
func (s *Store) FindTakeaway(id string) (*models.Takeaway, error) {
	if t := s.doc.FindTakeaway(id); t != nil {
		return t, nil
	}
	return nil, models.ErrTakeawayNotFound
}

// ActiveTakeaway returns the takeaway the owner is working on. If the stored
// active id no longer exists the first takeaway in stored order takes over,
// and that fallback choice is persisted.
func (s *Store) ActiveTakeaway() *models.Takeaway {
	if t := s.doc.FindTakeaway(s.doc.ActiveTakeawayID); t != nil {
		return t
	}
	first := &s.doc.Takeaways[0]
	log.WithFields(logrus.Fields{
		"dangling": s.doc.ActiveTakeawayID,
		"fallback": first.ID,
	}).Warn("Active takeaway no longer exists, falling back to first")
	s.doc.ActiveTakeawayID = first.ID
	if err := s.Save(); err != nil {
		log.WithError(err).Error("Failed to persist active takeaway fallback")
	}
	return first
}

// SetActiveTakeaway marks the given takeaway as active
func (s *Store) SetActiveTakeaway(id string) error {
	if s.doc.FindTakeaway(id) == nil {
		return models.ErrTakeawayNotFound
	}
	s.doc.ActiveTakeawayID = id
	return s.Save()
}

// CreateTakeaway adds a new takeaway with a unique slug at the front of the
// stored order and makes it active
func (s *Store) CreateTakeaway(name string) (*models.Takeaway, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrNameRequired
	}
	now := time.Now().UTC()
	t := models.Takeaway{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug.EnsureUnique(name, "", s.doc.Takeaways),
		CreatedAt: now,
		UpdatedAt: now,
		Items:     []models.Item{},
	}
	s.doc.Takeaways = append([]models.Takeaway{t}, s.doc.Takeaways...)
	s.doc.ActiveTakeawayID = t.ID
	if err := s.Save(); err != nil {
		return nil, err
	}
	metrics.TakeawaysCreated.WithLabelValues("api").Inc()
	log.WithFields(logrus.Fields{"id": t.ID, "slug": t.Slug}).Info("Takeaway created")
	return s.doc.FindTakeaway(t.ID), nil
}

// RenameTakeaway changes the display name and re-resolves the slug. Renaming
// a takeaway to its current name keeps its slug.
func (s *Store) RenameTakeaway(id, name string) (*models.Takeaway, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrNameRequired
	}
	t, err := s.FindTakeaway(id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	t.Slug = slug.EnsureUnique(name, id, s.doc.Takeaways)
	if err := s.Touch(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetBusinessName sets or clears the customer-facing name override
func (s *Store) SetBusinessName(id, businessName string) (*models.Takeaway, error) {
	t, err := s.FindTakeaway(id)
	if err != nil {
		return nil, err
	}
	t.BusinessName = strings.TrimSpace(businessName)
	if err := s.Touch(t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTakeaway removes a takeaway and all its items. Deleting the last
// remaining takeaway is rejected and leaves the store unchanged.
func (s *Store) DeleteTakeaway(id string) error {
	if len(s.doc.Takeaways) == 1 {
		return models.ErrLastTakeaway
	}
	idx := -1
	for i := range s.doc.Takeaways {
		if s.doc.Takeaways[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.ErrTakeawayNotFound
	}
	s.doc.Takeaways = append(s.doc.Takeaways[:idx], s.doc.Takeaways[idx+1:]...)
	if s.doc.ActiveTakeawayID == id {
		s.doc.ActiveTakeawayID = s.doc.Takeaways[0].ID
	}
	log.WithField("id", id).Info("Takeaway deleted")
	return s.Save()
}

// ResetTakeaway clears a takeaway's items, keeping the takeaway itself
func (s *Store) ResetTakeaway(id string) error {
	t, err := s.FindTakeaway(id)
	if err != nil {
		return err
	}
	t.Items = []models.Item{}
	return s.Touch(t)
}

// SetPIN enables the edit lock with the given value
func (s *Store) SetPIN(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.ErrPINRequired
	}
	s.doc.PIN = models.PINSettings{Enabled: true, Value: value}
	return s.Save()
}

// DisablePIN turns the edit lock off
func (s *Store) DisablePIN() error {
	s.doc.PIN = models.PINSettings{}
	return s.Save()
}

// CheckPIN reports whether the submitted pin unlocks edits. A disabled lock
// always unlocks.
func (s *Store) CheckPIN(pin string) bool {
	if !s.doc.PIN.Enabled {
		return true
	}
	return strings.TrimSpace(pin) == s.doc.PIN.Value
}

package models

import (
	"encoding/json"
	"time"
)

// Item is a single menu entry owned by exactly one takeaway
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Ingredients string          `json:"ingredients"`
	Note        string          `json:"note"`
	Allergens   map[string]bool `json:"allergens"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ItemFields carries the editable fields of an item, as accepted by the item
// service and the HTTP layer.
type ItemFields struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Ingredients string          `json:"ingredients"`
	Note        string          `json:"note"`
	Allergens   map[string]bool `json:"allergens"`
}

// Takeaway is one tenant scope: a food business with its own slug and menu.
// Items are kept in display order, newest first.
type Takeaway struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	BusinessName string    `json:"businessName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Items        []Item    `json:"items"`
}

// DisplayName returns the customer-facing name: the business name override
// when set, the takeaway name otherwise.
func (t *Takeaway) DisplayName() string {
	if t.BusinessName != "" {
		return t.BusinessName
	}
	return t.Name
}

// FindItem returns a pointer to the item with the given id, or nil
func (t *Takeaway) FindItem(id string) *Item {
	for i := range t.Items {
		if t.Items[i].ID == id {
			return &t.Items[i]
		}
	}
	return nil
}

// PINSettings is the optional owner-side edit lock. It gates edits only, not
// data visibility, and is not a security boundary.
type PINSettings struct {
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
}

// Document is the root persisted object. The whole document is read on
// startup and rewritten on every mutation. Takeaway order is stored order,
// newest first.
type Document struct {
	SchemaVersion    int         `json:"schemaVersion"`
	ActiveTakeawayID string      `json:"activeTakeawayId"`
	Takeaways        []Takeaway  `json:"takeaways"`
	PIN              PINSettings `json:"pin"`
}

// FindTakeaway returns a pointer to the takeaway with the given id, or nil
func (d *Document) FindTakeaway(id string) *Takeaway {
	for i := range d.Takeaways {
		if d.Takeaways[i].ID == id {
			return &d.Takeaways[i]
		}
	}
	return nil
}

// FindTakeawayBySlug returns a pointer to the takeaway with the given slug,
// or nil
func (d *Document) FindTakeawayBySlug(slug string) *Takeaway {
	for i := range d.Takeaways {
		if d.Takeaways[i].Slug == slug {
			return &d.Takeaways[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the document via a JSON round trip. Imports
// mutate a clone and commit it atomically so a failed import never touches
// the live document.
func (d *Document) Clone() *Document {
	raw, err := json.Marshal(d)
	if err != nil {
		return &Document{}
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return &Document{}
	}
	return &out
}

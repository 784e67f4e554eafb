package models

import "time"

// PublicItem is the customer-facing projection of an item. Allergens are the
// catalog keys marked true, in catalog order.
type PublicItem struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Ingredients string   `json:"ingredients"`
	Note        string   `json:"note"`
	Allergens   []string `json:"allergens"`
}

// PublicTakeaway is the customer-facing projection of a takeaway. It carries
// the slug but no internal ids and no owner-side settings.
type PublicTakeaway struct {
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Items     []PublicItem `json:"items"`
}

// PublicView is the read-only publication artifact consumed by the customer
// view page.
type PublicView struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Takeaways   []PublicTakeaway `json:"takeaways"`
	Allergens   []Allergen       `json:"allergens"`
}

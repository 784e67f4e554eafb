package models

// Allergen is one entry of the regulated allergen catalog
type Allergen struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// allergenCatalog lists the 14 EU/UK regulated allergens. The order is fixed
// and defines both CSV column order and display order.
var allergenCatalog = []Allergen{
	{Key: "celery", Label: "Celery"},
	{Key: "gluten", Label: "Cereals containing gluten"},
	{Key: "crustaceans", Label: "Crustaceans"},
	{Key: "eggs", Label: "Eggs"},
	{Key: "fish", Label: "Fish"},
	{Key: "lupin", Label: "Lupin"},
	{Key: "milk", Label: "Milk"},
	{Key: "molluscs", Label: "Molluscs"},
	{Key: "mustard", Label: "Mustard"},
	{Key: "nuts", Label: "Nuts"},
	{Key: "peanuts", Label: "Peanuts"},
	{Key: "sesame", Label: "Sesame"},
	{Key: "soya", Label: "Soya"},
	{Key: "sulphites", Label: "Sulphur dioxide / sulphites"},
}

// Catalog returns a copy of the allergen catalog in declaration order
func Catalog() []Allergen {
	out := make([]Allergen, len(allergenCatalog))
	copy(out, allergenCatalog)
	return out
}

// AllergenKeys returns the catalog keys in catalog order
func AllergenKeys() []string {
	keys := make([]string, len(allergenCatalog))
	for i, a := range allergenCatalog {
		keys[i] = a.Key
	}
	return keys
}

// NormalizeAllergens rebuilds an allergen map so that every catalog key is
// present exactly once. Keys outside the catalog are discarded, missing keys
// default to false.
func NormalizeAllergens(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(allergenCatalog))
	for _, a := range allergenCatalog {
		out[a.Key] = in[a.Key]
	}
	return out
}

package main

import (
	"flag"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/services"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

// Seeds a local database with a couple of takeaways and sample items so the
// API has something to serve during development.
func main() {
	dbPath := flag.String("db", "allergen.sqlite", "SQLite database path")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	st, err := store.New(db)
	if err != nil {
		log.Fatal("Failed to load store:", err)
	}

	if len(st.Document().Takeaways) > 1 {
		fmt.Println("Database already has takeaways, nothing to do")
		return
	}

	takeaways := []struct {
		name  string
		items []models.ItemFields
	}{
		{
			name: "Golden Dragon",
			items: []models.ItemFields{
				{Name: "Sweet and Sour Chicken", Category: "Mains", Ingredients: "Chicken, peppers, pineapple", Allergens: map[string]bool{"gluten": true, "soya": true}},
				{Name: "Prawn Crackers", Category: "Sides", Allergens: map[string]bool{"crustaceans": true}},
				{Name: "Egg Fried Rice", Category: "Rice", Allergens: map[string]bool{"eggs": true, "soya": true}},
			},
		},
		{
			name: "Crust & Co",
			items: []models.ItemFields{
				{Name: "Margherita", Category: "Pizza", Ingredients: "Tomato, mozzarella, basil", Allergens: map[string]bool{"gluten": true, "milk": true}},
				{Name: "Pepperoni", Category: "Pizza", Allergens: map[string]bool{"gluten": true, "milk": true}},
			},
		},
	}

	itemService := services.NewItemService(st)
	for _, seed := range takeaways {
		t, err := st.CreateTakeaway(seed.name)
		if err != nil {
			log.Fatal("Failed to create takeaway:", err)
		}
		for _, fields := range seed.items {
			if _, err := itemService.AddItem(t.ID, fields); err != nil {
				log.Fatal("Failed to add item:", err)
			}
		}
		fmt.Printf("Seeded %s (%s) with %d item(s)\n", t.Name, t.Slug, len(seed.items))
	}

	fmt.Println("\nTry it:")
	fmt.Println("curl http://localhost:8080/api/v1/public/menu")
}

package models

// MenuItem represents a single entry on a café's menu.
type MenuItem struct {
	ID     string `json:"id" validate:"omitempty,uuid"`
	CafeID string `json:"cafeId" validate:"required"`
	Name   string `json:"name" validate:"required,min=2,max=100"`
	// ImageURL follows the same inline-vs-external split as Cafe.ImageURL.
	ImageURL string  `json:"imageUrl,omitempty"`
	Price    float64 `json:"price" validate:"gte=0"`
	// Category is a free string. It should match one of the owning café's
	// category names but is intentionally never validated against them;
	// deleting a category leaves items pointing at the removed name.
	Category string `json:"category"`
}

// DefaultMenuCategories seeds every newly created café's category list.
func DefaultMenuCategories() []string {
	return []string{
		"Makanan Utama",
		"Makanan Ringan",
		"Minuman Panas",
		"Minuman Dingin",
		"Pencuci Mulut",
	}
}

package catalog

import "time"

type Category string

const (
	CategoryHot    Category = "hot"
	CategoryCold   Category = "cold"
	CategoryPastry Category = "pastry"
	CategorySnack  Category = "snack"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHot, CategoryCold, CategoryPastry, CategorySnack:
		return true
	}
	return false
}

type Product struct {
	ID          string `json:"id"`
	MakerID     string `json:"maker_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// NUMERIC -> string; arithmetic goes through shopspring/decimal
	Price       string    `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    Category  `json:"category"`
	IsAvailable bool      `json:"is_available"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

type Query struct {
	Q      string
	Limit  int
	Offset int
}

// Update carries the maker-editable product fields; nil leaves the column
// untouched.
type Update struct {
	Name        *string
	Description *string
	Price       *string
	Category    *Category
	IsAvailable *bool
	SortOrder   *int
}

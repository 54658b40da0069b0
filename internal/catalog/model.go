package catalog

// Product is one catalog entry as shown on the storefront.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	Category    string  `json:"category"`
}

// Sort orders accepted by Filter.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// Filter narrows and orders a catalog listing. Zero values mean "no search
// term", "all categories", and name ordering.
type Filter struct {
	Search   string
	Category string
	Sort     string
}

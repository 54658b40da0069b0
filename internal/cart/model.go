package cart

// Product is what the catalog hands to the cart when a customer picks an item.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description,omitempty"`
}

// Line is one product held in the cart. At most one line exists per product
// id; a line never carries a quantity below 1.
type Line struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
}

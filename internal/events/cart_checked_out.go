package events

import "time"

// CartCheckedOut is emitted once a checkout completes payment simulation and
// before the cart is cleared.
type CartCheckedOut struct {
	EventType   string          `json:"eventType"`
	OrderID     string          `json:"orderId"`
	Items       []CartItemEvent `json:"items"`
	TotalAmount float64         `json:"totalAmount"`
	Timestamp   time.Time       `json:"timestamp"`
}

type CartItemEvent struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

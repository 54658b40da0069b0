package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/JelipeElGuapo/safebuzz/internal/cart"
	"github.com/JelipeElGuapo/safebuzz/internal/events"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// EventPublisher emits the checkout event downstream.
type EventPublisher interface {
	PublishCartCheckedOut(ctx context.Context, ev events.CartCheckedOut) error
}

// Receipt is what the customer gets back after a completed checkout.
type Receipt struct {
	OrderID     string      `json:"orderId"`
	Items       []cart.Line `json:"items"`
	Total       float64     `json:"total"`
	PaymentLink string      `json:"paymentLink"`
}

// Service runs the checkout flow: simulate payment processing, publish the
// checkout event, clear the cart, and hand back the external payment link.
type Service struct {
	cart      *cart.Store
	publisher EventPublisher
	delay     time.Duration
	waNumber  string
	logger    *log.Logger
}

func NewService(c *cart.Store, publisher EventPublisher, delay time.Duration, waNumber string, logger *log.Logger) *Service {
	return &Service{cart: c, publisher: publisher, delay: delay, waNumber: waNumber, logger: logger}
}

// Process completes the checkout. There is no real payment backend: the delay
// stands in for the processing round trip, and settlement happens out-of-band
// through the returned messaging link. A failed event publish aborts the
// checkout and leaves the cart intact.
func (s *Service) Process(ctx context.Context) (*Receipt, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	total := s.cart.Total()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	orderID := uuid.NewString()

	ev := events.CartCheckedOut{
		OrderID:     orderID,
		TotalAmount: total,
		Timestamp:   time.Now().UTC(),
	}
	for _, l := range items {
		ev.Items = append(ev.Items, events.CartItemEvent{
			ProductID: l.ID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}

	if err := s.publisher.PublishCartCheckedOut(ctx, ev); err != nil {
		return nil, fmt.Errorf("publish cart checked out: %w", err)
	}

	s.cart.Clear()
	s.logger.Printf("checkout: order %s completed, total %.2f", orderID, total)

	return &Receipt{
		OrderID:     orderID,
		Items:       items,
		Total:       total,
		PaymentLink: PaymentLink(s.waNumber, items),
	}, nil
}

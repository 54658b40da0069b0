package cart

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"github.com/JelipeElGuapo/safebuzz/internal/state"
)

// SlotName is the fixed key the cart serializes itself under.
const SlotName = "safebuzz-cart"

const persistTimeout = 3 * time.Second

type persistedCart struct {
	Items []Line `json:"items"`
}

// Store holds the authoritative in-memory cart. Mutations are atomic with
// respect to each other; each mutation writes the full serialized state to
// the slot best-effort (a failed write is logged and never surfaced).
type Store struct {
	mu     sync.Mutex
	items  []Line
	slot   state.Slot
	logger *log.Logger
}

// NewStore builds a cart hydrated from the slot. A missing or unreadable
// payload starts the cart empty.
func NewStore(slot state.Slot, logger *log.Logger) *Store {
	s := &Store{slot: slot, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, err := slot.Load(ctx, SlotName)
	if err != nil {
		logger.Printf("cart: hydrate failed: %v", err)
		return s
	}
	if data == nil {
		return s
	}

	var saved persistedCart
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.Printf("cart: discard corrupt state: %v", err)
		return s
	}
	s.items = saved.Items
	return s
}

// Add increments the quantity of an existing line for the product, or appends
// a new line with quantity 1. Insertion order is preserved for new lines.
func (s *Store) Add(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			s.persistLocked()
			return
		}
	}

	s.items = append(s.items, Line{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Quantity:    1,
	})
	s.persistLocked()
}

// UpdateQuantity sets the line's quantity to q exactly. A quantity of zero or
// below removes the line. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(id, q int) {
	if q <= 0 {
		s.Remove(id)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = q
			s.persistLocked()
			return
		}
	}
}

// Remove deletes the line for the product if present; no-op otherwise.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked()
}

// Items returns a copy of the current lines in display order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.items))
	copy(out, s.items)
	return out
}

// Total recomputes the cart total on every call. The sum is taken first and
// rounded to 2 decimals once, so per-line rounding drift cannot accumulate.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := 0.0
	for _, l := range s.items {
		sum += l.Price * float64(l.Quantity)
	}
	return math.Round(sum*100) / 100
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(persistedCart{Items: s.items})
	if err != nil {
		s.logger.Printf("cart: marshal state: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.slot.Save(ctx, SlotName, data); err != nil {
		s.logger.Printf("cart: persist failed: %v", err)
	}
}

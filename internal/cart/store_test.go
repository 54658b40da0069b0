package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/JelipeElGuapo/safebuzz/internal/state"
)

func newTestStore(t *testing.T) (*Store, *state.MemorySlot) {
	t.Helper()
	slot := state.NewMemorySlot()
	return NewStore(slot, log.New(io.Discard, "", 0)), slot
}

// failingSlot rejects every write, standing in for an unreachable backend.
type failingSlot struct{}

func (failingSlot) Load(ctx context.Context, name string) ([]byte, error) {
	return nil, nil
}

func (failingSlot) Save(ctx context.Context, name string, data []byte) error {
	return errors.New("slot unavailable")
}

func TestAddMergesSameProduct(t *testing.T) {
	s, _ := newTestStore(t)
	p := Product{ID: 1, Name: "Sistema de seguridad completo", Price: 1000}

	s.Add(p)
	s.Add(p)
	s.Add(p)

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)

	s.Add(Product{ID: 2, Name: "Alarma en tiempo real", Price: 700})
	s.Add(Product{ID: 1, Name: "Sistema de seguridad completo", Price: 1000})
	s.Add(Product{ID: 2})

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("unexpected order %+v", items)
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("absolute set", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add(Product{ID: 1, Price: 500})
		s.Add(Product{ID: 1, Price: 500})

		s.UpdateQuantity(1, 7)

		if got := s.Items()[0].Quantity; got != 7 {
			t.Fatalf("expected quantity 7, got %d", got)
		}
	})

	t.Run("zero removes the line", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add(Product{ID: 1, Price: 500})

		s.UpdateQuantity(1, 0)

		if len(s.Items()) != 0 {
			t.Fatalf("expected empty cart, got %+v", s.Items())
		}
	})

	t.Run("negative removes the line", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add(Product{ID: 1, Price: 500})

		s.UpdateQuantity(1, -3)

		if len(s.Items()) != 0 {
			t.Fatalf("expected empty cart, got %+v", s.Items())
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add(Product{ID: 1, Price: 500})

		s.UpdateQuantity(99, 4)

		items := s.Items()
		if len(items) != 1 || items[0].Quantity != 1 {
			t.Fatalf("expected state unchanged, got %+v", items)
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("deletes matching line", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add(Product{ID: 1})
		s.Add(Product{ID: 2})

		s.Remove(1)

		items := s.Items()
		if len(items) != 1 || items[0].ID != 2 {
			t.Fatalf("unexpected items %+v", items)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add(Product{ID: 1})

		s.Remove(42)

		if len(s.Items()) != 1 {
			t.Fatalf("expected state unchanged, got %+v", s.Items())
		}
	})
}

func TestTotalSumsBeforeRounding(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(Product{ID: 1, Price: 19.999})
	s.UpdateQuantity(1, 3)
	s.Add(Product{ID: 2, Price: 5.001})
	s.UpdateQuantity(2, 2)

	// 19.999*3 + 5.001*2 = 70.0 exactly; per-line rounding would give 70.0 too,
	// but sum-then-round is what keeps drift out for arbitrary prices.
	if got := s.Total(); got != 70.00 {
		t.Fatalf("expected total 70.00, got %v", got)
	}
}

func TestTotalRecomputedAfterEveryMutation(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(Product{ID: 1, Price: 1000})

	if got := s.Total(); got != 1000 {
		t.Fatalf("expected 1000, got %v", got)
	}

	s.Add(Product{ID: 2, Price: 700})
	if got := s.Total(); got != 1700 {
		t.Fatalf("expected 1700, got %v", got)
	}

	s.Remove(1)
	if got := s.Total(); got != 700 {
		t.Fatalf("expected 700, got %v", got)
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(Product{ID: 1, Price: 1000})
	s.Add(Product{ID: 2, Price: 700})

	s.Clear()

	if len(s.Items()) != 0 {
		t.Fatalf("expected empty cart, got %+v", s.Items())
	}
	if got := s.Total(); got != 0 {
		t.Fatalf("expected total 0, got %v", got)
	}
}

func TestMutationsSurviveFailedPersist(t *testing.T) {
	s := NewStore(failingSlot{}, log.New(io.Discard, "", 0))

	s.Add(Product{ID: 1, Price: 1000})
	s.Add(Product{ID: 1, Price: 1000})
	s.UpdateQuantity(1, 3)

	items := s.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected mutations applied despite failed persist, got %+v", items)
	}
	if got := s.Total(); got != 3000 {
		t.Fatalf("expected total 3000, got %v", got)
	}
}

func TestHydrateFromSlot(t *testing.T) {
	slot := state.NewMemorySlot()
	logger := log.New(io.Discard, "", 0)

	first := NewStore(slot, logger)
	first.Add(Product{ID: 3, Name: "Kit completo sin app móvil", Price: 500})
	first.UpdateQuantity(3, 2)

	second := NewStore(slot, logger)
	items := second.Items()
	if len(items) != 1 || items[0].ID != 3 || items[0].Quantity != 2 {
		t.Fatalf("expected rehydrated line, got %+v", items)
	}
	if got := second.Total(); got != 1000 {
		t.Fatalf("expected total 1000, got %v", got)
	}
}

func TestHydrateDiscardsCorruptState(t *testing.T) {
	slot := state.NewMemorySlot()
	if err := slot.Save(context.Background(), SlotName, []byte("{not json")); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	s := NewStore(slot, log.New(io.Discard, "", 0))
	if len(s.Items()) != 0 {
		t.Fatalf("expected empty cart, got %+v", s.Items())
	}
}

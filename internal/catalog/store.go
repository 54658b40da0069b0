package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")

// Store is an in-memory product catalog. Safe for concurrent reads via an
// internal RWMutex; the product set only changes through Seed.
type Store struct {
	mu       sync.RWMutex
	products []Product
}

// NewStore returns a catalog seeded with the storefront's product range.
func NewStore() *Store {
	return &Store{products: defaultProducts()}
}

// Seed replaces the catalog contents. Used by tests and fixtures.
func (s *Store) Seed(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

// Get returns the product with the given id, or ErrNotFound.
func (s *Store) Get(id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// List returns the products matching the filter, ordered per its sort key.
func (s *Store) List(f Filter) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(f.Search)

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch f.Sort {
		case SortPriceLow:
			return out[i].Price < out[j].Price
		case SortPriceHigh:
			return out[i].Price > out[j].Price
		case SortRating:
			return out[i].Rating > out[j].Rating
		default:
			return out[i].Name < out[j].Name
		}
	})

	return out
}

func defaultProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Sistema de seguridad completo",
			Price:       1000,
			Image:       "https://www.novaseguridad.com.co/wp-content/uploads/2020/11/sistema-de-seguridad-integral.jpg",
			Description: "Incluye app móvil, control desde app móvil, sensor de movimiento, alarma, desactivación remota y alerta en tiempo real desde la app.",
			Rating:      4.8,
			Reviews:     124,
			Category:    "sistemas",
		},
		{
			ID:          2,
			Name:        "Alarma en tiempo real",
			Price:       700,
			Image:       "https://soporteyatencion.es/wp-content/uploads/2024/03/importancia-del-monitoreo-de-alarmas-en-tiempo-real-beneficios.jpg",
			Description: "Alarma en tiempo real desde app móvil y alerta.",
			Rating:      4.6,
			Reviews:     89,
			Category:    "alarmas",
		},
		{
			ID:          3,
			Name:        "Kit completo sin app móvil",
			Price:       500,
			Image:       "https://androidayuda.com/wp-content/uploads/2025/05/Como-clonar-apps-en-Huawei-sin-root-5.jpg",
			Description: "Kit completo de seguridad, sin app móvil. Incluye sensor de movimiento, alarma y alerta.",
			Rating:      4.7,
			Reviews:     156,
			Category:    "kits",
		},
	}
}

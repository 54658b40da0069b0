package httpapi

import (
	"net/http"

	"github.com/JelipeElGuapo/safebuzz/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Store
}

func NewCatalogHandler(c *catalog.Store) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products := h.catalog.List(catalog.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

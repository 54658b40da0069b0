package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JelipeElGuapo/safebuzz/internal/cart"
	"github.com/JelipeElGuapo/safebuzz/internal/catalog"
)

type CartHandler struct {
	cart    *cart.Store
	catalog *catalog.Store
}

func NewCartHandler(c *cart.Store, cat *catalog.Store) *CartHandler {
	return &CartHandler{cart: c, catalog: cat}
}

type cartView struct {
	Items []cart.Line `json:"items"`
	Total float64     `json:"total"`
}

func (h *CartHandler) view() cartView {
	items := h.cart.Items()
	if items == nil {
		items = []cart.Line{}
	}
	return cartView{Items: items, Total: h.cart.Total()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	p, err := h.catalog.Get(body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	h.cart.Add(cart.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
	})

	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.cart.UpdateQuantity(id, body.Quantity)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	h.cart.Remove(id)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	writeJSON(w, http.StatusOK, h.view())
}

func productID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "productId"))
}

package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/JelipeElGuapo/safebuzz/internal/checkout"
)

type CheckoutService interface {
	Process(ctx context.Context) (*checkout.Receipt, error)
}

type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.Process(r.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

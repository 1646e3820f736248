package handler

import (
	"net/http"

	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/internal/service"
)

// PaymentHandler handles payment and subscription endpoints.
type PaymentHandler struct {
	svc *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CreateOrder handles POST /api/subscription/orders.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.svc.CreateOrder(r.Context(), UserID(r), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Verify handles POST /api/subscription/verify-payment. A replayed
// confirmation answers 200 with alreadyProcessed set; the ledger is
// credited at most once per order.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyPaymentRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.svc.Verify(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Details handles GET /api/subscription/details.
func (h *PaymentHandler) Details(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Details(r.Context(), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// History handles GET /api/subscription/payments.
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.History(r.Context(), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// Cancel handles POST /api/subscription/cancel.
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Cancel(r.Context(), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"subscription": sub})
}

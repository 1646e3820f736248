package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment is a completed-payment record. A row is written only after
// the gateway signature verified; gateway_order_id is unique, which is
// what makes verification idempotent.
type Payment struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	GatewayOrderID   string    `json:"gatewayOrderId"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Plan             string    `json:"plan"`
	Credits          int64     `json:"credits"`
	Status           string    `json:"status"`
	PaymentMethod    string    `json:"paymentMethod"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewPaymentID generates a unique payment identifier.
func NewPaymentID() string {
	return uuid.New().String()
}

// CreateOrderRequest is the input for creating a payment order.
type CreateOrderRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic premium"`
}

// CreateOrderResponse returns the gateway order the client completes
// out-of-band.
type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // in currency subunits, as charged by the gateway
	Currency string `json:"currency"`
	Plan     Plan   `json:"plan"`
}

// VerifyPaymentRequest is the signed confirmation delivered after
// checkout.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// VerifyPaymentResponse reports the outcome of a verification.
// AlreadyProcessed is true when the order had been credited before; the
// balance is not changed twice.
type VerifyPaymentResponse struct {
	Payment          *Payment `json:"payment"`
	Credits          int64    `json:"credits"`
	AlreadyProcessed bool     `json:"alreadyProcessed,omitempty"`
}

// SubscriptionDetailsResponse is the ledger view for an account.
type SubscriptionDetailsResponse struct {
	Credits      int64         `json:"credits"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

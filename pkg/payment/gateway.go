package payment

import "context"

// Order is a payment intent held by the gateway. Notes carry the
// server-written metadata that is read back at verification time; the
// amount is in currency subunits as the gateway stores it.
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// Gateway defines the interface for payment providers.
type Gateway interface {
	// CreateOrder creates a payment order with the given amount in
	// currency subunits. Notes are stored gateway-side and returned
	// verbatim by FetchOrder.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error)
	// FetchOrder returns the authoritative order for an order ID.
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
}

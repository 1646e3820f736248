package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thriveverse/backend/internal/domain"
)

// PaymentRepository handles database operations for payment records.
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// RecordCompleted writes the completed payment, credits the account and
// activates the subscription in one transaction. The insert is guarded
// by the gateway_order_id uniqueness: when the order was already
// recorded nothing is inserted, the ledger is left untouched and the
// returned boolean is false. That makes repeated submissions of the
// same confirmation safe without locking.
func (r *PaymentRepository) RecordCompleted(ctx context.Context, p *domain.Payment, sub *domain.Subscription) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO payments (
			id, user_id, gateway_order_id, gateway_payment_id, amount,
			currency, plan, credits, status, payment_method,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (gateway_order_id) DO NOTHING
	`,
		p.ID, p.UserID, p.GatewayOrderID, p.GatewayPaymentID, p.Amount,
		p.Currency, p.Plan, p.Credits, p.Status, p.PaymentMethod,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Order already credited by an earlier delivery.
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET credits = credits + $1,
		    subscription_plan = $2,
		    subscription_start = $3,
		    subscription_end = $4,
		    subscription_status = $5,
		    updated_at = NOW()
		WHERE id = $6
	`, p.Credits, sub.Plan, sub.StartDate, sub.EndDate, sub.Status, p.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to credit account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit payment: %w", err)
	}
	return true, nil
}

// FindByOrderID returns the payment recorded for a gateway order, or nil
// when absent.
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, gateway_order_id, gateway_payment_id, amount,
		       currency, plan, credits, status, payment_method,
		       created_at, updated_at
		FROM payments WHERE gateway_order_id = $1
	`, orderID)
	return scanPayment(row)
}

// ListByUser returns the account's payment history, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, gateway_order_id, gateway_payment_id, amount,
		       currency, plan, credits, status, payment_method,
		       created_at, updated_at
		FROM payments WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.UserID, &p.GatewayOrderID, &p.GatewayPaymentID, &p.Amount,
		&p.Currency, &p.Plan, &p.Credits, &p.Status, &p.PaymentMethod,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return &p, nil
}

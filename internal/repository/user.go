package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thriveverse/backend/internal/domain"
)

// UserRepository handles database operations for user accounts and
// their credit ledger.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, password, name, credits,
	subscription_plan, subscription_start, subscription_end, subscription_status,
	created_at, updated_at
`

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password, name, credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Email, u.Password, u.Name, u.Credits, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail returns a user by email address, or nil when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID returns a user by ID, or nil when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Exists checks if a user with the given email already exists.
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// CancelSubscription marks an active subscription as cancelled. It
// returns ErrRecordNotFound when the account has no active subscription.
func (r *UserRepository) CancelSubscription(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET subscription_status = $1, updated_at = NOW()
		WHERE id = $2 AND subscription_status = $3
	`, domain.SubscriptionCancelled, id, domain.SubscriptionActive)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		subPlan   *string
		subStart  *time.Time
		subEnd    *time.Time
		subStatus *string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Credits,
		&subPlan, &subStart, &subEnd, &subStatus,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if subPlan != nil && subStatus != nil && subStart != nil && subEnd != nil {
		u.Subscription = &domain.Subscription{
			Plan:      *subPlan,
			StartDate: *subStart,
			EndDate:   *subEnd,
			Status:    *subStatus,
		}
	}
	return &u, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thriveverse/backend/internal/domain"
)

// ApplicationRepository handles database operations for application
// records.
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `
	id, user_id, company_name, job_title, job_description, additional_details,
	resume_url, generated_email, status, sent_at, mirror_record_id,
	created_at, updated_at
`

// CreateCharging inserts the application and debits one credit from the
// owner inside a single transaction. The conditional debit is the credit
// gate: when the account has no credits the transaction is rolled back
// untouched and ErrOutOfCredits is returned. Returns the balance left
// after the debit.
func (r *ApplicationRepository) CreateCharging(ctx context.Context, a *domain.Application) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var remaining int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET credits = credits - 1, updated_at = NOW()
		WHERE id = $1 AND credits > 0
		RETURNING credits
	`, a.UserID).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrOutOfCredits
		}
		return 0, fmt.Errorf("failed to debit credit: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (
			id, user_id, company_name, job_title, job_description,
			additional_details, resume_url, generated_email, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		a.ID, a.UserID, a.CompanyName, a.JobTitle, a.JobDescription,
		a.AdditionalDetails, a.ResumeURL, a.GeneratedEmail, a.Status,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit application: %w", err)
	}
	return remaining, nil
}

// FindByID returns an application scoped to its owner. Records owned by
// another account yield ErrRecordNotFound.
func (r *ApplicationRepository) FindByID(ctx context.Context, id, userID string) (*domain.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID)

	a, err := scanApplication(row)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrRecordNotFound
	}
	return a, nil
}

// ListByUser returns the owner's applications, newest first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, nil
}

// Update persists the mutable fields of an application.
func (r *ApplicationRepository) Update(ctx context.Context, a *domain.Application) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE applications
		SET generated_email = $1, status = $2, sent_at = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`, a.GeneratedEmail, a.Status, a.SentAt, a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// SetMirrorRecordID stores the external correlation ID written by the
// record mirror. Called from the mirror dispatcher, after the primary
// response has already been returned.
func (r *ApplicationRepository) SetMirrorRecordID(ctx context.Context, id, recordID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE applications SET mirror_record_id = $1, updated_at = NOW() WHERE id = $2`,
		recordID, id)
	if err != nil {
		return fmt.Errorf("failed to set mirror record id: %w", err)
	}
	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.CompanyName, &a.JobTitle, &a.JobDescription,
		&a.AdditionalDetails, &a.ResumeURL, &a.GeneratedEmail, &a.Status,
		&a.SentAt, &a.MirrorRecordID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	return &a, nil
}

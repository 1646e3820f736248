package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/internal/mirror"
	"github.com/thriveverse/backend/pkg/generator"
	"github.com/thriveverse/backend/pkg/logger"
)

// ApplicationStore is the persistence surface the lifecycle service
// needs. Implemented by repository.ApplicationRepository.
type ApplicationStore interface {
	CreateCharging(ctx context.Context, a *domain.Application) (int64, error)
	FindByID(ctx context.Context, id, userID string) (*domain.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Application, error)
	Update(ctx context.Context, a *domain.Application) error
	SetMirrorRecordID(ctx context.Context, id, recordID string) error
}

// ApplicationService enforces the draft → {sent, archived} lifecycle and
// the credit gate on creation. Every operation is scoped to the owning
// account; foreign records are indistinguishable from missing ones.
type ApplicationService struct {
	store      ApplicationStore
	mirror     mirror.Mirror
	dispatcher *mirror.Dispatcher
	validate   *validator.Validate
	log        *logger.Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(store ApplicationStore, m mirror.Mirror, d *mirror.Dispatcher, log *logger.Logger) *ApplicationService {
	return &ApplicationService{
		store:      store,
		mirror:     m,
		dispatcher: d,
		validate:   validator.New(),
		log:        log,
	}
}

// Create generates the email, persists the record in draft state and
// debits one credit, all atomically: if the insert fails the debit does
// not take effect, and a denial mutates nothing. The mirror write is
// dispatched after commit and cannot affect the outcome.
func (s *ApplicationService) Create(ctx context.Context, userID string, req *domain.CreateApplicationRequest) (*domain.ApplicationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	email := generator.Generate(generator.Details{
		CompanyName:       req.CompanyName,
		JobTitle:          req.JobTitle,
		JobDescription:    req.JobDescription,
		AdditionalDetails: req.AdditionalDetails,
	})

	now := time.Now()
	app := &domain.Application{
		ID:                domain.NewApplicationID(),
		UserID:            userID,
		CompanyName:       req.CompanyName,
		JobTitle:          req.JobTitle,
		JobDescription:    req.JobDescription,
		AdditionalDetails: req.AdditionalDetails,
		ResumeURL:         req.ResumeURL,
		GeneratedEmail:    email,
		Status:            domain.StatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	remaining, err := s.store.CreateCharging(ctx, app)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfCredits) {
			return nil, domain.ErrInsufficientCredits()
		}
		return nil, domain.ErrInternal("failed to create application", err)
	}

	s.enqueueMirrorCreate(app)

	return &domain.ApplicationResponse{Application: app, RemainingCredits: remaining}, nil
}

// List returns the account's applications, newest first.
func (s *ApplicationService) List(ctx context.Context, userID string) ([]*domain.Application, error) {
	apps, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list applications", err)
	}
	return apps, nil
}

// Get returns a single application owned by the account.
func (s *ApplicationService) Get(ctx context.Context, id, userID string) (*domain.Application, error) {
	return s.find(ctx, id, userID)
}

// UpdateEmail replaces the generated email text. Content stays editable
// in draft and sent; archived records are immutable.
func (s *ApplicationService) UpdateEmail(ctx context.Context, id, userID string, req *domain.UpdateApplicationRequest) (*domain.Application, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	app, err := s.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !app.Editable() {
		return nil, domain.ErrInvalidTransition("archived applications cannot be edited")
	}

	app.GeneratedEmail = req.GeneratedEmail
	app.UpdatedAt = time.Now()
	if err := s.persist(ctx, app); err != nil {
		return nil, err
	}

	s.enqueueMirrorUpdate(app, mirror.Fields{"GeneratedEmail": app.GeneratedEmail})
	return app, nil
}

// MarkSent transitions draft → sent and stamps SentAt. A second call on
// a sent record is a no-op; archived records reject the transition.
func (s *ApplicationService) MarkSent(ctx context.Context, id, userID string) (*domain.Application, error) {
	app, err := s.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	changed, err := app.MarkSent(time.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return app, nil
	}

	app.UpdatedAt = time.Now()
	if err := s.persist(ctx, app); err != nil {
		return nil, err
	}

	s.enqueueMirrorUpdate(app, mirror.Fields{
		"Status": app.Status,
		"SentAt": app.SentAt,
	})
	return app, nil
}

// Archive transitions any non-archived record to archived. Archiving an
// archived record is a no-op.
func (s *ApplicationService) Archive(ctx context.Context, id, userID string) (*domain.Application, error) {
	app, err := s.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !app.Archive() {
		return app, nil
	}

	app.UpdatedAt = time.Now()
	if err := s.persist(ctx, app); err != nil {
		return nil, err
	}

	s.enqueueMirrorUpdate(app, mirror.Fields{"Status": app.Status})
	return app, nil
}

func (s *ApplicationService) find(ctx context.Context, id, userID string) (*domain.Application, error) {
	app, err := s.store.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotFound("application not found")
		}
		return nil, domain.ErrInternal("failed to find application", err)
	}
	return app, nil
}

func (s *ApplicationService) persist(ctx context.Context, app *domain.Application) error {
	if err := s.store.Update(ctx, app); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrNotFound("application not found")
		}
		return domain.ErrInternal("failed to update application", err)
	}
	return nil
}

// enqueueMirrorCreate mirrors a freshly created record and stores the
// external correlation ID on success. Runs off the request path.
func (s *ApplicationService) enqueueMirrorCreate(app *domain.Application) {
	if s.mirror == nil || s.dispatcher == nil {
		return
	}
	appID := app.ID
	fields := mirror.Fields{
		"UserID":            app.UserID,
		"CompanyName":       app.CompanyName,
		"JobTitle":          app.JobTitle,
		"JobDescription":    app.JobDescription,
		"AdditionalDetails": app.AdditionalDetails,
		"ResumeUrl":         app.ResumeURL,
		"GeneratedEmail":    app.GeneratedEmail,
		"Status":            app.Status,
	}
	s.dispatcher.Enqueue(mirror.Task{
		Name: "application.create",
		Run: func(ctx context.Context) error {
			recordID, err := s.mirror.CreateRecord(ctx, fields)
			if err != nil {
				return err
			}
			return s.store.SetMirrorRecordID(ctx, appID, recordID)
		},
	})
}

// enqueueMirrorUpdate mirrors a field change for records that have a
// mirror correlation ID. Records whose initial mirror write failed are
// skipped; the mirror is non-authoritative.
func (s *ApplicationService) enqueueMirrorUpdate(app *domain.Application, fields mirror.Fields) {
	if s.mirror == nil || s.dispatcher == nil || app.MirrorRecordID == "" {
		return
	}
	recordID := app.MirrorRecordID
	s.dispatcher.Enqueue(mirror.Task{
		Name: "application.update",
		Run: func(ctx context.Context) error {
			return s.mirror.UpdateRecord(ctx, recordID, fields)
		},
	})
}

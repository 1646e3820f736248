package domain

import (
	"time"

	"github.com/google/uuid"
)

// Application status values. Transitions are monotonic: draft may move
// to sent or archived, sent may move to archived, archived is terminal.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusArchived = "archived"
)

// Application is a job-application record with its generated email.
type Application struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	CompanyName       string     `json:"companyName"`
	JobTitle          string     `json:"jobTitle"`
	JobDescription    string     `json:"jobDescription,omitempty"`
	AdditionalDetails string     `json:"additionalDetails,omitempty"`
	ResumeURL         string     `json:"resumeUrl,omitempty"`
	GeneratedEmail    string     `json:"generatedEmail"`
	Status            string     `json:"status"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
	MirrorRecordID    string     `json:"mirrorRecordId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// NewApplicationID generates a unique application identifier.
func NewApplicationID() string {
	return uuid.New().String()
}

// MarkSent moves the record from draft to sent and stamps SentAt.
// Calling it on a sent record is an idempotent no-op: SentAt keeps its
// original value. An archived record cannot be sent.
// The boolean reports whether the record changed.
func (a *Application) MarkSent(now time.Time) (bool, error) {
	switch a.Status {
	case StatusDraft:
		a.Status = StatusSent
		a.SentAt = &now
		return true, nil
	case StatusSent:
		return false, nil
	default:
		return false, ErrInvalidTransition("archived applications cannot be marked as sent")
	}
}

// Archive moves the record to archived from any state. Archiving an
// already-archived record is an idempotent no-op. The boolean reports
// whether the record changed.
func (a *Application) Archive() bool {
	if a.Status == StatusArchived {
		return false
	}
	a.Status = StatusArchived
	return true
}

// Editable reports whether the generated email may still be replaced.
// Content stays editable until the record is archived.
func (a *Application) Editable() bool {
	return a.Status != StatusArchived
}

// CreateApplicationRequest is the input for creating an application.
type CreateApplicationRequest struct {
	CompanyName       string `json:"companyName" validate:"required"`
	JobTitle          string `json:"jobTitle" validate:"required"`
	JobDescription    string `json:"jobDescription"`
	AdditionalDetails string `json:"additionalDetails"`
	ResumeURL         string `json:"resumeUrl" validate:"omitempty,url"`
}

// UpdateApplicationRequest replaces the generated email text.
type UpdateApplicationRequest struct {
	GeneratedEmail string `json:"generatedEmail" validate:"required"`
}

// ApplicationResponse wraps a created application together with the
// remaining credit balance.
type ApplicationResponse struct {
	Application      *Application `json:"application"`
	RemainingCredits int64        `json:"remainingCredits"`
}

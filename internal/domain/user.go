package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription status values.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// User is an account holding the credit ledger and an optional
// subscription. Credits are mutated only by the transactional debit on
// application creation and the credit issued by a verified payment.
type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Password     string        `json:"-"`
	Name         string        `json:"name"`
	Credits      int64         `json:"credits"`
	Subscription *Subscription `json:"subscription,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Subscription is the plan attached to an account by a verified payment.
// Absent when the account has never purchased a plan.
type Subscription struct {
	Plan      string    `json:"plan"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
}

// NewUserID generates a unique user identifier.
func NewUserID() string {
	return uuid.New().String()
}

// RegisterRequest is the input for account registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest is the input for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the input for profile updates.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// LoginUser is the user payload embedded in a login response.
type LoginUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Credits int64  `json:"credits"`
}

// LoginResponse is returned by register and login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// JWTClaims are the claims extracted from a verified token.
type JWTClaims struct {
	Sub   string
	Email string
}

// ProfileResponse is the public view of an account.
type ProfileResponse struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Credits      int64         `json:"credits"`
	Subscription *Subscription `json:"subscription,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

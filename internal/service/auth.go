package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface for accounts. Implemented by
// repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id, name string) error
}

// AuthService handles registration, authentication and profiles.
type AuthService struct {
	jwtSecret   string
	freeCredits int64
	users       UserStore
	validate    *validator.Validate
	log         *logger.Logger
}

// NewAuthService creates a new AuthService. freeCredits is the starting
// balance granted to every new account.
func NewAuthService(jwtSecret string, freeCredits int64, users UserStore, log *logger.Logger) *AuthService {
	return &AuthService{
		jwtSecret:   jwtSecret,
		freeCredits: freeCredits,
		users:       users,
		validate:    validator.New(),
		log:         log,
	}
}

// Register creates a new account with the free starting credit balance
// and returns a signed token.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	exists, err := s.users.Exists(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInternal("failed to check user", err)
	}
	if exists {
		return nil, domain.ErrBadRequest("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("failed to hash password", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:        domain.NewUserID(),
		Email:     req.Email,
		Password:  string(hashedPassword),
		Name:      req.Name,
		Credits:   s.freeCredits,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, domain.ErrInternal("failed to create user", err)
	}
	s.log.WithField("userId", user.ID).Info("account registered")

	return s.loginResponse(user)
}

// Login validates credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	return s.loginResponse(user)
}

// VerifyToken validates a JWT token and returns the claims.
func (s *AuthService) VerifyToken(tokenStr string) (*domain.JWTClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, domain.ErrUnauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized("invalid token claims")
	}

	return &domain.JWTClaims{
		Sub:   getClaimString(claims, "sub"),
		Email: getClaimString(claims, "email"),
	}, nil
}

// GetProfile returns the account's public view.
func (s *AuthService) GetProfile(ctx context.Context, id string) (*domain.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user not found")
	}
	return profileResponse(user), nil
}

// UpdateProfile updates the account's profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, req *domain.UpdateProfileRequest) (*domain.ProfileResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	if err := s.users.UpdateProfile(ctx, id, req.Name); err != nil {
		return nil, domain.ErrNotFound("user not found")
	}
	return s.GetProfile(ctx, id)
}

func (s *AuthService) loginResponse(user *domain.User) (*domain.LoginResponse, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, domain.ErrInternal("failed to sign token", err)
	}

	return &domain.LoginResponse{
		Token: signed,
		User: domain.LoginUser{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			Credits: user.Credits,
		},
	}, nil
}

func profileResponse(u *domain.User) *domain.ProfileResponse {
	return &domain.ProfileResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Credits:      u.Credits,
		Subscription: u.Subscription,
		CreatedAt:    u.CreatedAt,
	}
}

func getClaimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

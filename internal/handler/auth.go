package handler

import (
	"net/http"

	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/internal/service"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Profile handles GET /api/users/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.auth.GetProfile(r.Context(), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	profile, err := h.auth.UpdateProfile(r.Context(), UserID(r), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, profile)
}

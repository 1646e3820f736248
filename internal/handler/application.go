package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/internal/service"
)

// ApplicationHandler handles job-application endpoints.
type ApplicationHandler struct {
	svc *service.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// Create handles POST /api/emails/applications.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateApplicationRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.svc.Create(r.Context(), UserID(r), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, resp)
}

// List handles GET /api/emails/applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.List(r.Context(), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"applications": apps})
}

// Get handles GET /api/emails/applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, app)
}

// Update handles PUT /api/emails/applications/{id}.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateApplicationRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	app, err := h.svc.UpdateEmail(r.Context(), chi.URLParam(r, "id"), UserID(r), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, app)
}

// Send handles POST /api/emails/applications/{id}/send.
func (h *ApplicationHandler) Send(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.MarkSent(r.Context(), chi.URLParam(r, "id"), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, app)
}

// Archive handles POST /api/emails/applications/{id}/archive.
func (h *ApplicationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.Archive(r.Context(), chi.URLParam(r, "id"), UserID(r))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, app)
}

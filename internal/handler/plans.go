package handler

import (
	"net/http"

	"github.com/thriveverse/backend/internal/domain"
)

// PlansHandler serves the public plan catalog.
type PlansHandler struct{}

func NewPlansHandler() *PlansHandler {
	return &PlansHandler{}
}

// List handles GET /api/plans. The catalog is static and needs no auth.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"plans": domain.AvailablePlans(),
	})
}

package storage

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/itstock/internal/platform/httpx"
)

// Handler exposes persistence diagnostics.
type Handler struct {
	diag *Diagnostics
}

// NewHandler builds the diagnostics handler.
func NewHandler(diag *Diagnostics) *Handler {
	return &Handler{diag: diag}
}

// MountRoutes registers the diagnostics route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/diagnostics", h.show)
}

type diagnosticsResponse struct {
	Healthy  bool      `json:"healthy"`
	Total    int       `json:"totalFailures"`
	Failures []Failure `json:"failures"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	failures := h.diag.Recent()
	httpx.JSON(w, http.StatusOK, diagnosticsResponse{
		Healthy:  len(failures) == 0,
		Total:    h.diag.Total(),
		Failures: failures,
	})
}

package categories

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/itstock/internal/platform/httpx"
)

// UsageCounter reports how many items carry a category label.
type UsageCounter interface {
	CategoryUsage(ctx context.Context, name string) int
}

// Handler exposes the category set over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
	usage   UsageCounter
	binder  *httpx.Binder
}

// NewHandler builds the category handler. usage may be nil.
func NewHandler(logger *slog.Logger, service *Service, usage UsageCounter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, usage: usage, binder: httpx.NewBinder()}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/categories", h.list)
	r.Post("/categories", h.create)
	r.Delete("/categories/{name}", h.remove)
}

type createRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type removeResponse struct {
	Categories     []string `json:"categories"`
	Removed        string   `json:"removed"`
	ItemsReferring int      `json:"itemsReferring"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.List(r.Context()))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.binder.Bind(w, r, &req) {
		return
	}
	if err := validateName(req.Name); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.Add(r.Context(), req.Name))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi routes on RawPath when the request carries one (for example an encoded "/"),
	// leaving the segment escaped; otherwise it is already decoded.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			httpx.FieldProblem(w, map[string]string{"name": "malformed path segment"})
			return
		}
		name = unescaped
	}
	if r.URL.Query().Get("confirm") != "true" {
		httpx.RespondError(w, ErrConfirmationRequired)
		return
	}
	resp := removeResponse{Removed: name}
	if h.usage != nil {
		resp.ItemsReferring = h.usage.CategoryUsage(r.Context(), name)
	}
	resp.Categories = h.service.Remove(r.Context(), name)
	h.logger.Info("category removed", slog.String("category", name), slog.Int("items_referring", resp.ItemsReferring))
	httpx.JSON(w, http.StatusOK, resp)
}

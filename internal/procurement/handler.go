package procurement

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/itstock/internal/platform/httpx"
	"github.com/odyssey-erp/itstock/internal/shared"
)

// Handler manages shopping list endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	binder  *httpx.Binder
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, binder: httpx.NewBinder()}
}

// MountRoutes registers shopping list routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/shopping-list", func(r chi.Router) {
		r.Get("/", h.suggestions)
		r.Get("/manual", h.listManual)
		r.Post("/manual", h.addManual)
		r.Delete("/manual/{id}", h.removeManual)
		r.Post("/final", h.finalList)
		r.Post("/export", h.export)
		r.Post("/advice", h.advice)
	})
}

type manualRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Note     string `json:"note" validate:"max=500"`
}

type overrideRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitempty,gte=0"`
	Note     string `json:"note" validate:"max=500"`
}

type finalListRequest struct {
	Overrides []overrideRequest `json:"overrides" validate:"dive"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Suggestions(r.Context()))
}

func (h *Handler) listManual(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.ManualItems(r.Context()))
}

func (h *Handler) addManual(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	if !h.binder.Bind(w, r, &req) {
		return
	}
	item, err := h.service.AddManual(r.Context(), req.Name, req.Quantity, req.Note)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) removeManual(w http.ResponseWriter, r *http.Request) {
	h.service.RemoveManual(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) finalList(w http.ResponseWriter, r *http.Request) {
	overrides, ok := h.bindOverrides(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.FinalList(r.Context(), overrides))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	overrides, ok := h.bindOverrides(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.service.Checklist(r.Context(), overrides)))
}

func (h *Handler) advice(w http.ResponseWriter, r *http.Request) {
	overrides, ok := h.bindOverrides(w, r)
	if !ok {
		return
	}
	text, err := h.service.Advice(r.Context(), overrides)
	if err != nil {
		if errors.Is(err, shared.ErrServiceUnavailable) {
			h.logger.Warn("advice unavailable", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable",
				"The advice assistant could not be reached right now. Try again later.")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, adviceResponse{Advice: text})
}

// bindOverrides accepts an empty body as "no overrides".
func (h *Handler) bindOverrides(w http.ResponseWriter, r *http.Request) ([]Override, bool) {
	var req finalListRequest
	if r.ContentLength != 0 {
		if !h.binder.Bind(w, r, &req) {
			return nil, false
		}
	}
	overrides := make([]Override, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		overrides = append(overrides, Override{ItemID: o.ItemID, Quantity: o.Quantity, Note: o.Note})
	}
	return overrides, true
}

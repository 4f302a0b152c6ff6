package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/itstock/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the stock ledger.
type Handler struct {
	logger  *slog.Logger
	service *Service
	binder  *httpx.Binder
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, binder: httpx.NewBinder()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items", h.listItems)
	r.Post("/items", h.createItem)
	r.Get("/items/{id}", h.getItem)
	r.Patch("/items/{id}", h.editItem)
	r.Delete("/items/{id}", h.deleteItem)
	r.Get("/items/{id}/movements", h.itemMovements)
	r.Post("/items/{id}/movements", h.applyMovement)
	r.Post("/receipts", h.receive)
	r.Get("/movements", h.listMovements)
	r.Get("/dashboard", h.dashboard)
}

type createItemRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Category      string `json:"category" validate:"max=100"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
	MinThreshold  int    `json:"minThreshold" validate:"gte=0"`
	Location      string `json:"location" validate:"max=200"`
	Reference     string `json:"reference" validate:"max=200"`
	InitialReason string `json:"initialReason" validate:"max=500"`
}

type editItemRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	Quantity     *int    `json:"quantity" validate:"omitempty,gte=0"`
	MinThreshold *int    `json:"minThreshold" validate:"omitempty,gte=0"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	Reference    *string `json:"reference" validate:"omitempty,max=200"`
}

type movementRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=ENTRY EXIT"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason" validate:"max=500"`
}

type receiptRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	Category     string `json:"category" validate:"max=100"`
	MinThreshold int    `json:"minThreshold" validate:"gte=0"`
	Location     string `json:"location" validate:"max=200"`
	Reference    string `json:"reference" validate:"max=200"`
	Reason       string `json:"reason" validate:"max=500"`
}

type movementResponse struct {
	Item     Item     `json:"item"`
	Movement Movement `json:"movement"`
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.service.Items(r.Context(), ItemFilter{Search: q.Get("search"), Category: q.Get("category")})
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !h.binder.Bind(w, r, &req) {
		return
	}
	item, err := h.service.CreateItem(r.Context(), ItemInput{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		Location:     req.Location,
		Reference:    req.Reference,
	}, req.InitialReason)
	if err != nil {
		h.logger.Info("create item rejected", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Item(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) editItem(w http.ResponseWriter, r *http.Request) {
	var req editItemRequest
	if !h.binder.Bind(w, r, &req) {
		return
	}
	item, err := h.service.EditItem(r.Context(), chi.URLParam(r, "id"), ItemPatch{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		Location:     req.Location,
		Reference:    req.Reference,
	})
	if err != nil {
		h.logger.Info("edit item rejected", slog.String("item_id", chi.URLParam(r, "id")), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	h.service.DeleteItem(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) itemMovements(w http.ResponseWriter, r *http.Request) {
	movements := h.service.Movements(r.Context(), MovementFilter{ItemID: chi.URLParam(r, "id")})
	httpx.JSON(w, http.StatusOK, movements)
}

func (h *Handler) applyMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if !h.binder.Bind(w, r, &req) {
		return
	}
	itemID := chi.URLParam(r, "id")
	item, mv, err := h.service.ApplyMovement(r.Context(), itemID, MovementKind(req.Kind), req.Quantity, req.Reason)
	if err != nil {
		h.logger.Info("movement rejected",
			slog.String("item_id", itemID),
			slog.String("kind", req.Kind),
			slog.Int("qty", req.Quantity),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, movementResponse{Item: item, Movement: mv})
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if !h.binder.Bind(w, r, &req) {
		return
	}
	receipt, err := h.service.ReceiveByName(r.Context(), ItemInput{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		Location:     req.Location,
		Reference:    req.Reference,
	}, req.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	status := http.StatusOK
	if receipt.Created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, receipt)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := MovementFilter{Kind: MovementKind(q.Get("kind"))}
	if filter.Kind != "" && !filter.Kind.Valid() {
		httpx.FieldProblem(w, map[string]string{"kind": "must be one of ENTRY EXIT CORRECTION"})
		return
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			httpx.FieldProblem(w, map[string]string{"limit": "must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}
	httpx.JSON(w, http.StatusOK, h.service.Movements(r.Context(), filter))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Summary(r.Context()))
}

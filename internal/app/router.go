package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/itstock/internal/inventory"
	"github.com/odyssey-erp/itstock/internal/masterdata/categories"
	"github.com/odyssey-erp/itstock/internal/observability"
	"github.com/odyssey-erp/itstock/internal/procurement"
	"github.com/odyssey-erp/itstock/internal/storage"
	"github.com/odyssey-erp/itstock/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	InventoryHandler   *inventory.Handler
	CategoryHandler    *categories.Handler
	ProcurementHandler *procurement.Handler
	StorageHandler     *storage.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
	// RequestLogging toggles chi's access log.
	RequestLogging bool
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.RequestLogging {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.InventoryHandler != nil {
			params.InventoryHandler.MountRoutes(r)
		}
		if params.CategoryHandler != nil {
			params.CategoryHandler.MountRoutes(r)
		}
		if params.ProcurementHandler != nil {
			params.ProcurementHandler.MountRoutes(r)
		}
		if params.StorageHandler != nil {
			params.StorageHandler.MountRoutes(r)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"po-review/internal/app"
)

// maxUploadBytes caps uploaded PO documents. Extracted tabular text runs to
// a few hundred KB at most.
const maxUploadBytes = 10 << 20

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(maxUploadBytes))

	r.Get("/api/health", h.health)

	// ── Review ────────────────────────────────────────────────────────────
	r.Post("/api/analyze_po", h.analyzePO)
	r.Post("/api/reconcile", h.reconcile)
	r.Post("/api/calculate_pallets", h.calculatePallets)
	r.Post("/api/validate_skus", h.validateSKUs)
	r.Get("/api/download/{filename}", h.download)

	// ── Admin ─────────────────────────────────────────────────────────────
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/settings", h.getSettings)
		r.Post("/settings", h.updateSettings)
		r.Put("/settings", h.updateSettings)
		r.Get("/sku_check/{sku}", h.skuCheck)
		r.Get("/history", h.listHistory)
		r.Delete("/history/{id}", h.deleteHistory)
		r.Post("/sync/products", h.syncProducts)
		r.Post("/sync/inventory", h.syncInventory)
		r.Post("/reload", h.reloadMasterData)
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Health(r.Context()))
}

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"po-review/internal/config"
	"po-review/internal/store"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var next config.Settings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	updated, err := h.svc.UpdateSettings(r.Context(), next)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_SETTINGS", http.StatusBadRequest)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.svc.ListHistory(r.Context(), limit)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"records": records})
}

func (h *Handler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteHistory(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
			return
		}
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"deleted": id})
}

func (h *Handler) skuCheck(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CheckSKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) syncProducts(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.SyncProducts(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "SYNC_FAILED", http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]int{"products_synced": n})
}

func (h *Handler) syncInventory(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.SyncInventory(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "SYNC_FAILED", http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]int{"inventory_synced": n})
}

func (h *Handler) reloadMasterData(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ReloadMasterData(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "RELOAD_FAILED", http.StatusBadGateway)
		return
	}
	writeJSON(w, res)
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"po-review/internal/app"
	"po-review/internal/podoc"
)

// uploadedFile extracts one named multipart file from the request. The
// caller owns the returned closer.
func uploadedFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s file: %w", field, err)
	}
	return f, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/")
}

type analyzeJSONRequest struct {
	DocumentText      string `json:"document_text"`
	StockMode         string `json:"stock_mode"`
	SafetyStock       any    `json:"safety_stock"`
	ExportWorksheet   bool   `json:"export_worksheet"`
	ExportOrderImport bool   `json:"export_order_import"`
}

func (h *Handler) analyzePO(w http.ResponseWriter, r *http.Request) {
	var req app.AnalyzeRequest

	if isMultipart(r) {
		f, err := uploadedFile(r, "document")
		if err != nil {
			writeError(w, r, err.Error(), "MISSING_DOCUMENT", http.StatusBadRequest)
			return
		}
		defer f.Close()
		req = app.AnalyzeRequest{
			Document:          f,
			StockMode:         r.FormValue("stock_mode"),
			SafetyStock:       formValueOrNil(r, "safety_stock"),
			ExportWorksheet:   r.FormValue("export_worksheet") == "true",
			ExportOrderImport: r.FormValue("export_order_import") == "true",
		}
	} else {
		var body analyzeJSONRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		if body.DocumentText == "" {
			writeError(w, r, "document_text is required", "MISSING_DOCUMENT", http.StatusBadRequest)
			return
		}
		req = app.AnalyzeRequest{
			Document:          strings.NewReader(body.DocumentText),
			StockMode:         body.StockMode,
			SafetyStock:       body.SafetyStock,
			ExportWorksheet:   body.ExportWorksheet,
			ExportOrderImport: body.ExportOrderImport,
		}
	}

	res, err := h.svc.AnalyzeDocument(r.Context(), req)
	if err != nil {
		writeDocumentError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		writeError(w, r, "multipart form with aggregate and breakdown files required",
			"BAD_REQUEST", http.StatusBadRequest)
		return
	}
	agg, err := uploadedFile(r, "aggregate")
	if err != nil {
		writeError(w, r, err.Error(), "MISSING_DOCUMENT", http.StatusBadRequest)
		return
	}
	defer agg.Close()
	brk, err := uploadedFile(r, "breakdown")
	if err != nil {
		writeError(w, r, err.Error(), "MISSING_DOCUMENT", http.StatusBadRequest)
		return
	}
	defer brk.Close()

	res, err := h.svc.ReconcileDocuments(r.Context(), app.ReconcileRequest{
		Aggregate:   agg,
		Breakdown:   brk,
		StockMode:   r.FormValue("stock_mode"),
		SafetyStock: formValueOrNil(r, "safety_stock"),
	})
	if err != nil {
		writeDocumentError(w, r, err)
		return
	}
	writeJSON(w, res)
}

type palletJSONRequest struct {
	DocumentText      string                 `json:"document_text"`
	Lines             []app.ManualPalletLine `json:"lines"`
	ExportPackingList bool                   `json:"export_packing_list"`
	ExportOrderImport bool                   `json:"export_order_import"`
}

func (h *Handler) calculatePallets(w http.ResponseWriter, r *http.Request) {
	var req app.PalletRequest

	if isMultipart(r) {
		f, err := uploadedFile(r, "document")
		if err != nil {
			writeError(w, r, err.Error(), "MISSING_DOCUMENT", http.StatusBadRequest)
			return
		}
		defer f.Close()
		req.Document = f
		req.ExportPackingList = r.FormValue("export_packing_list") == "true"
		req.ExportOrderImport = r.FormValue("export_order_import") == "true"
	} else {
		var body palletJSONRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		if body.DocumentText != "" {
			req.Document = strings.NewReader(body.DocumentText)
		}
		req.Manual = body.Lines
		req.ExportPackingList = body.ExportPackingList
		req.ExportOrderImport = body.ExportOrderImport
	}

	res, err := h.svc.CalculatePallets(r.Context(), req)
	if err != nil {
		writeDocumentError(w, r, err)
		return
	}
	writeJSON(w, res)
}

type validateSKUsRequest struct {
	SKUs []string `json:"skus"`
}

func (h *Handler) validateSKUs(w http.ResponseWriter, r *http.Request) {
	var body validateSKUsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(body.SKUs) == 0 {
		writeError(w, r, "skus is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	results := make([]*app.SKUResult, 0, len(body.SKUs))
	for _, sku := range body.SKUs {
		res, err := h.svc.CheckSKU(r.Context(), sku)
		if err != nil {
			writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		results = append(results, res)
	}
	writeJSON(w, map[string]any{"results": results})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	f, err := h.svc.OpenExport(name)
	if err != nil {
		writeError(w, r, "export not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = io.Copy(w, f)
}

// formValueOrNil returns nil for an absent form value so the safety-stock
// resolver falls back to the configured default instead of coercing "".
func formValueOrNil(r *http.Request, field string) any {
	v := r.FormValue(field)
	if v == "" {
		return nil
	}
	return v
}

// writeDocumentError maps service failures to HTTP statuses: a document
// with no extractable table is the client's problem, not the server's.
func writeDocumentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, podoc.ErrNoTable):
		writeError(w, r, err.Error(), "NO_TABLE", http.StatusUnprocessableEntity)
	default:
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	}
}

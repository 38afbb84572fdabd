package app

import "io"

// AnalyzeRequest carries one uploaded PO document through validation.
type AnalyzeRequest struct {
	// Document is the uploaded tabular PO text.
	Document io.Reader

	// StockMode selects which stock pool availability is judged against:
	// "MAIN", "SUB", or "TOTAL". Unknown values fall back to TOTAL.
	StockMode string

	// SafetyStock overrides the configured reserve for this run when
	// non-nil. Accepts the loosely typed values that arrive via JSON.
	SafetyStock any

	// ExportWorksheet and ExportOrderImport request CSV generation
	// alongside the JSON response.
	ExportWorksheet   bool
	ExportOrderImport bool
}

// ReconcileRequest carries an aggregate document and its per-destination
// breakdown.
type ReconcileRequest struct {
	Aggregate io.Reader
	Breakdown io.Reader

	// StockMode and SafetyStock mirror AnalyzeRequest; the breakdown lines
	// are validated so the persisted record can carry warning counts.
	StockMode   string
	SafetyStock any
}

// ManualPalletLine is one hand-entered row for pallet calculation when no
// document is uploaded.
type ManualPalletLine struct {
	SKU       string `json:"sku"`
	CartonQty int    `json:"carton_qty"`
}

// PalletRequest packs either an uploaded breakdown document or manual
// carton quantities.
type PalletRequest struct {
	Document io.Reader
	Manual   []ManualPalletLine

	// ExportPackingList and ExportOrderImport request CSV generation from
	// the packed plan alongside the JSON response.
	ExportPackingList bool
	ExportOrderImport bool
}

package app

import (
	"time"

	"po-review/internal/core"
	"po-review/internal/store"
)

// AnalyzeResult is returned by AnalyzeDocument.
type AnalyzeResult struct {
	PONumber   string               `json:"po_number"`
	ShipWindow string               `json:"ship_window"`
	Aggregate  bool                 `json:"aggregate"`
	StockMode  core.StockMode       `json:"stock_mode"`
	Items      []core.ValidatedItem `json:"items"`
	Summary    core.Summary         `json:"summary"`

	// Filenames of generated exports, empty when not requested.
	WorksheetFile   string `json:"worksheet_file,omitempty"`
	OrderImportFile string `json:"order_import_file,omitempty"`
}

// ReconcileResult is returned by ReconcileDocuments.
type ReconcileResult struct {
	AggregatePO  string               `json:"aggregate_po"`
	BreakdownPO  string               `json:"breakdown_po"`
	Comparison   core.ReconcileResult `json:"comparison"`
	Items        []core.ValidatedItem `json:"items"`
	Summary      core.Summary         `json:"summary"`
	ReviewRecord store.ReviewRecord   `json:"review_record"`
}

// PalletResult is returned by CalculatePallets.
type PalletResult struct {
	PONumber     string        `json:"po_number,omitempty"`
	Pallets      []core.Pallet `json:"pallets"`
	PalletCount  int           `json:"pallet_count"`
	TotalCartons int           `json:"total_cartons"`
	TotalWeight  float64       `json:"total_weight_lbs"`

	// Filenames of generated exports, empty when not requested.
	PackingListFile string `json:"packing_list_file,omitempty"`
	OrderImportFile string `json:"order_import_file,omitempty"`
}

// SKUResult is returned by CheckSKU.
type SKUResult struct {
	SKU          string             `json:"sku"`
	Found        bool               `json:"found"`
	Product      core.ProductRecord `json:"product,omitempty"`
	Stock        core.StockRecord   `json:"stock"`
	Availability core.Availability  `json:"availability"`
}

// ReloadResult is returned by ReloadMasterData.
type ReloadResult struct {
	Products int       `json:"products"`
	Stock    int       `json:"stock"`
	Source   string    `json:"source"` // "firestore" or "csv"
	LoadedAt time.Time `json:"loaded_at"`
}

// HealthResult is returned by Health.
type HealthResult struct {
	Status         string    `json:"status"`
	HistoryBackend string    `json:"history_backend"` // "postgres" or "memory"
	DocumentStore  bool      `json:"document_store"`
	Products       int       `json:"products"`
	Stock          int       `json:"stock"`
	CatalogLoaded  time.Time `json:"catalog_loaded_at"`
}

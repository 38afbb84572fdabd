package app

import (
	"context"
	"os"

	"po-review/internal/config"
	"po-review/internal/store"
)

// ApplicationService is the single interface all adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must
// contain no display logic of any kind.
type ApplicationService interface {
	// AnalyzeDocument parses one PO document, validates every line against
	// the current catalog, and returns items, summary, and any requested
	// export files.
	AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error)

	// ReconcileDocuments cross-checks an aggregate PO against its
	// destination breakdown and persists a review record.
	ReconcileDocuments(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error)

	// CalculatePallets packs carton quantities into a pallet plan using the
	// currently configured pallet limits.
	CalculatePallets(ctx context.Context, req PalletRequest) (*PalletResult, error)

	// CheckSKU looks one SKU up in the catalog, falling back to a live
	// document-store read when the snapshot misses.
	CheckSKU(ctx context.Context, sku string) (*SKUResult, error)

	// GetSettings returns the current review settings.
	GetSettings(ctx context.Context) (config.Settings, error)

	// UpdateSettings validates and persists new review settings.
	UpdateSettings(ctx context.Context, next config.Settings) (config.Settings, error)

	// ListHistory returns persisted review runs, newest first.
	ListHistory(ctx context.Context, limit int) ([]store.ReviewRecord, error)

	// DeleteHistory removes one review record by id.
	DeleteHistory(ctx context.Context, id string) error

	// SyncProducts and SyncInventory push the configured CSV exports into
	// the document store. Both require a document store to be configured
	// and return the number of documents written.
	SyncProducts(ctx context.Context) (int, error)
	SyncInventory(ctx context.Context) (int, error)

	// ReloadMasterData refreshes the in-memory catalog from the document
	// store, or from the CSV files when no store is configured.
	ReloadMasterData(ctx context.Context) (*ReloadResult, error)

	// OpenExport serves a previously generated export file by name.
	OpenExport(name string) (*os.File, error)

	// Health reports backend wiring and catalog freshness.
	Health(ctx context.Context) HealthResult
}

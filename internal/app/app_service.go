package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"po-review/internal/config"
	"po-review/internal/core"
	"po-review/internal/export"
	"po-review/internal/podoc"
	"po-review/internal/store"
)

type appService struct {
	cfg      config.Config
	catalog  *store.Catalog
	docs     store.DocumentStore // nil when no GCP project is configured
	history  store.HistoryStore
	settings *config.SettingsStore
	files    *export.FileStore
	logger   *log.Logger

	historyBackend string
}

// NewAppService constructs an appService that satisfies ApplicationService.
// docs may be nil; history and settings must not be.
func NewAppService(
	cfg config.Config,
	catalog *store.Catalog,
	docs store.DocumentStore,
	history store.HistoryStore,
	historyBackend string,
	settings *config.SettingsStore,
	files *export.FileStore,
	logger *log.Logger,
) ApplicationService {
	return &appService{
		cfg:            cfg,
		catalog:        catalog,
		docs:           docs,
		history:        history,
		historyBackend: historyBackend,
		settings:       settings,
		files:          files,
		logger:         logger,
	}
}

// ── document review ───────────────────────────────────────────────────────

func (s *appService) AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if req.Document == nil {
		return nil, errors.New("no document provided")
	}
	doc, err := podoc.Parse(req.Document)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	snap := s.catalog.Current()
	settings := s.settings.Get()
	mode := core.ParseStockMode(req.StockMode)
	safety := core.ResolveSafetyStock(req.SafetyStock, settings.SafetyStock)

	items := core.ValidateLineItems(doc.Items, snap.Stock, snap.Products, safety, mode)
	summary := core.Summarize(items, snap.Products)

	res := &AnalyzeResult{
		PONumber:   doc.PONumber,
		ShipWindow: doc.ShipWindow,
		Aggregate:  doc.Aggregate,
		StockMode:  mode,
		Items:      items,
		Summary:    summary,
	}

	if req.ExportWorksheet {
		name, err := s.files.Save("po_review", doc.PONumber, func(f *os.File) error {
			return export.WriteReviewWorksheet(f, items)
		})
		if err != nil {
			return nil, err
		}
		res.WorksheetFile = name
	}
	if req.ExportOrderImport {
		name, err := s.files.Save("order_import", doc.PONumber, func(f *os.File) error {
			return export.WriteOrderImport(f, s.cfg.OrderRefPrefix, items)
		})
		if err != nil {
			return nil, err
		}
		res.OrderImportFile = name
	}

	s.logger.Printf("analyzed PO %s: %d items, %d units, %d shortage (mode=%s safety=%d)",
		doc.PONumber, summary.TotalItems, summary.TotalUnits, summary.TotalShortage, mode, safety)
	return res, nil
}

func (s *appService) ReconcileDocuments(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error) {
	if req.Aggregate == nil || req.Breakdown == nil {
		return nil, errors.New("both aggregate and breakdown documents are required")
	}

	var aggDoc, brkDoc *podoc.Document
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		aggDoc, err = podoc.Parse(req.Aggregate)
		if err != nil {
			return fmt.Errorf("parse aggregate document: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		brkDoc, err = podoc.Parse(req.Breakdown)
		if err != nil {
			return fmt.Errorf("parse breakdown document: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := s.catalog.Current()
	settings := s.settings.Get()
	mode := core.ParseStockMode(req.StockMode)
	safety := core.ResolveSafetyStock(req.SafetyStock, settings.SafetyStock)

	comparison := core.Reconcile(aggDoc.Items, brkDoc.Items, snap.Products)
	items := core.ValidateLineItems(brkDoc.Items, snap.Stock, snap.Products, safety, mode)
	summary := core.Summarize(items, snap.Products)

	warnings := 0
	for _, item := range items {
		if item.CombinedStatus != core.StatusOK {
			warnings++
		}
	}
	status := "OK"
	if !comparison.Valid || warnings > 0 {
		status = "REVIEW"
	}

	rec, err := s.history.Save(ctx, store.ReviewRecord{
		PONumber:      aggDoc.PONumber,
		AggregateDoc:  aggDoc.PONumber,
		BreakdownDoc:  brkDoc.PONumber,
		ItemCount:     len(items),
		TotalUnits:    comparison.BreakdownUnits,
		MismatchCount: len(comparison.Mismatches),
		WarningCount:  warnings,
		Status:        status,
	})
	if err != nil {
		return nil, fmt.Errorf("persist review record: %w", err)
	}

	s.logger.Printf("reconciled PO %s against %s: %d mismatches, %d warnings, status=%s",
		aggDoc.PONumber, brkDoc.PONumber, len(comparison.Mismatches), warnings, status)
	return &ReconcileResult{
		AggregatePO:  aggDoc.PONumber,
		BreakdownPO:  brkDoc.PONumber,
		Comparison:   comparison,
		Items:        items,
		Summary:      summary,
		ReviewRecord: rec,
	}, nil
}

func (s *appService) CalculatePallets(ctx context.Context, req PalletRequest) (*PalletResult, error) {
	snap := s.catalog.Current()

	res := &PalletResult{}
	cartonsBySKU := map[string]int{}
	descriptions := map[string]string{}
	packSizes := map[string]int{}
	shipWindow := ""

	switch {
	case req.Document != nil:
		doc, err := podoc.Parse(req.Document)
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		res.PONumber = doc.PONumber
		shipWindow = doc.ShipWindow
		for _, item := range doc.Items {
			product := snap.Products[item.SKU]
			pack := item.EffectivePackSize(product)
			cartonsBySKU[item.SKU] += ceil(item.QuantityUnits, pack)
			descriptions[item.SKU] = item.Description
			packSizes[item.SKU] = pack
		}
	case len(req.Manual) > 0:
		for _, line := range req.Manual {
			sku := strings.TrimSpace(line.SKU)
			if sku == "" || line.CartonQty <= 0 {
				continue
			}
			product := snap.Products[sku]
			cartonsBySKU[sku] += line.CartonQty
			descriptions[sku] = product.Name
			packSizes[sku] = product.EffectivePackSize()
		}
	default:
		return nil, errors.New("no document or manual lines provided")
	}

	skus := make([]string, 0, len(cartonsBySKU))
	for sku := range cartonsBySKU {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	inputs := make([]core.PalletInput, 0, len(skus))
	for _, sku := range skus {
		product := snap.Products[sku]
		inputs = append(inputs, core.PalletInput{
			SKU:                 sku,
			Description:         descriptions[sku],
			CartonQty:           cartonsBySKU[sku],
			PackSize:            packSizes[sku],
			CartonWeight:        product.CartonWeight,
			CartonHeight:        product.CartonHeight,
			MaxCartonsPerPallet: product.MaxCartonsPerPallet,
		})
	}

	pallets := core.PackPallets(inputs, s.settings.Get().PalletConfig())
	res.Pallets = pallets
	res.PalletCount = len(pallets)
	for _, p := range pallets {
		res.TotalCartons += p.TotalCartons
		res.TotalWeight += p.TotalWeight
	}

	if req.ExportPackingList {
		name, err := s.files.Save("packing_list", res.PONumber, func(f *os.File) error {
			return export.WritePackingList(f, pallets)
		})
		if err != nil {
			return nil, err
		}
		res.PackingListFile = name
	}
	if req.ExportOrderImport {
		name, err := s.files.Save("order_import", res.PONumber, func(f *os.File) error {
			return export.WritePalletOrderImport(f, s.cfg.OrderRefPrefix, res.PONumber, shipWindow, pallets, snap.Products)
		})
		if err != nil {
			return nil, err
		}
		res.OrderImportFile = name
	}

	s.logger.Printf("packed %d cartons onto %d pallets", res.TotalCartons, res.PalletCount)
	return res, nil
}

func (s *appService) CheckSKU(ctx context.Context, sku string) (*SKUResult, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, errors.New("sku is required")
	}

	snap := s.catalog.Current()
	product, found := snap.Products[sku]
	if !found && s.docs != nil {
		// Remote lookup failures degrade to the snapshot answer rather
		// than failing the check.
		p, ok, err := s.docs.GetProduct(ctx, sku)
		if err != nil {
			s.logger.Printf("live product lookup for %s failed: %v", sku, err)
		} else {
			product, found = p, ok
		}
	}

	stock := snap.Stock[sku]
	avail := core.ResolveAvailability(stock, s.settings.Get().SafetyStock, core.ModeTotal)
	return &SKUResult{
		SKU:          sku,
		Found:        found,
		Product:      product,
		Stock:        stock,
		Availability: avail,
	}, nil
}

// ── settings & history ────────────────────────────────────────────────────

func (s *appService) GetSettings(ctx context.Context) (config.Settings, error) {
	return s.settings.Get(), nil
}

func (s *appService) UpdateSettings(ctx context.Context, next config.Settings) (config.Settings, error) {
	if err := s.settings.Update(next); err != nil {
		return config.Settings{}, err
	}
	s.logger.Printf("settings updated: safety_stock=%d pallet=%.0f/%.0f/%.0f",
		next.SafetyStock, next.PalletMaxHeight, next.PalletMaxWeight, next.PalletBaseWeight)
	return next, nil
}

func (s *appService) ListHistory(ctx context.Context, limit int) ([]store.ReviewRecord, error) {
	return s.history.List(ctx, limit)
}

func (s *appService) DeleteHistory(ctx context.Context, id string) error {
	return s.history.Delete(ctx, id)
}

// ── master data ───────────────────────────────────────────────────────────

func (s *appService) SyncProducts(ctx context.Context) (int, error) {
	if s.docs == nil {
		return 0, errors.New("no document store configured")
	}
	if s.cfg.ProductsCSV == "" {
		return 0, errors.New("PRODUCTS_CSV must be set for sync")
	}
	products, err := store.LoadProductsFile(s.cfg.ProductsCSV)
	if err != nil {
		return 0, err
	}
	n, err := s.docs.SyncProducts(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("sync products: %w", err)
	}
	s.logger.Printf("synced %d product documents", n)
	return n, nil
}

func (s *appService) SyncInventory(ctx context.Context) (int, error) {
	if s.docs == nil {
		return 0, errors.New("no document store configured")
	}
	if s.cfg.InventoryCSV == "" {
		return 0, errors.New("INVENTORY_CSV must be set for sync")
	}
	stock, err := store.LoadInventoryFile(s.cfg.InventoryCSV)
	if err != nil {
		return 0, err
	}
	n, err := s.docs.SyncInventory(ctx, stock)
	if err != nil {
		return 0, fmt.Errorf("sync inventory: %w", err)
	}
	s.logger.Printf("synced %d inventory documents", n)
	return n, nil
}

func (s *appService) ReloadMasterData(ctx context.Context) (*ReloadResult, error) {
	var (
		snap   *store.Snapshot
		source string
	)
	if s.docs != nil {
		fetched, err := s.docs.FetchSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch master data: %w", err)
		}
		snap, source = fetched, "firestore"
	} else {
		products := map[string]core.ProductRecord{}
		stock := map[string]core.StockRecord{}
		var err error
		if s.cfg.ProductsCSV != "" {
			if products, err = store.LoadProductsFile(s.cfg.ProductsCSV); err != nil {
				return nil, err
			}
		}
		if s.cfg.InventoryCSV != "" {
			if stock, err = store.LoadInventoryFile(s.cfg.InventoryCSV); err != nil {
				return nil, err
			}
		}
		snap, source = store.NewSnapshot(products, stock), "csv"
	}

	s.catalog.Replace(snap)
	s.logger.Printf("catalog reloaded from %s: %d products, %d stock records",
		source, len(snap.Products), len(snap.Stock))
	return &ReloadResult{
		Products: len(snap.Products),
		Stock:    len(snap.Stock),
		Source:   source,
		LoadedAt: snap.LoadedAt,
	}, nil
}

func (s *appService) OpenExport(name string) (*os.File, error) {
	return s.files.Open(name)
}

func (s *appService) Health(ctx context.Context) HealthResult {
	snap := s.catalog.Current()
	return HealthResult{
		Status:         "ok",
		HistoryBackend: s.historyBackend,
		DocumentStore:  s.docs != nil,
		Products:       len(snap.Products),
		Stock:          len(snap.Stock),
		CatalogLoaded:  snap.LoadedAt,
	}
}

func ceil(units, pack int) int {
	if pack < 1 {
		pack = 1
	}
	if units <= 0 {
		return 0
	}
	return (units + pack - 1) / pack
}

package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"po-review/internal/core"
)

// Fallbacks applied when a master-data export omits carton dimensions.
const (
	defaultCartonWeight = 15.0
	defaultCartonHeight = 10.0
)

// LoadProductsCSV reads a product master export. Column names follow the
// ERP export headers; missing numeric fields fall back to conservative
// defaults rather than dropping the row.
func LoadProductsCSV(r io.Reader) (map[string]core.ProductRecord, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("read products csv: %w", err)
	}

	col := headerIndex(header)
	skuCol, ok := col["sku"]
	if !ok {
		return nil, fmt.Errorf("products csv: missing SKU column")
	}

	products := make(map[string]core.ProductRecord, len(rows))
	for _, row := range rows {
		sku := strings.TrimSpace(field(row, skuCol))
		if sku == "" {
			continue
		}
		rec := core.ProductRecord{
			Name:                strings.TrimSpace(field(row, colOf(col, "productname_short"))),
			UnitPrice:           parsePrice(field(row, colOf(col, "keyaccountprice_tjx"))),
			PackSize:            parseIntDefault(field(row, colOf(col, "unitspercase")), 1),
			CartonWeight:        parseFloatDefault(field(row, colOf(col, "mastercarton_weight_lbs")), defaultCartonWeight),
			CartonHeight:        parseFloatDefault(field(row, colOf(col, "mastercarton_height_inches")), defaultCartonHeight),
			MaxCartonsPerPallet: parseIntDefault(field(row, colOf(col, "maxcartonsperpallet")), 0),
		}
		products[sku] = rec
	}
	return products, nil
}

// LoadInventoryCSV reads a stock export of one row per SKU/location pair
// and folds it into per-SKU stock records.
func LoadInventoryCSV(r io.Reader) (map[string]core.StockRecord, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("read inventory csv: %w", err)
	}

	col := headerIndex(header)
	skuCol, ok := col["sku"]
	if !ok {
		return nil, fmt.Errorf("inventory csv: missing SKU column")
	}
	locCol, ok := col["location"]
	if !ok {
		return nil, fmt.Errorf("inventory csv: missing Location column")
	}
	qtyCol, ok := col["onhand"]
	if !ok {
		return nil, fmt.Errorf("inventory csv: missing OnHand column")
	}

	stock := map[string]core.StockRecord{}
	for _, row := range rows {
		sku := strings.TrimSpace(field(row, skuCol))
		if sku == "" {
			continue
		}
		loc := strings.ToUpper(strings.TrimSpace(field(row, locCol)))
		qty := parseIntDefault(field(row, qtyCol), 0)
		if qty < 0 {
			qty = 0
		}

		rec := stock[sku]
		if rec.ByLocation == nil {
			rec.ByLocation = map[string]int{}
		}
		rec.ByLocation[loc] += qty
		rec.Total += qty
		stock[sku] = rec
	}
	return stock, nil
}

// LoadProductsFile and LoadInventoryFile are convenience wrappers for the
// bootstrap path.
func LoadProductsFile(path string) (map[string]core.ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open products csv: %w", err)
	}
	defer f.Close()
	return LoadProductsCSV(f)
}

func LoadInventoryFile(path string) (map[string]core.StockRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory csv: %w", err)
	}
	defer f.Close()
	return LoadInventoryCSV(f)
}

// ── csv plumbing ──────────────────────────────────────────────────────────

func readTable(r io.Reader) (rows [][]string, header []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}
	return all[1:], all[0], nil
}

// headerIndex maps normalized column names (lowercase, trimmed) to their
// positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}

// colOf returns the position of a header, or -1 when the export lacks it.
func colOf(col map[string]int, name string) int {
	if i, ok := col[name]; ok {
		return i
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseIntDefault(s string, def int) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseFloatDefault(s string, def float64) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func parsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

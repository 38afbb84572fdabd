package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Storage locations tracked per SKU. Other location codes may appear in
// external inventory feeds; the resolver only treats these two specially.
const (
	LocationMain = "MAIN"
	LocationSub  = "SUB"
)

// StockMode selects which inventory pool availability is computed against.
type StockMode string

const (
	ModeMain  StockMode = "MAIN"
	ModeSub   StockMode = "SUB"
	ModeTotal StockMode = "TOTAL"
)

// ParseStockMode normalizes a mode string. Anything unrecognized falls back
// to TOTAL rather than failing the request.
func ParseStockMode(s string) StockMode {
	switch StockMode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeMain:
		return ModeMain
	case ModeSub:
		return ModeSub
	case ModeTotal:
		return ModeTotal
	default:
		return ModeTotal
	}
}

// Line-item statuses. Price/registration statuses take display precedence
// over inventory statuses; both are always reported.
const (
	StatusOK             = "OK"
	StatusInventoryLow   = "INVENTORY_LOW"
	StatusOutOfStock     = "OUT_OF_STOCK"
	StatusPriceMismatch  = "PRICE_MISMATCH"
	StatusProductMissing = "PRODUCT_MISSING"
)

// StockRecord is the on-hand inventory of one SKU split by storage location.
// The ledger maintains Total == Σ ByLocation, but records arriving from
// external sources may violate that; consumers must tolerate missing
// locations (treated as 0) and trust Total as given.
type StockRecord struct {
	Total      int            `json:"total"`
	ByLocation map[string]int `json:"by_location"`
}

// At returns the on-hand quantity at a location, 0 if the location is absent.
func (s StockRecord) At(location string) int {
	return s.ByLocation[location]
}

// ProductRecord is the product-master entry for one SKU.
type ProductRecord struct {
	Name                string          `json:"name"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	PackSize            int             `json:"pack_size"`
	CartonWeight        float64         `json:"carton_weight_lbs"`
	CartonHeight        float64         `json:"carton_height_in"`
	MaxCartonsPerPallet int             `json:"max_cartons_per_pallet"`
}

// defaultMaxCartonsPerPallet applies whenever a product record is missing
// the value or carries a non-positive one.
const defaultMaxCartonsPerPallet = 20

// EffectivePackSize clamps the carton pack size to at least 1 unit.
func (p ProductRecord) EffectivePackSize() int {
	if p.PackSize < 1 {
		return 1
	}
	return p.PackSize
}

// EffectiveMaxCartons returns the per-pallet carton limit with the default
// applied for absent or non-positive values.
func (p ProductRecord) EffectiveMaxCartons() int {
	if p.MaxCartonsPerPallet <= 0 {
		return defaultMaxCartonsPerPallet
	}
	return p.MaxCartonsPerPallet
}

// POLineItem is one parsed purchase-order line. Items are produced once by
// the document parser and consumed read-only; validators emit derived
// copies instead of mutating in place.
//
// An empty DestinationID marks a line from an aggregate ("mother") document
// that has no per-destination breakdown. UnitCost is populated only on
// aggregate documents; destination-level documents carry 0.
type POLineItem struct {
	SKU            string          `json:"sku"`
	Description    string          `json:"description"`
	DestinationID  string          `json:"destination_id"`
	QuantityUnits  int             `json:"quantity_units"`
	PackSize       int             `json:"pack_size"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	DocumentNumber string          `json:"document_number"`
	ShipWindow     string          `json:"ship_window"`
	IsAggregate    bool            `json:"is_aggregate"`
}

// EffectivePackSize prefers the pack size carried on the line itself over
// the product master, since source documents may override it.
func (li POLineItem) EffectivePackSize(product ProductRecord) int {
	if li.PackSize >= 1 {
		return li.PackSize
	}
	return product.EffectivePackSize()
}

// ValidatedItem is a POLineItem enriched with availability, shortage and
// status information. RequiredQty always equals QuantityUnits: safety stock
// is modeled as a deduction from availability, never as an inflation of the
// requirement.
type ValidatedItem struct {
	POLineItem

	MainStock      int `json:"main_stock"`
	SubStock       int `json:"sub_stock"`
	TotalStock     int `json:"total_stock"`
	AvailableMain  int `json:"available_main_stock"`
	AvailableSub   int `json:"available_sub_stock"`
	AvailableTotal int `json:"available_total_stock"`
	AvailableStock int `json:"available_stock"`

	RequiredQty       int `json:"required_qty"`
	Shortage          int `json:"shortage"`
	TransferFromSub   int `json:"transfer_from_sub"`
	RemainingShortage int `json:"remaining_shortage"`

	SystemPrice  decimal.Decimal `json:"system_price"`
	PriceWarning string          `json:"price_warning,omitempty"`

	StockMode       StockMode `json:"stock_mode"`
	InventoryStatus string    `json:"inventory_status"`
	PriceStatus     string    `json:"price_status"`
	CombinedStatus  string    `json:"status"`
}

func ceilDiv(units, packSize int) int {
	if packSize < 1 {
		packSize = 1
	}
	if units <= 0 {
		return 0
	}
	return (units + packSize - 1) / packSize
}

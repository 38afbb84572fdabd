package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ShortageLine identifies one validated line still short after transfers.
type ShortageLine struct {
	SKU           string `json:"sku"`
	DestinationID string `json:"destination_id"`
	Shortage      int    `json:"shortage"`
}

// DestinationSummary rolls one destination's validated lines into totals.
type DestinationSummary struct {
	DestinationID string          `json:"destination_id"`
	Items         int             `json:"items"`
	Units         int             `json:"units"`
	Cartons       int             `json:"cartons"`
	Amount        decimal.Decimal `json:"amount"`
	ShortageLines []ShortageLine  `json:"shortage_lines"`
}

// Summary is the overall reduction of a validated document.
type Summary struct {
	TotalItems      int                  `json:"total_items"`
	TotalUnits      int                  `json:"total_units"`
	TotalCartons    int                  `json:"total_cartons"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	OKCount         int                  `json:"ok_count"`
	LowCount        int                  `json:"low_count"`
	OutOfStockCount int                  `json:"out_of_stock_count"`
	PriceMismatch   int                  `json:"price_mismatch_count"`
	TotalShortage   int                  `json:"total_shortage"`
	TotalTransfer   int                  `json:"total_transfer_from_sub"`
	PerDestination  []DestinationSummary `json:"per_destination"`
}

// Summarize reduces validated items to document totals and per-destination
// rollups. Line amounts are priced from the product master (the validator's
// SystemPrice); aggregate documents are the exception and use the PO's own
// unit cost when it is present. Pure reduction, no side effects.
func Summarize(items []ValidatedItem, products map[string]ProductRecord) Summary {
	s := Summary{TotalAmount: decimal.Zero}
	perDest := make(map[string]*DestinationSummary)

	for _, item := range items {
		price := item.SystemPrice
		if item.IsAggregate && item.UnitCost.IsPositive() {
			price = item.UnitCost
		}
		amount := price.Mul(decimal.NewFromInt(int64(item.QuantityUnits)))
		packSize := item.EffectivePackSize(products[item.SKU])
		cartons := ceilDiv(item.QuantityUnits, packSize)

		s.TotalItems++
		s.TotalUnits += item.QuantityUnits
		s.TotalCartons += cartons
		s.TotalAmount = s.TotalAmount.Add(amount)
		s.TotalShortage += item.RemainingShortage
		s.TotalTransfer += item.TransferFromSub

		switch item.InventoryStatus {
		case StatusOK:
			s.OKCount++
		case StatusInventoryLow:
			s.LowCount++
		case StatusOutOfStock:
			s.OutOfStockCount++
		}
		if item.PriceStatus == StatusPriceMismatch {
			s.PriceMismatch++
		}

		dest := item.DestinationID
		d := perDest[dest]
		if d == nil {
			d = &DestinationSummary{DestinationID: dest, Amount: decimal.Zero}
			perDest[dest] = d
		}
		d.Items++
		d.Units += item.QuantityUnits
		d.Cartons += cartons
		d.Amount = d.Amount.Add(amount)
		if item.RemainingShortage > 0 {
			d.ShortageLines = append(d.ShortageLines, ShortageLine{
				SKU:           item.SKU,
				DestinationID: dest,
				Shortage:      item.RemainingShortage,
			})
		}
	}

	s.PerDestination = make([]DestinationSummary, 0, len(perDest))
	for _, d := range perDest {
		s.PerDestination = append(s.PerDestination, *d)
	}
	sort.Slice(s.PerDestination, func(i, j int) bool {
		return s.PerDestination[i].DestinationID < s.PerDestination[j].DestinationID
	})
	return s
}

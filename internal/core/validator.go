package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// priceTolerance is the absolute dollar tolerance for the PO-vs-master
// price comparison. Deliberately absolute, not relative: a penny is a
// penny at any price point.
var priceTolerance = decimal.NewFromFloat(0.01)

// ValidateLineItems cross-checks each PO line against the stock ledger and
// product master, producing derived copies with availability, shortage and
// status fields. Unknown SKUs resolve to zero stock and a missing product
// record; that is a valid outcome (PRODUCT_MISSING status), never an error.
//
// Under MAIN mode a shortage is first covered from the sub warehouse:
// TransferFromSub = min(availableSub, shortage). RemainingShortage is what
// survives the transfer and drives the inventory status.
func ValidateLineItems(items []POLineItem, stock map[string]StockRecord, products map[string]ProductRecord, safetyStock int, mode StockMode) []ValidatedItem {
	validated := make([]ValidatedItem, 0, len(items))
	for _, item := range items {
		sku := strings.TrimSpace(item.SKU)
		rec := stock[sku]
		product, productFound := products[sku]

		avail := ResolveAvailability(rec, safetyStock, mode)

		// Safety stock only reduces supply; the requirement is the PO
		// quantity as parsed.
		required := clampNonNegative(item.QuantityUnits)
		shortage := clampNonNegative(required - avail.Selected)

		transfer := 0
		if mode == ModeMain && shortage > 0 && avail.Sub > 0 {
			transfer = avail.Sub
			if shortage < transfer {
				transfer = shortage
			}
		}
		remaining := clampNonNegative(shortage - transfer)

		inventoryStatus := StatusOK
		switch {
		case remaining == 0:
			inventoryStatus = StatusOK
		case avail.Selected > 0:
			inventoryStatus = StatusInventoryLow
		default:
			inventoryStatus = StatusOutOfStock
		}

		systemPrice := product.UnitPrice
		priceStatus := StatusOK
		priceWarning := ""
		switch {
		case !productFound:
			priceStatus = StatusProductMissing
		case item.IsAggregate || (item.UnitCost.IsPositive() && systemPrice.IsPositive()):
			if item.UnitCost.Sub(systemPrice).Abs().GreaterThan(priceTolerance) {
				priceStatus = StatusPriceMismatch
				priceWarning = fmt.Sprintf("PO: $%s vs System: $%s",
					item.UnitCost.StringFixed(2), systemPrice.StringFixed(2))
			}
		case systemPrice.IsZero():
			priceStatus = StatusProductMissing
		}

		combined := inventoryStatus
		if priceStatus != StatusOK {
			combined = priceStatus
		}

		validated = append(validated, ValidatedItem{
			POLineItem: item,

			MainStock:      rec.At(LocationMain),
			SubStock:       rec.At(LocationSub),
			TotalStock:     rec.Total,
			AvailableMain:  avail.Main,
			AvailableSub:   avail.Sub,
			AvailableTotal: avail.Total,
			AvailableStock: avail.Selected,

			RequiredQty:       required,
			Shortage:          shortage,
			TransferFromSub:   transfer,
			RemainingShortage: remaining,

			SystemPrice:  systemPrice,
			PriceWarning: priceWarning,

			StockMode:       mode,
			InventoryStatus: inventoryStatus,
			PriceStatus:     priceStatus,
			CombinedStatus:  combined,
		})
	}
	return validated
}

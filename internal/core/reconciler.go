package core

import (
	"sort"
	"strings"
)

// Reconciliation statuses for a single SKU.
type ReconcileStatus string

const (
	ReconcileOK    ReconcileStatus = "ok"
	ReconcileOver  ReconcileStatus = "over"  // breakdown exceeds aggregate
	ReconcileUnder ReconcileStatus = "under" // breakdown falls short of aggregate
	ReconcileExtra ReconcileStatus = "extra" // SKU absent from the aggregate document
)

// destinationPreviewLimit caps the SKU preview reported per destination.
const destinationPreviewLimit = 5

// DestinationBreakdown is one destination's share of a SKU.
type DestinationBreakdown struct {
	DestinationID string `json:"destination_id"`
	Qty           int    `json:"qty"`
	Cartons       int    `json:"cartons"`
}

// ReconciliationRecord reports one SKU whose breakdown total does not match
// the aggregate document.
type ReconciliationRecord struct {
	SKU           string                 `json:"sku"`
	AggregateQty  int                    `json:"aggregate_qty"`
	BreakdownQty  int                    `json:"breakdown_qty"`
	Difference    int                    `json:"difference"` // breakdown - aggregate
	Status        ReconcileStatus        `json:"status"`
	ByDestination []DestinationBreakdown `json:"by_destination"`
}

// DestinationRollup summarizes one destination across the whole breakdown
// document. SKUPreview lists at most destinationPreviewLimit SKUs in
// ascending lexicographic order so output is deterministic.
type DestinationRollup struct {
	DestinationID string   `json:"destination_id"`
	TotalUnits    int      `json:"total_units"`
	TotalCartons  int      `json:"total_cartons"`
	SKUCount      int      `json:"sku_count"`
	SKUPreview    []string `json:"sku_preview"`
}

// ReconcileResult is the outcome of comparing an aggregate (mother)
// document against its per-destination breakdown.
type ReconcileResult struct {
	Mismatches     []ReconciliationRecord `json:"mismatches"`
	AggregateUnits int                    `json:"aggregate_units"`
	BreakdownUnits int                    `json:"breakdown_units"`
	// QtyMatch reports whether the grand totals agree. It is implied by an
	// empty mismatch list but reported separately for callers.
	QtyMatch      bool                `json:"qty_match"`
	Valid         bool                `json:"valid"`
	ByDestination []DestinationRollup `json:"by_destination"`
}

// Reconcile compares per-SKU totals of an aggregate order against the sum
// of its per-destination breakdown. Lines with non-positive quantity are
// dropped before aggregation; SKU and destination identifiers are trimmed
// and compared case-sensitively as received.
//
// products supplies pack sizes for carton math when a breakdown line does
// not carry its own.
func Reconcile(aggregateItems, breakdownItems []POLineItem, products map[string]ProductRecord) ReconcileResult {
	aggregateTotals := make(map[string]int)
	aggregateUnits := 0
	for _, item := range aggregateItems {
		if item.QuantityUnits <= 0 {
			continue
		}
		sku := strings.TrimSpace(item.SKU)
		aggregateTotals[sku] += item.QuantityUnits
		aggregateUnits += item.QuantityUnits
	}

	breakdownTotals := make(map[string]int)
	bySKUDest := make(map[string]map[string]*DestinationBreakdown)
	rollups := make(map[string]*DestinationRollup)
	skusByDest := make(map[string]map[string]struct{})
	breakdownUnits := 0

	for _, item := range breakdownItems {
		if item.QuantityUnits <= 0 {
			continue
		}
		sku := strings.TrimSpace(item.SKU)
		dest := strings.TrimSpace(item.DestinationID)
		packSize := item.EffectivePackSize(products[sku])
		cartons := ceilDiv(item.QuantityUnits, packSize)

		breakdownTotals[sku] += item.QuantityUnits
		breakdownUnits += item.QuantityUnits

		if bySKUDest[sku] == nil {
			bySKUDest[sku] = make(map[string]*DestinationBreakdown)
		}
		db := bySKUDest[sku][dest]
		if db == nil {
			db = &DestinationBreakdown{DestinationID: dest}
			bySKUDest[sku][dest] = db
		}
		db.Qty += item.QuantityUnits
		db.Cartons += cartons

		r := rollups[dest]
		if r == nil {
			r = &DestinationRollup{DestinationID: dest}
			rollups[dest] = r
			skusByDest[dest] = make(map[string]struct{})
		}
		r.TotalUnits += item.QuantityUnits
		r.TotalCartons += cartons
		skusByDest[dest][sku] = struct{}{}
	}

	var mismatches []ReconciliationRecord
	for sku, aggQty := range aggregateTotals {
		bdQty := breakdownTotals[sku]
		if bdQty == aggQty {
			continue
		}
		status := ReconcileUnder
		if bdQty > aggQty {
			status = ReconcileOver
		}
		mismatches = append(mismatches, ReconciliationRecord{
			SKU:           sku,
			AggregateQty:  aggQty,
			BreakdownQty:  bdQty,
			Difference:    bdQty - aggQty,
			Status:        status,
			ByDestination: sortedBreakdown(bySKUDest[sku]),
		})
	}
	for sku, bdQty := range breakdownTotals {
		if _, known := aggregateTotals[sku]; known {
			continue
		}
		mismatches = append(mismatches, ReconciliationRecord{
			SKU:           sku,
			AggregateQty:  0,
			BreakdownQty:  bdQty,
			Difference:    bdQty,
			Status:        ReconcileExtra,
			ByDestination: sortedBreakdown(bySKUDest[sku]),
		})
	}
	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].SKU < mismatches[j].SKU })

	byDestination := make([]DestinationRollup, 0, len(rollups))
	for dest, r := range rollups {
		skus := make([]string, 0, len(skusByDest[dest]))
		for sku := range skusByDest[dest] {
			skus = append(skus, sku)
		}
		sort.Strings(skus)
		r.SKUCount = len(skus)
		if len(skus) > destinationPreviewLimit {
			skus = skus[:destinationPreviewLimit]
		}
		r.SKUPreview = skus
		byDestination = append(byDestination, *r)
	}
	sort.Slice(byDestination, func(i, j int) bool {
		return byDestination[i].DestinationID < byDestination[j].DestinationID
	})

	qtyMatch := aggregateUnits == breakdownUnits
	return ReconcileResult{
		Mismatches:     mismatches,
		AggregateUnits: aggregateUnits,
		BreakdownUnits: breakdownUnits,
		QtyMatch:       qtyMatch,
		Valid:          len(mismatches) == 0 && qtyMatch,
		ByDestination:  byDestination,
	}
}

func sortedBreakdown(m map[string]*DestinationBreakdown) []DestinationBreakdown {
	out := make([]DestinationBreakdown, 0, len(m))
	for _, db := range m {
		out = append(out, *db)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DestinationID < out[j].DestinationID })
	return out
}

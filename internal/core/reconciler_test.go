package core_test

import (
	"reflect"
	"testing"

	"po-review/internal/core"
)

func aggLine(sku string, qty int) core.POLineItem {
	return core.POLineItem{SKU: sku, QuantityUnits: qty, PackSize: 12, IsAggregate: true}
}

func destLine(sku, dest string, qty int) core.POLineItem {
	return core.POLineItem{SKU: sku, DestinationID: dest, QuantityUnits: qty, PackSize: 12}
}

func TestReconcile_MatchingBreakdown(t *testing.T) {
	// A100 aggregate 120 split D1=70 + D2=50 reconciles cleanly.
	got := core.Reconcile(
		[]core.POLineItem{aggLine("A100", 120)},
		[]core.POLineItem{destLine("A100", "D1", 70), destLine("A100", "D2", 50)},
		nil,
	)

	if len(got.Mismatches) != 0 {
		t.Fatalf("expected no mismatches, got %+v", got.Mismatches)
	}
	if !got.QtyMatch || !got.Valid {
		t.Errorf("QtyMatch=%v Valid=%v, want true/true", got.QtyMatch, got.Valid)
	}
	if got.AggregateUnits != 120 || got.BreakdownUnits != 120 {
		t.Errorf("units = %d/%d, want 120/120", got.AggregateUnits, got.BreakdownUnits)
	}
}

func TestReconcile_OverAllocation(t *testing.T) {
	// Breakdown totals 130 against an aggregate of 120.
	got := core.Reconcile(
		[]core.POLineItem{aggLine("A100", 120)},
		[]core.POLineItem{destLine("A100", "D1", 80), destLine("A100", "D2", 50)},
		nil,
	)

	if len(got.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(got.Mismatches))
	}
	m := got.Mismatches[0]
	if m.SKU != "A100" || m.Status != core.ReconcileOver || m.Difference != 10 {
		t.Errorf("mismatch = %+v, want A100/over/+10", m)
	}
	if m.AggregateQty != 120 || m.BreakdownQty != 130 {
		t.Errorf("quantities = %d/%d, want 120/130", m.AggregateQty, m.BreakdownQty)
	}
	if got.Valid || got.QtyMatch {
		t.Errorf("Valid=%v QtyMatch=%v, want false/false", got.Valid, got.QtyMatch)
	}
}

func TestReconcile_UnderAndExtra(t *testing.T) {
	got := core.Reconcile(
		[]core.POLineItem{aggLine("A100", 100), aggLine("B200", 60)},
		[]core.POLineItem{
			destLine("A100", "D1", 40), // under by 60
			destLine("B200", "D1", 60), // matches
			destLine("Z900", "D2", 24), // not on the aggregate at all
		},
		nil,
	)

	if len(got.Mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %+v", got.Mismatches)
	}
	// Records come back sorted by SKU.
	if got.Mismatches[0].SKU != "A100" || got.Mismatches[0].Status != core.ReconcileUnder || got.Mismatches[0].Difference != -60 {
		t.Errorf("first mismatch = %+v, want A100/under/-60", got.Mismatches[0])
	}
	extra := got.Mismatches[1]
	if extra.SKU != "Z900" || extra.Status != core.ReconcileExtra || extra.AggregateQty != 0 || extra.Difference != 24 {
		t.Errorf("second mismatch = %+v, want Z900/extra/agg 0/+24", extra)
	}
}

func TestReconcile_DropsNonPositiveAndTrims(t *testing.T) {
	got := core.Reconcile(
		[]core.POLineItem{aggLine(" A100 ", 50), aggLine("B200", 0)},
		[]core.POLineItem{destLine("A100", " D1 ", 50), destLine("B200", "D1", -5)},
		nil,
	)

	if len(got.Mismatches) != 0 {
		t.Fatalf("expected zero-qty lines to be dropped, got %+v", got.Mismatches)
	}
	if got.AggregateUnits != 50 || got.BreakdownUnits != 50 {
		t.Errorf("units = %d/%d, want 50/50", got.AggregateUnits, got.BreakdownUnits)
	}
	if len(got.ByDestination) != 1 || got.ByDestination[0].DestinationID != "D1" {
		t.Fatalf("rollups = %+v, want exactly D1", got.ByDestination)
	}
}

func TestReconcile_DestinationRollups(t *testing.T) {
	breakdown := []core.POLineItem{
		destLine("A100", "D2", 24), // 2 cartons at pack 12
		destLine("B200", "D1", 30), // 3 cartons
		destLine("A100", "D1", 13), // 2 cartons (ceil)
	}
	got := core.Reconcile(
		[]core.POLineItem{aggLine("A100", 37), aggLine("B200", 30)},
		breakdown,
		nil,
	)

	want := []core.DestinationRollup{
		{DestinationID: "D1", TotalUnits: 43, TotalCartons: 5, SKUCount: 2, SKUPreview: []string{"A100", "B200"}},
		{DestinationID: "D2", TotalUnits: 24, TotalCartons: 2, SKUCount: 1, SKUPreview: []string{"A100"}},
	}
	if !reflect.DeepEqual(got.ByDestination, want) {
		t.Errorf("ByDestination = %+v, want %+v", got.ByDestination, want)
	}
}

func TestReconcile_PreviewCappedAndSorted(t *testing.T) {
	breakdown := []core.POLineItem{
		destLine("F6", "D1", 1), destLine("C3", "D1", 1), destLine("E5", "D1", 1),
		destLine("A1", "D1", 1), destLine("G7", "D1", 1), destLine("B2", "D1", 1),
		destLine("D4", "D1", 1),
	}
	agg := make([]core.POLineItem, 0, len(breakdown))
	for _, b := range breakdown {
		agg = append(agg, aggLine(b.SKU, 1))
	}

	got := core.Reconcile(agg, breakdown, nil)
	if len(got.ByDestination) != 1 {
		t.Fatalf("rollups = %+v", got.ByDestination)
	}
	r := got.ByDestination[0]
	if r.SKUCount != 7 {
		t.Errorf("SKUCount = %d, want 7", r.SKUCount)
	}
	wantPreview := []string{"A1", "B2", "C3", "D4", "E5"}
	if !reflect.DeepEqual(r.SKUPreview, wantPreview) {
		t.Errorf("SKUPreview = %v, want %v", r.SKUPreview, wantPreview)
	}
}

func TestReconcile_PackSizePreference(t *testing.T) {
	// The breakdown line's own pack size (6) beats the product master (12).
	products := map[string]core.ProductRecord{"A100": product(1.00, 12)}
	withOwnPack := core.POLineItem{SKU: "A100", DestinationID: "D1", QuantityUnits: 24, PackSize: 6}
	withoutPack := core.POLineItem{SKU: "A100", DestinationID: "D2", QuantityUnits: 24}

	got := core.Reconcile(
		[]core.POLineItem{aggLine("A100", 48)},
		[]core.POLineItem{withOwnPack, withoutPack},
		products,
	)

	if got.ByDestination[0].TotalCartons != 4 {
		t.Errorf("D1 cartons = %d, want 4 (pack size from line)", got.ByDestination[0].TotalCartons)
	}
	if got.ByDestination[1].TotalCartons != 2 {
		t.Errorf("D2 cartons = %d, want 2 (pack size from master)", got.ByDestination[1].TotalCartons)
	}
}

func TestReconcile_CompletenessProperty(t *testing.T) {
	// Every SKU seen on either side yields at most one mismatch record, and
	// the global QtyMatch flag agrees with the per-SKU outcomes.
	agg := []core.POLineItem{aggLine("A", 10), aggLine("B", 20), aggLine("C", 30)}
	bd := []core.POLineItem{
		destLine("A", "D1", 10),
		destLine("B", "D1", 25),
		destLine("D", "D2", 5),
	}
	got := core.Reconcile(agg, bd, nil)

	seen := map[string]int{}
	for _, m := range got.Mismatches {
		seen[m.SKU]++
	}
	for sku, n := range seen {
		if n != 1 {
			t.Errorf("SKU %s has %d mismatch records, want 1", sku, n)
		}
	}
	// B over, C under, D extra; A clean.
	if len(got.Mismatches) != 3 {
		t.Errorf("mismatch count = %d, want 3", len(got.Mismatches))
	}
	if got.QtyMatch != (got.AggregateUnits == got.BreakdownUnits) {
		t.Error("QtyMatch flag disagrees with unit totals")
	}
}

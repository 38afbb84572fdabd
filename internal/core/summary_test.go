package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"po-review/internal/core"
)

func TestSummarize(t *testing.T) {
	stocks := map[string]core.StockRecord{
		"A100": stock(100, 0),
		"B200": stock(10, 0),
		"C300": stock(0, 0),
	}
	products := map[string]core.ProductRecord{
		"A100": product(2.50, 12),
		"B200": product(4.00, 6),
		"C300": product(1.25, 10),
	}
	items := []core.POLineItem{
		{SKU: "A100", DestinationID: "D1", QuantityUnits: 24, PackSize: 12},
		{SKU: "B200", DestinationID: "D1", QuantityUnits: 30, PackSize: 6},
		{SKU: "C300", DestinationID: "D2", QuantityUnits: 10, PackSize: 10},
	}
	validated := core.ValidateLineItems(items, stocks, products, 0, core.ModeTotal)

	got := core.Summarize(validated, products)

	if got.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", got.TotalItems)
	}
	if got.TotalUnits != 64 {
		t.Errorf("TotalUnits = %d, want 64", got.TotalUnits)
	}
	// 2 + 5 + 1 cartons.
	if got.TotalCartons != 8 {
		t.Errorf("TotalCartons = %d, want 8", got.TotalCartons)
	}
	// 24×2.50 + 30×4.00 + 10×1.25 = 60 + 120 + 12.50.
	wantAmount := decimal.NewFromFloat(192.50)
	if !got.TotalAmount.Equal(wantAmount) {
		t.Errorf("TotalAmount = %s, want %s", got.TotalAmount, wantAmount)
	}
	if got.OKCount != 1 || got.LowCount != 1 || got.OutOfStockCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1 OK, 1 low, 1 out of stock",
			got.OKCount, got.LowCount, got.OutOfStockCount)
	}
	if got.TotalShortage != 20+10 {
		t.Errorf("TotalShortage = %d, want 30", got.TotalShortage)
	}

	if len(got.PerDestination) != 2 {
		t.Fatalf("PerDestination = %+v, want D1 and D2", got.PerDestination)
	}
	d1 := got.PerDestination[0]
	if d1.DestinationID != "D1" || d1.Units != 54 || d1.Cartons != 7 {
		t.Errorf("D1 = %+v, want 54 units / 7 cartons", d1)
	}
	if len(d1.ShortageLines) != 1 || d1.ShortageLines[0].SKU != "B200" || d1.ShortageLines[0].Shortage != 20 {
		t.Errorf("D1 shortage lines = %+v, want B200 short 20", d1.ShortageLines)
	}
	d2 := got.PerDestination[1]
	if len(d2.ShortageLines) != 1 || d2.ShortageLines[0].Shortage != 10 {
		t.Errorf("D2 shortage lines = %+v, want C300 short 10", d2.ShortageLines)
	}
}

func TestSummarize_AggregateUsesPOCost(t *testing.T) {
	stocks := map[string]core.StockRecord{"A100": stock(1000, 0)}
	products := map[string]core.ProductRecord{"A100": product(2.50, 12)}
	items := []core.POLineItem{{
		SKU:           "A100",
		QuantityUnits: 10,
		UnitCost:      decimal.NewFromFloat(3.00),
		IsAggregate:   true,
	}}
	validated := core.ValidateLineItems(items, stocks, products, 0, core.ModeTotal)

	got := core.Summarize(validated, products)
	want := decimal.NewFromFloat(30.00)
	if !got.TotalAmount.Equal(want) {
		t.Errorf("TotalAmount = %s, want %s (PO cost wins on aggregate documents)", got.TotalAmount, want)
	}
	if got.PriceMismatch != 1 {
		t.Errorf("PriceMismatch = %d, want 1", got.PriceMismatch)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := core.Summarize(nil, nil)
	if got.TotalItems != 0 || got.TotalUnits != 0 || !got.TotalAmount.IsZero() {
		t.Errorf("empty summary = %+v, want zeros", got)
	}
	if len(got.PerDestination) != 0 {
		t.Errorf("PerDestination = %+v, want empty", got.PerDestination)
	}
}

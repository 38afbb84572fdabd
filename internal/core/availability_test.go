package core_test

import (
	"testing"

	"po-review/internal/core"
)

func stock(main, sub int) core.StockRecord {
	return core.StockRecord{
		Total:      main + sub,
		ByLocation: map[string]int{core.LocationMain: main, core.LocationSub: sub},
	}
}

func TestResolveAvailability(t *testing.T) {
	tests := []struct {
		name        string
		stock       core.StockRecord
		safetyStock int
		mode        core.StockMode
		want        core.Availability
	}{
		{
			name:        "safety stock reserved at every location",
			stock:       stock(50, 80),
			safetyStock: 10,
			mode:        core.ModeTotal,
			want:        core.Availability{Main: 40, Sub: 70, Total: 110, Selected: 110},
		},
		{
			name:        "main mode selects main pool",
			stock:       stock(50, 80),
			safetyStock: 10,
			mode:        core.ModeMain,
			want:        core.Availability{Main: 40, Sub: 70, Total: 110, Selected: 40},
		},
		{
			name:        "negative availability clamps to zero",
			stock:       stock(5, 0),
			safetyStock: 10,
			mode:        core.ModeSub,
			want:        core.Availability{Main: 0, Sub: 0, Total: 0, Selected: 0},
		},
		{
			name:        "missing locations default to zero",
			stock:       core.StockRecord{Total: 30},
			safetyStock: 5,
			mode:        core.ModeTotal,
			want:        core.Availability{Main: 0, Sub: 0, Total: 25, Selected: 25},
		},
		{
			name:        "negative safety stock treated as zero",
			stock:       stock(10, 10),
			safetyStock: -7,
			mode:        core.ModeTotal,
			want:        core.Availability{Main: 10, Sub: 10, Total: 20, Selected: 20},
		},
		{
			name:        "one location exhausted does not drag the other below zero",
			stock:       stock(3, 40),
			safetyStock: 10,
			mode:        core.ModeTotal,
			want:        core.Availability{Main: 0, Sub: 30, Total: 30, Selected: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ResolveAvailability(tt.stock, tt.safetyStock, tt.mode)
			if got != tt.want {
				t.Errorf("ResolveAvailability() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveAvailability_Monotonic(t *testing.T) {
	rec := stock(37, 91)
	prev := core.ResolveAvailability(rec, 0, core.ModeTotal).Total
	for safety := 1; safety <= 150; safety++ {
		cur := core.ResolveAvailability(rec, safety, core.ModeTotal).Total
		if cur > prev {
			t.Fatalf("availability increased when safety stock rose to %d: %d > %d", safety, cur, prev)
		}
		prev = cur
	}
}

func TestResolveSafetyStock(t *testing.T) {
	tests := []struct {
		name       string
		raw        any
		configured int
		want       int
	}{
		{"nil uses configured default", nil, 25, 25},
		{"int passes through", 15, 25, 15},
		{"zero is a valid explicit value", 0, 25, 0},
		{"negative int falls back", -3, 25, 25},
		{"json number (float64) coerces", float64(40), 0, 40},
		{"fractional number falls back", 12.5, 25, 25},
		{"numeric string coerces", " 30 ", 25, 30},
		{"garbage string falls back", "lots", 25, 25},
		{"negative configured clamps to zero", nil, -9, 0},
		{"bool falls back", true, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.ResolveSafetyStock(tt.raw, tt.configured); got != tt.want {
				t.Errorf("ResolveSafetyStock(%v, %d) = %d, want %d", tt.raw, tt.configured, got, tt.want)
			}
		})
	}
}

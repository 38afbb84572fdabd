package store_test

import (
	"strings"
	"testing"

	"po-review/internal/core"
	"po-review/internal/store"
)

const productsCSV = `SKU,ProductName_Short,KeyAccountPrice_TJX,UnitsPerCase,MasterCarton_Weight_lbs,MasterCarton_Height_inches,MaxCartonsPerPallet
A100,Widget Red,$2.50,12,18.5,12,25
B200,Widget Blue,3.00,6,,,
,Ghost Row,1.00,1,1,1,1
`

const inventoryCSV = `SKU,Location,OnHand
A100,MAIN,50
A100,SUB,80
A100,main,10
B200,MAIN,-5
B200,SUB,30
`

func TestLoadProductsCSV(t *testing.T) {
	products, err := store.LoadProductsCSV(strings.NewReader(productsCSV))
	if err != nil {
		t.Fatalf("LoadProductsCSV: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2 (blank SKU dropped)", len(products))
	}

	a := products["A100"]
	if a.Name != "Widget Red" || a.PackSize != 12 || a.MaxCartonsPerPallet != 25 {
		t.Errorf("A100 = %+v", a)
	}
	if a.UnitPrice.StringFixed(2) != "2.50" {
		t.Errorf("A100 price = %s", a.UnitPrice)
	}
	if a.CartonWeight != 18.5 || a.CartonHeight != 12 {
		t.Errorf("A100 carton = %v lbs / %v in", a.CartonWeight, a.CartonHeight)
	}

	b := products["B200"]
	if b.CartonWeight != 15 || b.CartonHeight != 10 {
		t.Errorf("B200 should get default carton dimensions, got %v/%v", b.CartonWeight, b.CartonHeight)
	}
	if b.EffectiveMaxCartons() != 20 {
		t.Errorf("B200 max cartons = %d, want default 20", b.EffectiveMaxCartons())
	}
}

func TestLoadInventoryCSV(t *testing.T) {
	stock, err := store.LoadInventoryCSV(strings.NewReader(inventoryCSV))
	if err != nil {
		t.Fatalf("LoadInventoryCSV: %v", err)
	}

	a := stock["A100"]
	if a.Total != 140 {
		t.Errorf("A100 total = %d, want 140 (locations folded, case-insensitive)", a.Total)
	}
	if a.ByLocation[core.LocationMain] != 60 || a.ByLocation[core.LocationSub] != 80 {
		t.Errorf("A100 locations = %+v", a.ByLocation)
	}

	b := stock["B200"]
	if b.ByLocation[core.LocationMain] != 0 {
		t.Errorf("negative on-hand should clamp to 0, got %d", b.ByLocation[core.LocationMain])
	}
	if b.Total != 30 {
		t.Errorf("B200 total = %d, want 30", b.Total)
	}
}

func TestLoadProductsCSV_NonFiniteDimensions(t *testing.T) {
	csv := "SKU,UnitsPerCase,MasterCarton_Weight_lbs,MasterCarton_Height_inches\n" +
		"C300,4,NaN,+Inf\n"
	products, err := store.LoadProductsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadProductsCSV: %v", err)
	}
	c := products["C300"]
	if c.CartonWeight != 15 || c.CartonHeight != 10 {
		t.Errorf("non-finite dimensions should fall back to defaults, got %v/%v",
			c.CartonWeight, c.CartonHeight)
	}
}

func TestLoadInventoryCSV_MissingColumn(t *testing.T) {
	if _, err := store.LoadInventoryCSV(strings.NewReader("SKU,OnHand\nA100,5\n")); err == nil {
		t.Fatal("expected error for missing Location column")
	}
}

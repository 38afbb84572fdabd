// Package export renders review results as CSV files the operations team
// feeds back into spreadsheets and the ERP order import.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"po-review/internal/core"
)

// WriteReviewWorksheet renders one row per validated line item, matching
// the columns reviewers work through by hand.
func WriteReviewWorksheet(w io.Writer, items []core.ValidatedItem) error {
	cw := csv.NewWriter(w)
	header := []string{
		"SKU", "Description", "Destination", "Qty", "Pack Size", "Cartons",
		"Available", "Shortage", "Transfer From SUB", "Remaining Shortage",
		"PO Cost", "System Price", "Status", "Price Warning",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write worksheet header: %w", err)
	}
	for _, item := range items {
		pack := item.PackSize
		if pack < 1 {
			pack = 1
		}
		cartons := (item.QuantityUnits + pack - 1) / pack
		row := []string{
			item.SKU,
			item.Description,
			item.DestinationID,
			strconv.Itoa(item.QuantityUnits),
			strconv.Itoa(pack),
			strconv.Itoa(cartons),
			strconv.Itoa(item.AvailableStock),
			strconv.Itoa(item.Shortage),
			strconv.Itoa(item.TransferFromSub),
			strconv.Itoa(item.RemainingShortage),
			item.UnitCost.StringFixed(2),
			item.SystemPrice.StringFixed(2),
			item.CombinedStatus,
			item.PriceWarning,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write worksheet row %s: %w", item.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePackingList renders one row per pallet line, grouped by pallet.
func WritePackingList(w io.Writer, pallets []core.Pallet) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Pallet", "Type", "SKU", "Description", "Cartons", "Units",
		"Pallet Cartons", "Pallet Weight (lbs)", "Pallet Height (in)", "Utilization %",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write packing header: %w", err)
	}
	for _, p := range pallets {
		for _, line := range p.Lines {
			pack := line.PackSize
			if pack < 1 {
				pack = 1
			}
			row := []string{
				p.ID,
				string(p.Kind),
				line.SKU,
				line.Description,
				strconv.Itoa(line.CartonQty),
				strconv.Itoa(line.CartonQty * pack),
				strconv.Itoa(p.TotalCartons),
				strconv.FormatFloat(p.TotalWeight, 'f', 1, 64),
				strconv.FormatFloat(p.TotalHeight, 'f', 1, 64),
				strconv.Itoa(p.UtilizationPercent),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write packing row %s/%s: %w", p.ID, line.SKU, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOrderImport renders the ERP sales-order import file. Every line of
// one PO shares a generated order reference of the form SO-<prefix>-<po>.
func WriteOrderImport(w io.Writer, prefix string, items []core.ValidatedItem) error {
	cw := csv.NewWriter(w)
	header := []string{"Order Ref", "Other Ref", "SKU", "Qty", "Unit Price", "Destination", "Ship Window"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write order header: %w", err)
	}
	for _, item := range items {
		price := item.SystemPrice
		if item.IsAggregate && item.UnitCost.IsPositive() {
			price = item.UnitCost
		}
		row := []string{
			OrderRef(prefix, item.DocumentNumber),
			OtherRef(prefix, item.DocumentNumber),
			item.SKU,
			strconv.Itoa(item.QuantityUnits),
			price.StringFixed(2),
			item.DestinationID,
			item.ShipWindow,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write order row %s: %w", item.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePalletOrderImport renders the ERP sales-order import for a pallet
// plan: one row per pallet line, units derived from the packed cartons and
// prices looked up in the product catalog.
func WritePalletOrderImport(w io.Writer, prefix, poNumber, shipWindow string, pallets []core.Pallet, products map[string]core.ProductRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"Order Ref", "Other Ref", "SKU", "Qty", "Unit Price", "Pallet", "Ship Window"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write order header: %w", err)
	}
	for _, p := range pallets {
		for _, line := range p.Lines {
			pack := line.PackSize
			if pack < 1 {
				pack = 1
			}
			row := []string{
				OrderRef(prefix, poNumber),
				OtherRef(prefix, poNumber),
				line.SKU,
				strconv.Itoa(line.CartonQty * pack),
				products[line.SKU].UnitPrice.StringFixed(2),
				p.ID,
				shipWindow,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write order row %s/%s: %w", p.ID, line.SKU, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// OrderRef builds the sales-order reference for a PO number, e.g.
// OrderRef("TJX", "123456") = "SO-TJX-123456". An empty PO number falls
// back to a timestamp so generated files never collide on a blank ref.
func OrderRef(prefix, poNumber string) string {
	if poNumber == "" {
		poNumber = time.Now().UTC().Format("20060102150405")
	}
	if prefix == "" {
		return fmt.Sprintf("SO-%s", poNumber)
	}
	return fmt.Sprintf("SO-%s-%s", prefix, poNumber)
}

// OtherRef is the secondary reference carried on order-import rows, e.g.
// "TJX 123456".
func OtherRef(prefix, poNumber string) string {
	if prefix == "" {
		return fmt.Sprintf("PO %s", poNumber)
	}
	return fmt.Sprintf("%s %s", prefix, poNumber)
}

// Package podoc parses purchase-order documents that have already been
// reduced to tabular text (CSV) by the upstream extraction pipeline.
//
// Two layouts are recognized. A breakdown document carries one quantity
// column per destination ("DC# 0001", "DC# 0002", ...); an aggregate
// ("mother") document carries a single total-units column and a unit-cost
// column. Header metadata (PO number, ship window dates) may appear on
// preamble rows before the table header.
package podoc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"po-review/internal/core"
)

// ErrNoTable reports a document in which no line-item table could be
// located. It is distinct from a successfully parsed table with zero rows:
// the former blocks downstream allocation, the latter proceeds empty.
var ErrNoTable = errors.New("no line-item table found in document")

var (
	poNumberRe = regexp.MustCompile(`(?i)(?:PO|Purchase Order)\s*#?[:.]?\s*(\d+)`)
	dateRe     = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	dcColumnRe = regexp.MustCompile(`(?i)DC#?\s*(\d+)`)
)

// Document is one parsed purchase order.
type Document struct {
	PONumber   string
	ShipWindow string
	Aggregate  bool
	Items      []core.POLineItem
}

// columnMap records which table column serves which purpose. Quantity
// columns are either destination-keyed (breakdown) or a single totals
// column (aggregate).
type columnMap struct {
	sku      int
	desc     int
	pack     int
	cost     int
	qty      int            // aggregate quantity column, -1 if absent
	destCols map[int]string // column index → destination id
}

// destOrder returns destination column indices left to right, preserving
// the document's own destination ordering.
func (c *columnMap) destOrder() []int {
	order := make([]int, 0, len(c.destCols))
	for col := range c.destCols {
		order = append(order, col)
	}
	sort.Ints(order)
	return order
}

// Parse reads a tabular PO document. A document-level failure (unreadable
// input, no recognizable table) returns an error; malformed values on
// individual lines coerce to defaults instead, since upstream extraction is
// inherently noisy. Lines whose quantities are all non-positive are
// dropped.
func Parse(r io.Reader) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc := &Document{ShipWindow: "TBD"}
	var dates []string
	var cols *columnMap
	headerIdx := -1

	for i, row := range rows {
		joined := strings.Join(row, " ")
		if doc.PONumber == "" {
			if m := poNumberRe.FindStringSubmatch(joined); m != nil {
				doc.PONumber = m[1]
			}
		}
		if len(dates) < 2 {
			dates = append(dates, dateRe.FindAllString(joined, 2-len(dates))...)
		}
		if cols == nil {
			if c := detectColumns(row); c != nil {
				cols = c
				headerIdx = i
			}
		}
	}
	switch len(dates) {
	case 1:
		doc.ShipWindow = "Start: " + dates[0]
	case 2:
		doc.ShipWindow = dates[0] + " - " + dates[1]
	}

	if cols == nil {
		return nil, ErrNoTable
	}
	doc.Aggregate = len(cols.destCols) == 0

	for _, row := range rows[headerIdx+1:] {
		doc.Items = append(doc.Items, parseRow(row, cols, doc)...)
	}
	return doc, nil
}

// detectColumns decides whether a row is the table header and, if so, maps
// its columns. A header must name a SKU column and a pack-size column.
func detectColumns(row []string) *columnMap {
	c := &columnMap{sku: -1, desc: -1, pack: -1, cost: -1, qty: -1, destCols: map[int]string{}}
	for i, raw := range row {
		cell := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "\n", " "))
		switch {
		case cell == "sku" || strings.Contains(cell, "vendor style"):
			c.sku = i
		case strings.Contains(cell, "description"):
			c.desc = i
		case strings.Contains(cell, "pack"):
			c.pack = i
		case strings.Contains(cell, "cost") || strings.Contains(cell, "price"):
			c.cost = i
		default:
			if m := dcColumnRe.FindStringSubmatch(raw); m != nil {
				c.destCols[i] = m[1]
			} else if strings.Contains(cell, "unit") || strings.Contains(cell, "qty") || strings.Contains(cell, "quantity") {
				c.qty = i
			}
		}
	}
	if c.sku < 0 || c.pack < 0 {
		return nil
	}
	if c.qty < 0 && len(c.destCols) == 0 {
		return nil
	}
	return c
}

func parseRow(row []string, cols *columnMap, doc *Document) []core.POLineItem {
	sku := strings.TrimSpace(cell(row, cols.sku))
	if sku == "" {
		return nil
	}
	packSize := parseInt(cell(row, cols.pack))
	if packSize < 1 {
		packSize = 1
	}
	base := core.POLineItem{
		SKU:            sku,
		Description:    strings.TrimSpace(cell(row, cols.desc)),
		PackSize:       packSize,
		DocumentNumber: doc.PONumber,
		ShipWindow:     doc.ShipWindow,
	}

	if doc.Aggregate {
		qty := parseInt(cell(row, cols.qty))
		if qty <= 0 {
			return nil
		}
		item := base
		item.QuantityUnits = qty
		item.UnitCost = parseDecimal(cell(row, cols.cost))
		item.IsAggregate = true
		return []core.POLineItem{item}
	}

	var items []core.POLineItem
	for _, col := range cols.destOrder() {
		qty := parseInt(cell(row, col))
		if qty <= 0 {
			continue
		}
		item := base
		item.DestinationID = cols.destCols[col]
		item.QuantityUnits = qty
		items = append(items, item)
	}
	return items
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseInt coerces a possibly comma-grouped numeric cell, defaulting to 0.
func parseInt(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseDecimal coerces a currency cell ("$3.50", "3.50"), defaulting to 0.
func parseDecimal(s string) decimal.Decimal {
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

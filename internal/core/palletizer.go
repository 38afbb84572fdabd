package core

import (
	"fmt"
	"math"
	"sort"
)

// Pallet kinds. A FULL pallet carries a single SKU at its per-pallet carton
// limit; MIXED pallets are assembled from remainders by bin packing.
type PalletKind string

const (
	PalletFull  PalletKind = "FULL"
	PalletMixed PalletKind = "MIXED"
)

// PalletConfig carries the externally configured pallet policy values.
type PalletConfig struct {
	MaxHeight  float64 `json:"pallet_max_height"`
	MaxWeight  float64 `json:"pallet_max_weight"`
	BaseWeight float64 `json:"pallet_base_weight"`
}

// Wooden pallet deck height, inches.
const palletBaseHeight = 6.0

// DefaultPalletConfig returns the documented deployment defaults.
func DefaultPalletConfig() PalletConfig {
	return PalletConfig{MaxHeight: 68, MaxWeight: 2500, BaseWeight: 40}
}

// PalletInput is one carton line to be packed.
type PalletInput struct {
	SKU                 string  `json:"sku"`
	Description         string  `json:"description"`
	CartonQty           int     `json:"carton_qty"`
	PackSize            int     `json:"pack_size"`
	CartonWeight        float64 `json:"carton_weight_lbs"`
	CartonHeight        float64 `json:"carton_height_in"`
	MaxCartonsPerPallet int     `json:"max_cartons_per_pallet"`
}

func (in PalletInput) effectiveMaxCartons() int {
	if in.MaxCartonsPerPallet <= 0 {
		return defaultMaxCartonsPerPallet
	}
	return in.MaxCartonsPerPallet
}

// PalletLine is one SKU's share of a packed pallet.
type PalletLine struct {
	SKU         string `json:"sku"`
	CartonQty   int    `json:"carton_qty"`
	Description string `json:"description"`
	PackSize    int    `json:"pack_size"`
}

// Pallet is one physical pallet in the packing plan.
type Pallet struct {
	ID                 string       `json:"pallet_id"`
	Kind               PalletKind   `json:"kind"`
	Lines              []PalletLine `json:"lines"`
	TotalCartons       int          `json:"total_cartons"`
	TotalUnits         int          `json:"total_units"`
	TotalWeight        float64      `json:"total_weight_lbs"`
	TotalHeight        float64      `json:"total_height_in"`
	UtilizationPercent int          `json:"utilization_percent"`

	// OverWeightLimit and OverHeightLimit flag pallets whose totals exceed
	// the configured caps. Packing still succeeds; the flags let reviewers
	// rebalance heavy or tall SKUs by hand.
	OverWeightLimit bool `json:"over_weight_limit,omitempty"`
	OverHeightLimit bool `json:"over_height_limit,omitempty"`
}

// splitEntry is a sub-pallet remainder queued for mixed-pallet packing,
// tagged with its fractional pallet volume.
type splitEntry struct {
	input  PalletInput
	qty    int
	volume float64
}

// PackPallets assigns carton quantities to pallets in two phases.
//
// Phase 1 extracts FULL pallets per input line: with
// unitVolume = 1/maxCartonsPerPallet, whole pallets are peeled off while
// cartonQty*unitVolume >= 1.0. The remainder joins a split queue.
//
// Phase 2 packs the split queue by First-Fit-Decreasing on fractional
// volume into bins of capacity 1.0. FFD is not optimal but is a
// deterministic greedy approximation (≤ 11/9·OPT + 1 bins).
//
// Comparisons use the untruncated accumulated volume so bins are never
// systematically overpacked. Lines with cartonQty <= 0 are skipped.
// Packing never fails.
func PackPallets(items []PalletInput, cfg PalletConfig) []Pallet {
	var pallets []Pallet
	var splits []splitEntry
	counter := 0

	nextID := func() string {
		counter++
		return fmt.Sprintf("P%03d", counter)
	}

	for _, item := range items {
		qty := item.CartonQty
		if qty <= 0 {
			continue
		}
		maxPer := item.effectiveMaxCartons()
		unitVolume := 1.0 / float64(maxPer)

		for float64(qty)*unitVolume >= 1.0 {
			pallets = append(pallets, buildPallet(nextID(), PalletFull, cfg, binItem{input: item, qty: maxPer}))
			qty -= maxPer
		}
		if qty > 0 {
			splits = append(splits, splitEntry{input: item, qty: qty, volume: float64(qty) * unitVolume})
		}
	}

	// First-Fit-Decreasing over the remainders. Ties break on SKU so the
	// plan is stable across runs.
	sort.SliceStable(splits, func(i, j int) bool {
		if splits[i].volume != splits[j].volume {
			return splits[i].volume > splits[j].volume
		}
		return splits[i].input.SKU < splits[j].input.SKU
	})

	type bin struct {
		volume float64
		items  []binItem
	}
	var bins []*bin
	for _, s := range splits {
		placed := false
		for _, b := range bins {
			if b.volume+s.volume <= 1.0 {
				b.items = append(b.items, binItem{input: s.input, qty: s.qty})
				b.volume += s.volume
				placed = true
				break
			}
		}
		if !placed {
			bins = append(bins, &bin{volume: s.volume, items: []binItem{{input: s.input, qty: s.qty}}})
		}
	}

	for _, b := range bins {
		p := buildPallet(nextID(), PalletMixed, cfg, b.items...)
		p.UtilizationPercent = int(math.Round(b.volume * 100))
		pallets = append(pallets, p)
	}
	return pallets
}

type binItem struct {
	input PalletInput
	qty   int
}

func buildPallet(id string, kind PalletKind, cfg PalletConfig, items ...binItem) Pallet {
	p := Pallet{
		ID:          id,
		Kind:        kind,
		Lines:       make([]PalletLine, 0, len(items)),
		TotalWeight: cfg.BaseWeight,
		TotalHeight: palletBaseHeight,
	}
	tallest := 0.0
	for _, it := range items {
		packSize := it.input.PackSize
		if packSize < 1 {
			packSize = 1
		}
		p.Lines = append(p.Lines, PalletLine{
			SKU:         it.input.SKU,
			CartonQty:   it.qty,
			Description: it.input.Description,
			PackSize:    packSize,
		})
		p.TotalCartons += it.qty
		p.TotalUnits += it.qty * packSize
		p.TotalWeight += float64(it.qty) * it.input.CartonWeight
		if it.input.CartonHeight > tallest {
			tallest = it.input.CartonHeight
		}
	}
	p.TotalHeight += tallest
	p.TotalWeight = sanitizeFloat(p.TotalWeight)
	p.TotalHeight = sanitizeFloat(p.TotalHeight)
	p.OverWeightLimit = cfg.MaxWeight > 0 && p.TotalWeight > cfg.MaxWeight
	p.OverHeightLimit = cfg.MaxHeight > 0 && p.TotalHeight > cfg.MaxHeight
	if kind == PalletFull {
		p.UtilizationPercent = 100
	}
	return p
}

// sanitizeFloat replaces NaN and infinities with 0 so packed results always
// round-trip through JSON serialization.
func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

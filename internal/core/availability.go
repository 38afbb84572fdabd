package core

import (
	"strconv"
	"strings"
)

// Availability is the result of applying the safety-stock policy to one
// SKU's raw stock record. Each pool is reduced independently: the buffer is
// subtracted from MAIN, SUB and TOTAL separately, not once from the
// combined pool.
type Availability struct {
	Main     int `json:"available_main"`
	Sub      int `json:"available_sub"`
	Total    int `json:"available_total"`
	Selected int `json:"available_selected"`
}

// ResolveAvailability computes available quantities for a stock record
// under the given safety stock and mode. Pure function; negative results
// clamp to zero, and an unrecognized mode selects TOTAL.
//
// The TOTAL pool is the sum of per-location availabilities, so the buffer
// is reserved at every location rather than once against the combined
// figure. Records arriving without a location split (total only) fall back
// to a single subtraction from the reported total.
func ResolveAvailability(stock StockRecord, safetyStock int, mode StockMode) Availability {
	if safetyStock < 0 {
		safetyStock = 0
	}
	total := 0
	if len(stock.ByLocation) == 0 {
		total = clampNonNegative(stock.Total - safetyStock)
	} else {
		for _, qty := range stock.ByLocation {
			total += clampNonNegative(qty - safetyStock)
		}
	}
	a := Availability{
		Main:  clampNonNegative(stock.At(LocationMain) - safetyStock),
		Sub:   clampNonNegative(stock.At(LocationSub) - safetyStock),
		Total: total,
	}
	switch mode {
	case ModeMain:
		a.Selected = a.Main
	case ModeSub:
		a.Selected = a.Sub
	default:
		a.Selected = a.Total
	}
	return a
}

// ResolveSafetyStock coerces a caller-supplied safety-stock value, falling
// back to the configured default when the value is absent, non-numeric or
// negative. Upstream payloads are noisy (numbers arrive as JSON numbers or
// strings), so invalid input degrades silently instead of failing the
// request.
func ResolveSafetyStock(raw any, configured int) int {
	fallback := clampNonNegative(configured)
	switch v := raw.(type) {
	case nil:
		return fallback
	case int:
		if v < 0 {
			return fallback
		}
		return v
	case int64:
		if v < 0 {
			return fallback
		}
		return int(v)
	case float64:
		if v < 0 || v != float64(int(v)) {
			return fallback
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fallback
		}
		return n
	default:
		return fallback
	}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

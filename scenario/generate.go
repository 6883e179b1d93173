package scenario

import (
	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

// Paths never drop below 10% of initial, so every canonical scenario stays
// inside the engine's positive-price domain on long schedules.
var floorMult = decimal.NewFromFloat(0.10)

var one = decimal.NewFromInt(1)

// ramp returns a path drifting by slope per observation: initial×(1+slope·k).
func ramp(initial decimal.Decimal, slope float64, n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	s := decimal.NewFromFloat(slope)
	for k := 1; k <= n; k++ {
		m := one.Add(s.Mul(decimal.NewFromInt(int64(k))))
		if m.LessThan(floorMult) {
			m = floorMult
		}
		out[k-1] = initial.Mul(m)
	}
	return out
}

// flat returns a path pinned at mult×initial.
func flat(initial decimal.Decimal, mult float64, n int) []decimal.Decimal {
	m := decimal.NewFromFloat(mult)
	if m.LessThan(floorMult) {
		m = floorMult
	}
	px := initial.Mul(m)
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = px
	}
	return out
}

func mixedLevel(j, total int) float64 {
	if j == total-1 {
		return 0.60
	}
	return 1.10 - 0.05*float64(j)
}

func knockLevel(j, total int) float64 {
	if j == total-1 {
		return 0.40
	}
	return 0.90 - 0.10*float64(j)
}

// Defaults returns the canonical deterministic stress set for a note: fixed
// shapes exercising autocall, coupon-only, decline and knock-in behaviour.
// These are hypothetical paths, not simulations.
func Defaults(def product.Definition) []Scenario {
	n := len(def.ObservationDates)

	if len(def.Underlyings) == 1 {
		u := def.Underlyings[0]
		path := func(p []decimal.Decimal) product.PriceSet {
			return product.NewPriceSet(map[string][]decimal.Decimal{u.ID: p})
		}
		return []Scenario{
			{
				Name:        "bullish_autocall",
				Description: "steady rally of 5% per observation",
				Prices:      path(ramp(u.InitialPrice, 0.05, n)),
			},
			{
				Name:        "sideways_coupons",
				Description: "flat market at 85% of initial",
				Prices:      path(flat(u.InitialPrice, 0.85, n)),
			},
			{
				Name:        "moderate_decline",
				Description: "flat market at 75% of initial",
				Prices:      path(flat(u.InitialPrice, 0.75, n)),
			},
			{
				Name:        "severe_decline",
				Description: "steady sell-off of 5% per observation",
				Prices:      path(ramp(u.InitialPrice, -0.05, n)),
			},
		}
	}

	total := len(def.Underlyings)
	allUp := make(map[string][]decimal.Decimal, total)
	mixed := make(map[string][]decimal.Decimal, total)
	knock := make(map[string][]decimal.Decimal, total)
	for j, u := range def.Underlyings {
		allUp[u.ID] = ramp(u.InitialPrice, 0.08, n)
		mixed[u.ID] = flat(u.InitialPrice, mixedLevel(j, total), n)
		knock[u.ID] = flat(u.InitialPrice, knockLevel(j, total), n)
	}
	return []Scenario{
		{
			Name:        "all_up_autocall",
			Description: "every underlying rallies 8% per observation",
			Prices:      product.NewPriceSet(allUp),
		},
		{
			Name:        "mixed_performance",
			Description: "healthy basket with the last underlying pinned at 60%",
			Prices:      product.NewPriceSet(mixed),
		},
		{
			Name:        "worst_performer_knockin",
			Description: "declining basket with the last underlying pinned at 40%",
			Prices:      product.NewPriceSet(knock),
		},
	}
}

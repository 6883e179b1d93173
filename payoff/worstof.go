package payoff

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

// WorstOf evaluates a Phoenix note written on a basket. Every coupon,
// autocall and knock-in comparison uses the worst relative performance
// across the basket at that date.
type WorstOf struct {
	w *walker
}

// NewWorstOf validates the terms and builds the engine.
func NewWorstOf(def product.Definition) (*WorstOf, error) {
	w, err := newWalker(def)
	if err != nil {
		return nil, err
	}
	return &WorstOf{w: w}, nil
}

// Calculate evaluates one realized path per underlying. The price set keys
// must match the declared underlyings exactly and every path must cover the
// full observation schedule.
func (wo *WorstOf) Calculate(prices product.PriceSet) (*Result, error) {
	def := wo.w.def
	n := len(def.ObservationDates)

	if prices.Underlyings() != len(def.Underlyings) {
		return nil, fmt.Errorf("%w: price set has %d paths, product declares %d underlyings",
			product.ErrShape, prices.Underlyings(), len(def.Underlyings))
	}
	paths := make([][]decimal.Decimal, len(def.Underlyings))
	for k, u := range def.Underlyings {
		path, ok := prices.Path(u.ID)
		if !ok {
			return nil, fmt.Errorf("%w: no price path for underlying %q", product.ErrShape, u.ID)
		}
		if len(path) != n {
			return nil, fmt.Errorf("%w: path for %q has %d prices, schedule has %d dates",
				product.ErrShape, u.ID, len(path), n)
		}
		paths[k] = path
	}

	// Worst of performance
	perf := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		var worst decimal.Decimal
		for k, u := range def.Underlyings {
			px := paths[k][i]
			if !px.IsPositive() {
				return nil, fmt.Errorf("%w: non-positive price %s for %q at observation %d",
					product.ErrDomain, px, u.ID, i)
			}
			r := px.Div(u.InitialPrice)
			if k == 0 || r.LessThan(worst) {
				worst = r
			}
		}
		perf[i] = worst
	}
	return wo.w.run(perf), nil
}

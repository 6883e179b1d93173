package payoff

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

// Single evaluates a Phoenix note written on one underlying. Build it once
// per note; it holds no mutable state and is safe for concurrent use.
type Single struct {
	w       *walker
	id      string
	initial decimal.Decimal
}

// NewSingle validates the terms. The definition must declare exactly one
// underlying.
func NewSingle(def product.Definition) (*Single, error) {
	w, err := newWalker(def)
	if err != nil {
		return nil, err
	}
	if n := len(def.Underlyings); n != 1 {
		return nil, fmt.Errorf("%w: single engine expects one underlying, got %d", product.ErrDomain, n)
	}
	u := def.Underlyings[0]
	return &Single{w: w, id: u.ID, initial: u.InitialPrice}, nil
}

// CalculatePath evaluates one realized price path aligned to the observation
// schedule, one price per date.
func (s *Single) CalculatePath(path []decimal.Decimal) (*Result, error) {
	n := len(s.w.def.ObservationDates)
	if len(path) != n {
		return nil, fmt.Errorf("%w: path has %d prices, schedule has %d dates", product.ErrShape, len(path), n)
	}
	perf := make([]decimal.Decimal, len(path))
	for i, px := range path {
		if !px.IsPositive() {
			return nil, fmt.Errorf("%w: non-positive price %s at observation %d", product.ErrDomain, px, i)
		}
		perf[i] = px.Div(s.initial)
	}
	return s.w.run(perf), nil
}

// Calculate evaluates the path keyed by the declared underlying id.
func (s *Single) Calculate(prices product.PriceSet) (*Result, error) {
	path, ok := prices.Path(s.id)
	if !ok || prices.Underlyings() != 1 {
		return nil, fmt.Errorf("%w: price set keys %v, product declares %q", product.ErrShape, prices.IDs(), s.id)
	}
	return s.CalculatePath(path)
}

package payoff

import (
	"github.com/banachtech/phoenix/product"
)

// Engine is the evaluation contract shared by Single and WorstOf.
type Engine interface {
	Calculate(prices product.PriceSet) (*Result, error)
}

// New returns the engine matching the definition's basket size: one
// underlying gets the single-asset walk, more get the worst-of walk.
func New(def product.Definition) (Engine, error) {
	if len(def.Underlyings) == 1 {
		return NewSingle(def)
	}
	return NewWorstOf(def)
}

package product

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceSet is an immutable value object holding one realized price path per
// underlying, aligned to a product's observation schedule. The constructor
// copies its input, so later mutation of the source map cannot leak in.
type PriceSet struct {
	paths map[string][]decimal.Decimal
}

// NewPriceSet builds a PriceSet from decimal price paths.
func NewPriceSet(paths map[string][]decimal.Decimal) PriceSet {
	cp := make(map[string][]decimal.Decimal, len(paths))
	for id, p := range paths {
		cp[id] = append([]decimal.Decimal(nil), p...)
	}
	return PriceSet{paths: cp}
}

// NewPriceSetFromFloats builds a PriceSet from float64 price paths. Intended
// for test fixtures and file inputs; production callers should prefer
// NewPriceSet with decimals parsed from their source representation.
func NewPriceSetFromFloats(paths map[string][]float64) PriceSet {
	cp := make(map[string][]decimal.Decimal, len(paths))
	for id, p := range paths {
		dp := make([]decimal.Decimal, len(p))
		for i, v := range p {
			dp[i] = decimal.NewFromFloat(v)
		}
		cp[id] = dp
	}
	return PriceSet{paths: cp}
}

// Path returns the price series for id. Callers must not modify the
// returned slice.
func (ps PriceSet) Path(id string) ([]decimal.Decimal, bool) {
	p, ok := ps.paths[id]
	return p, ok
}

// IDs returns the underlying ids in sorted order.
func (ps PriceSet) IDs() []string {
	ids := make([]string, 0, len(ps.paths))
	for id := range ps.paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Underlyings returns the number of price paths in the set.
func (ps PriceSet) Underlyings() int {
	return len(ps.paths)
}

// Steps returns the number of observations per path, using the first id in
// sorted order. Engines verify that every path has this length.
func (ps PriceSet) Steps() int {
	ids := ps.IDs()
	if len(ids) == 0 {
		return 0
	}
	return len(ps.paths[ids[0]])
}

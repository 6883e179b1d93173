package termsheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

// Structure types accepted on a document.
const (
	StructureSingle  = "single"
	StructureWorstOf = "worst_of"
)

var (
	one                 = decimal.NewFromInt(1)
	half                = decimal.NewFromFloat(0.5)
	defaultDenomination = decimal.NewFromInt(1000)
)

// Build normalises a document into engine terms. Term sheets state one
// coupon clause that applies on every observation date, so the clause fans
// out across the schedule; the same goes for the autocall clause when the
// document gives no explicit autocall dates.
func Build(doc Document) (product.Definition, error) {
	if rep := Validate(doc); !rep.Valid() {
		return product.Definition{}, fmt.Errorf("%w: term sheet not evaluable: %s",
			product.ErrDomain, strings.Join(rep.Errors, "; "))
	}
	st := strings.ToLower(strings.TrimSpace(doc.StructureType))

	denom := defaultDenomination
	if doc.ProductDetails != nil && doc.ProductDetails.Denomination.IsPositive() {
		denom = doc.ProductDetails.Denomination
	}

	obs, err := parseDates(doc.Dates.ObservationDates)
	if err != nil {
		return product.Definition{}, err
	}

	unds := make([]product.Underlying, len(doc.Underlyings))
	for i, u := range doc.Underlyings {
		id := u.Ticker
		if id == "" {
			id = u.Name
		}
		unds[i] = product.Underlying{ID: id, InitialPrice: u.InitialPrice}
	}

	var coupons []product.CouponObservation
	if c := mainCoupon(doc.ConditionalCoupons); c != nil {
		rate := c.Rate.Decimal()
		if !c.Rate.Set() {
			rate, err = ParseRate(c.CalculationFormula)
			if err != nil {
				return product.Definition{}, fmt.Errorf("%w: coupon rate: %v", product.ErrDomain, err)
			}
		}
		barrier, ok := couponBarrier(doc.ConditionalCoupons)
		if !ok {
			if st == StructureSingle {
				return product.Definition{}, fmt.Errorf("%w: conditional coupon has no barrier_level", product.ErrDomain)
			}
			barrier = half
		}
		coupons = make([]product.CouponObservation, len(obs))
		for i, d := range obs {
			coupons[i] = product.CouponObservation{Date: d, Barrier: barrier, Rate: rate, Memory: c.MemoryFeature}
		}
	}

	var autocalls []product.AutocallObservation
	if doc.Autocall != nil {
		barrier := one
		if doc.Autocall.BarrierLevel.Set() {
			barrier = doc.Autocall.BarrierLevel.Decimal()
		}
		dates := obs
		if len(doc.Autocall.ObservationDates) > 0 {
			dates, err = parseDates(doc.Autocall.ObservationDates)
			if err != nil {
				return product.Definition{}, err
			}
		}
		autocalls = make([]product.AutocallObservation, len(dates))
		for i, d := range dates {
			autocalls[i] = product.AutocallObservation{Date: d, Barrier: barrier}
		}
	}

	ki, err := knockInBarrier(doc, st)
	if err != nil {
		return product.Definition{}, err
	}
	style, err := product.ParseKnockInStyle(doc.KnockIn.Type)
	if err != nil {
		return product.Definition{}, err
	}

	// Absent an explicit final threshold the knock-in level doubles as the
	// final barrier.
	final := ki
	if f, ok := looseFraction(doc.FinalRedemption["barrier_level"]); ok && f.IsPositive() {
		final = f
	}

	fixed := decimal.Zero
	if doc.FixedCoupon != nil && doc.FixedCoupon.Rate.Set() {
		fixed = doc.FixedCoupon.Rate.Decimal().Mul(denom)
	}

	def := product.Definition{
		Name:             productName(doc, unds),
		Notional:         denom,
		FixedCoupon:      fixed,
		Underlyings:      unds,
		ObservationDates: obs,
		Coupons:          coupons,
		Autocalls:        autocalls,
		KnockIn:          product.KnockIn{Barrier: ki, Style: style},
		Final:            product.FinalRedemption{Barrier: final},
	}
	if err := def.Validate(); err != nil {
		return product.Definition{}, err
	}
	return def, nil
}

// mainCoupon picks the clause that drives the payoff: the first one with a
// trigger condition, else the first clause. Secondary clauses restate the
// same coupon in different words.
func mainCoupon(coupons []ConditionalCoupon) *ConditionalCoupon {
	if len(coupons) == 0 {
		return nil
	}
	for i := range coupons {
		if strings.TrimSpace(coupons[i].TriggerCondition) != "" {
			return &coupons[i]
		}
	}
	return &coupons[0]
}

// couponBarrier finds the first clause that states a barrier level.
func couponBarrier(coupons []ConditionalCoupon) (decimal.Decimal, bool) {
	for _, c := range coupons {
		if c.BarrierLevel.Set() {
			return c.BarrierLevel.Decimal(), true
		}
	}
	return decimal.Decimal{}, false
}

// knockInBarrier resolves the knock-in level: a stated percentage wins,
// else the level is implied from an absolute barrier price divided by the
// matching underlying's initial fixing.
func knockInBarrier(doc Document, st string) (decimal.Decimal, error) {
	k := doc.KnockIn
	if k.BarrierLevel.Set() {
		return k.BarrierLevel.Decimal(), nil
	}
	if len(k.BarrierPrices) > 0 {
		bp := k.BarrierPrices[0]
		price := bp.KnockInPrice
		if !price.IsPositive() {
			price = bp.BarrierPrice
		}
		if price.IsPositive() {
			if initial := matchInitial(bp.Underlying, doc.Underlyings); initial.IsPositive() {
				return price.Div(initial), nil
			}
		}
	}
	if st == StructureWorstOf {
		return half, nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: knock_in has neither barrier_level nor barrier_prices", product.ErrDomain)
}

// matchInitial finds the initial price of the underlying a barrier price
// refers to. Issuers abbreviate names, so matching is by containment; an
// unmatched reference falls back to the first underlying.
func matchInitial(name string, unds []Underlying) decimal.Decimal {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle != "" {
		for _, u := range unds {
			if strings.Contains(strings.ToLower(u.Name), needle) || strings.EqualFold(u.Ticker, name) {
				return u.InitialPrice
			}
		}
	}
	return unds[0].InitialPrice
}

func productName(doc Document, unds []product.Underlying) string {
	if doc.ProductDetails != nil && doc.ProductDetails.Name != "" {
		return doc.ProductDetails.Name
	}
	ids := make([]string, len(unds))
	for i, u := range unds {
		ids[i] = u.ID
	}
	return "Phoenix " + strings.Join(ids, "/")
}

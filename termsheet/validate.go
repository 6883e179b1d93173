package termsheet

import (
	"fmt"
	"strings"
)

// Report lists what stops a document from being evaluable and what merely
// looks off. A document with warnings still builds; one with errors does not.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the document can be handed to Build.
func (r Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) fatal(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a document in layers, stopping at the first layer that
// produces errors. Later layers assume the earlier ones passed, so reporting
// them on a broken document would only produce noise.
func Validate(doc Document) Report {
	var r Report

	// Layer 1: required fields.
	if strings.TrimSpace(doc.StructureType) == "" {
		r.fatal("missing required field 'structure_type'")
	}
	if len(doc.Underlyings) == 0 {
		r.fatal("missing required field 'underlyings'")
	}
	if strings.TrimSpace(doc.Dates.ValuationDate) == "" && len(doc.Dates.ObservationDates) == 0 {
		r.fatal("missing required field 'dates'")
	}
	if !r.Valid() {
		return r
	}

	// Layer 2: structure type.
	st := strings.ToLower(strings.TrimSpace(doc.StructureType))
	if st != StructureSingle && st != StructureWorstOf {
		r.fatal("structure_type must be 'single' or 'worst_of', got %q", doc.StructureType)
		return r
	}

	// Layer 3: underlyings.
	if st == StructureSingle && len(doc.Underlyings) != 1 {
		r.warn("structure_type is 'single' but found %d underlyings", len(doc.Underlyings))
	}
	if st == StructureWorstOf && len(doc.Underlyings) < 2 {
		r.warn("structure_type is 'worst_of' but found %d underlyings", len(doc.Underlyings))
	}
	for i, u := range doc.Underlyings {
		if strings.TrimSpace(u.Name) == "" && strings.TrimSpace(u.Ticker) == "" {
			r.warn("underlying %d has neither name nor ticker", i)
		}
		if !u.InitialPrice.IsPositive() {
			r.fatal("underlying %d (%s) has no positive initial_price", i, underlyingLabel(u))
		}
	}
	if !r.Valid() {
		return r
	}

	// Layer 4: dates.
	if strings.TrimSpace(doc.Dates.ValuationDate) == "" {
		r.warn("missing valuation_date")
	}
	if len(doc.Dates.ObservationDates) == 0 {
		r.fatal("missing observation_dates")
	} else {
		for _, s := range doc.Dates.ObservationDates {
			if _, err := parseDate(s); err != nil {
				r.fatal("bad observation date %q", s)
			}
		}
	}
	if !r.Valid() {
		return r
	}

	// Layer 5: payoff components.
	if len(doc.ConditionalCoupons) == 0 && doc.FixedCoupon == nil {
		r.fatal("no coupon clauses found")
	}
	if doc.KnockIn == nil {
		r.fatal("missing knock_in clause")
	}
	if len(doc.FinalRedemption) == 0 {
		r.warn("missing final_redemption, knock-in barrier doubles as the final barrier")
	}
	if !r.Valid() {
		return r
	}

	// Layer 6: clause details.
	for i, c := range doc.ConditionalCoupons {
		if !c.Rate.Set() && strings.TrimSpace(c.CalculationFormula) == "" {
			r.fatal("conditional coupon %d has no rate", i)
		}
		if !c.BarrierLevel.Set() {
			r.warn("conditional coupon %d has no barrier_level", i)
		}
		if strings.TrimSpace(c.TriggerCondition) == "" {
			r.warn("conditional coupon %d has no trigger_condition", i)
		}
	}
	if !doc.KnockIn.BarrierLevel.Set() && len(doc.KnockIn.BarrierPrices) == 0 {
		if st == StructureSingle {
			r.fatal("knock_in has neither barrier_level nor barrier_prices")
		} else {
			r.warn("knock_in has neither barrier_level nor barrier_prices, assuming 50%%")
		}
	}
	if doc.Autocall != nil && !doc.Autocall.BarrierLevel.Set() {
		r.warn("autocall has no barrier_level, assuming 100%%")
	}
	return r
}

func underlyingLabel(u Underlying) string {
	if u.Ticker != "" {
		return u.Ticker
	}
	if u.Name != "" {
		return u.Name
	}
	return "unnamed"
}

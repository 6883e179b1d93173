// Package product defines the terms of a Phoenix autocallable note and the
// price observations it is evaluated against. All monetary and ratio values
// are decimals so that coupon and redemption arithmetic stays exact.
package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Layout is the calendar-date layout used across the module.
const Layout = "2006-01-02"

// KnockInStyle selects when the knock-in barrier is monitored.
type KnockInStyle string

const (
	// European monitors the knock-in barrier on the final observation
	// date only.
	European KnockInStyle = "european"
	// American monitors the knock-in barrier on every observation date;
	// a breach is sticky for the remaining life of the note.
	American KnockInStyle = "american"
)

// ParseKnockInStyle maps term-sheet wording to a KnockInStyle. Empty input
// defaults to European, the common convention for Phoenix notes.
func ParseKnockInStyle(s string) (KnockInStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "european", "euro":
		return European, nil
	case "american", "continuous", "daily":
		return American, nil
	}
	return "", fmt.Errorf("%w: unknown knock-in style %q", ErrDomain, s)
}

// Underlying is one asset with its strike-date fixing.
type Underlying struct {
	ID           string          `json:"id"`
	InitialPrice decimal.Decimal `json:"initial_price"`
}

// CouponObservation is a single conditional-coupon check. Rate is per
// period; the amount paid when the barrier is met is Rate times notional.
// Memory adds one extra coupon amount per previously missed observation.
type CouponObservation struct {
	Date    time.Time       `json:"date"`
	Barrier decimal.Decimal `json:"barrier"`
	Rate    decimal.Decimal `json:"rate"`
	Memory  bool            `json:"memory"`
}

// AutocallObservation is a single early-redemption check.
type AutocallObservation struct {
	Date    time.Time       `json:"date"`
	Barrier decimal.Decimal `json:"barrier"`
}

// KnockIn is the downside barrier that switches the final redemption from
// capital-protected to performance-linked.
type KnockIn struct {
	Barrier decimal.Decimal `json:"barrier"`
	Style   KnockInStyle    `json:"style"`
}

// FinalRedemption holds the terminal protection threshold: even after a
// knock-in breach, a final performance at or above Barrier redeems at par.
type FinalRedemption struct {
	Barrier decimal.Decimal `json:"barrier"`
}

// Definition is the complete, immutable set of note terms. Build one, call
// Validate, then hand it to a payoff engine.
type Definition struct {
	Name             string                `json:"name"`
	Notional         decimal.Decimal       `json:"notional"`
	FixedCoupon      decimal.Decimal       `json:"fixed_coupon"`
	Underlyings      []Underlying          `json:"underlyings"`
	ObservationDates []time.Time           `json:"observation_dates"`
	Coupons          []CouponObservation   `json:"coupons"`
	Autocalls        []AutocallObservation `json:"autocalls"`
	KnockIn          KnockIn               `json:"knock_in"`
	Final            FinalRedemption       `json:"final_redemption"`
}

var two = decimal.NewFromInt(2)

func validBarrier(b decimal.Decimal) bool {
	return b.IsPositive() && b.LessThanOrEqual(two)
}

// Validate checks every structural and numeric invariant of the terms.
// Violations are reported as ErrDomain.
func (d Definition) Validate() error {
	if !d.Notional.IsPositive() {
		return fmt.Errorf("%w: notional must be positive, got %s", ErrDomain, d.Notional)
	}
	if d.FixedCoupon.IsNegative() {
		return fmt.Errorf("%w: fixed coupon must not be negative, got %s", ErrDomain, d.FixedCoupon)
	}
	if len(d.Underlyings) == 0 {
		return fmt.Errorf("%w: at least one underlying required", ErrDomain)
	}
	seen := make(map[string]bool, len(d.Underlyings))
	for _, u := range d.Underlyings {
		if u.ID == "" {
			return fmt.Errorf("%w: underlying with empty id", ErrDomain)
		}
		if seen[u.ID] {
			return fmt.Errorf("%w: duplicate underlying id %q", ErrDomain, u.ID)
		}
		seen[u.ID] = true
		if !u.InitialPrice.IsPositive() {
			return fmt.Errorf("%w: initial price of %q must be positive, got %s", ErrDomain, u.ID, u.InitialPrice)
		}
	}

	if len(d.ObservationDates) == 0 {
		return fmt.Errorf("%w: observation dates required", ErrDomain)
	}
	for i := 1; i < len(d.ObservationDates); i++ {
		if !d.ObservationDates[i].After(d.ObservationDates[i-1]) {
			return fmt.Errorf("%w: observation dates must be strictly increasing at %s",
				ErrDomain, d.ObservationDates[i].Format(Layout))
		}
	}

	idx := d.dateIndex()

	couponDates := make(map[string]bool, len(d.Coupons))
	for _, c := range d.Coupons {
		key := c.Date.Format(Layout)
		if _, ok := idx[key]; !ok {
			return fmt.Errorf("%w: coupon date %s is not an observation date", ErrDomain, key)
		}
		if couponDates[key] {
			return fmt.Errorf("%w: duplicate coupon observation on %s", ErrDomain, key)
		}
		couponDates[key] = true
		if !validBarrier(c.Barrier) {
			return fmt.Errorf("%w: coupon barrier on %s must lie in (0, 2], got %s", ErrDomain, key, c.Barrier)
		}
		if c.Rate.IsNegative() {
			return fmt.Errorf("%w: coupon rate on %s must not be negative, got %s", ErrDomain, key, c.Rate)
		}
	}

	autocallDates := make(map[string]bool, len(d.Autocalls))
	for _, a := range d.Autocalls {
		key := a.Date.Format(Layout)
		if _, ok := idx[key]; !ok {
			return fmt.Errorf("%w: autocall date %s is not an observation date", ErrDomain, key)
		}
		if autocallDates[key] {
			return fmt.Errorf("%w: duplicate autocall observation on %s", ErrDomain, key)
		}
		autocallDates[key] = true
		if !validBarrier(a.Barrier) {
			return fmt.Errorf("%w: autocall barrier on %s must lie in (0, 2], got %s", ErrDomain, key, a.Barrier)
		}
	}

	if !validBarrier(d.KnockIn.Barrier) {
		return fmt.Errorf("%w: knock-in barrier must lie in (0, 2], got %s", ErrDomain, d.KnockIn.Barrier)
	}
	if d.KnockIn.Style != European && d.KnockIn.Style != American {
		return fmt.Errorf("%w: unknown knock-in style %q", ErrDomain, d.KnockIn.Style)
	}
	if !validBarrier(d.Final.Barrier) {
		return fmt.Errorf("%w: final redemption barrier must lie in (0, 2], got %s", ErrDomain, d.Final.Barrier)
	}
	return nil
}

// dateIndex maps formatted observation dates to their position in the
// schedule. Dates are compared by calendar day, not by instant.
func (d Definition) dateIndex() map[string]int {
	idx := make(map[string]int, len(d.ObservationDates))
	for i, t := range d.ObservationDates {
		idx[t.Format(Layout)] = i
	}
	return idx
}

// CouponsByIndex returns a schedule-aligned slice where entry i is the
// coupon observation on observation date i, or nil if that date has none.
func (d Definition) CouponsByIndex() []*CouponObservation {
	idx := d.dateIndex()
	out := make([]*CouponObservation, len(d.ObservationDates))
	for i := range d.Coupons {
		c := d.Coupons[i]
		if j, ok := idx[c.Date.Format(Layout)]; ok {
			out[j] = &c
		}
	}
	return out
}

// AutocallsByIndex is the autocall analogue of CouponsByIndex.
func (d Definition) AutocallsByIndex() []*AutocallObservation {
	idx := d.dateIndex()
	out := make([]*AutocallObservation, len(d.ObservationDates))
	for i := range d.Autocalls {
		a := d.Autocalls[i]
		if j, ok := idx[a.Date.Format(Layout)]; ok {
			out[j] = &a
		}
	}
	return out
}

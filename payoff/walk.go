// Package payoff evaluates Phoenix autocallable notes against realized price
// paths. Both engines are pure: they never mutate the product or the prices
// and every call returns a freshly built Result.
package payoff

import (
	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

// walker carries a validated definition with its coupon and autocall
// schedules pre-aligned to the observation index. Both engines share it.
type walker struct {
	def       product.Definition
	coupons   []*product.CouponObservation
	autocalls []*product.AutocallObservation
}

func newWalker(def product.Definition) (*walker, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &walker{
		def:       def,
		coupons:   def.CouponsByIndex(),
		autocalls: def.AutocallsByIndex(),
	}, nil
}

// run walks a performance series already aligned to the observation
// schedule. Per date the order is fixed: autocall check, coupon check,
// knock-in monitoring, then termination if called. A coupon due on the
// autocall date is still paid, and knock-in monitoring covers every date up
// to and including the termination date.
func (w *walker) run(perf []decimal.Decimal) *Result {
	res := &Result{
		FixedCouponPaid:        w.def.FixedCoupon,
		ConditionalCouponsPaid: decimal.Zero,
		FinalRedemptionAmount:  decimal.Zero,
		Events:                 make([]Event, 0, len(perf)),
	}

	// Initialise KI flag
	breached := false
	ki := w.def.KnockIn
	final := len(perf) - 1

	missed := 0
	for i, p := range perf {
		ev := Event{
			Date:        w.def.ObservationDates[i],
			Performance: p,
			CouponPaid:  decimal.Zero,
		}

		called := false
		if ac := w.autocalls[i]; ac != nil && p.GreaterThanOrEqual(ac.Barrier) {
			called = true
		}

		if c := w.coupons[i]; c != nil {
			if p.GreaterThanOrEqual(c.Barrier) {
				base := c.Rate.Mul(w.def.Notional)
				pay := base
				if c.Memory && missed > 0 {
					pay = pay.Add(base.Mul(decimal.NewFromInt(int64(missed))))
				}
				res.ConditionalCouponsPaid = res.ConditionalCouponsPaid.Add(pay)
				ev.CouponPaid = pay
				missed = 0
			} else {
				missed++
			}
		}
		ev.MissedCoupons = missed

		// American KI is sticky once set. European KI looks at the final
		// observation only, and only if the walk gets there.
		if ki.Style == product.American && !breached && p.LessThan(ki.Barrier) {
			breached = true
		}
		if ki.Style == product.European && i == final && p.LessThan(ki.Barrier) {
			breached = true
		}

		if called {
			ev.Autocalled = true
			res.Events = append(res.Events, ev)
			date := w.def.ObservationDates[i]
			res.Autocalled = true
			res.AutocallDate = &date
			break
		}
		res.Events = append(res.Events, ev)
	}

	res.KnockInBreached = breached

	// Autocall redeems at par. At maturity, principal is protected unless
	// the note knocked in and terminal performance sits below the final
	// barrier, in which case redemption tracks terminal performance.
	if res.Autocalled {
		res.FinalRedemptionAmount = w.def.Notional
	} else {
		terminal := perf[final]
		if !breached || terminal.GreaterThanOrEqual(w.def.Final.Barrier) {
			res.FinalRedemptionAmount = w.def.Notional
		} else {
			res.FinalRedemptionAmount = w.def.Notional.Mul(terminal)
		}
	}

	res.TotalValue = res.FixedCouponPaid.
		Add(res.ConditionalCouponsPaid).
		Add(res.FinalRedemptionAmount)
	return res
}

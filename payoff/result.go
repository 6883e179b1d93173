package payoff

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

// Event records the decision taken at a single observation date.
type Event struct {
	Date          time.Time
	Performance   decimal.Decimal
	CouponPaid    decimal.Decimal
	Autocalled    bool
	MissedCoupons int
}

// MarshalJSON renders the date as a plain calendar day.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date          string          `json:"date"`
		Performance   decimal.Decimal `json:"performance"`
		CouponPaid    decimal.Decimal `json:"coupon_paid"`
		Autocalled    bool            `json:"autocalled"`
		MissedCoupons int             `json:"running_missed_coupon_count"`
	}{
		Date:          e.Date.Format(product.Layout),
		Performance:   e.Performance,
		CouponPaid:    e.CouponPaid,
		Autocalled:    e.Autocalled,
		MissedCoupons: e.MissedCoupons,
	})
}

// Result is the complete cashflow breakdown of one evaluation. Amounts are
// in notional currency units, not fractions.
type Result struct {
	FixedCouponPaid        decimal.Decimal
	ConditionalCouponsPaid decimal.Decimal
	Autocalled             bool
	AutocallDate           *time.Time
	KnockInBreached        bool
	FinalRedemptionAmount  decimal.Decimal
	TotalValue             decimal.Decimal
	Events                 []Event
}

// MarshalJSON omits the autocall date unless the note was called.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		FixedCouponPaid        decimal.Decimal `json:"fixed_coupon_paid"`
		ConditionalCouponsPaid decimal.Decimal `json:"conditional_coupons_paid"`
		Autocalled             bool            `json:"autocalled"`
		AutocallDate           string          `json:"autocall_date,omitempty"`
		KnockInBreached        bool            `json:"knock_in_breached"`
		FinalRedemptionAmount  decimal.Decimal `json:"final_redemption_amount"`
		TotalValue             decimal.Decimal `json:"total_value"`
		Events                 []Event         `json:"events"`
	}{
		FixedCouponPaid:        r.FixedCouponPaid,
		ConditionalCouponsPaid: r.ConditionalCouponsPaid,
		Autocalled:             r.Autocalled,
		KnockInBreached:        r.KnockInBreached,
		FinalRedemptionAmount:  r.FinalRedemptionAmount,
		TotalValue:             r.TotalValue,
		Events:                 r.Events,
	}
	if r.AutocallDate != nil {
		out.AutocallDate = r.AutocallDate.Format(product.Layout)
	}
	return json.Marshal(out)
}

package scenario

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of outcomes. Monetary statistics are reported
// as floats; the underlying evaluations stay exact.
type Summary struct {
	Scenarios      int     `json:"scenarios"`
	Evaluated      int     `json:"evaluated"`
	Errors         int     `json:"errors"`
	Autocalled     int     `json:"autocalled"`
	KnockedIn      int     `json:"knocked_in"`
	AutocallRate   float64 `json:"autocall_rate"`
	KnockInRate    float64 `json:"knock_in_rate"`
	MeanTotalValue float64 `json:"mean_total_value"`
	StdTotalValue  float64 `json:"std_total_value"`
	MinTotalValue  float64 `json:"min_total_value"`
	MaxTotalValue  float64 `json:"max_total_value"`
	P05TotalValue  float64 `json:"p05_total_value"`
	P50TotalValue  float64 `json:"p50_total_value"`
	P95TotalValue  float64 `json:"p95_total_value"`
	MeanReturn     float64 `json:"mean_return"`
}

// Summarize reduces outcomes to batch statistics. Failed scenarios count as
// errors and are excluded from the numbers. MeanReturn is relative to the
// given notional and zero when the notional is not positive.
func Summarize(outcomes []Outcome, notional decimal.Decimal) Summary {
	s := Summary{Scenarios: len(outcomes)}

	var totals []float64
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			s.Errors++
			continue
		}
		if o.Result.Autocalled {
			s.Autocalled++
		}
		if o.Result.KnockInBreached {
			s.KnockedIn++
		}
		totals = append(totals, o.Result.TotalValue.InexactFloat64())
	}
	s.Evaluated = len(totals)
	if s.Evaluated == 0 {
		return s
	}

	sort.Float64s(totals)
	s.AutocallRate = float64(s.Autocalled) / float64(s.Evaluated)
	s.KnockInRate = float64(s.KnockedIn) / float64(s.Evaluated)
	s.MeanTotalValue = stat.Mean(totals, nil)
	if s.Evaluated > 1 {
		s.StdTotalValue = stat.StdDev(totals, nil)
	}
	s.MinTotalValue = totals[0]
	s.MaxTotalValue = totals[len(totals)-1]
	s.P05TotalValue = stat.Quantile(0.05, stat.Empirical, totals, nil)
	s.P50TotalValue = stat.Quantile(0.50, stat.Empirical, totals, nil)
	s.P95TotalValue = stat.Quantile(0.95, stat.Empirical, totals, nil)
	if notional.IsPositive() {
		s.MeanReturn = s.MeanTotalValue/notional.InexactFloat64() - 1
	}
	return s
}

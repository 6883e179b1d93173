package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banachtech/phoenix/payoff"
	"github.com/banachtech/phoenix/product"
)

func TestDefaultsSingle(t *testing.T) {
	def := testNote(5, product.Underlying{ID: "SX5E", InitialPrice: d(2000)})
	scenarios := Defaults(def)
	require.Len(t, scenarios, 4)
	require.Equal(t, "bullish_autocall", scenarios[0].Name)
	require.Equal(t, "sideways_coupons", scenarios[1].Name)
	require.Equal(t, "moderate_decline", scenarios[2].Name)
	require.Equal(t, "severe_decline", scenarios[3].Name)

	bull, ok := scenarios[0].Prices.Path("SX5E")
	require.True(t, ok)
	require.True(t, bull[0].Equal(d(2100)), "got %s", bull[0])
	side, ok := scenarios[1].Prices.Path("SX5E")
	require.True(t, ok)
	require.True(t, side[0].Equal(d(1700)), "got %s", side[0])

	engine, err := payoff.NewSingle(def)
	require.NoError(t, err)
	out, err := New(engine).Run(context.Background(), scenarios)
	require.NoError(t, err)

	for _, o := range out {
		require.NoError(t, o.Err, o.Name)
	}
	require.True(t, out[0].Result.Autocalled)
	require.False(t, out[1].Result.Autocalled)
}

func TestDefaultsSingleLongScheduleStaysPositive(t *testing.T) {
	def := testNote(30, product.Underlying{ID: "SX5E", InitialPrice: d(100)})
	engine, err := payoff.NewSingle(def)
	require.NoError(t, err)

	// The sell-off shape floors at 10% of initial instead of running the
	// price into zero.
	severe := Defaults(def)[3]
	require.Equal(t, "severe_decline", severe.Name)
	res, err := engine.Calculate(severe.Prices)
	require.NoError(t, err)
	require.True(t, res.KnockInBreached)
	require.True(t, res.FinalRedemptionAmount.Equal(d(100)), "got %s", res.FinalRedemptionAmount)
}

func TestDefaultsWorstOf(t *testing.T) {
	def := testNote(4,
		product.Underlying{ID: "AAPL", InitialPrice: d(100)},
		product.Underlying{ID: "AVGO", InitialPrice: d(200)},
		product.Underlying{ID: "TSLA", InitialPrice: d(1000)},
	)
	scenarios := Defaults(def)
	require.Len(t, scenarios, 3)
	require.Equal(t, "all_up_autocall", scenarios[0].Name)
	require.Equal(t, "mixed_performance", scenarios[1].Name)
	require.Equal(t, "worst_performer_knockin", scenarios[2].Name)

	up, ok := scenarios[0].Prices.Path("AAPL")
	require.True(t, ok)
	require.True(t, up[0].Equal(d(108)), "got %s", up[0])

	mixed, ok := scenarios[1].Prices.Path("TSLA")
	require.True(t, ok)
	require.True(t, mixed[0].Equal(d(600)), "got %s", mixed[0])
	mixedMid, ok := scenarios[1].Prices.Path("AVGO")
	require.True(t, ok)
	require.True(t, mixedMid[0].Equal(d(210)), "got %s", mixedMid[0])

	engine, err := payoff.NewWorstOf(def)
	require.NoError(t, err)

	res, err := engine.Calculate(scenarios[2].Prices)
	require.NoError(t, err)
	require.True(t, res.KnockInBreached)
	require.False(t, res.Autocalled)
	require.True(t, res.ConditionalCouponsPaid.IsZero())
	require.True(t, res.FinalRedemptionAmount.Equal(d(400)), "got %s", res.FinalRedemptionAmount)
}

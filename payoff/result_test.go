package payoff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banachtech/phoenix/product"
)

func TestResultJSON(t *testing.T) {
	def := phoenixNote(5, 2000, func(def *product.Definition) {
		def.Autocalls = []product.AutocallObservation{
			{Date: def.ObservationDates[4], Barrier: d(1.00)},
		}
	})
	engine, err := NewSingle(def)
	require.NoError(t, err)

	res, err := engine.CalculatePath(prices(1900, 2050, 2100, 2150, 2200))
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	require.Equal(t, "0", got["fixed_coupon_paid"])
	require.Equal(t, "100", got["conditional_coupons_paid"])
	require.Equal(t, true, got["autocalled"])
	require.Equal(t, "2026-07-20", got["autocall_date"])
	require.Equal(t, false, got["knock_in_breached"])
	require.Equal(t, "1000", got["final_redemption_amount"])
	require.Equal(t, "1100", got["total_value"])

	events, ok := got["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 5)

	first, ok := events[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "2026-03-20", first["date"])
	require.Equal(t, "0.95", first["performance"])
	require.Equal(t, "20", first["coupon_paid"])
	require.Equal(t, false, first["autocalled"])
	require.Equal(t, float64(0), first["running_missed_coupon_count"])

	last, ok := events[4].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, last["autocalled"])
}

func TestResultJSONOmitsAutocallDate(t *testing.T) {
	engine, err := NewSingle(phoenixNote(3, 100, nil))
	require.NoError(t, err)

	res, err := engine.CalculatePath(prices(120, 130, 140))
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	_, present := got["autocall_date"]
	require.False(t, present)
	require.Equal(t, false, got["autocalled"])
}

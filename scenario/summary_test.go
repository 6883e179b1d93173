package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banachtech/phoenix/payoff"
)

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Name: "bull", Result: &payoff.Result{Autocalled: true, TotalValue: d(1100)}},
		{Name: "side", Result: &payoff.Result{Autocalled: true, TotalValue: d(1100)}},
		{Name: "crash", Result: &payoff.Result{KnockInBreached: true, TotalValue: d(400)}},
		{Name: "broken", Err: errors.New("bad paths")},
	}

	s := Summarize(outcomes, d(1000))

	require.Equal(t, 4, s.Scenarios)
	require.Equal(t, 3, s.Evaluated)
	require.Equal(t, 1, s.Errors)
	require.Equal(t, 2, s.Autocalled)
	require.Equal(t, 1, s.KnockedIn)

	require.InDelta(t, 2.0/3.0, s.AutocallRate, 1e-9)
	require.InDelta(t, 1.0/3.0, s.KnockInRate, 1e-9)
	require.InDelta(t, 2600.0/3.0, s.MeanTotalValue, 1e-9)
	require.InDelta(t, 404.145, s.StdTotalValue, 1e-2)
	require.Equal(t, 400.0, s.MinTotalValue)
	require.Equal(t, 1100.0, s.MaxTotalValue)
	require.Equal(t, 400.0, s.P05TotalValue)
	require.Equal(t, 1100.0, s.P50TotalValue)
	require.Equal(t, 1100.0, s.P95TotalValue)
	require.InDelta(t, 2600.0/3.0/1000.0-1, s.MeanReturn, 1e-9)
}

func TestSummarizeAllFailed(t *testing.T) {
	outcomes := []Outcome{
		{Name: "a", Err: errors.New("boom")},
		{Name: "b", Err: errors.New("boom")},
	}

	s := Summarize(outcomes, d(1000))
	require.Equal(t, 2, s.Scenarios)
	require.Equal(t, 0, s.Evaluated)
	require.Equal(t, 2, s.Errors)
	require.Zero(t, s.MeanTotalValue)
	require.Zero(t, s.AutocallRate)
}

func TestSummarizeSingleOutcome(t *testing.T) {
	outcomes := []Outcome{
		{Name: "only", Result: &payoff.Result{TotalValue: d(1060)}},
	}

	s := Summarize(outcomes, d(1000))
	require.Equal(t, 1, s.Evaluated)
	require.Zero(t, s.StdTotalValue)
	require.Equal(t, 1060.0, s.MinTotalValue)
	require.Equal(t, 1060.0, s.MaxTotalValue)
	require.InDelta(t, 0.06, s.MeanReturn, 1e-9)
}

package termsheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	type testCases struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}
	cases := []testCases{
		{name: "PLAIN_PERCENT", in: "2.60%", want: 0.026},
		{name: "INTEGER_PERCENT", in: "70%", want: 0.7},
		{name: "NO_PERCENT_SIGN", in: "2.6", want: 0.026},
		{name: "DECIMAL_STRING", in: "0.70", want: 0.007},
		{name: "FORMULA", in: "0.3333% x t", want: 0.003333},
		{name: "SPACED_PERCENT", in: " 8 % ", want: 0.08},
		{name: "EMPTY", in: "", wantErr: true},
		{name: "PROSE", in: "TBD", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRate(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			requireAmount(t, tc.want, got)
		})
	}
}

func TestPercentJSON(t *testing.T) {
	type holder struct {
		Rate Percent `json:"rate"`
	}
	type testCases struct {
		name    string
		raw     string
		want    float64
		wantSet bool
		wantErr bool
	}
	cases := []testCases{
		{name: "STRING_IS_PERCENTAGE", raw: `{"rate": "2.60%"}`, want: 0.026, wantSet: true},
		{name: "BARE_STRING_IS_PERCENTAGE", raw: `{"rate": "70"}`, want: 0.7, wantSet: true},
		{name: "NUMBER_IS_FRACTION", raw: `{"rate": 0.026}`, want: 0.026, wantSet: true},
		{name: "NULL_IS_UNSET", raw: `{"rate": null}`},
		{name: "MISSING_IS_UNSET", raw: `{}`},
		{name: "EMPTY_STRING_IS_UNSET", raw: `{"rate": ""}`},
		{name: "ARRAY_FAILS", raw: `{"rate": [1]}`, wantErr: true},
		{name: "PROSE_FAILS", raw: `{"rate": "quarterly"}`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var h holder
			err := json.Unmarshal([]byte(tc.raw), &h)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantSet, h.Rate.Set())
			if tc.wantSet {
				requireAmount(t, tc.want, h.Rate.Decimal())
			}
		})
	}
}

func TestPercentRoundTrip(t *testing.T) {
	out, err := json.Marshal(struct {
		Rate Percent `json:"rate"`
	}{Rate: PercentFrom(d(0.026))})
	require.NoError(t, err)
	require.JSONEq(t, `{"rate": 0.026}`, string(out))

	var back struct {
		Rate Percent `json:"rate"`
	}
	require.NoError(t, json.Unmarshal(out, &back))
	requireAmount(t, 0.026, back.Rate.Decimal())
}

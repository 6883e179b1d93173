package payoff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banachtech/phoenix/product"
)

func TestNewPicksEngineByBasketSize(t *testing.T) {
	single, err := New(phoenixNote(2, 100, nil))
	require.NoError(t, err)
	require.IsType(t, &Single{}, single)

	basket, err := New(basketNote(2, []product.Underlying{
		{ID: "AAPL", InitialPrice: d(100)},
		{ID: "TSLA", InitialPrice: d(200)},
	}, nil))
	require.NoError(t, err)
	require.IsType(t, &WorstOf{}, basket)
}

func TestNewRejectsInvalidDefinition(t *testing.T) {
	def := phoenixNote(2, 100, func(p *product.Definition) {
		p.Notional = d(0)
	})
	_, err := New(def)
	require.ErrorIs(t, err, product.ErrDomain)
}

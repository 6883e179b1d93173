package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ Request) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

func TestExtractStripsCodeFences(t *testing.T) {
	p := &fakeProvider{replies: []string{
		"```json\n{\"structure_type\": \"single\", \"underlyings\": [{\"name\": \"EURO STOXX 50\", \"initial_price\": 1985.54}]}\n```",
	}}
	doc, err := NewExtractor(p).Extract(context.Background(), "short sheet text")
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)
	require.Equal(t, "single", doc.StructureType)
	require.Len(t, doc.Underlyings, 1)
	require.True(t, doc.Underlyings[0].InitialPrice.Equal(decimal.NewFromFloat(1985.54)))
}

func TestExtractPullsObjectOutOfProse(t *testing.T) {
	p := &fakeProvider{replies: []string{
		`Here is the extraction: {"structure_type": "single", "underlyings": [{"name": "SX5E"}]} hope that helps`,
	}}
	doc, err := NewExtractor(p).Extract(context.Background(), "short sheet text")
	require.NoError(t, err)
	require.Equal(t, "single", doc.StructureType)
}

func TestExtractMergesChunks(t *testing.T) {
	first := `{
	  "underlyings": [{"name": "Advanced Micro Devices, Inc."}],
	  "conditional_coupons": [{"trigger_condition": "worst closes at or above barrier", "rate": "1.58%"}],
	  "dates": {"valuation_date": "2025-01-31"}
	}`
	second := `{
	  "underlyings": [
	    {"name": "Advanced Micro Devices", "ticker": "AMD", "initial_price": 140.75},
	    {"name": "NVIDIA Corporation", "ticker": "NVDA", "initial_price": 118.08}
	  ],
	  "conditional_coupons": [
	    {"trigger_condition": "worst closes at or above barrier", "rate": "1.58%"},
	    {"trigger_condition": "memory catch-up of missed coupons", "rate": "1.58%"}
	  ],
	  "dates": {"valuation_date": "2025-01-31", "maturity_date": "2026-02-05"},
	  "knock_in": {"barrier_level": "50%", "type": "American"}
	}`
	p := &fakeProvider{replies: []string{first, second}}

	text := strings.Repeat("a", 35) + "\n\n" + strings.Repeat("b", 35)
	doc, err := NewExtractor(p, WithChunkSize(40)).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, 2, p.calls)

	// One underlying per asset, later chunks fill in the gaps.
	require.Len(t, doc.Underlyings, 2)
	require.Equal(t, "Advanced Micro Devices, Inc.", doc.Underlyings[0].Name)
	require.Equal(t, "AMD", doc.Underlyings[0].Ticker)
	require.True(t, doc.Underlyings[0].InitialPrice.Equal(decimal.NewFromFloat(140.75)))
	require.Equal(t, "NVDA", doc.Underlyings[1].Ticker)

	// Two underlyings and no stated type means worst_of.
	require.Equal(t, "worst_of", doc.StructureType)

	// Coupons dedupe on their trigger condition.
	require.Len(t, doc.ConditionalCoupons, 2)

	require.Equal(t, "2025-01-31", doc.Dates.ValuationDate)
	require.Equal(t, "2026-02-05", doc.Dates.MaturityDate)
	require.NotNil(t, doc.KnockIn)
	require.True(t, doc.KnockIn.BarrierLevel.Decimal().Equal(decimal.NewFromFloat(0.5)))
}

func TestExtractSkipsFailedChunks(t *testing.T) {
	p := &fakeProvider{
		errs: []error{errors.New("boom"), nil},
		replies: []string{
			"",
			`{"structure_type": "single", "underlyings": [{"name": "SX5E"}]}`,
		},
	}
	text := strings.Repeat("a", 35) + "\n\n" + strings.Repeat("b", 35)
	doc, err := NewExtractor(p, WithChunkSize(40)).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, 2, p.calls)
	require.Equal(t, "single", doc.StructureType)
}

func TestExtractFailsWhenAllChunksFail(t *testing.T) {
	p := &fakeProvider{errs: []error{errors.New("boom"), errors.New("boom")}}
	text := strings.Repeat("a", 35) + "\n\n" + strings.Repeat("b", 35)
	_, err := NewExtractor(p, WithChunkSize(40)).Extract(context.Background(), text)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no chunk produced an extraction")
}

func TestExtractHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{replies: []string{`{"structure_type": "single"}`}}
	_, err := NewExtractor(p).Extract(ctx, "text")
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, p.calls)
}

func TestExtractEmptyText(t *testing.T) {
	p := &fakeProvider{}
	_, err := NewExtractor(p).Extract(context.Background(), "   ")
	require.Error(t, err)
	require.Zero(t, p.calls)
}

func TestSplitText(t *testing.T) {
	t.Run("PARAGRAPH_BOUNDARIES", func(t *testing.T) {
		text := strings.Repeat("a", 30) + "\n\n" + strings.Repeat("b", 30) + "\n\n" + strings.Repeat("c", 30)
		chunks := splitText(text, 70)
		require.Len(t, chunks, 2)
		require.Contains(t, chunks[0], "aaa")
		require.Contains(t, chunks[0], "bbb")
		require.Equal(t, strings.Repeat("c", 30), chunks[1])
	})
	t.Run("OVERSIZED_PARAGRAPH_HARD_SPLIT", func(t *testing.T) {
		chunks := splitText(strings.Repeat("x", 100), 40)
		require.Len(t, chunks, 3)
		require.Len(t, chunks[0], 40)
		require.Len(t, chunks[2], 20)
	})
	t.Run("SHORT_TEXT_SINGLE_CHUNK", func(t *testing.T) {
		require.Equal(t, []string{"abc"}, splitText("abc", 4000))
	})
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.txt")
	require.NoError(t, os.WriteFile(path, []byte("phoenix terms"), 0o644))

	text, err := LoadText(path)
	require.NoError(t, err)
	require.Equal(t, "phoenix terms", text)

	_, err = LoadText(filepath.Join(dir, "sheet.pdf"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported term sheet format")
}

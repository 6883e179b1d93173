package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/banachtech/phoenix/dates"
	"github.com/banachtech/phoenix/extract"
	"github.com/banachtech/phoenix/termsheet"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a structured document from raw term sheet text",
	Long: `Extract sends the term sheet text to an LLM provider and writes the
resulting document JSON. The provider API key is read from the environment
(OPENAI_API_KEY, DEEPSEEK_API_KEY or ANTHROPIC_API_KEY). Validation findings
are printed but do not fail the extraction; run validate on the output
before evaluating it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")

		extraction := cfg.Extraction
		if p, _ := cmd.Flags().GetString("provider"); p != "" && !strings.EqualFold(p, extraction.Provider) {
			// The configured model and endpoint belong to the configured
			// provider, so switching drops them.
			extraction.Provider = p
			extraction.Model = ""
			extraction.BaseURL = ""
		}

		text, err := extract.LoadText(in)
		if err != nil {
			return err
		}
		provider, err := extract.NewProvider(extraction)
		if err != nil {
			return err
		}
		extractor := extract.NewExtractor(provider,
			extract.WithChunkSize(extraction.ChunkSize),
			extract.WithMaxTokens(extraction.MaxTokens),
			extract.WithTemperature(extraction.Temperature),
		)

		fmt.Printf("extracting %s via %s\n", in, provider.Name())
		doc, err := extractor.Extract(cmd.Context(), text)
		if err != nil {
			return err
		}

		report := termsheet.Validate(doc)
		for _, msg := range report.Errors {
			fmt.Printf("FATAL    %s\n", msg)
		}
		for _, msg := range report.Warnings {
			fmt.Printf("WARNING  %s\n", msg)
		}
		return writeJSON(out, doc)
	},
}

func init() {
	extractCmd.Flags().String("in", "", "term sheet text file (.txt or .md)")
	extractCmd.Flags().String("provider", "", "openai, deepseek or anthropic (default: config)")
	extractCmd.Flags().String("out", "", "write the document here instead of stdout")
	extractCmd.MarkFlagRequired("in")
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Emit a ready-to-run sample product document",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		out, _ := cmd.Flags().GetString("out")

		doc, err := exampleDocument(kind)
		if err != nil {
			return err
		}
		return writeJSON(out, doc)
	},
}

func init() {
	exampleCmd.Flags().String("type", termsheet.StructureSingle, "single or worst_of")
	exampleCmd.Flags().String("out", "", "write the document here instead of stdout")
}

// exampleDocument lays out a one-year quarterly Phoenix starting today, with
// observation dates rolled to business days.
func exampleDocument(kind string) (termsheet.Document, error) {
	if kind != termsheet.StructureSingle && kind != termsheet.StructureWorstOf {
		return termsheet.Document{}, fmt.Errorf("unknown product type %q", kind)
	}

	cal := dates.NYSE()
	start := cal.AdjustFollowing(time.Now())
	schedule, err := cal.MonthlySchedule(start, 12, 3)
	if err != nil {
		return termsheet.Document{}, err
	}
	obs := make([]string, len(schedule))
	for i, d := range schedule {
		obs[i] = d.Format(dates.Layout)
	}

	doc := termsheet.Document{
		StructureType: kind,
		Underlyings: []termsheet.Underlying{
			{Name: "EURO STOXX 50", Ticker: "SX5E", InitialPrice: decimal.NewFromInt(4200)},
		},
		Dates: termsheet.Dates{
			ValuationDate:    start.Format(dates.Layout),
			MaturityDate:     obs[len(obs)-1],
			ObservationDates: obs,
		},
		ConditionalCoupons: []termsheet.ConditionalCoupon{{
			Rate:             termsheet.PercentFrom(decimal.NewFromFloat(0.02)),
			BarrierLevel:     termsheet.PercentFrom(decimal.NewFromFloat(0.70)),
			MemoryFeature:    true,
			TriggerCondition: "closing level at or above 70% of initial on the observation date",
		}},
		Autocall: &termsheet.Autocall{
			BarrierLevel: termsheet.PercentFrom(decimal.NewFromInt(1)),
		},
		KnockIn: &termsheet.KnockIn{
			BarrierLevel: termsheet.PercentFrom(decimal.NewFromFloat(0.60)),
			Type:         "european",
		},
		FinalRedemption: map[string]any{
			"barrier_level": "60%",
			"description":   "at or above the barrier capital is repaid in full, below it redemption tracks the performance",
		},
		ProductDetails: &termsheet.ProductDetails{
			Name:         "Phoenix Autocall 12M Sample",
			Currency:     "EUR",
			Denomination: decimal.NewFromInt(1000),
		},
	}

	if kind == termsheet.StructureWorstOf {
		doc.Underlyings = append(doc.Underlyings,
			termsheet.Underlying{Name: "FTSE 100", Ticker: "UKX", InitialPrice: decimal.NewFromInt(7500)},
			termsheet.Underlying{Name: "Swiss Market Index", Ticker: "SMI", InitialPrice: decimal.NewFromInt(11000)},
		)
		doc.ProductDetails.Name = "Phoenix Autocall Worst-Of 12M Sample"
		doc.ConditionalCoupons[0].TriggerCondition = "worst performer at or above 70% of initial on the observation date"
	}
	return doc, nil
}

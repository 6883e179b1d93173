package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/banachtech/phoenix/payoff"
	"github.com/banachtech/phoenix/product"
	"github.com/banachtech/phoenix/termsheet"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a product against one price history",
	Long: `Evaluate reads a term sheet document and a price history file, walks the
observation schedule once and prints the payoff result. The price file maps
each underlying to its fixing on every observation date:

  {"SX5E": [1985.54, 2012.30, 1890.00, 2200.00]}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		productPath, _ := cmd.Flags().GetString("product")
		pricesPath, _ := cmd.Flags().GetString("prices")
		out, _ := cmd.Flags().GetString("out")

		def, err := loadProduct(productPath)
		if err != nil {
			return err
		}
		engine, err := payoff.New(def)
		if err != nil {
			return err
		}
		prices, err := loadPrices(pricesPath)
		if err != nil {
			return err
		}
		result, err := engine.Calculate(prices)
		if err != nil {
			return err
		}
		return writeJSON(out, result)
	},
}

func init() {
	evalCmd.Flags().String("product", "", "term sheet document JSON")
	evalCmd.Flags().String("prices", "", "price history JSON, underlying to fixings")
	evalCmd.Flags().String("out", "", "write the result here instead of stdout")
	evalCmd.MarkFlagRequired("product")
	evalCmd.MarkFlagRequired("prices")
}

func loadPrices(path string) (product.PriceSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return product.PriceSet{}, err
	}
	var paths map[string][]decimal.Decimal
	if err := json.Unmarshal(raw, &paths); err != nil {
		return product.PriceSet{}, fmt.Errorf("decode prices: %w", err)
	}
	return product.NewPriceSet(paths), nil
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a term sheet document without evaluating it",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("product")
		doc, err := termsheet.LoadDocument(path)
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
		if !report.Valid() {
			return fmt.Errorf("%d fatal finding(s)", len(report.Errors))
		}
		fmt.Println("term sheet is evaluable")
		return nil
	},
}

func init() {
	validateCmd.Flags().String("product", "", "term sheet document JSON")
	validateCmd.MarkFlagRequired("product")
}

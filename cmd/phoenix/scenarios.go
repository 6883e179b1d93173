package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/banachtech/phoenix/payoff"
	"github.com/banachtech/phoenix/product"
	"github.com/banachtech/phoenix/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Run a scenario batch against one product or a directory of products",
	Long: `Scenarios evaluates a product against a batch of hypothetical price
histories. Without --set a generated default batch is used (rally into an
autocall, sideways coupon clipping, decline scenarios). With --dir every
*.json product in the directory is evaluated and a combined results file is
written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			return runScenarioDir(cmd, dir)
		}
		return runScenarioFile(cmd)
	},
}

func init() {
	scenariosCmd.Flags().String("product", "", "term sheet document JSON")
	scenariosCmd.Flags().String("set", "", "YAML scenario set (default: generated batch)")
	scenariosCmd.Flags().Int("parallel", 0, "max concurrent evaluations (default: config)")
	scenariosCmd.Flags().String("out", "", "write results here as JSON")
	scenariosCmd.Flags().String("dir", "", "evaluate every *.json product in this directory")
}

// scenarioRecord is the JSON rendering of one outcome, matching the API
// response shape.
type scenarioRecord struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Result      *payoff.Result `json:"result,omitempty"`
}

func runScenarioFile(cmd *cobra.Command) error {
	productPath, _ := cmd.Flags().GetString("product")
	if productPath == "" {
		return errors.New("either --product or --dir is required")
	}
	setPath, _ := cmd.Flags().GetString("set")
	out, _ := cmd.Flags().GetString("out")

	def, outcomes, err := evaluateScenarios(cmd, productPath, setPath)
	if err != nil {
		return err
	}
	summary := scenario.Summarize(outcomes, def.Notional)

	fmt.Printf("%-24s %-8s %14s  %s\n", "SCENARIO", "STATUS", "TOTAL VALUE", "NOTES")
	records := make([]scenarioRecord, 0, len(outcomes))
	for _, o := range outcomes {
		rec := scenarioRecord{Name: o.Name, Description: o.Description, Status: "ok", Result: o.Result}
		if o.Err != nil {
			rec = scenarioRecord{Name: o.Name, Description: o.Description, Status: "error", Error: o.Err.Error()}
			fmt.Printf("%-24s %-8s %14s  %s\n", o.Name, "error", "-", o.Err)
			records = append(records, rec)
			continue
		}
		note := "matured"
		switch {
		case o.Result.Autocalled && o.Result.AutocallDate != nil:
			note = "autocalled " + o.Result.AutocallDate.Format(product.Layout)
		case o.Result.KnockInBreached:
			note = "knocked in"
		}
		fmt.Printf("%-24s %-8s %14s  %s\n", o.Name, "ok", o.Result.TotalValue.StringFixed(2), note)
		records = append(records, rec)
	}

	fmt.Printf("\nscenarios %d  evaluated %d  errors %d  autocalled %d  knocked in %d\n",
		summary.Scenarios, summary.Evaluated, summary.Errors, summary.Autocalled, summary.KnockedIn)
	if summary.Evaluated > 0 {
		fmt.Printf("total value  mean %.2f  std %.2f  min %.2f  p50 %.2f  max %.2f\n",
			summary.MeanTotalValue, summary.StdTotalValue, summary.MinTotalValue,
			summary.P50TotalValue, summary.MaxTotalValue)
		fmt.Printf("mean return  %.2f%%\n", 100*summary.MeanReturn)
	}

	if out == "" {
		return nil
	}
	return writeJSON(out, map[string]any{
		"product":   def.Name,
		"scenarios": records,
		"summary":   summary,
	})
}

// batchRecord is one product's line in the combined --dir results file.
type batchRecord struct {
	Product string            `json:"product"`
	RanAt   time.Time         `json:"ran_at"`
	Status  string            `json:"status"`
	Error   string            `json:"error,omitempty"`
	Summary *scenario.Summary `json:"summary,omitempty"`
}

func runScenarioDir(cmd *cobra.Command, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no *.json products under %s", dir)
	}
	sort.Strings(files)

	setPath, _ := cmd.Flags().GetString("set")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = "results.json"
	}

	bar := progressBar(len(files))
	records := make([]batchRecord, 0, len(files))
	for _, f := range files {
		bar.Describe(fmt.Sprintf("Processing %v\t", filepath.Base(f)))
		rec := batchRecord{Product: filepath.Base(f), RanAt: time.Now().UTC(), Status: "ok"}
		def, outcomes, err := evaluateScenarios(cmd, f, setPath)
		if err != nil {
			rec.Status = "error"
			rec.Error = err.Error()
		} else {
			summary := scenario.Summarize(outcomes, def.Notional)
			rec.Summary = &summary
		}
		records = append(records, rec)
		bar.Add(1)
	}

	if err := writeJSON(out, records); err != nil {
		return err
	}
	fmt.Printf("wrote %d result(s) to %s\n", len(records), out)
	return nil
}

// evaluateScenarios loads one product and runs its scenario batch, generated
// or from a YAML set.
func evaluateScenarios(cmd *cobra.Command, productPath, setPath string) (product.Definition, []scenario.Outcome, error) {
	def, err := loadProduct(productPath)
	if err != nil {
		return product.Definition{}, nil, err
	}
	engine, err := payoff.New(def)
	if err != nil {
		return product.Definition{}, nil, err
	}

	batch := scenario.Defaults(def)
	if setPath != "" {
		batch, err = scenario.Load(setPath)
		if err != nil {
			return product.Definition{}, nil, err
		}
	}

	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel == 0 {
		parallel = cfg.Engine.Parallelism
	}
	runner := scenario.New(engine, scenario.WithParallelism(parallel))
	outcomes, err := runner.Run(cmd.Context(), batch)
	if err != nil {
		return product.Definition{}, nil, err
	}
	return def, outcomes, nil
}

// progress bar initialization
func progressBar(length int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}

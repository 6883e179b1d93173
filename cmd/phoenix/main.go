// Phoenix is a payoff engine for autocallable structured notes.
//
// CLI entrypoint using the cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banachtech/phoenix/config"
	"github.com/banachtech/phoenix/product"
	"github.com/banachtech/phoenix/termsheet"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

// Global config, loaded before every command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "phoenix",
	Short: "Payoff engine for autocallable structured notes",
	Long: `Phoenix evaluates autocallable structured notes ("Phoenix" notes) against
observed or hypothetical price histories: conditional coupons with memory,
autocall triggers, knock-in barriers and final redemption, on single
underlyings or worst-of baskets. Term sheets are plain JSON documents,
extracted by hand or with the extract command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("phoenix %s (%s)\n", version, commit)
	},
}

// loadProduct reads a term sheet document and turns it into an evaluable
// definition, refusing documents with fatal validation findings.
func loadProduct(path string) (product.Definition, error) {
	doc, err := termsheet.LoadDocument(path)
	if err != nil {
		return product.Definition{}, err
	}
	report := termsheet.Validate(doc)
	if !report.Valid() {
		return product.Definition{}, fmt.Errorf("term sheet is not evaluable: %s", strings.Join(report.Errors, "; "))
	}
	return termsheet.Build(doc)
}

// writeJSON renders v as indented JSON to path, or to stdout when path is
// empty.
func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(raw))
		return nil
	}
	return os.WriteFile(path, raw, 0644)
}

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rpgo/rsim/internal/calculation"
	"github.com/rpgo/rsim/internal/domain"
)

var rootCmd = &cobra.Command{
	Use:   "rsim",
	Short: "Long-horizon personal-finance simulator",
	Long: `rsim runs many independent multi-decade portfolio trials through a
common per-year pipeline: a market scenario (historical bootstrap or
Monte Carlo), a withdrawal or contribution strategy, and a progressive
tax engine with inflation-indexed brackets. Trials are aggregated into
success rates, percentile bands and histograms, optionally comparing
several strategies against the same scenarios.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

var log = logrus.New()

func init() {
	rootCmd.PersistentFlags().String("countries-dir", "data/countries", "directory of per-country historical series CSVs")
	rootCmd.PersistentFlags().String("tax-dir", "data/tax", "directory of per-country tax schedule YAMLs")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	viper.SetEnvPrefix("RSIM")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("countries_dir", rootCmd.PersistentFlags().Lookup("countries-dir"))
	_ = viper.BindPFlag("tax_dir", rootCmd.PersistentFlags().Lookup("tax-dir"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// setup configures logging from flags/env before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	if viper.GetBool("log_json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// loadEngine loads both reference-data bundles and wraps them in a
// calculation engine. The logrus logger satisfies the kernel's Logger
// interface directly.
func loadEngine() (*calculation.Engine, *domain.ReferenceData, error) {
	refData, err := calculation.LoadReferenceData(viper.GetString("countries_dir"), viper.GetString("tax_dir"), log)
	if err != nil {
		return nil, nil, fmt.Errorf("loading reference data: %w", err)
	}
	return calculation.NewEngine(refData, log), refData, nil
}

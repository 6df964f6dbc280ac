package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rpgo/rsim/internal/calculation"
	"github.com/rpgo/rsim/internal/config"
	"github.com/rpgo/rsim/internal/domain"
	"github.com/rpgo/rsim/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a config file",
	Long: `Run a Monte-Carlo simulation using settings from a YAML configuration
file and print the aggregate summary.

Example:
  rsim run -f examples/withdrawal.yaml --mode withdrawal --format console`,
	RunE: runRun,
}

var (
	runConfigPath string
	runMode       string
	runFormat     string
	runOutputPath string
	runWorkers    int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML) (required)")
	runCmd.Flags().StringVar(&runMode, "mode", "withdrawal", "simulation mode: withdrawal, accumulation or combined")
	runCmd.Flags().StringVar(&runFormat, "format", "console", "output format: console, json or csv")
	runCmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "write the report to a file instead of stdout")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "worker goroutines (default: number of CPUs)")
	_ = runCmd.MarkFlagRequired("config")
}

func formatterFor(name string) (output.Formatter, error) {
	switch name {
	case "console":
		return output.ConsoleFormatter{}, nil
	case "json":
		return output.JSONFormatter{}, nil
	case "csv":
		return output.CSVBandFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected console, json or csv)", name)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	formatter, err := formatterFor(runFormat)
	if err != nil {
		return err
	}

	engine, refData, err := loadEngine()
	if err != nil {
		return err
	}
	cfg, err := config.NewInputParser().LoadFromFile(runConfigPath, refData)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// SIGINT cancels between trials; a second one kills the process.
	cancel := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			signal.Stop(sigs)
			log.Warnf("interrupt received, cancelling run")
			close(cancel)
		}
	}()

	opts := calculation.RunOptions{Workers: runWorkers, Cancel: cancel, Logger: log}

	var summaries []domain.Summary
	switch runMode {
	case "withdrawal":
		report, err := engine.RunWithdrawal(cfg, opts)
		if err != nil {
			return err
		}
		summaries = report.Strategies
	case "accumulation":
		report, err := engine.RunAccumulation(cfg, opts)
		if err != nil {
			return err
		}
		summaries = report.Strategies
	case "combined":
		report, err := engine.RunCombined(cfg, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Accumulation: %d years, retirement: %d years\n", report.AccumulationYears, report.RetirementYears)
		summaries = report.Strategies
	default:
		return fmt.Errorf("unknown mode %q (expected withdrawal, accumulation or combined)", runMode)
	}

	rendered, err := formatter.Format(summaries)
	if err != nil {
		return fmt.Errorf("format report: %w", err)
	}
	if runOutputPath != "" {
		if err := os.WriteFile(runOutputPath, rendered, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", runOutputPath)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(rendered)
	return err
}

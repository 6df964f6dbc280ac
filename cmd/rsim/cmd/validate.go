package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/rsim/internal/config"
	"github.com/rpgo/rsim/internal/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file without running it",
	Long: `Validate a YAML configuration file against the loaded reference data
and print the normalized config (defaults filled in) on success.`,
	RunE: runValidate,
}

var validateConfigPath string

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "f", "", "path to config file (YAML) (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	engine, refData, err := loadEngine()
	if err != nil {
		return err
	}
	cfg, err := config.NewInputParser().LoadFromFile(validateConfigPath, refData)
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("config invalid at %s: %s", cfgErr.Path, cfgErr.Message)
		}
		return err
	}

	normalized, cfgErr := engine.Validate(cfg)
	if cfgErr != nil {
		return fmt.Errorf("config invalid at %s: %s", cfgErr.Path, cfgErr.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Config is valid. Normalized:")
	rendered, err := yaml.Marshal(normalized)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(rendered)
	return err
}

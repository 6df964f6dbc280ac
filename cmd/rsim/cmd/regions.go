package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List available tax regions per country",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := loadEngine()
		if err != nil {
			return err
		}
		byCountry := engine.ListTaxRegions()
		countries := make([]string, 0, len(byCountry))
		for country := range byCountry {
			countries = append(countries, country)
		}
		sort.Strings(countries)
		for _, country := range countries {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", country, strings.Join(byCountry[country], ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List available historical market series",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := loadEngine()
		if err != nil {
			return err
		}
		countries := engine.ListCountries()
		names := make([]string, 0, len(countries))
		for name := range countries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			info := countries[name]
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d-%d (%d years)\n", info.Country, info.StartYear, info.EndYear, info.NumYears)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}

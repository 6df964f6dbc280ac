// Command print_schedule prints one region's effective tax bracket
// table for a given simulated year, applying the same cumulative
// inflation indexing the simulator uses. Handy when checking a new tax
// schedule file against published tables.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/calculation"
	"github.com/rpgo/rsim/internal/domain"
	money "github.com/rpgo/rsim/pkg/decimal"
)

func main() {
	taxDir := flag.String("tax-dir", "data/tax", "directory of tax schedule YAMLs")
	countriesDir := flag.String("countries-dir", "data/countries", "directory of historical series CSVs")
	country := flag.String("country", "", "country key (required)")
	region := flag.String("region", "", "region key (required)")
	year := flag.Int("year", 1, "simulated year (1-based)")
	inflation := flag.String("inflation", "0.02", "assumed annual inflation")
	flag.Parse()

	if *country == "" || *region == "" {
		flag.Usage()
		os.Exit(2)
	}

	refData, err := calculation.LoadReferenceData(*countriesDir, *taxDir, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	schedule, ok := refData.Schedule(*country, *region)
	if !ok {
		fmt.Fprintf(os.Stderr, "no schedule for %s/%s\n", *country, *region)
		os.Exit(1)
	}

	rate, err := decimal.NewFromString(*inflation)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// brackets for year k are indexed by inflation through year k-1
	cumulative := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(*year - 1)))

	te := calculation.NewTaxEngine(schedule)
	fmt.Printf("%s/%s, base year %d, year %d at %s inflation (cumulative %s)\n",
		*country, *region, schedule.BaseYear, *year, rate.String(), cumulative.StringFixed(4))

	printBrackets := func(kind string, brackets []domain.TaxBracket) {
		fmt.Printf("%s brackets:\n", kind)
		for _, b := range brackets {
			threshold := b.Threshold.Mul(cumulative)
			fmt.Printf("  above %-16s %s\n", money.NewMoneyFromDecimal(threshold).Format(), money.FormatPercent(b.Rate))
		}
	}
	printBrackets("income", schedule.IncomeBrackets)
	printBrackets("wealth", schedule.WealthBrackets)
	if a := schedule.WealthTaxExemptions.PersonalAllowance; !a.IsZero() {
		fmt.Printf("wealth allowance: %s\n", money.NewMoneyFromDecimal(a.Mul(cumulative)).Format())
	}
	if c := schedule.WealthTaxCap; c != nil {
		fmt.Printf("wealth tax cap: %s of taxable income, discount limit %s\n",
			money.FormatPercent(c.PctOfTaxableIncome), money.FormatPercent(c.DiscountLimitPct))
	}

	sample := decimal.NewFromInt(50000)
	tax := te.IncomeTax(sample, true, cumulative)
	fmt.Printf("income tax on %s: %s\n", money.NewMoneyFromDecimal(sample).Format(), money.NewMoneyFromDecimal(tax).Format())
}

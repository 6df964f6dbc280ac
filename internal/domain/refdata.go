package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// HistoricalYear is one calendar year's realized returns for a
// country's historical series.
type HistoricalYear struct {
	Year      int
	Stock     decimal.Decimal
	Bond      decimal.Decimal
	Inflation decimal.Decimal
}

// CountrySeries is the full historical series for one country, sorted
// ascending by Year.
type CountrySeries struct {
	Country string
	Years   []HistoricalYear
}

// CountryInfo is the summary list_countries() returns.
type CountryInfo struct {
	Country   string `json:"country"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	NumYears  int    `json:"num_years"`
}

// TaxBracket is one progressive bracket: Rate applies to the slice of
// value above Threshold, up to the next bracket's Threshold.
type TaxBracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// WealthTaxExemptions holds the amounts subtracted from wealth before
// the wealth brackets apply. The personal allowance is indexed by
// cumulative inflation alongside the bracket thresholds.
type WealthTaxExemptions struct {
	PersonalAllowance decimal.Decimal `yaml:"personal_allowance" json:"personal_allowance"`
}

// WealthTaxCap limits total tax to a fraction of taxable income, the
// way Spain's "límite de la cuota íntegra" works: when capital gains
// plus wealth tax exceed PctOfTaxableIncome of income, the wealth tax
// is reduced to fit, but never by more than DiscountLimitPct of its
// uncapped amount.
type WealthTaxCap struct {
	PctOfTaxableIncome decimal.Decimal `yaml:"pct_of_taxable_income" json:"pct_of_taxable_income"`
	DiscountLimitPct   decimal.Decimal `yaml:"discount_limit_pct" json:"discount_limit_pct"`
}

// TaxSchedule is one region's tax brackets, anchored to a base year
// for inflation indexing.
type TaxSchedule struct {
	Country             string              `yaml:"country" json:"country"`
	Region              string              `yaml:"region" json:"region"`
	BaseYear            int                 `yaml:"base_year" json:"base_year"`
	IncomeBrackets      []TaxBracket        `yaml:"income_brackets" json:"income_brackets"`
	WealthBrackets      []TaxBracket        `yaml:"wealth_brackets" json:"wealth_brackets"`
	WealthTaxExemptions WealthTaxExemptions `yaml:"wealth_tax_exemptions" json:"wealth_tax_exemptions"`
	WealthTaxCap        *WealthTaxCap       `yaml:"wealth_tax_cap,omitempty" json:"wealth_tax_cap,omitempty"`
}

// ReferenceData bundles every country's historical series and every
// region's tax schedule, loaded once at process start and shared
// read-only across all trials.
type ReferenceData struct {
	Countries    map[string]CountrySeries
	TaxSchedules map[string]map[string]TaxSchedule // country -> region -> schedule
}

// Country looks up a country's historical series.
func (r *ReferenceData) Country(country string) (CountrySeries, bool) {
	s, ok := r.Countries[country]
	return s, ok
}

// Schedule looks up a region's tax schedule.
func (r *ReferenceData) Schedule(country, region string) (TaxSchedule, bool) {
	byRegion, ok := r.TaxSchedules[country]
	if !ok {
		return TaxSchedule{}, false
	}
	s, ok := byRegion[region]
	return s, ok
}

// ListCountries returns the series summary for every loaded country,
// keyed by country name.
func (r *ReferenceData) ListCountries() map[string]CountryInfo {
	out := make(map[string]CountryInfo, len(r.Countries))
	for name, series := range r.Countries {
		info := CountryInfo{Country: name}
		if len(series.Years) > 0 {
			info.StartYear = series.Years[0].Year
			info.EndYear = series.Years[len(series.Years)-1].Year
			info.NumYears = len(series.Years)
		}
		out[name] = info
	}
	return out
}

// ListTaxRegions returns every region defined for every country, keyed
// by country name with regions sorted for stable output.
func (r *ReferenceData) ListTaxRegions() map[string][]string {
	out := make(map[string][]string, len(r.TaxSchedules))
	for country, byRegion := range r.TaxSchedules {
		regions := make([]string, 0, len(byRegion))
		for region := range byRegion {
			regions = append(regions, region)
		}
		sort.Strings(regions)
		out[country] = regions
	}
	return out
}

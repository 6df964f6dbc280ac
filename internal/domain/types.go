package domain

import "github.com/shopspring/decimal"

// Allocation is a set of portfolio weights across the three asset
// classes the kernel models. Weights are expected to sum to 1 but this
// type does not enforce it; callers validate at configuration time.
type Allocation struct {
	Stocks decimal.Decimal `yaml:"stocks" json:"stocks"`
	Bonds  decimal.Decimal `yaml:"bonds" json:"bonds"`
	Cash   decimal.Decimal `yaml:"cash" json:"cash"`
}

// Sum returns the total of the three weights.
func (a Allocation) Sum() decimal.Decimal {
	return a.Stocks.Add(a.Bonds).Add(a.Cash)
}

// YearMarket is one year's sampled (or historical) asset returns and
// inflation, as produced by a scenario.
type YearMarket struct {
	StockReturn decimal.Decimal `json:"stock_return"`
	BondReturn  decimal.Decimal `json:"bond_return"`
	CashReturn  decimal.Decimal `json:"cash_return"`
	Inflation   decimal.Decimal `json:"inflation"`
}

// YearRecord is the immutable outcome of one simulated year. Every
// field is fixed once the year is recorded; nothing downstream
// mutates it.
type YearRecord struct {
	Year                int             `json:"year"`
	PortfolioValue      decimal.Decimal `json:"portfolio_value"`
	Allocation          Allocation      `json:"allocation"`
	Market              YearMarket      `json:"market"`
	CombinedReturn      decimal.Decimal `json:"combined_return"`
	Contribution        decimal.Decimal `json:"contribution"`
	GrossCashFlow       decimal.Decimal `json:"gross_cash_flow"`
	CapitalGainsTax     decimal.Decimal `json:"capital_gains_tax"`
	WealthTax           decimal.Decimal `json:"wealth_tax"`
	NetCashFlow         decimal.Decimal `json:"net_cash_flow"`
	CumulativeInflation decimal.Decimal `json:"cumulative_inflation"`
	RealPortfolioValue  decimal.Decimal `json:"real_portfolio_value"`
	RealNetCashFlow     decimal.Decimal `json:"real_net_cash_flow"`
	GoalAchieved        bool            `json:"goal_achieved"`
}

// Phase distinguishes accumulation (contributions) from withdrawal
// (cash-flow-out) years within a trial.
type Phase string

const (
	PhaseAccumulation Phase = "accumulation"
	PhaseWithdrawal   Phase = "withdrawal"
)

// SimulationReport is the full per-year output of a single trial.
type SimulationReport struct {
	Phase                   Phase           `json:"phase"`
	Succeeded               bool            `json:"succeeded"`
	FailureYear             *int            `json:"failure_year,omitempty"`
	TimeToTarget            *int            `json:"time_to_target,omitempty"`
	FinalPortfolioValue     decimal.Decimal `json:"final_portfolio_value"`
	FinalRealPortfolioValue decimal.Decimal `json:"final_real_portfolio_value"`
	Years                   []YearRecord    `json:"years"`
}

// PercentileBand holds the p10/p25/p50/p75/p90 cross-section of a
// value at one simulated year, across all trials.
type PercentileBand struct {
	Year int             `json:"year"`
	P10  decimal.Decimal `json:"p10"`
	P25  decimal.Decimal `json:"p25"`
	P50  decimal.Decimal `json:"p50"`
	P75  decimal.Decimal `json:"p75"`
	P90  decimal.Decimal `json:"p90"`
}

// HistogramBin is one fixed-width bin of an aggregate histogram.
type HistogramBin struct {
	LowerBound decimal.Decimal `json:"lower_bound"`
	UpperBound decimal.Decimal `json:"upper_bound,omitempty"`
	Overflow   bool            `json:"overflow,omitempty"`
	Count      int             `json:"count"`
}

// Summary is the aggregate produced by the Monte-Carlo runner over
// all trials of one strategy.
type Summary struct {
	StrategyLabel      string           `json:"strategy_label"`
	NumTrials          int              `json:"num_trials"`
	SuccessRate        decimal.Decimal  `json:"success_rate"`
	MedianTimeToTarget *decimal.Decimal `json:"median_time_to_target,omitempty"`
	PortfolioBands     []PercentileBand `json:"portfolio_bands"`
	RealPortfolioBands []PercentileBand `json:"real_portfolio_bands"`
	IncomeBands        []PercentileBand `json:"income_bands"`
	RealIncomeBands    []PercentileBand `json:"real_income_bands"`
	FinalPortfolioHist []HistogramBin   `json:"final_portfolio_histogram"`
	FinalIncomeHist    []HistogramBin   `json:"final_income_histogram"`
	FailureYearHist    []HistogramBin   `json:"failure_year_histogram"`
}

// WithdrawalReport is the top-level result of run_withdrawal: one
// Summary per strategy configured in the run.
type WithdrawalReport struct {
	Strategies []Summary `json:"strategies"`
}

// AccumulationReport is the top-level result of run_accumulation.
type AccumulationReport struct {
	Strategies []Summary `json:"strategies"`
}

// CombinedReport chains an accumulation phase into a withdrawal phase,
// per trial, before aggregating. Accumulation-phase YearRecords in the
// underlying trials always carry CapitalGainsTax == 0: no gains are
// realised while contributing, only wealth tax applies.
type CombinedReport struct {
	AccumulationYears int       `json:"accumulation_years"`
	RetirementYears   int       `json:"retirement_years"`
	Strategies        []Summary `json:"strategies"`
}

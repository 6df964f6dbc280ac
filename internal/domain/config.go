package domain

import "github.com/shopspring/decimal"

// ScenarioKind selects how a scenario generates yearly market draws.
type ScenarioKind string

const (
	ScenarioHistorical ScenarioKind = "historical"
	ScenarioMonteCarlo ScenarioKind = "monte_carlo"
)

// HistoricalScenarioConfig drives the block-bootstrap scenario engine.
type HistoricalScenarioConfig struct {
	Country        string          `yaml:"country" json:"country"`
	ChunkYears     *int            `yaml:"chunk_years,omitempty" json:"chunk_years,omitempty"`
	Shuffle        bool            `yaml:"shuffle" json:"shuffle"`
	RandomizeStart bool            `yaml:"randomize_start" json:"randomize_start"`
	CashReturn     decimal.Decimal `yaml:"cash_return" json:"cash_return"`
}

// MonteCarloScenarioConfig drives the statistical scenario engine.
type MonteCarloScenarioConfig struct {
	StockMean       decimal.Decimal `yaml:"stock_mean" json:"stock_mean"`
	StockStdDev     decimal.Decimal `yaml:"stock_stddev" json:"stock_stddev"`
	BondMean        decimal.Decimal `yaml:"bond_mean" json:"bond_mean"`
	BondStdDev      decimal.Decimal `yaml:"bond_stddev" json:"bond_stddev"`
	InflationMean   decimal.Decimal `yaml:"inflation_mean" json:"inflation_mean"`
	InflationStdDev decimal.Decimal `yaml:"inflation_stddev" json:"inflation_stddev"`
	CashReturn      decimal.Decimal `yaml:"cash_return" json:"cash_return"`
}

// ScenarioConfig is a tagged variant: exactly one of Historical or
// MonteCarlo is populated, selected by Kind.
type ScenarioConfig struct {
	Kind       ScenarioKind              `yaml:"kind" json:"kind"`
	Historical *HistoricalScenarioConfig `yaml:"historical,omitempty" json:"historical,omitempty"`
	MonteCarlo *MonteCarloScenarioConfig `yaml:"monte_carlo,omitempty" json:"monte_carlo,omitempty"`
}

// StrategyKind selects the withdrawal/contribution strategy variant.
type StrategyKind string

const (
	StrategyFixedSWR           StrategyKind = "fixed_swr"
	StrategyConstantDollar     StrategyKind = "constant_dollar"
	StrategyHebelerAutopilotII StrategyKind = "hebeler_autopilot_ii"
	StrategyCashBuffer         StrategyKind = "cash_buffer"
)

// FixedSWRConfig withdraws a fixed percentage of the portfolio value
// at the start of the withdrawal phase, clamped to the optional
// minimum/maximum bounds. A nil maximum means unbounded.
type FixedSWRConfig struct {
	WithdrawalRate    decimal.Decimal  `yaml:"withdrawal_rate" json:"withdrawal_rate"`
	MinimumWithdrawal decimal.Decimal  `yaml:"minimum_withdrawal" json:"minimum_withdrawal"`
	MaximumWithdrawal *decimal.Decimal `yaml:"maximum_withdrawal,omitempty" json:"maximum_withdrawal,omitempty"`
}

// ConstantDollarConfig withdraws the same real (inflation-adjusted)
// net amount every year.
type ConstantDollarConfig struct {
	WithdrawalAmount decimal.Decimal `yaml:"withdrawal_amount" json:"withdrawal_amount"`
}

// HebelerConfig is Hebeler's Autopilot II: after the first year, the
// withdrawal blends the prior year's withdrawal with an annuity-style
// payout of the current balance over the remaining payout horizon.
type HebelerConfig struct {
	InitialWithdrawalRate    decimal.Decimal `yaml:"initial_withdrawal_rate" json:"initial_withdrawal_rate"`
	PreviousWithdrawalWeight decimal.Decimal `yaml:"previous_withdrawal_weight" json:"previous_withdrawal_weight"`
	PayoutHorizon            int             `yaml:"payout_horizon" json:"payout_horizon"`
	MinimumWithdrawal        decimal.Decimal `yaml:"minimum_withdrawal" json:"minimum_withdrawal"`
}

// CashBufferConfig is the cash-buffer strategy: in loss years with an
// incomplete buffer it drops to a subsistence draw, and in good years
// it banks the surplus over the standard draw into the buffer.
type CashBufferConfig struct {
	WithdrawalRateBuffer  decimal.Decimal `yaml:"withdrawal_rate_buffer" json:"withdrawal_rate_buffer"`
	SubsistenceWithdrawal decimal.Decimal `yaml:"subsistence_withdrawal" json:"subsistence_withdrawal"`
	StandardWithdrawal    decimal.Decimal `yaml:"standard_withdrawal" json:"standard_withdrawal"`
	MaximumWithdrawal     decimal.Decimal `yaml:"maximum_withdrawal" json:"maximum_withdrawal"`
	BufferTarget          decimal.Decimal `yaml:"buffer_target" json:"buffer_target"`
	InitialBuffer         decimal.Decimal `yaml:"initial_buffer" json:"initial_buffer"`
}

// StrategyConfig is a tagged variant over the four strategy kinds.
type StrategyConfig struct {
	Kind           StrategyKind          `yaml:"kind" json:"kind"`
	Label          string                `yaml:"label" json:"label"`
	FixedSWR       *FixedSWRConfig       `yaml:"fixed_swr,omitempty" json:"fixed_swr,omitempty"`
	ConstantDollar *ConstantDollarConfig `yaml:"constant_dollar,omitempty" json:"constant_dollar,omitempty"`
	Hebeler        *HebelerConfig        `yaml:"hebeler_autopilot_ii,omitempty" json:"hebeler_autopilot_ii,omitempty"`
	CashBuffer     *CashBufferConfig     `yaml:"cash_buffer,omitempty" json:"cash_buffer,omitempty"`
}

// TaxCountryNone disables taxation entirely: every year's capital
// gains and wealth tax are zero and no schedule lookup happens.
const TaxCountryNone = "none"

// TaxConfig selects the tax schedule applied every year.
type TaxConfig struct {
	Country                     string `yaml:"country" json:"country"`
	Region                      string `yaml:"region" json:"region"`
	AdjustBracketsWithInflation bool   `yaml:"adjust_brackets_with_inflation" json:"adjust_brackets_with_inflation"`
}

// InitialPortfolioConfig is the opening value and allocation of the
// simulated portfolio; Allocation also doubles as the rebalance target
// when Rebalance is set.
type InitialPortfolioConfig struct {
	Value      decimal.Decimal `yaml:"value" json:"value"`
	Allocation Allocation      `yaml:"allocation" json:"allocation"`
}

// Config is the full external-interface configuration of one
// simulation request. Strategy holds the single-strategy form; the
// Strategies list is the compare form and wins when both are set
// (Normalize promotes the singular into the list).
type Config struct {
	InitialPortfolio  InitialPortfolioConfig `yaml:"initial_portfolio" json:"initial_portfolio"`
	Rebalance         bool                   `yaml:"rebalance" json:"rebalance"`
	Scenario          ScenarioConfig         `yaml:"scenario" json:"scenario"`
	Strategy          *StrategyConfig        `yaml:"strategy_config,omitempty" json:"strategy_config,omitempty"`
	Strategies        []StrategyConfig       `yaml:"strategy_configs,omitempty" json:"strategy_configs,omitempty"`
	Tax               TaxConfig              `yaml:"tax" json:"tax"`
	SimulationYears   int                    `yaml:"simulation_years" json:"simulation_years"`
	NumSimulations    int                    `yaml:"num_simulations" json:"num_simulations"`
	Seed              *int64                 `yaml:"seed,omitempty" json:"seed,omitempty"`
	MonthlySavings    decimal.Decimal        `yaml:"monthly_savings" json:"monthly_savings"`
	AnnualIncrease    decimal.Decimal        `yaml:"annual_increase" json:"annual_increase"`
	TargetValue       *decimal.Decimal       `yaml:"target_value,omitempty" json:"target_value,omitempty"`
	AccumulationYears int                    `yaml:"accumulation_years" json:"accumulation_years"`
	Workers           int                    `yaml:"workers,omitempty" json:"workers,omitempty"`
}

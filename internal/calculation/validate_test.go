package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rsim/internal/domain"
)

func validConfigWithStrategy() *domain.Config {
	cfg := baseConfig()
	cfg.Strategies = []domain.StrategyConfig{
		{Kind: domain.StrategyFixedSWR, Label: "4pct", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}},
	}
	return cfg
}

func TestValidate_AcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfigWithStrategy()
	err := Validate(cfg, flatRefData())
	assert.Nil(t, err)
}

func TestValidate_RejectsBadAllocationSum(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.InitialPortfolio.Allocation = domain.Allocation{Stocks: dec("0.5"), Bonds: dec("0.5"), Cash: dec("0.5")}
	err := Validate(cfg, flatRefData())
	require.NotNil(t, err)
	assert.Equal(t, "initial_portfolio.allocation", err.Path)
}

func TestValidate_RejectsUnknownTaxRegion(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.Tax.Region = "nowhere"
	err := Validate(cfg, flatRefData())
	require.NotNil(t, err)
	assert.Equal(t, "tax.region", err.Path)
}

func TestValidate_RejectsMissingStrategyVariant(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.Strategies[0].FixedSWR = nil
	err := Validate(cfg, flatRefData())
	require.NotNil(t, err)
}

func TestValidate_TaxCountryNoneSkipsScheduleLookup(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.Tax = domain.TaxConfig{Country: domain.TaxCountryNone}
	err := Validate(cfg, flatRefData())
	assert.Nil(t, err)
}

func TestValidate_RejectsNegativeStdDev(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.Scenario = domain.ScenarioConfig{
		Kind: domain.ScenarioMonteCarlo,
		MonteCarlo: &domain.MonteCarloScenarioConfig{
			StockStdDev: dec("-0.1"),
		},
	}
	err := Validate(cfg, flatRefData())
	require.NotNil(t, err)
	assert.Equal(t, "scenario.monte_carlo.stock_stddev", err.Path)
}

func TestValidate_RejectsChunkYearsBeyondSeries(t *testing.T) {
	cfg := validConfigWithStrategy()
	chunk := 100
	cfg.Scenario.Historical.ChunkYears = &chunk
	err := Validate(cfg, flatRefData())
	require.NotNil(t, err)
	assert.Equal(t, "scenario.historical.chunk_years", err.Path)
}

func TestValidate_RejectsHebelerWeightOutOfRange(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.Strategies = []domain.StrategyConfig{{
		Kind: domain.StrategyHebelerAutopilotII,
		Hebeler: &domain.HebelerConfig{
			InitialWithdrawalRate:    dec("0.05"),
			PreviousWithdrawalWeight: dec("1.5"),
			PayoutHorizon:            20,
		},
	}}
	err := Validate(cfg, flatRefData())
	require.NotNil(t, err)
	assert.Equal(t, "strategy_configs[0].hebeler_autopilot_ii.previous_withdrawal_weight", err.Path)
}

func TestNormalize_PromotesSingularStrategyConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Strategy = &domain.StrategyConfig{Kind: domain.StrategyFixedSWR, FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}}

	out := Normalize(cfg)
	require.Len(t, out.Strategies, 1)
	assert.Equal(t, domain.StrategyFixedSWR, out.Strategies[0].Kind)
	assert.Nil(t, out.Strategy)
	assert.Nil(t, Validate(out, flatRefData()))
}

func TestNormalize_StrategyListWinsOverSingular(t *testing.T) {
	cfg := validConfigWithStrategy()
	cfg.Strategy = &domain.StrategyConfig{Kind: domain.StrategyConstantDollar, ConstantDollar: &domain.ConstantDollarConfig{WithdrawalAmount: dec("50000")}}

	out := Normalize(cfg)
	require.Len(t, out.Strategies, 1)
	assert.Equal(t, domain.StrategyFixedSWR, out.Strategies[0].Kind)
}

func TestNormalize_FillsDefaultsWithoutMutatingInput(t *testing.T) {
	cfg := validConfigWithStrategy()
	out := Normalize(cfg)
	assert.Greater(t, out.Workers, 0)
	assert.Equal(t, cfg.SimulationYears, out.AccumulationYears)
	assert.Equal(t, "4pct", out.Strategies[0].Label)
	assert.Equal(t, 0, cfg.Workers)
}

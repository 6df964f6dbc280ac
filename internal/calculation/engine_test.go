package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rsim/internal/domain"
)

func TestEngine_ListCountriesAndRegions(t *testing.T) {
	e := NewEngine(flatRefData(), nil)
	countries := e.ListCountries()
	require.Len(t, countries, 1)
	assert.Equal(t, "flatland", countries["flatland"].Country)
	assert.Equal(t, 30, countries["flatland"].NumYears)
	assert.Equal(t, 1990, countries["flatland"].StartYear)

	regions := e.ListTaxRegions()
	assert.Equal(t, []string{"none"}, regions["flatland"])
}

func TestEngine_ValidateReturnsNormalizedConfig(t *testing.T) {
	e := NewEngine(flatRefData(), nil)
	cfg := baseConfig()
	cfg.Strategies = []domain.StrategyConfig{
		{Kind: domain.StrategyFixedSWR, FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}},
	}

	normalized, cfgErr := e.Validate(cfg)
	require.Nil(t, cfgErr)
	assert.Equal(t, "fixed_swr", normalized.Strategies[0].Label, "empty labels default to the strategy kind")
	assert.Greater(t, normalized.Workers, 0)
	assert.Equal(t, cfg.SimulationYears, normalized.AccumulationYears)
	assert.Empty(t, cfg.Strategies[0].Label, "input config is not mutated")
}

func TestEngine_RunWithdrawal_ValidatesConfig(t *testing.T) {
	e := NewEngine(flatRefData(), nil)
	cfg := baseConfig()
	cfg.Strategies = nil // invalid: no strategies

	_, err := e.RunWithdrawal(cfg, RunOptions{})
	require.Error(t, err)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestEngine_RunWithdrawal_Smoke(t *testing.T) {
	e := NewEngine(flatRefData(), nil)
	cfg := baseConfig()
	cfg.NumSimulations = 3
	cfg.Strategies = []domain.StrategyConfig{
		{Kind: domain.StrategyFixedSWR, Label: "4pct", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}},
	}

	report, err := e.RunWithdrawal(cfg, RunOptions{Workers: 2})
	require.NoError(t, err)
	require.Len(t, report.Strategies, 1)
	assert.Equal(t, 3, report.Strategies[0].NumTrials)
}

func TestEngine_RunCombined_Smoke(t *testing.T) {
	e := NewEngine(flatRefData(), nil)
	cfg := baseConfig()
	cfg.NumSimulations = 2
	cfg.AccumulationYears = 3
	cfg.MonthlySavings = dec("500")
	cfg.Strategies = []domain.StrategyConfig{
		{Kind: domain.StrategyFixedSWR, Label: "4pct", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}},
	}

	report, err := e.RunCombined(cfg, RunOptions{Workers: 2})
	require.NoError(t, err)
	require.Len(t, report.Strategies, 1)
	assert.Equal(t, 2, report.Strategies[0].NumTrials)
}

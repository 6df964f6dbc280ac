package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rsim/internal/domain"
)

func flatRefData() *domain.ReferenceData {
	years := make([]domain.HistoricalYear, 30)
	for i := range years {
		years[i] = domain.HistoricalYear{Year: 1990 + i, Stock: dec("0.05"), Bond: dec("0.03"), Inflation: dec("0.02")}
	}
	return &domain.ReferenceData{
		Countries: map[string]domain.CountrySeries{"flatland": {Country: "flatland", Years: years}},
		TaxSchedules: map[string]map[string]domain.TaxSchedule{
			"flatland": {
				"none": {Country: "flatland", Region: "none", BaseYear: 1990},
			},
		},
	}
}

func baseConfig() *domain.Config {
	return &domain.Config{
		InitialPortfolio: domain.InitialPortfolioConfig{
			Value:      dec("1000000"),
			Allocation: domain.Allocation{Stocks: dec("0.6"), Bonds: dec("0.3"), Cash: dec("0.1")},
		},
		Scenario: domain.ScenarioConfig{
			Kind:       domain.ScenarioHistorical,
			Historical: &domain.HistoricalScenarioConfig{Country: "flatland"},
		},
		Tax:             domain.TaxConfig{Country: "flatland", Region: "none"},
		SimulationYears: 5,
		NumSimulations:  1,
	}
}

func TestRunTrial_Withdrawal_SingleYear(t *testing.T) {
	cfg := baseConfig()
	cfg.SimulationYears = 1
	strategy := domain.StrategyConfig{Kind: domain.StrategyFixedSWR, Label: "4pct", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}}

	report, err := RunTrial(TrialInput{
		Config:   cfg,
		RefData:  flatRefData(),
		Strategy: strategy,
		Phase:    domain.PhaseWithdrawal,
		Years:    1,
		Seed:     1,
	})
	require.NoError(t, err)
	assert.Len(t, report.Years, 1, "simulation_years=1 produces exactly one YearRecord")
	assert.True(t, report.Succeeded)
}

func TestRunTrial_Depletion_RemainingYearsAreZeroRecords(t *testing.T) {
	cfg := baseConfig()
	cfg.InitialPortfolio.Value = dec("10")
	strategy := domain.StrategyConfig{Kind: domain.StrategyFixedSWR, Label: "huge", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.9")}}

	report, err := RunTrial(TrialInput{
		Config:   cfg,
		RefData:  flatRefData(),
		Strategy: strategy,
		Phase:    domain.PhaseWithdrawal,
		Years:    5,
		Seed:     1,
	})
	require.NoError(t, err)
	assert.Len(t, report.Years, 5)
	assert.False(t, report.Succeeded)
	require.NotNil(t, report.FailureYear)
	for _, y := range report.Years[*report.FailureYear:] {
		assert.True(t, y.PortfolioValue.LessThan(decimal.NewFromInt(1)))
	}
}

func TestRunTrial_Accumulation_ContributionsGrowPortfolio(t *testing.T) {
	cfg := baseConfig()
	cfg.MonthlySavings = dec("1000")
	cfg.AnnualIncrease = dec("0.03")
	strategy := domain.StrategyConfig{Kind: domain.StrategyFixedSWR, Label: "n/a", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}}

	report, err := RunTrial(TrialInput{
		Config:   cfg,
		RefData:  flatRefData(),
		Strategy: strategy,
		Phase:    domain.PhaseAccumulation,
		Years:    5,
		Seed:     1,
	})
	require.NoError(t, err)
	assert.True(t, report.FinalPortfolioValue.GreaterThan(cfg.InitialPortfolio.Value))
	for _, y := range report.Years {
		assert.True(t, y.CapitalGainsTax.IsZero(), "accumulation years never carry capital gains tax")
	}
}

func TestRunTrial_ZeroReturnFixedSWRDrainsExactlyAtHorizon(t *testing.T) {
	cfg := &domain.Config{
		InitialPortfolio: domain.InitialPortfolioConfig{
			Value:      dec("1000000"),
			Allocation: domain.Allocation{Stocks: dec("1")},
		},
		Scenario: domain.ScenarioConfig{
			Kind:       domain.ScenarioMonteCarlo,
			MonteCarlo: &domain.MonteCarloScenarioConfig{},
		},
		Tax:             domain.TaxConfig{Country: domain.TaxCountryNone},
		SimulationYears: 25,
		NumSimulations:  1,
	}
	strategy := domain.StrategyConfig{Kind: domain.StrategyFixedSWR, Label: "4pct", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}}

	report, err := RunTrial(TrialInput{
		Config:   cfg,
		RefData:  &domain.ReferenceData{},
		Strategy: strategy,
		Phase:    domain.PhaseWithdrawal,
		Years:    25,
		Seed:     1,
	})
	require.NoError(t, err)
	require.Len(t, report.Years, 25)

	for _, y := range report.Years {
		assert.Truef(t, y.GrossCashFlow.Equal(dec("40000")), "year %d gross %s", y.Year, y.GrossCashFlow)
		assert.True(t, y.CapitalGainsTax.IsZero())
		assert.True(t, y.WealthTax.IsZero())
		assert.True(t, y.NetCashFlow.Equal(y.GrossCashFlow), "no-tax run keeps net equal to gross")
	}
	assert.True(t, report.Years[0].PortfolioValue.Equal(dec("960000")), "got %s", report.Years[0].PortfolioValue)
	assert.True(t, report.FinalPortfolioValue.IsZero(), "got %s", report.FinalPortfolioValue)
	// the portfolio hits zero exactly on the last year, which is below
	// the solvency floor of 1.
	assert.False(t, report.Succeeded)
	assert.False(t, report.Years[24].GoalAchieved)
}

func TestRunTrial_NetGrossTaxIdentityAndRealFields(t *testing.T) {
	refData := flatRefData()
	refData.TaxSchedules["flatland"]["bracketed"] = domain.TaxSchedule{
		Country: "flatland", Region: "bracketed", BaseYear: 1990,
		IncomeBrackets: []domain.TaxBracket{{Threshold: dec("20000"), Rate: dec("0.2")}},
		WealthBrackets: []domain.TaxBracket{{Threshold: dec("0"), Rate: dec("0.005")}},
	}
	cfg := baseConfig()
	cfg.Tax.Region = "bracketed"
	strategy := domain.StrategyConfig{Kind: domain.StrategyConstantDollar, Label: "cd", ConstantDollar: &domain.ConstantDollarConfig{WithdrawalAmount: dec("40000")}}

	report, err := RunTrial(TrialInput{
		Config:   cfg,
		RefData:  refData,
		Strategy: strategy,
		Phase:    domain.PhaseWithdrawal,
		Years:    5,
		Seed:     3,
	})
	require.NoError(t, err)

	tolerance := dec("0.0000001")
	for _, y := range report.Years {
		identity := y.GrossCashFlow.Sub(y.CapitalGainsTax).Sub(y.WealthTax)
		assert.Truef(t, identity.Sub(y.NetCashFlow).Abs().LessThan(tolerance), "year %d: net %s != gross-taxes %s", y.Year, y.NetCashFlow, identity)

		realValue := y.PortfolioValue.Div(y.CumulativeInflation)
		assert.Truef(t, realValue.Sub(y.RealPortfolioValue).Abs().LessThan(tolerance), "year %d real portfolio mismatch", y.Year)

		allocSum := y.Allocation.Sum()
		if !y.PortfolioValue.IsZero() {
			assert.Truef(t, allocSum.Sub(one).Abs().LessThan(dec("0.000000001")), "year %d allocation sums to %s", y.Year, allocSum)
		}
	}
}

func TestRunTrial_DeterministicGivenSameSeed(t *testing.T) {
	cfg := baseConfig()
	strategy := domain.StrategyConfig{Kind: domain.StrategyFixedSWR, Label: "4pct", FixedSWR: &domain.FixedSWRConfig{WithdrawalRate: dec("0.04")}}

	a, err := RunTrial(TrialInput{Config: cfg, RefData: flatRefData(), Strategy: strategy, Phase: domain.PhaseWithdrawal, Years: 5, Seed: 99})
	require.NoError(t, err)
	b, err := RunTrial(TrialInput{Config: cfg, RefData: flatRefData(), Strategy: strategy, Phase: domain.PhaseWithdrawal, Years: 5, Seed: 99})
	require.NoError(t, err)

	require.Equal(t, len(a.Years), len(b.Years))
	for i := range a.Years {
		assert.True(t, a.Years[i].PortfolioValue.Equal(b.Years[i].PortfolioValue))
	}
}

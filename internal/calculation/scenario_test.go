package calculation

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rsim/internal/domain"
)

func tenYearSeries() []domain.HistoricalYear {
	years := make([]domain.HistoricalYear, 10)
	for i := 0; i < 10; i++ {
		years[i] = domain.HistoricalYear{
			Year:  1970 + i,
			Stock: decimalTenth(i),
		}
	}
	return years
}

func decimalTenth(i int) decimal.Decimal {
	return dec("0." + []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}[i])
}

func TestBuildHistoricalYears_SequentialNonOverlappingBlocksWithWrap(t *testing.T) {
	series := tenYearSeries()
	chunk := 3
	cfg := domain.HistoricalScenarioConfig{ChunkYears: &chunk}
	rng := rand.New(rand.NewSource(1))

	years, err := buildHistoricalYears(series, cfg, 12, rng)
	require.NoError(t, err)
	require.Len(t, years, 12)

	expected := []string{"0", "0.1", "0.2", "0.3", "0.4", "0.5", "0.6", "0.7", "0.8", "0.9", "0", "0.1"}
	for i, e := range expected {
		assert.Truef(t, years[i].StockReturn.Equal(dec(e)), "year %d: expected %s got %s", i, e, years[i].StockReturn)
	}
}

func TestBuildHistoricalYears_DeterministicGivenSeed(t *testing.T) {
	series := tenYearSeries()
	chunk := 2
	cfg := domain.HistoricalScenarioConfig{ChunkYears: &chunk, Shuffle: true}

	a, err := buildHistoricalYears(series, cfg, 20, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := buildHistoricalYears(series, cfg, 20, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].StockReturn.Equal(b[i].StockReturn))
	}
}

func TestBuildHistoricalYears_ChunkExceedsSeriesIsConfigError(t *testing.T) {
	series := tenYearSeries()
	chunk := 20
	cfg := domain.HistoricalScenarioConfig{ChunkYears: &chunk}
	_, err := buildHistoricalYears(series, cfg, 5, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestMonteCarloScenario_ClampsReturnsAtMinus999(t *testing.T) {
	cfg := domain.MonteCarloScenarioConfig{
		StockMean:   dec("-5"),
		StockStdDev: dec("0.001"),
		BondMean:    dec("0"),
		BondStdDev:  dec("0.001"),
	}
	s := &monteCarloScenario{cfg: cfg, rng: rand.New(rand.NewSource(1)), remaining: 5}
	for {
		m, ok := s.Next()
		if !ok {
			break
		}
		assert.True(t, m.StockReturn.GreaterThanOrEqual(minReturn))
	}
}

func TestScenario_SameSeedSameSequence(t *testing.T) {
	refData := &domain.ReferenceData{Countries: map[string]domain.CountrySeries{
		"us": {Country: "us", Years: tenYearSeries()},
	}}
	cfg := domain.ScenarioConfig{Kind: domain.ScenarioHistorical, Historical: &domain.HistoricalScenarioConfig{Country: "us", Shuffle: true}}

	a, err := NewScenario(cfg, refData, 8, 777)
	require.NoError(t, err)
	b, err := NewScenario(cfg, refData, 8, 777)
	require.NoError(t, err)

	for {
		ya, oka := a.Next()
		yb, okb := b.Next()
		require.Equal(t, oka, okb)
		if !oka {
			break
		}
		assert.True(t, ya.StockReturn.Equal(yb.StockReturn))
	}
}

package calculation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// Scenario is a lazy sequence of per-year market draws. It is consumed
// exactly once per trial and is never shared between goroutines.
type Scenario interface {
	Next() (domain.YearMarket, bool)
}

// NewScenario builds the scenario for one trial from its configuration
// and a seed derived from (master_seed, trial_index). The same seed
// always reproduces the same sequence.
func NewScenario(cfg domain.ScenarioConfig, refData *domain.ReferenceData, scenarioYears int, seed int64) (Scenario, error) {
	rng := rand.New(rand.NewSource(seed))
	switch cfg.Kind {
	case domain.ScenarioHistorical:
		if cfg.Historical == nil {
			return nil, domain.NewConfigError("scenario.historical", "required when scenario.kind is historical")
		}
		series, ok := refData.Country(cfg.Historical.Country)
		if !ok {
			return nil, domain.ErrReferenceDataMissing
		}
		years, err := buildHistoricalYears(series.Years, *cfg.Historical, scenarioYears, rng)
		if err != nil {
			return nil, err
		}
		return &historicalScenario{years: years}, nil
	case domain.ScenarioMonteCarlo:
		if cfg.MonteCarlo == nil {
			return nil, domain.NewConfigError("scenario.monte_carlo", "required when scenario.kind is monte_carlo")
		}
		return &monteCarloScenario{cfg: *cfg.MonteCarlo, rng: rng, remaining: scenarioYears}, nil
	default:
		return nil, domain.NewConfigError("scenario.kind", fmt.Sprintf("unrecognized scenario kind %q", cfg.Kind))
	}
}

type historicalScenario struct {
	years []domain.YearMarket
	idx   int
}

func (h *historicalScenario) Next() (domain.YearMarket, bool) {
	if h.idx >= len(h.years) {
		return domain.YearMarket{}, false
	}
	y := h.years[h.idx]
	h.idx++
	return y, true
}

// buildHistoricalYears materializes exactly scenarioYears YearMarkets
// from a country's historical series:
//
//  1. Without shuffling, blocks of chunk_years are drawn sequentially
//     and non-overlapping, starting at block_start and wrapping around
//     the series when exhausted.
//  2. With shuffling, blocks are drawn uniformly at random with
//     replacement from the full set of overlapping windows (one window
//     per possible start index), until enough years are produced.
func buildHistoricalYears(series []domain.HistoricalYear, cfg domain.HistoricalScenarioConfig, scenarioYears int, rng *rand.Rand) ([]domain.YearMarket, error) {
	n := len(series)
	if n == 0 {
		return nil, domain.ErrReferenceDataMissing
	}
	chunk := 1
	if cfg.ChunkYears != nil && *cfg.ChunkYears > 1 {
		chunk = *cfg.ChunkYears
	}
	if chunk > n {
		return nil, domain.NewConfigError("scenario.historical.chunk_years", "exceeds the historical series length")
	}

	blockStart := 0
	if cfg.RandomizeStart {
		blockStart = rng.Intn(n)
	}

	out := make([]domain.YearMarket, 0, scenarioYears)
	emit := func(windowStart int) bool {
		for k := 0; k < chunk; k++ {
			src := series[(windowStart+k)%n]
			out = append(out, domain.YearMarket{
				StockReturn: src.Stock,
				BondReturn:  src.Bond,
				CashReturn:  cfg.CashReturn,
				Inflation:   src.Inflation,
			})
			if len(out) == scenarioYears {
				return true
			}
		}
		return false
	}

	if cfg.Shuffle {
		for {
			if emit(rng.Intn(n)) {
				break
			}
		}
	} else {
		pos := blockStart
		for {
			if emit(pos) {
				break
			}
			pos = (pos + chunk) % n
		}
	}
	return out, nil
}

// monteCarloScenario draws independent arithmetic normal returns per
// year via a Box-Muller transform. Per-asset returns are clamped at
// -0.999 before being combined, so a single year's draw can never
// take a fully-invested asset negative.
type monteCarloScenario struct {
	cfg       domain.MonteCarloScenarioConfig
	rng       *rand.Rand
	remaining int
}

func (m *monteCarloScenario) Next() (domain.YearMarket, bool) {
	if m.remaining <= 0 {
		return domain.YearMarket{}, false
	}
	m.remaining--
	stock := clampReturn(sampleNormal(m.rng, m.cfg.StockMean, m.cfg.StockStdDev))
	bond := clampReturn(sampleNormal(m.rng, m.cfg.BondMean, m.cfg.BondStdDev))
	inflation := sampleNormal(m.rng, m.cfg.InflationMean, m.cfg.InflationStdDev)
	return domain.YearMarket{
		StockReturn: stock,
		BondReturn:  bond,
		CashReturn:  m.cfg.CashReturn,
		Inflation:   inflation,
	}, true
}

var minReturn = decimal.NewFromFloat(-0.999)

func clampReturn(r decimal.Decimal) decimal.Decimal {
	if r.LessThan(minReturn) {
		return minReturn
	}
	return r
}

// sampleNormal draws one N(mean, stddev) value via Box-Muller.
func sampleNormal(rng *rand.Rand, mean, stdDev decimal.Decimal) decimal.Decimal {
	u1 := rng.Float64()
	u2 := rng.Float64()
	for u1 <= 0 {
		u1 = rng.Float64()
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean.Add(stdDev.Mul(decimal.NewFromFloat(z)))
}

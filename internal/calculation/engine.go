package calculation

import (
	"github.com/rpgo/rsim/internal/domain"
)

// Engine is the entry point for the simulator's external operations.
// It holds the reference data loaded once at process start and a
// Logger; every Run* method validates its config before dispatching
// to the Monte-Carlo runner.
type Engine struct {
	RefData *domain.ReferenceData
	Logger  Logger
}

// NewEngine wraps reference data for repeated use across runs. A nil
// logger installs NopLogger.
func NewEngine(refData *domain.ReferenceData, logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Engine{RefData: refData, Logger: logger}
}

// Validate normalizes cfg (singular strategy promoted into the list,
// defaults filled in) and checks the result, returning the normalized
// copy when it is well formed.
func (e *Engine) Validate(cfg *domain.Config) (*domain.Config, *domain.ConfigError) {
	normalized := Normalize(cfg)
	if err := Validate(normalized, e.RefData); err != nil {
		return nil, err
	}
	return normalized, nil
}

// RunWithdrawal runs every configured strategy over cfg.SimulationYears
// withdrawal-phase trials starting from the configured initial
// portfolio, and returns one Summary per strategy.
func (e *Engine) RunWithdrawal(cfg *domain.Config, opts RunOptions) (*domain.WithdrawalReport, error) {
	normalized, cfgErr := e.Validate(cfg)
	if cfgErr != nil {
		return nil, cfgErr
	}
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
	if opts.Workers <= 0 {
		opts.Workers = normalized.Workers
	}
	summaries, err := RunMonteCarlo(normalized, e.RefData, normalized.Strategies, domain.PhaseWithdrawal, normalized.SimulationYears, nil, opts)
	if err != nil {
		return nil, err
	}
	return &domain.WithdrawalReport{Strategies: summaries}, nil
}

// RunAccumulation runs every configured strategy over
// cfg.AccumulationYears accumulation-phase trials, and returns one
// Summary per strategy.
func (e *Engine) RunAccumulation(cfg *domain.Config, opts RunOptions) (*domain.AccumulationReport, error) {
	normalized, cfgErr := e.Validate(cfg)
	if cfgErr != nil {
		return nil, cfgErr
	}
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
	if opts.Workers <= 0 {
		opts.Workers = normalized.Workers
	}
	summaries, err := RunMonteCarlo(normalized, e.RefData, normalized.Strategies, domain.PhaseAccumulation, normalized.AccumulationYears, nil, opts)
	if err != nil {
		return nil, err
	}
	return &domain.AccumulationReport{Strategies: summaries}, nil
}

// RunCombined chains an accumulation phase into a withdrawal phase per
// trial, per strategy: the accumulation trial's ending portfolio
// becomes the withdrawal trial's starting portfolio, both trials
// sharing the same seed. Each phase reconstructs its scenario fresh
// from that seed, so withdrawal-phase draws are independent of how
// many accumulation years ran.
func (e *Engine) RunCombined(cfg *domain.Config, opts RunOptions) (*domain.CombinedReport, error) {
	normalized, cfgErr := e.Validate(cfg)
	if cfgErr != nil {
		return nil, cfgErr
	}
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
	if opts.Workers <= 0 {
		opts.Workers = normalized.Workers
	}

	summaries := make([]domain.Summary, len(normalized.Strategies))
	for i, strat := range normalized.Strategies {
		portfolios, _, err := RunMonteCarloPortfolios(normalized, e.RefData, strat, normalized.AccumulationYears, opts)
		if err != nil {
			return nil, err
		}
		results, err := RunMonteCarlo(normalized, e.RefData, []domain.StrategyConfig{strat}, domain.PhaseWithdrawal, normalized.SimulationYears, portfolios, opts)
		if err != nil {
			return nil, err
		}
		summaries[i] = results[0]
	}
	return &domain.CombinedReport{
		AccumulationYears: normalized.AccumulationYears,
		RetirementYears:   normalized.SimulationYears,
		Strategies:        summaries,
	}, nil
}

// ListCountries returns the historical-series summary for every
// loaded country, keyed by country name.
func (e *Engine) ListCountries() map[string]domain.CountryInfo {
	return e.RefData.ListCountries()
}

// ListTaxRegions returns every tax region per country.
func (e *Engine) ListTaxRegions() map[string][]string {
	return e.RefData.ListTaxRegions()
}

package calculation

import (
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

var allocationTolerance = decimal.NewFromFloat(0.0001)

// Validate checks a Config against the rules every run enforces before
// any trial starts, and returns the first violation found as a
// ConfigError naming the offending field path.
func Validate(cfg *domain.Config, refData *domain.ReferenceData) *domain.ConfigError {
	if cfg.SimulationYears <= 0 {
		return domain.NewConfigError("simulation_years", "must be positive")
	}
	if cfg.NumSimulations <= 0 {
		return domain.NewConfigError("num_simulations", "must be positive")
	}
	if cfg.InitialPortfolio.Value.LessThan(decimal.Zero) {
		return domain.NewConfigError("initial_portfolio.value", "must not be negative")
	}
	sum := cfg.InitialPortfolio.Allocation.Sum()
	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(allocationTolerance) {
		return domain.NewConfigError("initial_portfolio.allocation", "stocks+bonds+cash must sum to 1")
	}

	if refData != nil {
		if cfg.Tax.Country != domain.TaxCountryNone {
			if _, ok := refData.Schedule(cfg.Tax.Country, cfg.Tax.Region); !ok {
				return domain.NewConfigError("tax.region", "unknown country/region combination")
			}
		}
		if cfg.Scenario.Kind == domain.ScenarioHistorical && cfg.Scenario.Historical != nil {
			series, ok := refData.Country(cfg.Scenario.Historical.Country)
			if !ok {
				return domain.NewConfigError("scenario.historical.country", "unknown country")
			}
			if c := cfg.Scenario.Historical.ChunkYears; c != nil && *c > len(series.Years) {
				return domain.NewConfigError("scenario.historical.chunk_years", "exceeds the historical series length")
			}
		}
	}

	switch cfg.Scenario.Kind {
	case domain.ScenarioHistorical:
		if cfg.Scenario.Historical == nil {
			return domain.NewConfigError("scenario.historical", "required when scenario.kind is historical")
		}
		if c := cfg.Scenario.Historical.ChunkYears; c != nil && *c < 1 {
			return domain.NewConfigError("scenario.historical.chunk_years", "must be at least 1")
		}
	case domain.ScenarioMonteCarlo:
		mc := cfg.Scenario.MonteCarlo
		if mc == nil {
			return domain.NewConfigError("scenario.monte_carlo", "required when scenario.kind is monte_carlo")
		}
		for _, sd := range []struct {
			path  string
			value decimal.Decimal
		}{
			{"scenario.monte_carlo.stock_stddev", mc.StockStdDev},
			{"scenario.monte_carlo.bond_stddev", mc.BondStdDev},
			{"scenario.monte_carlo.inflation_stddev", mc.InflationStdDev},
		} {
			if sd.value.LessThan(decimal.Zero) {
				return domain.NewConfigError(sd.path, "standard deviation must not be negative")
			}
		}
	default:
		return domain.NewConfigError("scenario.kind", "must be historical or monte_carlo")
	}

	if len(cfg.Strategies) == 0 {
		return domain.NewConfigError("strategy_configs", "at least one strategy is required")
	}
	for i, s := range cfg.Strategies {
		if err := validateStrategy(i, s); err != nil {
			return err
		}
	}

	return nil
}

// Normalize returns a copy of cfg with defaults filled in: the
// singular strategy_config promoted into the strategy list (the list
// wins when both are set), worker count, per-strategy labels, and the
// accumulation-years fallback. The input is not mutated; a
// normalized-then-validated copy is what the external `validate`
// operation hands back.
func Normalize(cfg *domain.Config) *domain.Config {
	out := *cfg
	if out.Workers <= 0 {
		out.Workers = runtime.GOMAXPROCS(0)
	}
	if out.AccumulationYears <= 0 {
		out.AccumulationYears = out.SimulationYears
	}
	src := cfg.Strategies
	if len(src) == 0 && cfg.Strategy != nil {
		src = []domain.StrategyConfig{*cfg.Strategy}
	}
	strategies := make([]domain.StrategyConfig, len(src))
	copy(strategies, src)
	for i := range strategies {
		if strategies[i].Label == "" {
			strategies[i].Label = string(strategies[i].Kind)
		}
	}
	out.Strategy = nil
	out.Strategies = strategies
	return &out
}

func validateStrategy(i int, s domain.StrategyConfig) *domain.ConfigError {
	path := func(suffix string) string {
		return fmt.Sprintf("strategy_configs[%d].%s", i, suffix)
	}
	switch s.Kind {
	case domain.StrategyFixedSWR:
		if s.FixedSWR == nil {
			return domain.NewConfigError(path("fixed_swr"), "required when kind is fixed_swr")
		}
		if s.FixedSWR.WithdrawalRate.LessThan(decimal.Zero) {
			return domain.NewConfigError(path("fixed_swr.withdrawal_rate"), "must not be negative")
		}
	case domain.StrategyConstantDollar:
		if s.ConstantDollar == nil {
			return domain.NewConfigError(path("constant_dollar"), "required when kind is constant_dollar")
		}
	case domain.StrategyHebelerAutopilotII:
		h := s.Hebeler
		if h == nil {
			return domain.NewConfigError(path("hebeler_autopilot_ii"), "required when kind is hebeler_autopilot_ii")
		}
		if h.PayoutHorizon < 1 {
			return domain.NewConfigError(path("hebeler_autopilot_ii.payout_horizon"), "must be at least 1")
		}
		if h.PreviousWithdrawalWeight.LessThan(decimal.Zero) || h.PreviousWithdrawalWeight.GreaterThan(one) {
			return domain.NewConfigError(path("hebeler_autopilot_ii.previous_withdrawal_weight"), "must be between 0 and 1")
		}
	case domain.StrategyCashBuffer:
		if s.CashBuffer == nil {
			return domain.NewConfigError(path("cash_buffer"), "required when kind is cash_buffer")
		}
		if s.CashBuffer.BufferTarget.LessThan(decimal.Zero) {
			return domain.NewConfigError(path("cash_buffer.buffer_target"), "must not be negative")
		}
	default:
		return domain.NewConfigError(path("kind"), "unrecognized strategy kind")
	}
	return nil
}

package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// twelve is the months-per-year constant used to annualize monthly
// savings contributions.
var twelve = decimal.NewFromInt(12)

// StrategyState is a tagged-variant strategy instance: its Kind
// selects which branch of TargetNetWithdrawal runs, and the fields
// below hold the internal state that only some variants use (the
// fixed-SWR base amount, Hebeler's prior withdrawal, the cash buffer's
// reserve and trailing return). Dispatch is by tag rather than virtual
// methods on four separate types, which keeps the hot loop free of
// interface calls and makes the variant set exhaustive in one switch.
type StrategyState struct {
	cfg domain.StrategyConfig

	// fixed_swr: rate times the portfolio value seen on the first
	// withdrawal year, captured once.
	baseWithdrawal decimal.Decimal

	// hebeler_autopilot_ii
	previousWithdrawal decimal.Decimal

	initialized bool

	// cash_buffer
	cashBuffer             decimal.Decimal
	previousCombinedReturn decimal.Decimal
}

// NewStrategyState constructs a fresh strategy instance for one
// trial. State is never shared across trials or strategies.
func NewStrategyState(cfg domain.StrategyConfig) (*StrategyState, error) {
	s := &StrategyState{cfg: cfg}
	switch cfg.Kind {
	case domain.StrategyFixedSWR:
		if cfg.FixedSWR == nil {
			return nil, domain.NewConfigError("strategy_configs[].fixed_swr", "required when kind is fixed_swr")
		}
	case domain.StrategyConstantDollar:
		if cfg.ConstantDollar == nil {
			return nil, domain.NewConfigError("strategy_configs[].constant_dollar", "required when kind is constant_dollar")
		}
	case domain.StrategyHebelerAutopilotII:
		if cfg.Hebeler == nil {
			return nil, domain.NewConfigError("strategy_configs[].hebeler_autopilot_ii", "required when kind is hebeler_autopilot_ii")
		}
	case domain.StrategyCashBuffer:
		if cfg.CashBuffer == nil {
			return nil, domain.NewConfigError("strategy_configs[].cash_buffer", "required when kind is cash_buffer")
		}
		s.cashBuffer = cfg.CashBuffer.InitialBuffer
	default:
		return nil, domain.NewConfigError("strategy_configs[].kind", fmt.Sprintf("unrecognized strategy kind %q", cfg.Kind))
	}
	return s, nil
}

// Contribute computes the accumulation-phase contribution for a year,
// the monthly savings amount annualized and grown by annual_increase
// compounded since year 1.
func Contribute(year int, monthlySavings, annualIncrease decimal.Decimal) decimal.Decimal {
	growth := one.Add(annualIncrease).Pow(decimal.NewFromInt(int64(year - 1)))
	return monthlySavings.Mul(twelve).Mul(growth)
}

// TargetNetWithdrawal computes the desired net withdrawal for
// withdrawal-phase year `year` (1-based), before tax gross-up, per the
// strategy's tag. preAlloc is the portfolio's allocation as it stood
// before this year's returns were applied; portfolioValue is the value
// after returns but before this year's cash flow.
func (s *StrategyState) TargetNetWithdrawal(year int, portfolioValue, combinedReturn decimal.Decimal, preAlloc domain.Allocation, market domain.YearMarket, cumulativeInflation decimal.Decimal) decimal.Decimal {
	switch s.cfg.Kind {
	case domain.StrategyFixedSWR:
		cfg := s.cfg.FixedSWR
		if !s.initialized {
			s.baseWithdrawal = portfolioValue.Mul(cfg.WithdrawalRate)
			s.initialized = true
		}
		// the minimum is a year-0 amount and tracks inflation
		target := decimal.Max(s.baseWithdrawal, cfg.MinimumWithdrawal.Mul(cumulativeInflation))
		if cfg.MaximumWithdrawal != nil {
			target = decimal.Min(target, *cfg.MaximumWithdrawal)
		}
		return target

	case domain.StrategyConstantDollar:
		return s.cfg.ConstantDollar.WithdrawalAmount.Mul(cumulativeInflation)

	case domain.StrategyHebelerAutopilotII:
		cfg := s.cfg.Hebeler
		var target decimal.Decimal
		if !s.initialized {
			target = portfolioValue.Mul(cfg.InitialWithdrawalRate)
			s.initialized = true
		} else {
			remaining := cfg.PayoutHorizon - year + 1
			if remaining < 1 {
				remaining = 1
			}
			payout := portfolioValue.Div(decimal.NewFromInt(int64(remaining)))
			w := cfg.PreviousWithdrawalWeight
			target = s.previousWithdrawal.Mul(w).Add(payout.Mul(one.Sub(w)))
		}
		floor := cfg.MinimumWithdrawal.Mul(cumulativeInflation)
		target = decimal.Max(target, floor)
		s.previousWithdrawal = target
		return target

	case domain.StrategyCashBuffer:
		return s.cashBufferWithdrawal(portfolioValue, combinedReturn, preAlloc, market, cumulativeInflation)

	default:
		return decimal.Zero
	}
}

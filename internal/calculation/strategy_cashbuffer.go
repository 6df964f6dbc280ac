package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// cashBufferWithdrawal implements the cash-buffer rule. The "good
// year" trigger is a spread over the trailing return: the reference
// rate is the previous year's portfolio combined return (zero in year
// 1), and a good year is one whose combined return reaches the
// reference plus withdrawal_rate_buffer. In a loss year (the non-cash
// share of the portfolio lost money) with the buffer still below its
// target, the strategy drops to the subsistence draw and covers it
// from the reserve first; in a good year it draws up to the maximum
// and banks the surplus over the standard draw into the reserve, up to
// buffer_target; otherwise it draws the standard amount. Subsistence
// and standard amounts track cumulative inflation; the maximum is a
// nominal ceiling.
func (s *StrategyState) cashBufferWithdrawal(portfolioValue, combinedReturn decimal.Decimal, preAlloc domain.Allocation, market domain.YearMarket, cumulativeInflation decimal.Decimal) decimal.Decimal {
	cfg := s.cfg.CashBuffer

	nonCashWeight := preAlloc.Stocks.Add(preAlloc.Bonds)
	nonCashReturn := decimal.Zero
	if nonCashWeight.GreaterThan(decimal.Zero) {
		nonCashReturn = preAlloc.Stocks.Mul(market.StockReturn).
			Add(preAlloc.Bonds.Mul(market.BondReturn)).
			Div(nonCashWeight)
	}

	lossYear := nonCashReturn.LessThan(decimal.Zero) && s.cashBuffer.LessThan(cfg.BufferTarget)
	goodYear := combinedReturn.GreaterThanOrEqual(s.previousCombinedReturn.Add(cfg.WithdrawalRateBuffer))
	s.previousCombinedReturn = combinedReturn

	subsistence := cfg.SubsistenceWithdrawal.Mul(cumulativeInflation)
	standard := cfg.StandardWithdrawal.Mul(cumulativeInflation)

	if lossYear {
		s.cashBuffer = decimal.Max(decimal.Zero, s.cashBuffer.Sub(subsistence))
		return subsistence
	}

	if goodYear {
		target := decimal.Min(cfg.MaximumWithdrawal, portfolioValue)
		surplus := target.Sub(standard)
		if surplus.GreaterThan(decimal.Zero) {
			room := cfg.BufferTarget.Sub(s.cashBuffer)
			if room.GreaterThan(decimal.Zero) {
				s.cashBuffer = s.cashBuffer.Add(decimal.Min(surplus, room))
			}
		}
		return target
	}

	return standard
}

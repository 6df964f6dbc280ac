package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// Portfolio is the mutable per-trial asset state. It is never shared
// across goroutines; the Monte-Carlo runner constructs one per trial.
type Portfolio struct {
	Stocks decimal.Decimal
	Bonds  decimal.Decimal
	Cash   decimal.Decimal
}

// NewPortfolio splits an opening value across the three asset classes
// by the given allocation.
func NewPortfolio(value decimal.Decimal, alloc domain.Allocation) *Portfolio {
	return &Portfolio{
		Stocks: value.Mul(alloc.Stocks),
		Bonds:  value.Mul(alloc.Bonds),
		Cash:   value.Mul(alloc.Cash),
	}
}

// Value returns the total portfolio value.
func (p *Portfolio) Value() decimal.Decimal {
	return p.Stocks.Add(p.Bonds).Add(p.Cash)
}

// Allocation returns the current weights; a zero-valued portfolio
// reports the zero allocation rather than dividing by zero.
func (p *Portfolio) Allocation() domain.Allocation {
	v := p.Value()
	if v.IsZero() {
		return domain.Allocation{}
	}
	return domain.Allocation{
		Stocks: p.Stocks.Div(v),
		Bonds:  p.Bonds.Div(v),
		Cash:   p.Cash.Div(v),
	}
}

// ApplyReturns grows each asset class by its market return for the
// year and returns the allocation-weighted nominal combined return,
// using the allocation as it stood before the returns were applied.
func (p *Portfolio) ApplyReturns(m domain.YearMarket) decimal.Decimal {
	preValue := p.Value()
	var preAlloc domain.Allocation
	if !preValue.IsZero() {
		preAlloc = p.Allocation()
	}
	p.Stocks = p.Stocks.Mul(one.Add(m.StockReturn))
	p.Bonds = p.Bonds.Mul(one.Add(m.BondReturn))
	p.Cash = p.Cash.Mul(one.Add(m.CashReturn))
	if preValue.IsZero() {
		return decimal.Zero
	}
	return preAlloc.Stocks.Mul(m.StockReturn).
		Add(preAlloc.Bonds.Mul(m.BondReturn)).
		Add(preAlloc.Cash.Mul(m.CashReturn))
}

// ApplyCashFlow adds amt (positive: contribution, into cash) or
// withdraws -amt (negative: withdrawal, cash first, then bonds, then
// stocks). A withdrawal larger than the total portfolio value drains
// every asset class to zero; the unmet remainder is the caller's
// problem (a depleted trial).
func (p *Portfolio) ApplyCashFlow(amt decimal.Decimal) {
	if amt.GreaterThanOrEqual(decimal.Zero) {
		p.Cash = p.Cash.Add(amt)
		return
	}
	need := amt.Neg()
	if p.Cash.GreaterThanOrEqual(need) {
		p.Cash = p.Cash.Sub(need)
		return
	}
	need = need.Sub(p.Cash)
	p.Cash = decimal.Zero

	if p.Bonds.GreaterThanOrEqual(need) {
		p.Bonds = p.Bonds.Sub(need)
		return
	}
	need = need.Sub(p.Bonds)
	p.Bonds = decimal.Zero

	if p.Stocks.GreaterThanOrEqual(need) {
		p.Stocks = p.Stocks.Sub(need)
		return
	}
	p.Stocks = decimal.Zero
}

// PayTax withdraws a tax amount using the same cash-first overflow
// rule as any other cash outflow.
func (p *Portfolio) PayTax(amt decimal.Decimal) {
	if amt.IsZero() {
		return
	}
	p.ApplyCashFlow(amt.Neg())
}

// Rebalance resets each asset class to target's share of the current
// total value.
func (p *Portfolio) Rebalance(target domain.Allocation) {
	v := p.Value()
	p.Stocks = v.Mul(target.Stocks)
	p.Bonds = v.Mul(target.Bonds)
	p.Cash = v.Mul(target.Cash)
}

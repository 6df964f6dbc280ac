package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rpgo/rsim/internal/domain"
)

func TestPortfolio_ApplyReturns_WeightedCombined(t *testing.T) {
	p := NewPortfolio(dec("100000"), domain.Allocation{Stocks: dec("0.6"), Bonds: dec("0.4")})
	combined := p.ApplyReturns(domain.YearMarket{StockReturn: dec("0.1"), BondReturn: dec("-0.05")})
	// 0.6*0.1 + 0.4*-0.05 = 0.06 - 0.02 = 0.04
	assert.True(t, combined.Equal(dec("0.04")), "got %s", combined)
	assert.True(t, p.Value().Equal(dec("104000")), "got %s", p.Value())
}

func TestPortfolio_ApplyCashFlow_OverflowOrder(t *testing.T) {
	p := &Portfolio{Cash: dec("1000"), Bonds: dec("2000"), Stocks: dec("5000")}
	p.ApplyCashFlow(dec("-1500")) // drains all cash, then 500 from bonds
	assert.True(t, p.Cash.IsZero())
	assert.True(t, p.Bonds.Equal(dec("1500")), "got %s", p.Bonds)
	assert.True(t, p.Stocks.Equal(dec("5000")))
}

func TestPortfolio_ApplyCashFlow_DepletesToZeroNotNegative(t *testing.T) {
	p := &Portfolio{Cash: dec("100"), Bonds: dec("100"), Stocks: dec("100")}
	p.ApplyCashFlow(dec("-10000"))
	assert.True(t, p.Value().IsZero())
	assert.False(t, p.Cash.IsNegative())
	assert.False(t, p.Bonds.IsNegative())
	assert.False(t, p.Stocks.IsNegative())
}

func TestPortfolio_Rebalance(t *testing.T) {
	p := &Portfolio{Cash: dec("0"), Bonds: dec("0"), Stocks: dec("100000")}
	p.Rebalance(domain.Allocation{Stocks: dec("0.5"), Bonds: dec("0.3"), Cash: dec("0.2")})
	assert.True(t, p.Stocks.Equal(dec("50000")))
	assert.True(t, p.Bonds.Equal(dec("30000")))
	assert.True(t, p.Cash.Equal(dec("20000")))
}

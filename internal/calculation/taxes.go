package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// infinityThreshold stands in for an unbounded top bracket. It is far
// larger than any realistic portfolio value, so arithmetic against it
// behaves as if the top bracket extended to infinity without needing
// a special-cased branch.
var infinityThreshold = decimal.New(1, 18)

var one = decimal.NewFromInt(1)

// TaxEngine evaluates one region's tax schedule: progressive bracket
// tax on income or wealth, inflation-indexed thresholds, the wealth-tax
// personal allowance and income-relative cap, and a closed-form inverse
// (net -> gross) solver.
type TaxEngine struct {
	schedule domain.TaxSchedule
}

// NewTaxEngine wraps a region's schedule for repeated evaluation
// across the years of a trial.
func NewTaxEngine(schedule domain.TaxSchedule) *TaxEngine {
	return &TaxEngine{schedule: schedule}
}

// effectiveBrackets returns brackets with thresholds scaled by
// cumulative inflation since the schedule's base year, or the
// brackets unchanged if indexing is disabled.
func effectiveBrackets(brackets []domain.TaxBracket, cumulativeInflation decimal.Decimal, adjust bool) []domain.TaxBracket {
	if !adjust || len(brackets) == 0 {
		return brackets
	}
	out := make([]domain.TaxBracket, len(brackets))
	for i, b := range brackets {
		out[i] = domain.TaxBracket{Threshold: b.Threshold.Mul(cumulativeInflation), Rate: b.Rate}
	}
	return out
}

// progressiveTax sums rate*span across every bracket whose threshold
// the value exceeds.
func progressiveTax(value decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if value.LessThanOrEqual(decimal.Zero) || len(brackets) == 0 {
		return decimal.Zero
	}
	tax := decimal.Zero
	for i, b := range brackets {
		if value.LessThanOrEqual(b.Threshold) {
			break
		}
		upper := infinityThreshold
		if i+1 < len(brackets) {
			upper = brackets[i+1].Threshold
		}
		span := decimal.Min(value, upper).Sub(b.Threshold)
		if span.GreaterThan(decimal.Zero) {
			tax = tax.Add(span.Mul(b.Rate))
		}
	}
	return tax
}

// MarginalRate returns the rate applying to the next unit of value.
func MarginalRate(value decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	rate := decimal.Zero
	for _, b := range brackets {
		if value.GreaterThanOrEqual(b.Threshold) {
			rate = b.Rate
		} else {
			break
		}
	}
	return rate
}

// IncomeTax computes the capital-gains-style tax on gross income for
// one year, with optional inflation-indexed thresholds.
func (te *TaxEngine) IncomeTax(gross decimal.Decimal, adjust bool, cumulativeInflation decimal.Decimal) decimal.Decimal {
	brackets := effectiveBrackets(te.schedule.IncomeBrackets, cumulativeInflation, adjust)
	return progressiveTax(gross, brackets)
}

// WealthTax computes the uncapped tax on end-of-year portfolio value:
// the personal allowance (indexed alongside the brackets) comes off
// first, then the wealth brackets apply to the remainder. The
// income-relative cap is applied by Taxes, which knows the year's
// gross income.
func (te *TaxEngine) WealthTax(wealth decimal.Decimal, adjust bool, cumulativeInflation decimal.Decimal) decimal.Decimal {
	allowance := te.schedule.WealthTaxExemptions.PersonalAllowance
	if adjust {
		allowance = allowance.Mul(cumulativeInflation)
	}
	taxable := decimal.Max(decimal.Zero, wealth.Sub(allowance))
	brackets := effectiveBrackets(te.schedule.WealthBrackets, cumulativeInflation, adjust)
	return progressiveTax(taxable, brackets)
}

// capWealthTax applies the income-relative cap to an uncapped wealth
// tax: when total tax exceeds the cap fraction of gross income, the
// wealth tax is cut back to fit, floored at (1 - discount limit) of
// its uncapped amount.
func (te *TaxEngine) capWealthTax(capGains, wealthTax, gross decimal.Decimal) decimal.Decimal {
	limit := te.schedule.WealthTaxCap
	if limit == nil {
		return wealthTax
	}
	maxTax := gross.Mul(limit.PctOfTaxableIncome)
	if capGains.Add(wealthTax).LessThanOrEqual(maxTax) {
		return wealthTax
	}
	floor := wealthTax.Mul(one.Sub(limit.DiscountLimitPct))
	return decimal.Max(maxTax.Sub(capGains), floor)
}

// Taxes computes the year's capital-gains and wealth tax together,
// since the wealth-tax cap couples the two through gross income.
func (te *TaxEngine) Taxes(gross, wealth decimal.Decimal, adjust bool, cumulativeInflation decimal.Decimal) (capGains, wealthTax decimal.Decimal) {
	capGains = te.IncomeTax(gross, adjust, cumulativeInflation)
	wealthTax = te.capWealthTax(capGains, te.WealthTax(wealth, adjust, cumulativeInflation), gross)
	return capGains, wealthTax
}

// grossForTarget solves G - incomeTax(G) == target by walking the
// income brackets: net-of-income-tax at each threshold is computed in
// turn and the target is interpolated within the bracket whose net
// range contains it — exact because the tax is piecewise-linear in G.
func grossForTarget(target decimal.Decimal, incomeBrackets []domain.TaxBracket) decimal.Decimal {
	if len(incomeBrackets) == 0 {
		return target
	}
	firstThreshold := incomeBrackets[0].Threshold
	if target.LessThanOrEqual(firstThreshold) {
		return target
	}
	netAtThreshold := firstThreshold
	for i, b := range incomeBrackets {
		upper := infinityThreshold
		if i+1 < len(incomeBrackets) {
			upper = incomeBrackets[i+1].Threshold
		}
		slope := one.Sub(b.Rate)
		width := upper.Sub(b.Threshold)
		netAtUpper := netAtThreshold.Add(width.Mul(slope))

		if target.LessThanOrEqual(netAtUpper) || i == len(incomeBrackets)-1 {
			if slope.IsZero() {
				return b.Threshold
			}
			return b.Threshold.Add(target.Sub(netAtThreshold).Div(slope))
		}
		netAtThreshold = netAtUpper
	}
	return target
}

// GrossFromNet solves for the gross withdrawal G such that
// G - incomeTax(G) - wealthTax == net, given the current wealth W. The
// net-of-tax function is piecewise linear in G even with the wealth-tax
// cap: the wealth tax is a constant (uncapped), the cap line
// pct*G - incomeTax(G), or the discount floor, depending on which
// regime G falls in. Each regime yields a closed-form candidate; the
// candidate whose forward evaluation actually reproduces the target is
// the solution, so no iteration is needed. If no G <= wealth satisfies
// the equation, the result clamps to wealth and the strategy handles
// the shortfall.
func (te *TaxEngine) GrossFromNet(net, wealth decimal.Decimal, adjust bool, cumulativeInflation decimal.Decimal) decimal.Decimal {
	if net.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	incomeBrackets := effectiveBrackets(te.schedule.IncomeBrackets, cumulativeInflation, adjust)
	baseWealthTax := te.WealthTax(wealth, adjust, cumulativeInflation)

	candidates := []decimal.Decimal{grossForTarget(net.Add(baseWealthTax), incomeBrackets)}
	if limit := te.schedule.WealthTaxCap; limit != nil {
		floor := baseWealthTax.Mul(one.Sub(limit.DiscountLimitPct))
		candidates = append(candidates, grossForTarget(net.Add(floor), incomeBrackets))
		if p := limit.PctOfTaxableIncome; p.LessThan(one) {
			candidates = append(candidates, net.Div(one.Sub(p)))
		}
	}

	best := candidates[0]
	bestErr := infinityThreshold
	for _, g := range candidates {
		if g.LessThan(decimal.Zero) {
			continue
		}
		capGains, wealthTax := te.Taxes(g, wealth, adjust, cumulativeInflation)
		err := g.Sub(capGains).Sub(wealthTax).Sub(net).Abs()
		if err.LessThan(bestErr) {
			best, bestErr = g, err
		}
	}
	return decimal.Min(best, wealth)
}

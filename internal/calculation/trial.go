package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// solvencyFloor is the portfolio value below which a trial is
// considered depleted. One euro rather than zero, so rounding dust
// left after a final full withdrawal still counts as depleted.
var solvencyFloor = decimal.NewFromInt(1)

// TrialInput bundles everything one trial run needs. StartingPortfolio
// lets run_combined chain an accumulation trial's ending portfolio
// into the withdrawal phase without re-deriving it from config.
type TrialInput struct {
	Config            *domain.Config
	RefData           *domain.ReferenceData
	Strategy          domain.StrategyConfig
	Phase             domain.Phase
	Years             int
	Seed              int64
	StartingPortfolio *Portfolio
}

// RunTrial executes one deterministic trial: a scenario, a strategy, a
// portfolio, and a tax engine interacting for Years simulated years.
// It never mutates shared state, so it is safe to call concurrently
// from the Monte-Carlo runner with distinct TrialInputs.
func RunTrial(in TrialInput) (*domain.SimulationReport, error) {
	var schedule domain.TaxSchedule
	if in.Config.Tax.Country != domain.TaxCountryNone {
		var ok bool
		schedule, ok = in.RefData.Schedule(in.Config.Tax.Country, in.Config.Tax.Region)
		if !ok {
			return nil, domain.ErrReferenceDataMissing
		}
	}
	scenario, err := NewScenario(in.Config.Scenario, in.RefData, in.Years, in.Seed)
	if err != nil {
		return nil, err
	}
	strategy, err := NewStrategyState(in.Strategy)
	if err != nil {
		return nil, err
	}

	portfolio := in.StartingPortfolio
	if portfolio == nil {
		portfolio = NewPortfolio(in.Config.InitialPortfolio.Value, in.Config.InitialPortfolio.Allocation)
	}
	taxEngine := NewTaxEngine(schedule)
	targetAlloc := in.Config.InitialPortfolio.Allocation
	adjust := in.Config.Tax.AdjustBracketsWithInflation

	cumulativeInflation := decimal.NewFromInt(1)
	cumulativeInflationPrevYear := decimal.NewFromInt(1)

	years := make([]domain.YearRecord, 0, in.Years)
	failed := false
	var failureYear *int
	var timeToTarget *int

	for year := 1; year <= in.Years; year++ {
		market, ok := scenario.Next()
		if !ok {
			return nil, fmt.Errorf("scenario exhausted before simulation_years (year %d of %d)", year, in.Years)
		}

		if failed {
			cumulativeInflation = cumulativeInflation.Mul(one.Add(market.Inflation))
			years = append(years, domain.YearRecord{
				Year:                year,
				PortfolioValue:      decimal.Zero,
				Market:              market,
				CumulativeInflation: cumulativeInflation,
				RealPortfolioValue:  decimal.Zero,
				GoalAchieved:        false,
			})
			continue
		}

		preAlloc := portfolio.Allocation()
		combinedReturn := portfolio.ApplyReturns(market)
		valueAfterReturns := portfolio.Value()

		var contribution, gross, capGains, wealthTax decimal.Decimal
		if in.Phase == domain.PhaseAccumulation {
			contribution = Contribute(year, in.Config.MonthlySavings, in.Config.AnnualIncrease)
			_, wealthTax = taxEngine.Taxes(decimal.Zero, valueAfterReturns, adjust, cumulativeInflationPrevYear)
			portfolio.ApplyCashFlow(contribution)
			portfolio.PayTax(wealthTax)

			if in.Config.TargetValue != nil && timeToTarget == nil && portfolio.Value().GreaterThanOrEqual(*in.Config.TargetValue) {
				y := year
				timeToTarget = &y
			}
		} else {
			targetNet := strategy.TargetNetWithdrawal(year, valueAfterReturns, combinedReturn, preAlloc, market, cumulativeInflation)
			gross = taxEngine.GrossFromNet(targetNet, valueAfterReturns, adjust, cumulativeInflationPrevYear)
			if gross.GreaterThan(valueAfterReturns) {
				gross = valueAfterReturns
			}
			capGains, wealthTax = taxEngine.Taxes(gross, valueAfterReturns, adjust, cumulativeInflationPrevYear)

			portfolio.ApplyCashFlow(gross.Neg())
			portfolio.PayTax(capGains.Add(wealthTax))
		}

		if in.Config.Rebalance {
			portfolio.Rebalance(targetAlloc)
		}

		endValue := portfolio.Value()
		solvent := endValue.GreaterThanOrEqual(solvencyFloor)
		if !solvent {
			failed = true
			fy := year
			failureYear = &fy
		}

		net := gross.Sub(capGains).Sub(wealthTax)
		if in.Phase == domain.PhaseAccumulation {
			net = contribution.Neg()
		}

		cumulativeInflation = cumulativeInflation.Mul(one.Add(market.Inflation))

		years = append(years, domain.YearRecord{
			Year:                year,
			PortfolioValue:      endValue,
			Allocation:          portfolio.Allocation(),
			Market:              market,
			CombinedReturn:      combinedReturn,
			Contribution:        contribution,
			GrossCashFlow:       gross,
			CapitalGainsTax:     capGains,
			WealthTax:           wealthTax,
			NetCashFlow:         net,
			CumulativeInflation: cumulativeInflation,
			RealPortfolioValue:  endValue.Div(cumulativeInflation),
			RealNetCashFlow:     net.Div(cumulativeInflation),
			GoalAchieved:        solvent,
		})
		cumulativeInflationPrevYear = cumulativeInflation
	}

	finalValue := decimal.Zero
	finalReal := decimal.Zero
	if len(years) > 0 {
		finalValue = years[len(years)-1].PortfolioValue
		finalReal = years[len(years)-1].RealPortfolioValue
	}

	succeeded := !failed
	if in.Config.TargetValue != nil && in.Phase == domain.PhaseAccumulation {
		succeeded = succeeded && timeToTarget != nil
	}

	return &domain.SimulationReport{
		Phase:                   in.Phase,
		Succeeded:               succeeded,
		FailureYear:             failureYear,
		TimeToTarget:            timeToTarget,
		FinalPortfolioValue:     finalValue,
		FinalRealPortfolioValue: finalReal,
		Years:                   years,
	}, nil
}

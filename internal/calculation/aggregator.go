package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/rsim/internal/domain"
)

// percentile returns the nearest-rank percentile of a sorted
// ascending slice: idx = max(0, ceil(n*p) - 1). Nearest-rank keeps
// single-trial runs exact, where interpolation would invent values.
func percentile(sorted []decimal.Decimal, p decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	idxDec := p.Mul(decimal.NewFromInt(int64(n))).Ceil()
	idx := int(idxDec.IntPart()) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

var (
	p10 = decimal.NewFromFloat(0.10)
	p25 = decimal.NewFromFloat(0.25)
	p50 = decimal.NewFromFloat(0.50)
	p75 = decimal.NewFromFloat(0.75)
	p90 = decimal.NewFromFloat(0.90)
)

func sortedCopy(values []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	copy(out, values)
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

func bandAt(year int, values []decimal.Decimal) domain.PercentileBand {
	sorted := sortedCopy(values)
	return domain.PercentileBand{
		Year: year,
		P10:  percentile(sorted, p10),
		P25:  percentile(sorted, p25),
		P50:  percentile(sorted, p50),
		P75:  percentile(sorted, p75),
		P90:  percentile(sorted, p90),
	}
}

// histogramSpec is a fixed-width binning scheme with an overflow bin
// for anything at or above the last boundary.
type histogramSpec struct {
	binWidth decimal.Decimal
	numBins  int
}

func (h histogramSpec) build(values []decimal.Decimal) []domain.HistogramBin {
	bins := make([]domain.HistogramBin, h.numBins+1)
	for i := 0; i < h.numBins; i++ {
		bins[i] = domain.HistogramBin{
			LowerBound: h.binWidth.Mul(decimal.NewFromInt(int64(i))),
			UpperBound: h.binWidth.Mul(decimal.NewFromInt(int64(i + 1))),
		}
	}
	overflowBound := h.binWidth.Mul(decimal.NewFromInt(int64(h.numBins)))
	bins[h.numBins] = domain.HistogramBin{LowerBound: overflowBound, Overflow: true}

	for _, v := range values {
		if v.LessThan(decimal.Zero) {
			v = decimal.Zero
		}
		idx := int(v.Div(h.binWidth).IntPart())
		if idx >= h.numBins {
			idx = h.numBins
		}
		bins[idx].Count++
	}
	return bins
}

var portfolioHistogram = histogramSpec{binWidth: decimal.NewFromInt(250_000), numBins: 40} // 40 * 250k = 10M
var incomeHistogram = histogramSpec{binWidth: decimal.NewFromInt(5_000), numBins: 20}      // 20 * 5k = 100k

// buildFailureYearHistogram bins the first depletion year of every
// trial that failed, one bin per simulated year plus an overflow bin
// for trials that never failed.
func buildFailureYearHistogram(failureYears []int, simulationYears int) []domain.HistogramBin {
	bins := make([]domain.HistogramBin, simulationYears+1)
	for y := 1; y <= simulationYears; y++ {
		bins[y-1] = domain.HistogramBin{
			LowerBound: decimal.NewFromInt(int64(y)),
			UpperBound: decimal.NewFromInt(int64(y + 1)),
		}
	}
	bins[simulationYears] = domain.HistogramBin{LowerBound: decimal.NewFromInt(int64(simulationYears + 1)), Overflow: true}
	for _, y := range failureYears {
		idx := y - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= simulationYears {
			idx = simulationYears
		}
		bins[idx].Count++
	}
	return bins
}

// Aggregate folds a strategy's per-trial reports into its Summary:
// success rate, per-year percentile bands for nominal and real
// portfolio value and net income, fixed-width histograms of the final
// year's portfolio value and income, and the distribution of
// first-failure years.
func Aggregate(label string, reports []*domain.SimulationReport, simulationYears int) domain.Summary {
	n := len(reports)
	successes := 0
	var timeToTargets []decimal.Decimal
	finalPortfolios := make([]decimal.Decimal, 0, n)
	finalIncomes := make([]decimal.Decimal, 0, n)
	var failureYears []int

	portfolioByYear := make([][]decimal.Decimal, simulationYears)
	realPortfolioByYear := make([][]decimal.Decimal, simulationYears)
	incomeByYear := make([][]decimal.Decimal, simulationYears)
	realIncomeByYear := make([][]decimal.Decimal, simulationYears)

	for _, r := range reports {
		if r.Succeeded {
			successes++
		}
		if r.TimeToTarget != nil {
			timeToTargets = append(timeToTargets, decimal.NewFromInt(int64(*r.TimeToTarget)))
		}
		if r.FailureYear != nil {
			failureYears = append(failureYears, *r.FailureYear)
		} else {
			failureYears = append(failureYears, simulationYears+1)
		}
		finalPortfolios = append(finalPortfolios, r.FinalPortfolioValue)

		var finalIncome decimal.Decimal
		for i, yr := range r.Years {
			if i >= simulationYears {
				break
			}
			portfolioByYear[i] = append(portfolioByYear[i], yr.PortfolioValue)
			realPortfolioByYear[i] = append(realPortfolioByYear[i], yr.RealPortfolioValue)
			incomeByYear[i] = append(incomeByYear[i], yr.NetCashFlow)
			realIncomeByYear[i] = append(realIncomeByYear[i], yr.RealNetCashFlow)
			finalIncome = yr.NetCashFlow
		}
		finalIncomes = append(finalIncomes, finalIncome)
	}

	portfolioBands := make([]domain.PercentileBand, simulationYears)
	realPortfolioBands := make([]domain.PercentileBand, simulationYears)
	incomeBands := make([]domain.PercentileBand, simulationYears)
	realIncomeBands := make([]domain.PercentileBand, simulationYears)
	for i := 0; i < simulationYears; i++ {
		year := i + 1
		portfolioBands[i] = bandAt(year, portfolioByYear[i])
		realPortfolioBands[i] = bandAt(year, realPortfolioByYear[i])
		incomeBands[i] = bandAt(year, incomeByYear[i])
		realIncomeBands[i] = bandAt(year, realIncomeByYear[i])
	}

	var successRate decimal.Decimal
	if n > 0 {
		successRate = decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(n)))
	}

	var medianTTT *decimal.Decimal
	if len(timeToTargets) > 0 {
		sorted := sortedCopy(timeToTargets)
		m := percentile(sorted, p50)
		medianTTT = &m
	}

	return domain.Summary{
		StrategyLabel:      label,
		NumTrials:          n,
		SuccessRate:        successRate,
		MedianTimeToTarget: medianTTT,
		PortfolioBands:     portfolioBands,
		RealPortfolioBands: realPortfolioBands,
		IncomeBands:        incomeBands,
		RealIncomeBands:    realIncomeBands,
		FinalPortfolioHist: portfolioHistogram.build(finalPortfolios),
		FinalIncomeHist:    incomeHistogram.build(finalIncomes),
		FailureYearHist:    buildFailureYearHistogram(failureYears, simulationYears),
	}
}

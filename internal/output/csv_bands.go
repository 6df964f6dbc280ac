package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/rsim/internal/domain"
)

// CSVBandFormatter exports the per-year percentile bands (p10/p25/
// median/p75/p90 for nominal and real portfolio value and income) for
// every strategy, one row per (strategy, year).
type CSVBandFormatter struct{}

func (CSVBandFormatter) Name() string { return "csv" }

func (CSVBandFormatter) Format(summaries []domain.Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"strategy", "year",
		"portfolio_p10", "portfolio_p25", "portfolio_p50", "portfolio_p75", "portfolio_p90",
		"real_portfolio_p10", "real_portfolio_p25", "real_portfolio_p50", "real_portfolio_p75", "real_portfolio_p90",
		"income_p10", "income_p25", "income_p50", "income_p75", "income_p90",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, s := range summaries {
		for i, band := range s.PortfolioBands {
			realBand := domain.PercentileBand{}
			if i < len(s.RealPortfolioBands) {
				realBand = s.RealPortfolioBands[i]
			}
			incomeBand := domain.PercentileBand{}
			if i < len(s.IncomeBands) {
				incomeBand = s.IncomeBands[i]
			}
			row := []string{
				s.StrategyLabel, strconv.Itoa(band.Year),
				band.P10.StringFixed(2), band.P25.StringFixed(2), band.P50.StringFixed(2), band.P75.StringFixed(2), band.P90.StringFixed(2),
				realBand.P10.StringFixed(2), realBand.P25.StringFixed(2), realBand.P50.StringFixed(2), realBand.P75.StringFixed(2), realBand.P90.StringFixed(2),
				incomeBand.P10.StringFixed(2), incomeBand.P25.StringFixed(2), incomeBand.P50.StringFixed(2), incomeBand.P75.StringFixed(2), incomeBand.P90.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

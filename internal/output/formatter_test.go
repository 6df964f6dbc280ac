package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rsim/internal/domain"
)

func buildTestSummaries() []domain.Summary {
	band := func(year int, p50 int64) domain.PercentileBand {
		v := decimal.NewFromInt(p50)
		return domain.PercentileBand{
			Year: year,
			P10:  v.Mul(decimal.NewFromFloat(0.5)),
			P25:  v.Mul(decimal.NewFromFloat(0.75)),
			P50:  v,
			P75:  v.Mul(decimal.NewFromFloat(1.25)),
			P90:  v.Mul(decimal.NewFromFloat(1.5)),
		}
	}
	return []domain.Summary{
		{
			StrategyLabel:      "4 percent rule",
			NumTrials:          100,
			SuccessRate:        decimal.NewFromFloat(0.93),
			PortfolioBands:     []domain.PercentileBand{band(1, 980000), band(2, 960000)},
			RealPortfolioBands: []domain.PercentileBand{band(1, 960000), band(2, 920000)},
			IncomeBands:        []domain.PercentileBand{band(1, 40000), band(2, 40000)},
			RealIncomeBands:    []domain.PercentileBand{band(1, 39000), band(2, 38500)},
			FailureYearHist: []domain.HistogramBin{
				{LowerBound: decimal.NewFromInt(1), UpperBound: decimal.NewFromInt(2), Count: 7},
				{LowerBound: decimal.NewFromInt(3), Overflow: true, Count: 93},
			},
		},
	}
}

func TestJSONFormatter_RoundTrips(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestSummaries())
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(out, &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "4 percent rule", parsed[0]["strategy_label"])
}

func TestCSVBandFormatter_OneRowPerStrategyYear(t *testing.T) {
	out, err := CSVBandFormatter{}.Format(buildTestSummaries())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3) // header + two years
	assert.True(t, strings.HasPrefix(lines[0], "strategy,year,portfolio_p10"))
	assert.True(t, strings.HasPrefix(lines[1], "4 percent rule,1,"))
}

func TestConsoleFormatter_SummaryLines(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestSummaries())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "4 percent rule: 100 trials, success rate 93.0%")
	assert.Contains(t, content, "median=€960,000.00")
	assert.Contains(t, content, "Depleted trials: 7")
}

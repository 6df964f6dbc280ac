package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/rsim/internal/domain"
	money "github.com/rpgo/rsim/pkg/decimal"
)

// ConsoleFormatter provides a concise console-style summary of every
// strategy's aggregate outcome.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(summaries []domain.Summary) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "==================")
	for _, s := range summaries {
		fmt.Fprintf(&buf, "%s: %d trials, success rate %s\n",
			s.StrategyLabel, s.NumTrials, money.FormatPercent(s.SuccessRate))
		if s.MedianTimeToTarget != nil {
			fmt.Fprintf(&buf, "  Median time to target: %s years\n", s.MedianTimeToTarget.StringFixed(0))
		}
		if n := len(s.PortfolioBands); n > 0 {
			final := s.PortfolioBands[n-1]
			fmt.Fprintf(&buf, "  Final portfolio: p10=%s median=%s p90=%s\n",
				money.NewMoneyFromDecimal(final.P10).Format(),
				money.NewMoneyFromDecimal(final.P50).Format(),
				money.NewMoneyFromDecimal(final.P90).Format())
		}
		if n := len(s.IncomeBands); n > 0 {
			final := s.IncomeBands[n-1]
			fmt.Fprintf(&buf, "  Final-year income: p10=%s median=%s p90=%s\n",
				money.NewMoneyFromDecimal(final.P10).Format(),
				money.NewMoneyFromDecimal(final.P50).Format(),
				money.NewMoneyFromDecimal(final.P90).Format())
		}
		failures := 0
		for _, bin := range s.FailureYearHist {
			if !bin.Overflow {
				failures += bin.Count
			}
		}
		if failures > 0 {
			fmt.Fprintf(&buf, "  Depleted trials: %d\n", failures)
		}
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}

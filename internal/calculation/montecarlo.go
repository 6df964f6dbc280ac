package calculation

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rpgo/rsim/internal/domain"
)

// RunOptions configures one Monte-Carlo run's concurrency and
// cancellation, separate from the simulated domain's Config.
type RunOptions struct {
	// Workers caps the number of concurrently running trials. Zero
	// means runtime.GOMAXPROCS(0).
	Workers int
	// Cancel, if non-nil and closed, stops the run between trials
	// (never mid-trial) and causes ErrCancelled to be returned.
	Cancel <-chan struct{}
	Logger Logger
}

// job is one (trial, strategy) unit of work. Every strategy for a
// given trial index shares the same derived seed, so they are run as
// paired samples against the same scenario.
type job struct {
	trialIndex    int
	strategyIndex int
}

// RunMonteCarlo fans trials out across a worker pool and aggregates
// each strategy's trials independently. phase selects accumulation or
// withdrawal trials; startingPortfolios, if non-nil, supplies one
// fixed starting portfolio per trial index (used by run_combined to
// chain accumulation into withdrawal).
func RunMonteCarlo(cfg *domain.Config, refData *domain.ReferenceData, strategies []domain.StrategyConfig, phase domain.Phase, years int, startingPortfolios []*Portfolio, opts RunOptions) ([]domain.Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	masterSeed := int64(1)
	if cfg.Seed != nil {
		masterSeed = *cfg.Seed
	}

	n := cfg.NumSimulations
	results := make([][]*domain.SimulationReport, len(strategies))
	for s := range results {
		results[s] = make([]*domain.SimulationReport, n)
	}

	jobs := make(chan job)
	var cancelled atomic.Bool
	var firstErr atomic.Value // error

	logger.Infof("monte carlo run starting: %d trials x %d strategies, %d workers", n, len(strategies), workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				seed := deriveSeed(masterSeed, j.trialIndex)
				var starting *Portfolio
				if startingPortfolios != nil {
					starting = startingPortfolios[j.trialIndex]
				}
				report, err := RunTrial(TrialInput{
					Config:            cfg,
					RefData:           refData,
					Strategy:          strategies[j.strategyIndex],
					Phase:             phase,
					Years:             years,
					Seed:              seed,
					StartingPortfolio: starting,
				})
				if err != nil {
					firstErr.Store(err)
					continue
				}
				results[j.strategyIndex][j.trialIndex] = report
			}
		}()
	}

	for t := 0; t < n; t++ {
		select {
		case <-opts.Cancel:
			cancelled.Store(true)
		default:
		}
		if cancelled.Load() {
			break
		}
		for s := range strategies {
			jobs <- job{trialIndex: t, strategyIndex: s}
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled.Load() {
		logger.Warnf("monte carlo run cancelled")
		return nil, domain.ErrCancelled
	}
	if err, ok := firstErr.Load().(error); ok && err != nil {
		return nil, err
	}

	summaries := make([]domain.Summary, len(strategies))
	for s, strat := range strategies {
		summaries[s] = Aggregate(strat.Label, results[s], years)
	}
	logger.Infof("monte carlo run complete")
	return summaries, nil
}

// RunMonteCarloPortfolios runs a Monte-Carlo batch over a single
// strategy and returns the resulting per-trial portfolios (not
// summaries) — used internally by run_combined to hand each
// accumulation trial's ending state into the matching withdrawal
// trial.
func RunMonteCarloPortfolios(cfg *domain.Config, refData *domain.ReferenceData, strategy domain.StrategyConfig, years int, opts RunOptions) ([]*Portfolio, []*domain.SimulationReport, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	masterSeed := int64(1)
	if cfg.Seed != nil {
		masterSeed = *cfg.Seed
	}
	n := cfg.NumSimulations
	reports := make([]*domain.SimulationReport, n)
	portfolios := make([]*Portfolio, n)

	indices := make(chan int)
	var cancelled atomic.Bool
	var firstErr atomic.Value

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range indices {
				seed := deriveSeed(masterSeed, t)
				report, err := RunTrial(TrialInput{
					Config:   cfg,
					RefData:  refData,
					Strategy: strategy,
					Phase:    domain.PhaseAccumulation,
					Years:    years,
					Seed:     seed,
				})
				if err != nil {
					firstErr.Store(err)
					continue
				}
				reports[t] = report
				alloc := cfg.InitialPortfolio.Allocation
				if len(report.Years) > 0 {
					alloc = report.Years[len(report.Years)-1].Allocation
				}
				portfolios[t] = NewPortfolio(report.FinalPortfolioValue, alloc)
			}
		}()
	}
	for t := 0; t < n; t++ {
		select {
		case <-opts.Cancel:
			cancelled.Store(true)
		default:
		}
		if cancelled.Load() {
			break
		}
		indices <- t
	}
	close(indices)
	wg.Wait()

	if cancelled.Load() {
		return nil, nil, domain.ErrCancelled
	}
	if err, ok := firstErr.Load().(error); ok && err != nil {
		return nil, nil, err
	}
	return portfolios, reports, nil
}

// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/verdictlab/verdict/internal/api/handlers"
	"github.com/verdictlab/verdict/internal/brain"
	"github.com/verdictlab/verdict/pkg/logger"
)

// WatchlistJob re-analyzes a fixed set of tickers on a schedule and keeps
// the decision store current. Tickers run sequentially; one failing name
// never blocks the rest.
type WatchlistJob struct {
	runner   handlers.Runner
	store    *handlers.DecisionStore
	tickers  []string
	years    int
	schedule string
	logger   *logger.Logger
}

// NewWatchlistJob creates the job. An empty schedule defaults to a daily
// run after US market close.
func NewWatchlistJob(runner handlers.Runner, store *handlers.DecisionStore, tickers []string, years int, schedule string, log *logger.Logger) *WatchlistJob {
	if schedule == "" {
		schedule = "0 0 18 * * MON-FRI"
	}
	return &WatchlistJob{
		runner:   runner,
		store:    store,
		tickers:  tickers,
		years:    years,
		schedule: schedule,
		logger:   log,
	}
}

func (j *WatchlistJob) Name() string { return "watchlist_analysis" }

func (j *WatchlistJob) Schedule() string { return j.schedule }

// Run analyzes every watchlist ticker. Returns an error when any ticker
// failed, after all have been attempted.
func (j *WatchlistJob) Run(ctx context.Context) error {
	var failed []string

	for _, ticker := range j.tickers {
		if err := ctx.Err(); err != nil {
			return err
		}

		runID := fmt.Sprintf("%s-%d", ticker, time.Now().UnixNano())
		result, err := j.runner.Run(ctx, brain.RunConfig{RunID: runID, Ticker: ticker, Years: j.years})
		if err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Watchlist analysis failed")
			failed = append(failed, ticker)
			continue
		}

		j.store.Put(result.Decision)
		j.logger.WithFields(map[string]interface{}{
			"ticker":         ticker,
			"recommendation": result.Decision.Recommendation,
		}).Info("Watchlist ticker analyzed")
	}

	if len(failed) > 0 {
		return fmt.Errorf("watchlist run failed for %d of %d tickers: %v", len(failed), len(j.tickers), failed)
	}
	return nil
}

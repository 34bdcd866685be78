package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verdictlab/verdict/internal/api/handlers"
	"github.com/verdictlab/verdict/internal/scheduler"
	"github.com/verdictlab/verdict/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Scheduled watchlist analysis",
	Long: `Runs the watchlist analysis job on a cron schedule or once in the
foreground.

Subcommands:
  start - start the scheduler daemon
  run   - run the watchlist job once and exit

Example:
  go run ./cmd/verdict schedule start --tickers AAPL,MSFT,GOOG
  go run ./cmd/verdict schedule start --tickers AAPL --cron "0 0 18 * * MON-FRI"
  go run ./cmd/verdict schedule run --tickers AAPL,MSFT`,
}

var (
	scheduleStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and registers the watchlist job.

The watchlist job analyzes each configured ticker sequentially, honoring
the agent pacing budget. Failures on one ticker do not stop the rest.

The scheduler runs until interrupted with Ctrl+C.`,
		RunE: runScheduleStart,
	}

	scheduleRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the watchlist job once in the foreground",
		RunE:  runScheduleOnce,
	}

	scheduleTickers string
	scheduleCron    string
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleStartCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)

	scheduleCmd.PersistentFlags().StringVar(&scheduleTickers, "tickers", "", "comma-separated watchlist tickers (required)")
	scheduleCmd.PersistentFlags().StringVar(&scheduleCron, "cron", "", "cron schedule with seconds (default: weekdays 18:00)")
}

func parseWatchlist() ([]string, error) {
	var tickers []string
	for _, t := range strings.Split(scheduleTickers, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("--tickers is required")
	}
	return tickers, nil
}

func runScheduleStart(cmd *cobra.Command, args []string) error {
	tickers, err := parseWatchlist()
	if err != nil {
		return err
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	log := rt.log

	store := handlers.NewDecisionStore()
	job := jobs.NewWatchlistJob(rt.orch, store, tickers, rt.cfg.SnapshotYears, scheduleCron, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register watchlist job: %w", err)
	}

	sched.Start()
	fmt.Printf("\n✅ Scheduler started\n")
	fmt.Printf("   Job      : %s\n", job.Name())
	fmt.Printf("   Schedule : %s\n", job.Schedule())
	fmt.Printf("   Tickers  : %s\n", strings.Join(tickers, ", "))
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Stopping scheduler...")
	sched.Stop()
	log.Info("Scheduler stopped")
	return nil
}

func runScheduleOnce(cmd *cobra.Command, args []string) error {
	tickers, err := parseWatchlist()
	if err != nil {
		return err
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := handlers.NewDecisionStore()
	job := jobs.NewWatchlistJob(rt.orch, store, tickers, rt.cfg.SnapshotYears, scheduleCron, rt.log)

	if err := job.Run(ctx); err != nil {
		return err
	}

	results := store.All()
	fmt.Printf("\n✅ Watchlist run completed: %d decisions\n", len(results))
	for _, d := range results {
		fmt.Printf("   %-8s %-12s score %.1f  size %.2f%%\n",
			d.Ticker, d.Recommendation, d.CompositeScore, d.PositionSizePct)
	}
	return nil
}

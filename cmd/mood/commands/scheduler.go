package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riasnelli/nse-market-mood-sub000/internal/scheduler"
	"github.com/riasnelli/nse-market-mood-sub000/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the pre-open cron scheduler",
	Long: `Runs the scheduler that generates signals each weekday morning
before the NSE open. The schedule is configurable via ENGINE_SCHEDULE.

Example:
  mood scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)

	preOpen := jobs.NewPreOpenJob(a.generator, a.cfg.Engine.Schedule, a.log)
	if err := sched.AddJob(preOpen); err != nil {
		return err
	}

	sched.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sched.Stop()
	return nil
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ab-tracker/internal/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background drain scheduler until interrupted",
	Long: `Starts the cron scheduler that periodically drains the event logs
to the export sink (DRAIN_CRON_SPEC, hourly by default) and blocks until
SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		sched := scheduler.New(a.logger)
		sched.SetDrainFunction(func(ctx context.Context) error {
			return a.recorder.Drain(ctx, a.sink)
		})
		if err := sched.Start(a.cfg.DrainCronSpec); err != nil {
			return err
		}
		defer sched.Stop()

		a.logger.Info("drain scheduler running",
			zap.String("spec", a.cfg.DrainCronSpec),
			zap.String("backend", string(a.cfg.StoreBackend)))

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

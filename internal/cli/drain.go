package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Send pending events to the export sink and truncate the logs",
	Long: `Drains both event logs through the configured sink. With
EXPORT_ENDPOINT set the batch is POSTed as JSON with retries; otherwise
the batch is logged and discarded. On sink failure events stay queued.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		pending := len(a.recorder.PendingAssignments()) + len(a.recorder.PendingConversions())
		if pending == 0 {
			fmt.Println("nothing to drain")
			return nil
		}
		if err := a.recorder.Drain(cmd.Context(), a.sink); err != nil {
			return fmt.Errorf("drain failed, %d events still queued: %w", pending, err)
		}
		fmt.Printf("drained %d events\n", pending)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(drainCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trackValue float64

var trackCmd = &cobra.Command{
	Use:   "track <experiment-id> <conversion-type>",
	Short: "Record a conversion for the visitor's assigned variant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		h := a.tracker.Experiment(args[0])
		variant := h.Resolve()
		if variant == nil {
			fmt.Printf("no assignment for %q, conversion not recorded\n", args[0])
			return nil
		}
		h.TrackConversion(args[1], trackValue)
		fmt.Printf("recorded %q conversion (value %v) for variant %s\n", args[1], trackValue, variant.ID)
		return nil
	},
}

func init() {
	trackCmd.Flags().Float64Var(&trackValue, "value", 1, "conversion value")
	rootCmd.AddCommand(trackCmd)
}

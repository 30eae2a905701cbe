package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <experiment-id>",
	Short: "Resolve the visitor's assignment for an experiment",
	Long: `Resolves the assignment for the configured visitor store. The first
call draws a variant by weight and persists it; later calls return the
same variant.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		h := a.tracker.Experiment(args[0])
		variant := h.Resolve()
		if variant == nil {
			fmt.Printf("no assignment: experiment %q is unknown or inactive\n", args[0])
			return nil
		}
		out, err := json.MarshalIndent(variant, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

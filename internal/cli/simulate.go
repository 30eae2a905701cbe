package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ab-tracker/internal/assign"
	"ab-tracker/internal/events"
	"ab-tracker/internal/storage"
)

var simulateVisitors int

var simulateCmd = &cobra.Command{
	Use:   "simulate <experiment-id>",
	Short: "Simulate fresh visitors and print the variant distribution",
	Long: `Runs assignment for N independent visitors, each with a fresh
in-memory store, and prints how the empirical distribution compares to
the configured weights.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		exp, ok := a.registry.Get(args[0])
		if !ok {
			return fmt.Errorf("experiment %q not found in registry", args[0])
		}
		if !exp.Active {
			return fmt.Errorf("experiment %q is inactive", args[0])
		}

		counts := make(map[string]int, len(exp.Variants))
		for i := 0; i < simulateVisitors; i++ {
			visitor := assign.New(a.registry, storage.NewMemoryStore())
			if as := visitor.Resolve(exp.ID, events.SessionMeta{}); as != nil {
				counts[as.Variant.ID]++
			}
		}

		totalWeight := 0.0
		for _, v := range exp.Variants {
			totalWeight += v.Weight
		}

		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Printf("%d visitors:\n", simulateVisitors)
		for _, id := range ids {
			share := float64(counts[id]) / float64(simulateVisitors)
			expected := 0.0
			for _, v := range exp.Variants {
				if v.ID == id && totalWeight > 0 {
					expected = v.Weight / totalWeight
				}
			}
			fmt.Printf("  %s: %d (%.1f%%, expected %.1f%%)\n", id, counts[id], share*100, expected*100)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateVisitors, "visitors", 10000, "number of simulated visitors")
	rootCmd.AddCommand(simulateCmd)
}

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ab-tracker/internal/analytics"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize pending assignment and conversion events",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		stats := analytics.Analyze(a.recorder.PendingAssignments(), a.recorder.PendingConversions())
		if len(stats) == 0 {
			fmt.Println("no recorded events")
			return nil
		}

		ids := make([]string, 0, len(stats))
		for id := range stats {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			if statsJSON {
				out, err := stats[id].ToJSON()
				if err != nil {
					return err
				}
				fmt.Println(out)
				continue
			}
			fmt.Print(stats[id].ReportSummary())
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

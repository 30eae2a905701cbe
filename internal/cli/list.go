package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the experiments in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, exp := range a.registry.List() {
			status := "inactive"
			if exp.Active {
				status = "active"
			}
			fmt.Printf("%s (%s) [%s]\n", exp.ID, exp.Name, status)
			for _, v := range exp.Variants {
				fmt.Printf("  - %s (%s) weight=%v config=%v\n", v.ID, v.Name, v.Weight, v.Config)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug bool

	rootCmd = &cobra.Command{
		Use:   "ab-tracker",
		Short: "Experiment assignment and conversion tracking",
		Long: `ab-tracker assigns visitors to weighted A/B experiment variants,
records assignment and conversion events into bounded local logs and
drains them to an analytics endpoint in batches.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose development logging")
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

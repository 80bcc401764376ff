package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	flagVerbose bool
	logger      zerolog.Logger
)

func NewRootCmd() *cobra.Command {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339Nano,
	}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "solverbench",
		Short:         "Benchmark harness for optimization solvers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "solverbench.yaml", "config file path")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose (debug) logging")
	root.AddCommand(newRunCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	return root
}

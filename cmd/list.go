package cmd

import (
	"fmt"

	"github.com/signalnine/solverbench/internal/config"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured solvers and problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Println("Solvers:")
			for _, s := range cfg.Solvers {
				fmt.Printf("  - %s (image: %s)\n", s.Name, s.Image)
				for _, k := range s.SingleStatistics {
					fmt.Printf("      single statistic: %s\n", k)
				}
			}
			fmt.Println("\nProblems:")
			for _, p := range cfg.Problems {
				fmt.Printf("  - %s (%s) %v\n", p.Name, p.Dataset, p.Statistics)
			}
			fmt.Printf("\nRepetitions: %d, parallel: %d\n", cfg.Repetitions, cfg.Parallel)
			return nil
		},
	}
}

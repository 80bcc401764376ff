package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/signalnine/solverbench/internal/config"
	"github.com/signalnine/solverbench/internal/report"
	"github.com/signalnine/solverbench/internal/result"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <run-dir>...",
		Short: "Merge stored runs into a new run",
		Long:  "Read one or more stored runs and merge every repetition into a new run directory, recovering statistics where possible.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			return mergeRuns(cfg.Results.Dir, args)
		},
	}
}

func mergeRuns(resultsDir string, oldDirs []string) error {
	var oldRuns []*result.Run
	for _, dir := range oldDirs {
		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return fmt.Errorf("resolving run dir: %w", err)
		}
		run, err := result.ReadRun(logger, resolved)
		if err != nil {
			return err
		}
		oldRuns = append(oldRuns, run)
	}

	runDir, err := result.CreateRunDir(resultsDir)
	if err != nil {
		return err
	}
	logger.Info().Str("dir", runDir).Int("runs", len(oldRuns)).Msg("Merging runs")

	run := result.NewRun(logger, runDir, nil)
	for _, old := range oldRuns {
		run.Parallel = run.Parallel || old.Parallel
	}
	if err := result.MergeRuns(logger, run, oldRuns...); err != nil {
		return err
	}
	if err := result.WriteRun(run); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}

	fmt.Println("\n--- Results ---")
	return report.Generate(logger, runDir, "table", os.Stdout)
}

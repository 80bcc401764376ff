package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/signalnine/solverbench/internal/config"
	"github.com/signalnine/solverbench/internal/report"
	"github.com/signalnine/solverbench/internal/result"
	"github.com/signalnine/solverbench/internal/runner"
	"github.com/spf13/cobra"
)

var (
	flagSolver      string
	flagProblem     string
	flagRepetitions int
	flagParallel    int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a benchmark run",
		RunE:  runBenchmark,
	}
	cmd.Flags().StringVar(&flagSolver, "solver", "", "filter to a single solver")
	cmd.Flags().StringVar(&flagProblem, "problem", "", "filter to a single problem")
	cmd.Flags().IntVar(&flagRepetitions, "repetitions", 0, "override repetition count")
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "override max concurrent repetitions")
	return cmd
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if flagRepetitions > 0 {
		cfg.Repetitions = flagRepetitions
	}
	if flagParallel > 0 {
		cfg.Parallel = flagParallel
	}

	solvers := filterSolvers(cfg.Solvers, flagSolver)
	problems := filterProblems(cfg.Problems, flagProblem)
	if len(solvers) == 0 || len(problems) == 0 {
		return fmt.Errorf("no solver or problem matches the filters")
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	logger.Info().Str("dir", runDir).Msg("Run directory")

	run := result.NewRun(logger, runDir, nil)
	run.Parallel = cfg.Parallel > 1

	ctx := context.Background()
	var jobs []runner.Job
	for i := range problems {
		problem := &problems[i]
		for j := range solvers {
			solver := &solvers[j]
			single := run.Single(problem.Name, solver.Name, problem.Statistics)
			for index := 0; index < cfg.Repetitions; index++ {
				opts := &runner.RepetitionOpts{
					Solver:    solver,
					Problem:   problem,
					Single:    single,
					Index:     index,
					Timeout:   timeoutForProblem(problem),
					Resources: cfg.Resources,
				}
				jobs = append(jobs, func() error {
					logger.Info().Msgf("Running %s × %s (repetition %d/%d)...", solver.Name, problem.Name, index+1, cfg.Repetitions)
					_, err := runner.RunRepetition(ctx, logger, opts)
					if err != nil {
						return fmt.Errorf("%s × %s repetition %d: %w", solver.Name, problem.Name, index, err)
					}
					return nil
				})
			}
		}
	}

	runErr := runner.RunPool(cfg.Parallel, jobs)
	if runErr != nil {
		logger.Error().Err(runErr).Msg("Some repetitions could not be executed")
	}

	if err := result.WriteRun(run); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}

	fmt.Println("\n--- Results ---")
	if err := report.Generate(logger, runDir, "table", os.Stdout); err != nil {
		return err
	}
	return runErr
}

func filterSolvers(solvers []config.Solver, name string) []config.Solver {
	if name == "" {
		return solvers
	}
	var filtered []config.Solver
	for _, s := range solvers {
		if s.Name == name {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func filterProblems(problems []config.Problem, name string) []config.Problem {
	if name == "" {
		return problems
	}
	var filtered []config.Problem
	for _, p := range problems {
		if p.Name == name {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func timeoutForProblem(p *config.Problem) time.Duration {
	if p.TimeLimitMinutes > 0 {
		// Leave the solver room to write its outcome after the limit.
		return time.Duration(p.TimeLimitMinutes)*time.Minute + time.Minute
	}
	return 10 * time.Minute
}

package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/config"
	"github.com/signalnine/solverbench/internal/docker"
	"github.com/signalnine/solverbench/internal/result"
	"github.com/signalnine/solverbench/internal/score"
	"github.com/signalnine/solverbench/internal/statistic"
)

const outcomeFileName = "outcome.json"

// ContainerFunc runs one solver container to completion.
type ContainerFunc func(ctx context.Context, logger zerolog.Logger, opts *docker.RunOpts) (*docker.RunResult, error)

type RepetitionOpts struct {
	Solver    *config.Solver
	Problem   *config.Problem
	Single    *result.SingleResult
	Index     int
	Timeout   time.Duration
	Resources config.Resources
	// Container defaults to docker.RunContainer.
	Container ContainerFunc
}

// Outcome is what a solver writes to /out/outcome.json.
type Outcome struct {
	Score                      string `json:"score"`
	UninitializedVariableCount *int   `json:"uninitialized_variable_count"`
	TimeMillisSpent            *int64 `json:"time_millis_spent"`
	CalculateCount             *int64 `json:"calculate_count"`
	UsedMemoryAfterInput       *int64 `json:"used_memory_after_input"`
}

func ExitReasonFromCode(code int, timedOut bool) string {
	if timedOut {
		return "timeout"
	}
	if code == 0 {
		return "completed"
	}
	return "crashed"
}

// BuildSolverEnv returns the container environment of a repetition. Solver
// env entries override the defaults.
func BuildSolverEnv(solver *config.Solver, problemFile string, kinds []statistic.Kind, index int) map[string]string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	env := map[string]string{
		"PROBLEM_FILE": "/problem/" + problemFile,
		"OUTPUT_DIR":   "/out",
		"STATISTICS":   strings.Join(names, ","),
		"REPETITION":   strconv.Itoa(index),
	}
	for k, v := range solver.Env {
		env[k] = v
	}
	return env
}

// RunRepetition runs the solver once, records the outcome and statistics in
// a new repetition of opts.Single, hibernates its statistics and adds it to
// opts.Single. A solver failure is recorded, not returned.
func RunRepetition(ctx context.Context, logger zerolog.Logger, opts *RepetitionOpts) (*result.RepetitionResult, error) {
	rep, err := opts.Single.NewRepetition(opts.Index, opts.Solver.SingleStatistics)
	if err != nil {
		return nil, err
	}
	log := logger.With().Str("result", rep.Name()).Logger()

	rep.MakeDirs()
	outDir := filepath.Join(rep.ResultDirectory(), "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	datasetAbs, err := filepath.Abs(opts.Problem.Dataset)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset path: %w", err)
	}

	kinds := make([]statistic.Kind, 0, len(rep.Statistics()))
	for kind := range rep.Statistics() {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	run := opts.Container
	if run == nil {
		run = docker.RunContainer
	}
	containerResult, err := run(ctx, log, &docker.RunOpts{
		Image:   opts.Solver.Image,
		Command: opts.Solver.Command,
		Env:     BuildSolverEnv(opts.Solver, filepath.Base(datasetAbs), kinds, opts.Index),
		Timeout: opts.Timeout,
		Mounts: []docker.Mount{
			{Source: datasetAbs, Target: "/problem/" + filepath.Base(datasetAbs), ReadOnly: true},
			{Source: outDir, Target: "/out"},
		},
		CPULimit:    opts.Resources.CPULimit,
		MemoryLimit: opts.Resources.MemoryLimit,
		UserID:      fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid()),
	})
	if err != nil {
		return nil, fmt.Errorf("running solver container: %w", err)
	}

	succeeded := containerResult.ExitCode == 0 && !containerResult.TimedOut
	if succeeded {
		if err := applyOutcome(rep, filepath.Join(outDir, outcomeFileName)); err != nil {
			log.Warn().Err(err).Msg("Solver exited cleanly without a usable outcome")
			succeeded = false
		}
	}
	rep.Succeeded = &succeeded
	if rep.TimeMillisSpent < 0 {
		rep.TimeMillisSpent = containerResult.Duration.Milliseconds()
	}
	if opts.Single.Run().Parallel {
		rep.UsedMemoryAfterInput = nil
	}

	for kind, s := range rep.Statistics() {
		points, err := statistic.ReadCSVFile(filepath.Join(outDir, kind.FileName()))
		switch {
		case err == nil:
			s.SetPointList(points)
		case errors.Is(err, fs.ErrNotExist) && !succeeded:
			// A failed run may legitimately have measured nothing.
			continue
		default:
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to read statistic")
			}
			s.InitPointList()
		}
		if err := s.Hibernate(); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("exit_reason", ExitReasonFromCode(containerResult.ExitCode, containerResult.TimedOut)).
		Str("score", rep.ScoreWithUninitializedPrefix()).
		Int64("time_millis_spent", rep.TimeMillisSpent).
		Msg("Repetition finished")

	opts.Single.AddRepetition(rep)
	return rep, nil
}

func applyOutcome(rep *result.RepetitionResult, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading outcome: %w", err)
	}
	var out Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("parsing outcome: %w", err)
	}
	s, err := score.Parse(out.Score)
	if err != nil {
		return fmt.Errorf("parsing outcome: %w", err)
	}
	rep.Score = s
	rep.UninitializedVariableCount = out.UninitializedVariableCount
	if out.TimeMillisSpent != nil {
		rep.TimeMillisSpent = *out.TimeMillisSpent
	}
	if out.CalculateCount != nil {
		rep.CalculateCount = *out.CalculateCount
	}
	rep.UsedMemoryAfterInput = out.UsedMemoryAfterInput
	return nil
}

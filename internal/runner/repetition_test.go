package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/config"
	"github.com/signalnine/solverbench/internal/docker"
	"github.com/signalnine/solverbench/internal/result"
	"github.com/signalnine/solverbench/internal/runner"
	"github.com/signalnine/solverbench/internal/statistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSolver writes files into the container's /out mount and exits.
func fakeSolver(exitCode int, files map[string]string) runner.ContainerFunc {
	return func(ctx context.Context, logger zerolog.Logger, opts *docker.RunOpts) (*docker.RunResult, error) {
		var outDir string
		for _, m := range opts.Mounts {
			if m.Target == "/out" {
				outDir = m.Source
			}
		}
		if outDir == "" {
			return nil, errors.New("no /out mount")
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(outDir, name), []byte(content), 0o644); err != nil {
				return nil, err
			}
		}
		return &docker.RunResult{ExitCode: exitCode, Duration: 1500 * time.Millisecond}, nil
	}
}

func setup(t *testing.T, parallel bool) (*runner.RepetitionOpts, *result.Run) {
	t.Helper()
	dir := t.TempDir()
	dataset := filepath.Join(dir, "nqueens-8.json")
	require.NoError(t, os.WriteFile(dataset, []byte(`{"n":8}`), 0o644))

	run := result.NewRun(zerolog.Nop(), filepath.Join(dir, "run"), nil)
	run.Parallel = parallel
	problem := &config.Problem{Name: "nqueens-8", Dataset: dataset, Statistics: []statistic.Kind{statistic.BestScore, statistic.StepScore}}
	solver := &config.Solver{Name: "tabu", Image: "solverbench/tabu", SingleStatistics: []statistic.Kind{statistic.PickedMoveTypeBestScoreDiff}}
	return &runner.RepetitionOpts{
		Solver:  solver,
		Problem: problem,
		Single:  run.Single(problem.Name, solver.Name, problem.Statistics),
		Index:   0,
		Timeout: time.Minute,
	}, run
}

const outcome = `{"score":"0hard/-12soft","uninitialized_variable_count":0,"time_millis_spent":500,"calculate_count":1000,"used_memory_after_input":2048}`

func TestRunRepetitionSuccess(t *testing.T) {
	opts, run := setup(t, false)
	opts.Container = fakeSolver(0, map[string]string{
		"outcome.json":   outcome,
		"best_score.csv": "time_millis_spent,score\n0,-2hard/0soft\n100,0hard/-12soft\n",
	})

	rep, err := runner.RunRepetition(context.Background(), zerolog.Nop(), opts)
	require.NoError(t, err)
	assert.True(t, rep.HasAnySuccess())
	assert.Equal(t, "0hard/-12soft", rep.Score.String())
	assert.True(t, rep.IsInitialized())
	assert.Equal(t, int64(500), rep.TimeMillisSpent)
	assert.Equal(t, int64(1000), rep.CalculateCount)
	assert.Equal(t, int64(2000), rep.AverageCalculateCountPerSecond())
	require.NotNil(t, rep.UsedMemoryAfterInput)
	assert.Equal(t, int64(2048), *rep.UsedMemoryAfterInput)

	require.Len(t, rep.Statistics(), 3)
	for kind, s := range rep.Statistics() {
		assert.True(t, s.Hibernated(), "statistic %s", kind)
		assert.True(t, s.ArtifactExists(), "statistic %s", kind)
	}
	best := rep.Statistic(statistic.BestScore)
	require.NoError(t, best.Unhibernate())
	require.Len(t, best.PointList(), 2)
	assert.Equal(t, int64(100), best.PointList()[1].TimeMillisSpent)

	step := rep.Statistic(statistic.StepScore)
	require.NoError(t, step.Unhibernate())
	assert.Empty(t, step.PointList())

	assert.Equal(t, []*result.RepetitionResult{rep}, run.Singles()[0].Repetitions())
}

func TestRunRepetitionParallelDropsMemory(t *testing.T) {
	opts, _ := setup(t, true)
	opts.Container = fakeSolver(0, map[string]string{"outcome.json": outcome})

	rep, err := runner.RunRepetition(context.Background(), zerolog.Nop(), opts)
	require.NoError(t, err)
	assert.True(t, rep.HasAnySuccess())
	assert.Nil(t, rep.UsedMemoryAfterInput)
}

func TestRunRepetitionCrash(t *testing.T) {
	opts, _ := setup(t, false)
	opts.Container = fakeSolver(1, map[string]string{
		"step_score.csv": "time_millis_spent,score\n0,-5hard/0soft\n",
	})

	rep, err := runner.RunRepetition(context.Background(), zerolog.Nop(), opts)
	require.NoError(t, err)
	assert.True(t, rep.HasAnyFailure())
	assert.Nil(t, rep.Score)
	assert.Equal(t, int64(1500), rep.TimeMillisSpent)
	assert.Equal(t, int64(-1), rep.CalculateCount)

	assert.True(t, rep.Statistic(statistic.StepScore).ArtifactExists())
	assert.False(t, rep.Statistic(statistic.BestScore).ArtifactExists())
	assert.False(t, rep.Statistic(statistic.PickedMoveTypeBestScoreDiff).ArtifactExists())
}

func TestRunRepetitionMissingOutcome(t *testing.T) {
	opts, _ := setup(t, false)
	opts.Container = fakeSolver(0, nil)

	rep, err := runner.RunRepetition(context.Background(), zerolog.Nop(), opts)
	require.NoError(t, err)
	assert.True(t, rep.HasAnyFailure())
}

func TestRunRepetitionContainerError(t *testing.T) {
	opts, run := setup(t, false)
	opts.Container = func(ctx context.Context, logger zerolog.Logger, o *docker.RunOpts) (*docker.RunResult, error) {
		return nil, errors.New("docker unavailable")
	}

	_, err := runner.RunRepetition(context.Background(), zerolog.Nop(), opts)
	assert.ErrorContains(t, err, "docker unavailable")
	assert.Empty(t, run.Singles()[0].Repetitions())
}

func TestExitReasonFromCode(t *testing.T) {
	tests := []struct {
		code     int
		timedOut bool
		want     string
	}{
		{0, false, "completed"},
		{1, false, "crashed"},
		{124, true, "timeout"},
		{42, false, "crashed"},
	}
	for _, tt := range tests {
		got := runner.ExitReasonFromCode(tt.code, tt.timedOut)
		if got != tt.want {
			t.Errorf("ExitReasonFromCode(%d, %v) = %q, want %q", tt.code, tt.timedOut, got, tt.want)
		}
	}
}

func TestBuildSolverEnv(t *testing.T) {
	solver := &config.Solver{
		Name: "tabu",
		Env:  map[string]string{"SEED": "7", "OUTPUT_DIR": "/custom"},
	}
	env := runner.BuildSolverEnv(solver, "nqueens-8.json", []statistic.Kind{statistic.BestScore, statistic.StepScore}, 2)
	assert.Equal(t, "/problem/nqueens-8.json", env["PROBLEM_FILE"])
	assert.Equal(t, "best_score,step_score", env["STATISTICS"])
	assert.Equal(t, "2", env["REPETITION"])
	assert.Equal(t, "7", env["SEED"])
	assert.Equal(t, "/custom", env["OUTPUT_DIR"])
}

package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/score"
	"github.com/signalnine/solverbench/internal/statistic"
)

const runFileName = "run.json"

func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

// Point lists are not embedded: statistics are found again through their
// deterministic store key.
type runRecord struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	Parallel  bool           `json:"parallel"`
	Singles   []singleRecord `json:"singles"`
}

type singleRecord struct {
	Problem           string             `json:"problem"`
	Solver            string             `json:"solver"`
	ProblemStatistics []statistic.Kind   `json:"problem_statistics"`
	Repetitions       []repetitionRecord `json:"repetitions"`
}

type repetitionRecord struct {
	Index                      int              `json:"index"`
	Succeeded                  *bool            `json:"succeeded,omitempty"`
	UninitializedVariableCount *int             `json:"uninitialized_variable_count,omitempty"`
	Score                      *score.Score     `json:"score,omitempty"`
	TimeMillisSpent            int64            `json:"time_millis_spent"`
	CalculateCount             int64            `json:"calculate_count"`
	UsedMemoryAfterInput       *int64           `json:"used_memory_after_input,omitempty"`
	PureStatistics             []statistic.Kind `json:"pure_statistics"`
}

// WriteRun stores the shape and scalar outcomes of run in <run.Dir>/run.json.
func WriteRun(run *Run) error {
	rec := runRecord{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		Parallel:  run.Parallel,
		Singles:   []singleRecord{},
	}
	for _, s := range run.Singles() {
		sr := singleRecord{
			Problem:           s.Problem,
			Solver:            s.Solver,
			ProblemStatistics: s.ProblemStatistics,
			Repetitions:       []repetitionRecord{},
		}
		for _, r := range s.Repetitions() {
			kinds := make([]statistic.Kind, 0, len(r.pureStatistics))
			for _, st := range r.pureStatistics {
				kinds = append(kinds, st.Kind())
			}
			sr.Repetitions = append(sr.Repetitions, repetitionRecord{
				Index:                      r.index,
				Succeeded:                  r.Succeeded,
				UninitializedVariableCount: r.UninitializedVariableCount,
				Score:                      r.Score,
				TimeMillisSpent:            r.TimeMillisSpent,
				CalculateCount:             r.CalculateCount,
				UsedMemoryAfterInput:       r.UsedMemoryAfterInput,
				PureStatistics:             kinds,
			})
		}
		rec.Singles = append(rec.Singles, sr)
	}
	if err := os.MkdirAll(run.Dir, 0o755); err != nil {
		return fmt.Errorf("creating run dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run: %w", err)
	}
	return os.WriteFile(filepath.Join(run.Dir, runFileName), data, 0o644)
}

// ReadRun loads a run written by WriteRun. The tree shape is decoded first;
// a second pass then wires each repetition to its parent and rebuilds its
// statistics, all hibernated.
func ReadRun(logger zerolog.Logger, runDir string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(runDir, runFileName))
	if err != nil {
		return nil, fmt.Errorf("reading run: %w", err)
	}
	var rec runRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing run: %w", err)
	}

	run := NewRun(logger, runDir, nil)
	run.ID = rec.ID
	run.StartedAt = rec.StartedAt
	run.Parallel = rec.Parallel

	type pending struct {
		single *SingleResult
		rep    *RepetitionResult
		pure   []statistic.Kind
	}
	var loaded []pending
	for _, sr := range rec.Singles {
		single := run.Single(sr.Problem, sr.Solver, sr.ProblemStatistics)
		for _, rr := range sr.Repetitions {
			rep := &RepetitionResult{
				index:                      rr.Index,
				Succeeded:                  rr.Succeeded,
				UninitializedVariableCount: rr.UninitializedVariableCount,
				Score:                      rr.Score,
				TimeMillisSpent:            rr.TimeMillisSpent,
				CalculateCount:             rr.CalculateCount,
				UsedMemoryAfterInput:       rr.UsedMemoryAfterInput,
			}
			loaded = append(loaded, pending{single: single, rep: rep, pure: rr.PureStatistics})
		}
	}

	for _, p := range loaded {
		p.rep.parent = p.single
		pure := make([]*statistic.Statistic, 0, len(p.pure))
		for _, kind := range p.pure {
			pure = append(pure, statistic.NewCustom(kind, p.rep.ID(), run.store))
		}
		p.rep.SetPureStatistics(pure)
		if err := p.rep.InitStatisticMap(p.single); err != nil {
			return nil, fmt.Errorf("loading %s: %w", runDir, err)
		}
		p.single.AddRepetition(p.rep)
	}
	return run, nil
}

package result

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/statistic"
)

// Merge reconciles a stored repetition into newParent under a new index.
// Measured data is copied from old; a statistic without an artifact is
// recovered as an empty point list only when old failed. Nothing is added to
// newParent when an error is returned.
func Merge(logger zerolog.Logger, newParent *SingleResult, old *RepetitionResult, newIndex int) (*RepetitionResult, error) {
	r := NewRepetitionResult(newParent, newIndex)
	pure := make([]*statistic.Statistic, 0, len(old.pureStatistics))
	for _, s := range old.pureStatistics {
		pure = append(pure, statistic.NewCustom(s.Kind(), r.ID(), newParent.Store()))
	}
	r.SetPureStatistics(pure)
	if err := r.InitStatisticMap(newParent); err != nil {
		return nil, err
	}

	kinds := make([]statistic.Kind, 0, len(r.statistics))
	for kind := range r.statistics {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		s := r.statistics[kind]
		oldStatistic := old.Statistic(kind)
		if oldStatistic == nil || !oldStatistic.ArtifactExists() {
			if !old.HasAnyFailure() {
				return nil, &InconsistentStateError{Kind: kind, Old: old.ID()}
			}
			s.InitPointList()
			logger.Debug().
				Str("old", old.Name()).
				Str("kind", string(kind)).
				Msg("Old result is a failure, skipping merge of its statistic")
			continue
		}
		wasHibernated := oldStatistic.Hibernated()
		if err := oldStatistic.Unhibernate(); err != nil {
			return nil, fmt.Errorf("merging %s into %s: %w", oldStatistic, r, err)
		}
		s.SetPointList(oldStatistic.CopyPointList())
		if wasHibernated {
			if err := oldStatistic.Hibernate(); err != nil {
				return nil, fmt.Errorf("merging %s into %s: %w", oldStatistic, r, err)
			}
		}
	}

	// The result directory, memory usage and report fields belong to the
	// old process and sibling set.
	r.Succeeded = old.Succeeded
	r.Score = old.Score
	r.UninitializedVariableCount = old.UninitializedVariableCount
	r.TimeMillisSpent = old.TimeMillisSpent
	r.CalculateCount = old.CalculateCount

	newParent.AddRepetition(r)
	return r, nil
}

// MergeRuns merges every repetition of oldRuns into run. Single results are
// matched by problem and solver; repetition indexes are renumbered densely in
// the order they are encountered. Each merged repetition is hibernated before
// the next one is merged.
func MergeRuns(logger zerolog.Logger, run *Run, oldRuns ...*Run) error {
	for _, oldRun := range oldRuns {
		for _, oldSingle := range oldRun.Singles() {
			single := run.Single(oldSingle.Problem, oldSingle.Solver, oldSingle.ProblemStatistics)
			for _, old := range oldSingle.Repetitions() {
				index := len(single.Repetitions())
				r, err := Merge(logger, single, old, index)
				if err != nil {
					return fmt.Errorf("merging run %s: %w", oldRun.ID, err)
				}
				for _, st := range r.Statistics() {
					if err := st.Hibernate(); err != nil {
						return fmt.Errorf("merging run %s: %w", oldRun.ID, err)
					}
				}
				logger.Debug().
					Str("old", old.Name()).
					Str("new", r.Name()).
					Msg("Merged repetition")
			}
		}
	}
	return nil
}

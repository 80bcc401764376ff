package result

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/score"
	"github.com/signalnine/solverbench/internal/statistic"
)

// DefinitionProvider yields the derived statistics a repetition must contain.
type DefinitionProvider interface {
	StatisticsFor(r *RepetitionResult) []*statistic.Statistic
}

// RepetitionResult is the outcome of one run of one solver against one
// problem instance.
type RepetitionResult struct {
	parent *SingleResult
	index  int

	pureStatistics []*statistic.Statistic
	statistics     map[statistic.Kind]*statistic.Statistic

	// UsedMemoryAfterInput is nil when repetitions ran in parallel, since
	// process memory cannot be attributed to one of them.
	UsedMemoryAfterInput *int64

	Succeeded                  *bool
	UninitializedVariableCount *int
	Score                      *score.Score
	TimeMillisSpent            int64
	CalculateCount             int64

	// Set by the ranking collaborator once all siblings are known.
	WinningScoreDifference         *score.Score
	WorstScoreDifferencePercentage []float64
	Ranking                        *int
}

// NewRepetitionResult returns a result with identity only; every outcome
// field is unset.
func NewRepetitionResult(parent *SingleResult, index int) *RepetitionResult {
	return &RepetitionResult{
		parent:          parent,
		index:           index,
		TimeMillisSpent: -1,
		CalculateCount:  -1,
	}
}

func (r *RepetitionResult) Parent() *SingleResult { return r.parent }
func (r *RepetitionResult) Index() int            { return r.index }

func (r *RepetitionResult) ID() statistic.ResultID {
	id := statistic.ResultID{Index: r.index}
	if r.parent != nil {
		id.Parent = r.parent.Name()
	}
	return id
}

// Name is filesystem safe.
func (r *RepetitionResult) Name() string {
	return r.ID().String()
}

func (r *RepetitionResult) String() string {
	return r.Name()
}

func (r *RepetitionResult) PureStatistics() []*statistic.Statistic {
	return r.pureStatistics
}

// SetPureStatistics must be called before InitStatisticMap, even with an
// empty list.
func (r *RepetitionResult) SetPureStatistics(list []*statistic.Statistic) {
	r.pureStatistics = list
}

// InitStatisticMap builds the effective statistic map from the provider's
// derived statistics and the pure statistics. A pure statistic replaces a
// derived one of the same kind. The map is built once; later calls keep it.
func (r *RepetitionResult) InitStatisticMap(provider DefinitionProvider) error {
	if r.statistics != nil {
		return nil
	}
	if r.pureStatistics == nil {
		return &ConfigurationError{Result: r.ID(), Reason: "pure statistic list is not set"}
	}
	if provider == nil {
		return &ConfigurationError{Result: r.ID(), Reason: "no problem statistic definitions"}
	}
	derived := provider.StatisticsFor(r)
	m := make(map[statistic.Kind]*statistic.Statistic, len(derived)+len(r.pureStatistics))
	for _, s := range derived {
		m[s.Kind()] = s
	}
	for _, s := range r.pureStatistics {
		if _, ok := m[s.Kind()]; ok {
			r.logger().Warn().
				Str("result", r.Name()).
				Str("kind", string(s.Kind())).
				Msg("Pure statistic replaces problem statistic of the same kind")
		}
		m[s.Kind()] = s
	}
	r.statistics = m
	return nil
}

// Statistics returns the effective statistic map, nil before InitStatisticMap.
func (r *RepetitionResult) Statistics() map[statistic.Kind]*statistic.Statistic {
	return r.statistics
}

func (r *RepetitionResult) Statistic(kind statistic.Kind) *statistic.Statistic {
	return r.statistics[kind]
}

func (r *RepetitionResult) HasAnySuccess() bool {
	return r.Succeeded != nil && *r.Succeeded
}

func (r *RepetitionResult) HasAnyFailure() bool {
	return r.Succeeded != nil && !*r.Succeeded
}

func (r *RepetitionResult) IsInitialized() bool {
	return r.UninitializedVariableCount != nil && *r.UninitializedVariableCount == 0
}

// IsWinner reports whether the ranking collaborator ranked r first.
func (r *RepetitionResult) IsWinner() bool {
	return r.Ranking != nil && *r.Ranking == 0
}

func (r *RepetitionResult) IsScoreFeasible() bool {
	if r.Score == nil {
		return true
	}
	return r.Score.Feasible()
}

func (r *RepetitionResult) AverageCalculateCountPerSecond() int64 {
	return r.CalculateCount * 1000 / max(r.TimeMillisSpent, 1)
}

func (r *RepetitionResult) ScoreWithUninitializedPrefix() string {
	return score.WithUninitializedPrefix(r.UninitializedVariableCount, r.Score)
}

func (r *RepetitionResult) ResultDirectoryName() string {
	return r.ID().DirectoryName()
}

func (r *RepetitionResult) ResultDirectory() string {
	return filepath.Join(r.parent.Directory(), r.ResultDirectoryName())
}

// MakeDirs ensures the result directory exists. Failures are only logged;
// writing into the directory reports them again.
func (r *RepetitionResult) MakeDirs() {
	if err := os.MkdirAll(r.ResultDirectory(), 0o755); err != nil {
		r.logger().Warn().Err(err).Str("dir", r.ResultDirectory()).Msg("Failed to create result directory")
	}
}

func (r *RepetitionResult) logger() *zerolog.Logger {
	if r.parent == nil || r.parent.run == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return &r.parent.run.logger
}

package result

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/signalnine/solverbench/internal/statistic"
)

// SingleResult groups the repetitions of one solver on one problem instance.
type SingleResult struct {
	Problem           string
	Solver            string
	ProblemStatistics []statistic.Kind

	run *Run

	mu          sync.Mutex
	repetitions []*RepetitionResult
}

// Name is filesystem safe and unique per problem and solver within a run.
// Neither escaped part contains "_", so the pair can always be recovered.
func (s *SingleResult) Name() string {
	return escapeName(s.Problem) + "_" + escapeName(s.Solver)
}

// escapeName keeps letters, digits, "-" and non-leading "." and writes every
// other byte as %XX.
func escapeName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		case c == '.' && i > 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func (s *SingleResult) Run() *Run {
	return s.run
}

func (s *SingleResult) Directory() string {
	return filepath.Join(s.run.ResultsDir(), s.Name())
}

func (s *SingleResult) Store() statistic.Store {
	return s.run.store
}

// StatisticsFor creates one derived statistic per problem statistic kind.
func (s *SingleResult) StatisticsFor(r *RepetitionResult) []*statistic.Statistic {
	list := make([]*statistic.Statistic, 0, len(s.ProblemStatistics))
	for _, kind := range s.ProblemStatistics {
		list = append(list, statistic.NewDerived(kind, r.ID(), s.Store()))
	}
	return list
}

// NewRepetition creates an unpopulated repetition with one custom statistic
// per single kind and its statistic map initialized. It is not added to s.
func (s *SingleResult) NewRepetition(index int, singleKinds []statistic.Kind) (*RepetitionResult, error) {
	r := NewRepetitionResult(s, index)
	pure := make([]*statistic.Statistic, 0, len(singleKinds))
	for _, kind := range singleKinds {
		pure = append(pure, statistic.NewCustom(kind, r.ID(), s.Store()))
	}
	r.SetPureStatistics(pure)
	if err := r.InitStatisticMap(s); err != nil {
		return nil, err
	}
	return r, nil
}

// AddRepetition is safe for concurrent use.
func (s *SingleResult) AddRepetition(r *RepetitionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repetitions = append(s.repetitions, r)
}

// Repetitions returns the repetitions ordered by index.
func (s *SingleResult) Repetitions() []*RepetitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]*RepetitionResult(nil), s.repetitions...)
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func (s *SingleResult) SuccessCount() int {
	n := 0
	for _, r := range s.Repetitions() {
		if r.HasAnySuccess() {
			n++
		}
	}
	return n
}

package result

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/statistic"
)

// Run is the root of a result tree: every single result produced by one
// invocation of the harness.
type Run struct {
	ID        string
	StartedAt time.Time

	// Parallel is set when repetitions executed concurrently.
	Parallel bool

	Dir string

	store  statistic.Store
	logger zerolog.Logger

	mu      sync.Mutex
	singles []*SingleResult
}

// NewRun creates an empty run in dir. Statistic artifacts are kept in a CSV
// store under ResultsDir unless store is non-nil.
func NewRun(logger zerolog.Logger, dir string, store statistic.Store) *Run {
	r := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Dir:       dir,
		store:     store,
		logger:    logger,
	}
	if r.store == nil {
		r.store = statistic.NewCSVStore(r.ResultsDir())
	}
	return r
}

func (r *Run) ResultsDir() string {
	return filepath.Join(r.Dir, "results")
}

func (r *Run) Store() statistic.Store {
	return r.store
}

// Single returns the single result for problem and solver, creating it with
// the given problem statistics on first use.
func (r *Run) Single(problem, solver string, problemStatistics []statistic.Kind) *SingleResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.singles {
		if s.Problem == problem && s.Solver == solver {
			return s
		}
	}
	s := &SingleResult{
		Problem:           problem,
		Solver:            solver,
		ProblemStatistics: append([]statistic.Kind(nil), problemStatistics...),
		run:               r,
	}
	r.singles = append(r.singles, s)
	return s
}

func (r *Run) Singles() []*SingleResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*SingleResult(nil), r.singles...)
}

// HibernateAll flushes every resident statistic of the run to the store.
func (r *Run) HibernateAll() error {
	for _, s := range r.Singles() {
		for _, rep := range s.Repetitions() {
			for _, st := range rep.Statistics() {
				if err := st.Hibernate(); err != nil {
					return fmt.Errorf("result %s: %w", rep, err)
				}
			}
		}
	}
	return nil
}

package statistic

import (
	"fmt"
	"slices"
	"sync"
)

// Variant distinguishes statistics derived from the problem's shared
// definitions from custom statistics private to one repetition.
type Variant uint8

const (
	VariantDerived Variant = iota
	VariantCustom
)

func (v Variant) String() string {
	if v == VariantCustom {
		return "custom"
	}
	return "derived"
}

// State is the hibernation state of a statistic's point list.
type State uint8

const (
	StateHibernated State = iota
	StateResident
)

func (s State) String() string {
	if s == StateResident {
		return "resident"
	}
	return "hibernated"
}

// ArtifactMissingError is returned by Unhibernate when the store holds no
// point list for the statistic.
type ArtifactMissingError struct {
	Kind  Kind
	Owner ResultID
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("statistic %s of result %s: artifact missing", e.Kind, e.Owner)
}

// Statistic owns one point list of a repetition result. While hibernated the
// points live only in the store; while resident they are held in memory.
//
// A new statistic starts hibernated with no points in memory.
type Statistic struct {
	kind    Kind
	variant Variant
	owner   ResultID
	store   Store

	mu     sync.Mutex
	state  State
	points []Point
}

func NewDerived(kind Kind, owner ResultID, store Store) *Statistic {
	return &Statistic{kind: kind, variant: VariantDerived, owner: owner, store: store}
}

func NewCustom(kind Kind, owner ResultID, store Store) *Statistic {
	return &Statistic{kind: kind, variant: VariantCustom, owner: owner, store: store}
}

func (s *Statistic) Kind() Kind       { return s.kind }
func (s *Statistic) Variant() Variant { return s.variant }
func (s *Statistic) Owner() ResultID  { return s.owner }
func (s *Statistic) Store() Store     { return s.store }

func (s *Statistic) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Statistic) Hibernated() bool {
	return s.State() == StateHibernated
}

// PointList returns the resident points, or nil while hibernated.
func (s *Statistic) PointList() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// SetPointList replaces the in-memory points and makes the statistic resident.
func (s *Statistic) SetPointList(points []Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = points
	s.state = StateResident
}

// InitPointList sets an empty resident point list.
func (s *Statistic) InitPointList() {
	s.SetPointList([]Point{})
}

// ArtifactExists reports whether the store holds a point list for s.
func (s *Statistic) ArtifactExists() bool {
	return s.store.Exists(s.kind, s.owner)
}

// Hibernate writes the resident points to the store and drops them from
// memory. It does nothing when already hibernated.
func (s *Statistic) Hibernate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateHibernated {
		return nil
	}
	if err := s.store.Write(s.kind, s.owner, s.points); err != nil {
		return fmt.Errorf("hibernating %s: %w", s, err)
	}
	s.points = nil
	s.state = StateHibernated
	return nil
}

// Unhibernate loads the points from the store. It does nothing when the
// statistic is already resident.
func (s *Statistic) Unhibernate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateResident {
		return nil
	}
	if !s.store.Exists(s.kind, s.owner) {
		return &ArtifactMissingError{Kind: s.kind, Owner: s.owner}
	}
	points, err := s.store.Read(s.kind, s.owner)
	if err != nil {
		return fmt.Errorf("unhibernating %s: %w", s, err)
	}
	s.points = points
	s.state = StateResident
	return nil
}

// CopyPointList returns a copy of the resident points.
func (s *Statistic) CopyPointList() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.points == nil {
		return nil
	}
	out := make([]Point, len(s.points))
	for i, p := range s.points {
		out[i] = Point{TimeMillisSpent: p.TimeMillisSpent, Values: slices.Clone(p.Values)}
	}
	return out
}

func (s *Statistic) String() string {
	return fmt.Sprintf("%s(%s)", s.owner, s.kind)
}

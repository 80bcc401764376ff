package statistic

import "fmt"

// Kind identifies which measurement a statistic records.
type Kind string

// Problem kinds are shared by every repetition of a problem instance.
const (
	BestScore             Kind = "best_score"
	StepScore             Kind = "step_score"
	ScoreCalculationSpeed Kind = "score_calculation_speed"
	BestSolutionMutation  Kind = "best_solution_mutation"
	MoveCountPerStep      Kind = "move_count_per_step"
	MemoryUse             Kind = "memory_use"
)

// Single kinds are private to one repetition.
const (
	ConstraintMatchTotalBestScore Kind = "constraint_match_total_best_score"
	ConstraintMatchTotalStepScore Kind = "constraint_match_total_step_score"
	PickedMoveTypeBestScoreDiff   Kind = "picked_move_type_best_score_diff"
	PickedMoveTypeStepScoreDiff   Kind = "picked_move_type_step_score_diff"
)

var headers = map[Kind][]string{
	BestScore:                     {"time_millis_spent", "score"},
	StepScore:                     {"time_millis_spent", "score"},
	ScoreCalculationSpeed:         {"time_millis_spent", "score_calculation_speed"},
	BestSolutionMutation:          {"time_millis_spent", "mutation_count"},
	MoveCountPerStep:              {"time_millis_spent", "accepted_move_count", "selected_move_count"},
	MemoryUse:                     {"time_millis_spent", "used_memory", "max_memory"},
	ConstraintMatchTotalBestScore: {"time_millis_spent", "constraint_package", "constraint_name", "constraint_match_count", "score_total"},
	ConstraintMatchTotalStepScore: {"time_millis_spent", "constraint_package", "constraint_name", "constraint_match_count", "score_total"},
	PickedMoveTypeBestScoreDiff:   {"time_millis_spent", "move_type", "score_diff"},
	PickedMoveTypeStepScoreDiff:   {"time_millis_spent", "move_type", "score_diff"},
}

// ParseKind returns the Kind named s, or an error for unknown names.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := headers[k]; !ok {
		return "", fmt.Errorf("unknown statistic kind %q", s)
	}
	return k, nil
}

// IsProblemKind reports whether k is defined per problem instance.
func (k Kind) IsProblemKind() bool {
	switch k {
	case BestScore, StepScore, ScoreCalculationSpeed, BestSolutionMutation, MoveCountPerStep, MemoryUse:
		return true
	}
	return false
}

// IsSingleKind reports whether k is private to a single repetition.
func (k Kind) IsSingleKind() bool {
	switch k {
	case ConstraintMatchTotalBestScore, ConstraintMatchTotalStepScore, PickedMoveTypeBestScoreDiff, PickedMoveTypeStepScoreDiff:
		return true
	}
	return false
}

// Header is the CSV header row written in front of the kind's points.
func (k Kind) Header() []string {
	if h, ok := headers[k]; ok {
		return h
	}
	return []string{"time_millis_spent", "value"}
}

func (k Kind) FileName() string {
	return string(k) + ".csv"
}

package result

import (
	"fmt"

	"github.com/signalnine/solverbench/internal/statistic"
)

// ConfigurationError reports a repetition result used before its required
// inputs were set.
type ConfigurationError struct {
	Result statistic.ResultID
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("result %s: %s", e.Result, e.Reason)
}

// InconsistentStateError reports a stored result that claims success while a
// statistic artifact it must have is missing.
type InconsistentStateError struct {
	Kind statistic.Kind
	Old  statistic.ResultID
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("old result %s reports success but its statistic %s artifact is missing", e.Old, e.Kind)
}

package score

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is one component of a score, e.g. the "-12" of "0hard/-12soft".
type Level struct {
	Value float64
	Label string
}

// Score is a solution quality score as reported by a solver.
type Score struct {
	text   string
	levels []Level
}

// Parse accepts simple scores ("-12") and level scores ("0hard/-12soft").
func Parse(text string) (*Score, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty score")
	}
	parts := strings.Split(text, "/")
	levels := make([]Level, 0, len(parts))
	for _, p := range parts {
		i := len(p)
		for i > 0 && isLabelByte(p[i-1]) {
			i--
		}
		v, err := strconv.ParseFloat(p[:i], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing score %q: level %q: %w", text, p, err)
		}
		levels = append(levels, Level{Value: v, Label: p[i:]})
	}
	return &Score{text: text, levels: levels}, nil
}

func isLabelByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func (s *Score) String() string {
	if s == nil {
		return ""
	}
	return s.text
}

func (s *Score) Levels() []Level {
	return s.levels
}

// Feasible reports whether no hard level is negative. Scores without a hard
// level are always feasible.
func (s *Score) Feasible() bool {
	for _, l := range s.levels {
		if strings.EqualFold(l.Label, "hard") && l.Value < 0 {
			return false
		}
	}
	return true
}

func (s *Score) Equal(o *Score) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.text == o.text
}

func (s Score) MarshalText() ([]byte, error) {
	return []byte(s.text), nil
}

func (s *Score) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// WithUninitializedPrefix renders a score, prefixed with "-<n>init/" when the
// solution still has uninitialized variables.
func WithUninitializedPrefix(uninitializedVariableCount *int, s *Score) string {
	if s == nil {
		return ""
	}
	if uninitializedVariableCount == nil || *uninitializedVariableCount == 0 {
		return s.String()
	}
	return fmt.Sprintf("-%dinit/%s", *uninitializedVariableCount, s)
}

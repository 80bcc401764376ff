package result_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/signalnine/solverbench/internal/score"
	"github.com/signalnine/solverbench/internal/statistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func mustScore(t *testing.T, s string) *score.Score {
	t.Helper()
	sc, err := score.Parse(s)
	require.NoError(t, err)
	return sc
}

// points builds a point list from "time:value" pairs.
func points(t *testing.T, pairs ...string) []statistic.Point {
	t.Helper()
	out := make([]statistic.Point, 0, len(pairs))
	for _, p := range pairs {
		ms, value, ok := strings.Cut(p, ":")
		require.True(t, ok, "bad pair %q", p)
		n, err := strconv.ParseInt(ms, 10, 64)
		require.NoError(t, err)
		out = append(out, statistic.Point{TimeMillisSpent: n, Values: []string{value}})
	}
	return out
}

func assertPoints(t *testing.T, want, got []statistic.Point) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "point %d: got %+v, want %+v", i, got[i], want[i])
	}
}

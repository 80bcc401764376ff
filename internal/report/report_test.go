package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/report"
	"github.com/signalnine/solverbench/internal/result"
	"github.com/signalnine/solverbench/internal/score"
	"github.com/signalnine/solverbench/internal/statistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := result.NewRun(zerolog.Nop(), dir, nil)
	kinds := []statistic.Kind{statistic.BestScore}

	a := run.Single("nqueens-8", "tabu", kinds)
	ok, err := a.NewRepetition(0, nil)
	require.NoError(t, err)
	succeeded := true
	ok.Succeeded = &succeeded
	ok.Score, err = score.Parse("0hard/-12soft")
	require.NoError(t, err)
	ok.TimeMillisSpent = 500
	ok.CalculateCount = 1000
	ok.Statistic(statistic.BestScore).SetPointList([]statistic.Point{
		{TimeMillisSpent: 0, Values: []string{"-1hard/0soft"}},
		{TimeMillisSpent: 10, Values: []string{"0hard/-12soft"}},
	})
	a.AddRepetition(ok)

	b := run.Single("nqueens-8", "late-acceptance", kinds)
	failed, err := b.NewRepetition(0, nil)
	require.NoError(t, err)
	no := false
	failed.Succeeded = &no
	failed.TimeMillisSpent = 20
	b.AddRepetition(failed)

	require.NoError(t, run.HibernateAll())
	require.NoError(t, result.WriteRun(run))
	return dir
}

func TestGenerateTable(t *testing.T) {
	runDir := writeRun(t)

	var buf bytes.Buffer
	err := report.Generate(zerolog.Nop(), runDir, "table", &buf)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "nqueens-8_tabu") {
		t.Error("expected nqueens-8_tabu in output")
	}
	if !strings.Contains(output, "nqueens-8_late-acceptance") {
		t.Error("expected nqueens-8_late-acceptance in output")
	}
	if !strings.Contains(output, "2000/s") {
		t.Error("expected calculate speed in output")
	}
}

func TestGenerateMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Generate(zerolog.Nop(), writeRun(t), "markdown", &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "| Single |"))
	assert.Contains(t, buf.String(), "| failed |")
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Generate(zerolog.Nop(), writeRun(t), "json", &buf))

	var summaries []report.RepetitionSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summaries))
	require.Len(t, summaries, 2)

	byName := map[string]report.RepetitionSummary{}
	for _, s := range summaries {
		byName[s.Single] = s
	}
	tabu := byName["nqueens-8_tabu"]
	assert.Equal(t, "succeeded", tabu.Status)
	assert.Equal(t, "0hard/-12soft", tabu.Score)
	assert.Equal(t, int64(2000), tabu.CalculatesPerSec)
	assert.Equal(t, 2, tabu.StatisticPoints)
	assert.Zero(t, tabu.MissingStatistics)

	late := byName["nqueens-8_late-acceptance"]
	assert.Equal(t, "failed", late.Status)
	assert.Equal(t, int64(-1), late.CalculatesPerSec)
	assert.Equal(t, 1, late.MissingStatistics)
}

func TestGenerateMissingRun(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, report.Generate(zerolog.Nop(), t.TempDir(), "table", &buf))
}

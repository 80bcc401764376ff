package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/result"
	"github.com/signalnine/solverbench/internal/statistic"
)

type RepetitionSummary struct {
	Single            string `json:"single"`
	Repetition        int    `json:"repetition"`
	Status            string `json:"status"`
	Score             string `json:"score,omitempty"`
	Feasible          bool   `json:"feasible"`
	TimeMillisSpent   int64  `json:"time_millis_spent"`
	CalculateCount    int64  `json:"calculate_count"`
	CalculatesPerSec  int64  `json:"calculate_count_per_second"`
	Ranking           *int   `json:"ranking,omitempty"`
	StatisticPoints   int    `json:"statistic_points"`
	MissingStatistics int    `json:"missing_statistics"`
}

// Generate reads a stored run and writes one summary row per repetition.
func Generate(logger zerolog.Logger, runDir, format string, w io.Writer) error {
	run, err := result.ReadRun(logger, runDir)
	if err != nil {
		return err
	}
	summaries, err := summarize(run)
	if err != nil {
		return err
	}

	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

func summarize(run *result.Run) ([]RepetitionSummary, error) {
	summaries := []RepetitionSummary{}
	for _, single := range run.Singles() {
		for _, rep := range single.Repetitions() {
			s := RepetitionSummary{
				Single:           single.Name(),
				Repetition:       rep.Index(),
				Status:           status(rep),
				Score:            rep.ScoreWithUninitializedPrefix(),
				Feasible:         rep.IsScoreFeasible(),
				TimeMillisSpent:  rep.TimeMillisSpent,
				CalculateCount:   rep.CalculateCount,
				CalculatesPerSec: -1,
				Ranking:          rep.Ranking,
			}
			if rep.CalculateCount >= 0 {
				s.CalculatesPerSec = rep.AverageCalculateCountPerSecond()
			}
			for _, st := range rep.Statistics() {
				n, err := countPoints(st)
				if err != nil {
					var missing *statistic.ArtifactMissingError
					if !errors.As(err, &missing) {
						return nil, err
					}
					s.MissingStatistics++
					continue
				}
				s.StatisticPoints += n
			}
			summaries = append(summaries, s)
		}
	}
	return summaries, nil
}

// countPoints loads a hibernated statistic just long enough to count it.
func countPoints(st *statistic.Statistic) (int, error) {
	if !st.Hibernated() {
		return len(st.PointList()), nil
	}
	if err := st.Unhibernate(); err != nil {
		return 0, err
	}
	n := len(st.PointList())
	return n, st.Hibernate()
}

func status(rep *result.RepetitionResult) string {
	switch {
	case rep.HasAnySuccess():
		if rep.IsWinner() {
			return "winner"
		}
		return "succeeded"
	case rep.HasAnyFailure():
		return "failed"
	default:
		return "not run"
	}
}

func formatCalcs(n int64) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprintf("%d/s", n)
}

func writeTable(summaries []RepetitionSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SINGLE\tREP\tSTATUS\tSCORE\tFEASIBLE\tTIME\tCALCULATIONS\tPOINTS")
	fmt.Fprintln(tw, strings.Repeat("-", 100))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\t%dms\t%s\t%d\n",
			s.Single, s.Repetition, s.Status, s.Score, s.Feasible, s.TimeMillisSpent, formatCalcs(s.CalculatesPerSec), s.StatisticPoints)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []RepetitionSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Single | Rep | Status | Score | Feasible | Time | Calculations | Points |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %s | %s | %t | %dms | %s | %d |\n",
			s.Single, s.Repetition, s.Status, s.Score, s.Feasible, s.TimeMillisSpent, formatCalcs(s.CalculatesPerSec), s.StatisticPoints)
	}
	return nil
}

func writeJSON(summaries []RepetitionSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}

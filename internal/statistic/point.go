package statistic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

// Point is one measurement row. Values are kept as the solver wrote them.
type Point struct {
	TimeMillisSpent int64
	Values          []string
}

func (p Point) Equal(o Point) bool {
	return p.TimeMillisSpent == o.TimeMillisSpent && slices.Equal(p.Values, o.Values)
}

// WriteCSV writes a header row followed by one record per point.
func WriteCSV(w io.Writer, header []string, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		record := make([]string, 0, len(p.Values)+1)
		record = append(record, strconv.FormatInt(p.TimeMillisSpent, 10))
		record = append(record, p.Values...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV is the inverse of WriteCSV. A first row whose time field is not an
// integer is a header and is skipped; files without a header are accepted.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	points := []Point{}
	first := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return points, nil
		}
		if err != nil {
			return nil, err
		}
		ms, err := strconv.ParseInt(record[0], 10, 64)
		if first {
			first = false
			if err != nil {
				continue
			}
		}
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: parsing time_millis_spent %q: %w", line, record[0], err)
		}
		points = append(points, Point{TimeMillisSpent: ms, Values: record[1:]})
	}
}

// ReadCSVFile reads the points of a CSV file written by a solver.
func ReadCSVFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	points, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return points, nil
}

// Package pointcloud loads labeled 2-D point-pattern data from tabular files.
// Each input file describes one image as rows of (x, y, cell-type) triples.
package pointcloud

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"tissuetopo/internal/models"
)

// ParseError reports a malformed input table. It is fatal for the image being
// processed but carries enough context to locate the offending row.
type ParseError struct {
	// Path is the file being parsed.
	Path string

	// Line is the 1-based line number of the offending record, or 0 when
	// the problem is not tied to a single line.
	Line int

	// Reason describes what was wrong with the record.
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

// Load reads a CSV file with exactly three columns (x, y, type) and returns
// the point set. A leading header row is detected by its non-numeric
// coordinate fields and skipped. Coordinates must parse as floating point;
// anything else yields a *ParseError.
func Load(path string) (*models.PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open point data")
	}
	defer f.Close()

	ps, err := Parse(f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return ps, nil
}

// Parse reads point data from r. See Load for the format.
func Parse(r io.Reader) (*models.PointSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count is validated per record
	cr.TrimLeadingSpace = true

	ps := &models.PointSet{}
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line + 1, Reason: err.Error()}
		}
		line++

		if len(rec) != 3 {
			return nil, &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("expected 3 columns (x, y, type), got %d", len(rec)),
			}
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			// The first row may be a header; any later non-numeric
			// row is malformed data.
			if line == 1 {
				continue
			}
			return nil, &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("non-numeric coordinates %q, %q", rec[0], rec[1]),
			}
		}

		ps.Points = append(ps.Points, models.Point{X: x, Y: y})
		ps.Labels = append(ps.Labels, strings.TrimSpace(rec[2]))
	}

	return ps, nil
}

package pointcloud

import (
	"strings"
	"testing"
)

// TestParseWithHeader verifies that a leading header row is detected and
// skipped.
func TestParseWithHeader(t *testing.T) {
	input := "x,y,type\n0.1,0.2,tumor\n0.3,0.4,immune\n0.5,0.6,stromal\n"

	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ps.Len() != 3 {
		t.Fatalf("Expected 3 points, got %d", ps.Len())
	}
	if ps.Points[0].X != 0.1 || ps.Points[0].Y != 0.2 {
		t.Errorf("Expected first point (0.1, 0.2), got (%v, %v)", ps.Points[0].X, ps.Points[0].Y)
	}
	if ps.Labels[1] != "immune" {
		t.Errorf("Expected second label \"immune\", got %q", ps.Labels[1])
	}
}

// TestParseWithoutHeader verifies that a numeric first row is treated as data.
func TestParseWithoutHeader(t *testing.T) {
	input := "0.1,0.2,tumor\n0.3,0.4,immune\n"

	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ps.Len() != 2 {
		t.Errorf("Expected 2 points, got %d", ps.Len())
	}
}

// TestParseEmpty verifies that empty input yields an empty point set, not an
// error.
func TestParseEmpty(t *testing.T) {
	ps, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed on empty input: %v", err)
	}
	if ps.Len() != 0 {
		t.Errorf("Expected empty point set, got %d points", ps.Len())
	}
}

// TestParseWrongColumnCount verifies the column-count check.
func TestParseWrongColumnCount(t *testing.T) {
	input := "x,y,type\n0.1,0.2\n"

	_, err := Parse(strings.NewReader(input))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("Expected error on line 2, got line %d", pe.Line)
	}
}

// TestParseNonNumericCoordinate verifies that non-numeric coordinates past the
// header row are rejected.
func TestParseNonNumericCoordinate(t *testing.T) {
	input := "x,y,type\n0.1,0.2,tumor\nabc,0.4,immune\n"

	_, err := Parse(strings.NewReader(input))
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if pe.Line != 3 {
		t.Errorf("Expected error on line 3, got line %d", pe.Line)
	}
}

// TestParseUnknownLabel verifies that labels outside the vocabulary are
// retained; they are simply never selected by Subset downstream.
func TestParseUnknownLabel(t *testing.T) {
	input := "x,y,type\n0.1,0.2,unknown\n0.3,0.4,tumor\n"

	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ps.Len() != 2 {
		t.Fatalf("Expected 2 points, got %d", ps.Len())
	}
	if got := ps.Subset("tumor"); len(got) != 1 {
		t.Errorf("Expected 1 tumor point, got %d", len(got))
	}
	if got := ps.Subset("stromal"); len(got) != 0 {
		t.Errorf("Expected 0 stromal points, got %d", len(got))
	}
}

// TestLoadMissingFile verifies that a missing file is reported as an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/image.csv"); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

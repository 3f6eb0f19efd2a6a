package density

import (
	"testing"

	"tissuetopo/internal/models"
)

// clusterAround returns a small deterministic cluster of points near (cx, cy).
func clusterAround(cx, cy float64) []models.Point {
	offsets := []models.Point{
		{X: 0, Y: 0},
		{X: 0.15, Y: 0},
		{X: 0, Y: 0.15},
		{X: -0.15, Y: 0},
		{X: 0, Y: -0.15},
	}
	pts := make([]models.Point, len(offsets))
	for i, o := range offsets {
		pts[i] = models.Point{X: cx + o.X, Y: cy + o.Y}
	}
	return pts
}

func pointSet(labeled map[string][]models.Point) *models.PointSet {
	ps := &models.PointSet{}
	for _, label := range []string{"immune", "stromal", "tumor"} {
		for _, p := range labeled[label] {
			ps.Points = append(ps.Points, p)
			ps.Labels = append(ps.Labels, label)
		}
	}
	return ps
}

// TestEmptyPointSetAllLowestIndex verifies that with zero points every
// density is zero and every cell falls to the lowest type index by the
// argmax tie-break.
func TestEmptyPointSetAllLowestIndex(t *testing.T) {
	c := NewClassifier(models.DefaultVocabulary(), 10, 0.5)
	grid := c.Classify(&models.PointSet{})

	if grid.Count(0) != 100 {
		t.Errorf("Expected all 100 cells assigned type 0, got %d", grid.Count(0))
	}
}

// TestZeroPointTypeNeverWins verifies that a type with no points never wins a
// cell when any other type has positive density.
func TestZeroPointTypeNeverWins(t *testing.T) {
	ps := pointSet(map[string][]models.Point{
		"tumor": clusterAround(0.5, 0.5),
	})

	c := NewClassifier(models.DefaultVocabulary(), 10, 0.5)
	grid := c.Classify(ps)

	// A Gaussian kernel is positive everywhere, so tumor density beats
	// the identically-zero immune and stromal densities at every cell.
	if got := grid.Count(2); got != 100 {
		t.Errorf("Expected tumor (type 2) to win all 100 cells, got %d", got)
	}
}

// TestTieBreakFirstMaximum verifies that exact density ties go to the lowest
// type index in the vocabulary ordering.
func TestTieBreakFirstMaximum(t *testing.T) {
	// immune and stromal occupy identical coordinates, so their fitted
	// densities are identical at every cell
	pts := clusterAround(0.5, 0.5)
	ps := pointSet(map[string][]models.Point{
		"immune":  pts,
		"stromal": pts,
	})

	c := NewClassifier(models.DefaultVocabulary(), 10, 0.5)
	grid := c.Classify(ps)

	if got := grid.Count(1); got != 0 {
		t.Errorf("Expected stromal (type 1) to lose every tie to immune, but it won %d cells", got)
	}
	if got := grid.Count(0); got != 100 {
		t.Errorf("Expected immune (type 0) to win all 100 cells, got %d", got)
	}
}

// TestTwoClusterClassification verifies that well-separated clusters claim
// their own grid corners.
func TestTwoClusterClassification(t *testing.T) {
	ps := pointSet(map[string][]models.Point{
		"immune": clusterAround(0.05, 0.05),
		"tumor":  clusterAround(0.95, 0.95),
	})

	c := NewClassifier(models.DefaultVocabulary(), 10, 0.5)
	grid := c.Classify(ps)

	// cell (row, col) is centered at (x=col/9, y=row/9)
	if got := grid.At(0, 0); got != 0 {
		t.Errorf("Expected immune (0) at grid corner (0,0), got %d", got)
	}
	if got := grid.At(9, 9); got != 2 {
		t.Errorf("Expected tumor (2) at grid corner (9,9), got %d", got)
	}
}

// TestDeterminism verifies that identical input yields an identical grid.
func TestDeterminism(t *testing.T) {
	ps := pointSet(map[string][]models.Point{
		"immune": clusterAround(0.3, 0.7),
		"tumor":  clusterAround(0.6, 0.2),
	})

	c := NewClassifier(models.DefaultVocabulary(), 20, 0.5)
	a := c.Classify(ps)
	b := c.Classify(ps)

	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("Grids differ at cell %d: %d vs %d", i, a.Cells[i], b.Cells[i])
		}
	}
}

// TestDegenerateCluster verifies that coincident points do not produce NaN
// densities or panics; the ridge keeps the estimator finite.
func TestDegenerateCluster(t *testing.T) {
	ps := pointSet(map[string][]models.Point{
		"tumor": {{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}},
	})

	c := NewClassifier(models.DefaultVocabulary(), 10, 0.5)
	grid := c.Classify(ps)

	if got := grid.Count(2); got == 0 {
		t.Error("Expected tumor to win at least one cell for a coincident cluster")
	}
}

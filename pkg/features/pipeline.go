package features

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"tissuetopo/internal/models"
	"tissuetopo/pkg/density"
	"tissuetopo/pkg/homology"
	"tissuetopo/pkg/pointcloud"
	"tissuetopo/pkg/sampling"
	"tissuetopo/pkg/sedt"
)

// Params configures a feature extraction pipeline.
type Params struct {
	// Vocabulary is the ordered cell-type label set. Defaults to
	// {immune, stromal, tumor}.
	Vocabulary models.Vocabulary

	// Pairs are the cell-type pairs to analyze. Defaults to the three
	// canonical pairs. Every pair label must be in the vocabulary.
	Pairs []models.Pair

	// GridResolution and BandwidthFactor configure the density
	// classifier; zero values fall back to the package defaults.
	GridResolution  int
	BandwidthFactor float64

	// Witness configures the witness complex; the zero value is replaced
	// with homology.DefaultWitnessParams.
	Witness homology.WitnessParams

	// Dimensions, when non-empty, splits every diagram by homology
	// dimension and emits one statistics block per dimension. Empty means
	// one aggregate block per diagram.
	Dimensions []int

	// Policy controls the treatment of infinite persistence intervals.
	Policy Policy

	// Seed seeds the landmark/witness sampler. Zero picks a time-based
	// seed.
	Seed uint64

	// Logger receives per-pair failure and progress events. The zero
	// logger is replaced with a no-op logger.
	Logger *zerolog.Logger
}

// PairResult is the outcome of one complex computation for one cell-type
// pair. A failed computation carries its error and an empty diagram; the
// pipeline substitutes all-missing statistics for it instead of aborting the
// image.
type PairResult struct {
	Complex ComplexType
	Pair    models.Pair
	Diagram homology.Diagram
	Err     error
}

// Pipeline extracts one flat feature record per image. It holds no per-image
// state; images are processed independently.
type Pipeline struct {
	params     Params
	classifier *density.Classifier
	src        rand.Source
	logger     zerolog.Logger
}

// NewPipeline validates the parameters and builds a pipeline.
func NewPipeline(params Params) (*Pipeline, error) {
	if params.Vocabulary == nil {
		params.Vocabulary = models.DefaultVocabulary()
	}
	if params.Pairs == nil {
		params.Pairs = models.DefaultPairs()
	}
	if params.Witness == (homology.WitnessParams{}) {
		params.Witness = homology.DefaultWitnessParams()
	}
	for _, p := range params.Pairs {
		if params.Vocabulary.Index(p.A) == models.Unknown || params.Vocabulary.Index(p.B) == models.Unknown {
			return nil, errors.Errorf("pair %s references a label outside the vocabulary %v", p.Name(), params.Vocabulary)
		}
	}

	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	return &Pipeline{
		params:     params,
		classifier: density.NewClassifier(params.Vocabulary, params.GridResolution, params.BandwidthFactor),
		src:        rand.NewSource(seed),
		logger:     logger,
	}, nil
}

// Keys returns the full output key space of this pipeline's records in
// deterministic order.
func (p *Pipeline) Keys() []Key {
	return Keys(p.params.Pairs, p.params.Dimensions)
}

// ProcessFile loads one image file and extracts its feature record.
func (p *Pipeline) ProcessFile(path string) (Record, []PairResult, error) {
	ps, err := pointcloud.Load(path)
	if err != nil {
		return nil, nil, err
	}
	rec, results := p.Process(ps)
	return rec, results, nil
}

// Process extracts the feature record for one labeled point set. The density
// grid is classified exactly once and shared read-only across all pairs.
// Each pair's two complex computations are isolated: a failure is logged,
// reported in the results, and replaced by all-missing statistics, so one
// degenerate pair cannot prevent extraction for the rest of the image.
func (p *Pipeline) Process(ps *models.PointSet) (Record, []PairResult) {
	start := time.Now()
	grid := p.classifier.Classify(ps)

	record := Record{}
	var results []PairResult

	for _, pair := range p.params.Pairs {
		for _, res := range []PairResult{
			p.cubicalResult(grid, pair),
			p.witnessResult(ps, pair),
		} {
			if res.Err != nil {
				p.logger.Warn().
					Str("complex", string(res.Complex)).
					Str("pair", pair.Name()).
					Err(res.Err).
					Msg("complex computation failed, emitting missing statistics")
			}
			p.summarizeInto(record, res)
			results = append(results, res)
		}
	}

	p.logger.Info().
		Int("points", ps.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("image processed")
	return record, results
}

// cubicalResult builds the signed distance field for the pair and computes
// its cubical persistence diagram.
func (p *Pipeline) cubicalResult(grid *density.Grid, pair models.Pair) PairResult {
	res := PairResult{Complex: Cubical, Pair: pair}
	res.Diagram, res.Err = guard(func() (homology.Diagram, error) {
		t1 := p.params.Vocabulary.Index(pair.A)
		t2 := p.params.Vocabulary.Index(pair.B)
		field, err := sedt.Compute(grid, t1, t2)
		if err != nil {
			return nil, err
		}
		return homology.CubicalDiagram(field.Values, field.Res, field.Res), nil
	})
	return res
}

// witnessResult samples landmarks and witnesses for the pair and computes
// the witness-complex persistence diagram. Fewer than three points of either
// type is not an error: the pair is topologically uninformative and yields
// an empty diagram.
func (p *Pipeline) witnessResult(ps *models.PointSet, pair models.Pair) PairResult {
	res := PairResult{Complex: Witness, Pair: pair}
	res.Diagram, res.Err = guard(func() (homology.Diagram, error) {
		sample, ok := sampling.Draw(ps.Subset(pair.A), ps.Subset(pair.B), p.src)
		if !ok {
			return nil, nil
		}
		return homology.WitnessDiagram(sample.Landmarks, sample.Witnesses, p.params.Witness), nil
	})
	return res
}

// summarizeInto reduces one pair result to statistics blocks, per requested
// dimension or aggregate, and merges them into the image record. Failed or
// insufficient-data results contribute all-missing blocks for every
// requested dimension so the record schema stays fixed.
func (p *Pipeline) summarizeInto(record Record, res PairResult) {
	if len(p.params.Dimensions) == 0 {
		record.add(res.Complex, res.Pair.Name(), AggregateDim, Summarize(res.Diagram, p.params.Policy))
		return
	}
	for _, dim := range p.params.Dimensions {
		record.add(res.Complex, res.Pair.Name(), dim, Summarize(res.Diagram.FilterDim(dim), p.params.Policy))
	}
}

// guard converts a panic inside a complex computation into a pair-scoped
// error so one pathological pair cannot take down the image.
func guard(fn func() (homology.Diagram, error)) (d homology.Diagram, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = errors.Errorf("complex construction panic: %v", r)
		}
	}()
	return fn()
}

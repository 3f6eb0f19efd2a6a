package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tissuetopo/internal/models"
	"tissuetopo/pkg/config"
	"tissuetopo/pkg/features"
	"tissuetopo/pkg/homology"
	"tissuetopo/pkg/pointcloud"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "CSV image file or directory of CSV images")
	outputPath := flag.String("output", "features.csv", "Output features CSV filename")
	configPath := flag.String("config", "tissuetopo.yaml", "YAML configuration file")
	byDimension := flag.Bool("by-dimension", false, "Split statistics by homology dimension (H0 and H1)")
	excludeInfinite := flag.Bool("exclude-infinite", true, "Drop intervals with infinite persistence")
	maxFinite := flag.Float64("max-finite-value", math.NaN(), "Replace infinite deaths with this value (only with -exclude-infinite=false)")
	seed := flag.Uint64("seed", 0, "Landmark sampler seed (0 = time-based)")
	flag.Parse()

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override the config file
	cfg.Features.ExcludeInfinite = *excludeInfinite
	if !math.IsNaN(*maxFinite) {
		v := *maxFinite
		cfg.Features.MaxFiniteValue = &v
	}
	if *byDimension {
		cfg.Features.Dimensions = []int{0, 1}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if !cfg.Output.Verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	pairs := make([]models.Pair, len(cfg.Pairs))
	for i, p := range cfg.Pairs {
		pairs[i] = models.Pair{A: p[0], B: p[1]}
	}

	pipeline, err := features.NewPipeline(features.Params{
		Vocabulary:      models.Vocabulary(cfg.CellTypes),
		Pairs:           pairs,
		GridResolution:  cfg.Grid.Resolution,
		BandwidthFactor: cfg.Grid.BandwidthFactor,
		Witness: homology.WitnessParams{
			MaxAlphaSquare: cfg.Witness.MaxAlphaSquare,
			LimitDimension: cfg.Witness.LimitDimension,
		},
		Dimensions: cfg.Features.Dimensions,
		Policy: features.Policy{
			ExcludeInfinite: cfg.Features.ExcludeInfinite,
			MaxFiniteValue:  cfg.Features.MaxFiniteValue,
		},
		Seed:   cfg.Seed,
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid pipeline configuration")
	}

	inputs, err := collectInputs(*inputPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to collect input files")
	}
	if len(inputs) == 0 {
		logger.Fatal().Str("input", *inputPath).Msg("no CSV files found")
	}

	startTime := time.Now()
	var ids []string
	var records []features.Record
	for _, path := range inputs {
		rec, _, err := pipeline.ProcessFile(path)
		if err != nil {
			// Parse failures are image-scoped: skip the image,
			// keep processing the rest of the batch.
			if _, ok := err.(*pointcloud.ParseError); ok {
				logger.Error().Str("image", path).Err(err).Msg("skipping malformed image")
				continue
			}
			logger.Fatal().Str("image", path).Err(err).Msg("failed to process image")
		}
		ids = append(ids, imageID(path))
		records = append(records, rec)
	}

	out, err := os.Create(*outputPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create output file")
	}
	defer out.Close()

	if err := features.WriteCSV(out, ids, records, pipeline.Keys()); err != nil {
		logger.Fatal().Err(err).Msg("failed to write features")
	}

	logger.Info().
		Int("images", len(records)).
		Int("features", len(pipeline.Keys())).
		Dur("elapsed", time.Since(startTime)).
		Str("output", *outputPath).
		Msg("feature extraction complete")
}

// collectInputs resolves the input argument to a sorted list of CSV files.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// imageID derives the output row identifier from the input filename.
func imageID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

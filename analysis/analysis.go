// Package analysis turns a decoded PCM buffer into tempo, musical key and
// a coarse genre label. One entry point, Analyzer.Analyze, runs the whole
// pipeline: spectral frontend, tempo and key estimation, feature
// aggregation and the genre decision table.
//
// Every call owns its sample buffer and derived matrices exclusively, so
// concurrent callers can share one Analyzer without locking. Analysis is
// all-or-nothing: the caller gets a complete Result or a typed *Error.
package analysis

import (
	"fmt"
	"math"

	"github.com/tempokey/tempokey/algorithms/filters"
	"github.com/tempokey/tempokey/algorithms/temporal"
	"github.com/tempokey/tempokey/algorithms/tonal"
	"github.com/tempokey/tempokey/logging"
)

// Analyzer runs the analysis pipeline. Construct once and reuse; it holds
// only read-only configuration and precomputed templates.
type Analyzer struct {
	cfg    Config
	logger logging.Logger
	tempo  *temporal.TempoEstimation
	keys   *tonal.KeyEstimator
}

// New creates an Analyzer with the default configuration
func New() *Analyzer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an Analyzer with a custom configuration. Zero or
// invalid fields fall back to their defaults.
func NewWithConfig(cfg Config) *Analyzer {
	cfg = cfg.withDefaults()

	return &Analyzer{
		cfg:    cfg,
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{"component": "analysis"}),
		tempo: temporal.NewTempoEstimationWithParams(temporal.TempoParams{
			WindowSize: cfg.WindowSize,
			HopSize:    cfg.HopSize,
			MinBPM:     cfg.MinBPM,
			MaxBPM:     cfg.MaxBPM,
		}),
		keys: tonal.NewKeyEstimator(),
	}
}

// Analyze runs the full pipeline over a decoded mono sample buffer.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) (*Result, error) {
	if len(samples) == 0 {
		return nil, newError(KindInput, StageInput, fmt.Errorf("empty sample buffer"))
	}
	if sampleRate <= 0 {
		return nil, newError(KindInput, StageInput, fmt.Errorf("invalid sample rate %d", sampleRate))
	}

	// Block any DC offset in the decoded PCM before spectral analysis.
	// The input buffer is never mutated; every stage works on derived data.
	dc := filters.NewDCRemoval()
	signal := dc.Process(samples)

	frontend, err := a.computeFrontend(signal, sampleRate)
	if err != nil {
		return nil, newError(KindTransform, StageFrontend, err)
	}

	bpm, err := a.tempo.EstimateWithSpectrogram(frontend.Spectrogram, signal, sampleRate)
	if err != nil {
		return nil, newError(KindEstimation, StageTempo, err)
	}
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return nil, newError(KindEstimation, StageTempo, fmt.Errorf("tempo estimate out of range: %v", bpm))
	}

	key, err := a.keys.Estimate(frontend.Chroma)
	if err != nil {
		return nil, newError(KindEstimation, StageKey, err)
	}

	features, err := aggregate(frontend)
	if err != nil {
		return nil, newError(KindTransform, StageAggregate, err)
	}
	features.BPM = bpm
	features.Key = key

	genre := ClassifyGenre(bpm, features.SpectralCentroidMean, features.ZCRMean)

	a.logger.Debug("analysis complete", logging.Fields{
		"bpm":    bpm,
		"key":    key,
		"genre":  genre,
		"frames": frontend.TimeFrames,
	})

	return &Result{
		Key:      key,
		BPM:      math.Round(bpm*100) / 100,
		Genre:    genre,
		Features: features,
	}, nil
}

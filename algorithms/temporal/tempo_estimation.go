package temporal

import (
	"fmt"
	"math"

	"github.com/tempokey/tempokey/algorithms/common"
	"github.com/tempokey/tempokey/algorithms/spectral"
)

// TempoEstimation estimates tempo in BPM from two independent periodicity
// detectors: the autocorrelation of an onset strength envelope (primary)
// and the autocorrelation of a coarse RMS energy envelope (alternate).
// Either detector alone is prone to octave errors (reporting double or
// half the true tempo), so sharply disagreeing estimates are averaged.
type TempoEstimation struct {
	onset    *OnsetStrength
	envelope *Envelope

	minBPM float64
	maxBPM float64

	// Log-normal tempo prior, centered where popular music lives.
	// Weights competing autocorrelation peaks toward plausible tempi and
	// away from the half-tempo peak a strict click train always has.
	priorBPM float64
	priorStd float64 // width in octaves
}

// TempoParams contains parameters for tempo estimation
type TempoParams struct {
	WindowSize int     `json:"window_size"` // STFT window for the onset envelope
	HopSize    int     `json:"hop_size"`    // STFT hop for the onset envelope
	MinBPM     float64 `json:"min_bpm"`     // Lower bound of the search range
	MaxBPM     float64 `json:"max_bpm"`     // Upper bound of the search range
}

// DefaultTempoParams returns the standard tempo estimation parameters
func DefaultTempoParams() TempoParams {
	return TempoParams{
		WindowSize: 2048,
		HopSize:    512,
		MinBPM:     40.0,
		MaxBPM:     240.0,
	}
}

// NewTempoEstimation creates a tempo estimator with default parameters
func NewTempoEstimation() *TempoEstimation {
	return NewTempoEstimationWithParams(DefaultTempoParams())
}

// NewTempoEstimationWithParams creates a tempo estimator with custom parameters
func NewTempoEstimationWithParams(params TempoParams) *TempoEstimation {
	if params.WindowSize <= 0 {
		params.WindowSize = 2048
	}
	if params.HopSize <= 0 {
		params.HopSize = 512
	}
	if params.MinBPM <= 0 {
		params.MinBPM = 40.0
	}
	if params.MaxBPM <= params.MinBPM {
		params.MaxBPM = 240.0
	}

	return &TempoEstimation{
		onset:    NewOnsetStrength(params.WindowSize, params.HopSize),
		envelope: NewEnvelope(),
		minBPM:   params.MinBPM,
		maxBPM:   params.MaxBPM,
		priorBPM: 120.0,
		priorStd: 1.0,
	}
}

// Estimate returns the reconciled BPM for signal. The result is always
// positive; failure to find any periodicity is an error, never a zero.
func (te *TempoEstimation) Estimate(signal []float64, sampleRate int) (float64, error) {
	primary, err := te.EstimateOnsetBPM(signal, sampleRate)
	if err != nil {
		return 0, err
	}

	return te.combine(primary, te.EstimateEnergyBPM(signal, sampleRate), len(signal))
}

// EstimateWithSpectrogram is Estimate for callers that already hold the
// magnitude STFT of signal, sparing a second transform. signal must be the
// waveform the spectrogram was computed from.
func (te *TempoEstimation) EstimateWithSpectrogram(stftResult *spectral.STFTResult, signal []float64, sampleRate int) (float64, error) {
	envelope, frameRate := te.onset.FromSpectrogram(stftResult)
	primary := te.bpmFromEnvelope(envelope, frameRate)

	return te.combine(primary, te.EstimateEnergyBPM(signal, sampleRate), len(signal))
}

func (te *TempoEstimation) combine(primary, alternate float64, numSamples int) (float64, error) {
	switch {
	case primary <= 0 && alternate <= 0:
		return 0, fmt.Errorf("no dominant periodicity in %d samples", numSamples)
	case primary <= 0:
		return alternate, nil
	case alternate <= 0:
		return primary, nil
	}

	return te.Reconcile(primary, alternate), nil
}

// Reconcile merges the primary and alternate estimates: when they disagree
// by more than 20 BPM, one of them is likely an octave error and the
// arithmetic mean is reported; otherwise the primary wins.
func (te *TempoEstimation) Reconcile(primary, alternate float64) float64 {
	if math.Abs(primary-alternate) > 20.0 {
		return (primary + alternate) / 2.0
	}
	return primary
}

// EstimateOnsetBPM estimates tempo from the onset strength envelope
func (te *TempoEstimation) EstimateOnsetBPM(signal []float64, sampleRate int) (float64, error) {
	envelope, frameRate, err := te.onset.Compute(signal, sampleRate)
	if err != nil {
		return 0, err
	}

	return te.bpmFromEnvelope(envelope, frameRate), nil
}

// EstimateEnergyBPM estimates tempo from a coarse RMS energy envelope:
// 100ms frames with 25ms hop. Returns 0 when the signal is too short.
func (te *TempoEstimation) EstimateEnergyBPM(signal []float64, sampleRate int) float64 {
	frameSize := sampleRate / 10
	hopSize := frameSize / 4
	if frameSize <= 0 || hopSize <= 0 {
		return 0
	}

	envelope := te.envelope.ComputeRMS(signal, frameSize, hopSize)
	frameRate := float64(sampleRate) / float64(hopSize)

	return te.bpmFromEnvelope(envelope, frameRate)
}

// bpmFromEnvelope finds the dominant periodicity of an envelope sampled at
// frameRate frames per second. Autocorrelation peaks inside the BPM search
// range are scored against the tempo prior; the winning lag is refined by
// parabolic interpolation.
func (te *TempoEstimation) bpmFromEnvelope(envelope []float64, frameRate float64) float64 {
	if len(envelope) < 8 || frameRate <= 0 {
		return 0
	}

	// Remove the DC component so steady background energy does not
	// dominate lag zero's neighborhood.
	x := common.RemoveMean(envelope)

	maxLag := len(x) / 2
	ac := autocorrelate(x, maxLag)
	if len(ac) == 0 {
		return 0
	}

	minLag := int(math.Ceil(60.0 * frameRate / te.maxBPM))
	maxSearch := int(math.Floor(60.0 * frameRate / te.minBPM))
	if minLag < 1 {
		minLag = 1
	}
	if maxSearch > len(ac)-2 {
		maxSearch = len(ac) - 2
	}
	if maxSearch <= minLag {
		return 0
	}

	bestLag := 0
	bestScore := 0.0

	for lag := minLag; lag <= maxSearch; lag++ {
		if ac[lag] <= ac[lag-1] || ac[lag] < ac[lag+1] {
			continue
		}
		bpm := 60.0 * frameRate / float64(lag)
		score := ac[lag] * te.tempoPrior(bpm)
		if score > bestScore {
			bestLag = lag
			bestScore = score
		}
	}

	if bestLag == 0 {
		return 0
	}

	refinedLag := float64(bestLag) + common.ParabolicPeak(ac, bestLag)
	return 60.0 * frameRate / refinedLag
}

// tempoPrior is a log-normal weight over BPM, 1.0 at the prior center
func (te *TempoEstimation) tempoPrior(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	d := math.Log2(bpm/te.priorBPM) / te.priorStd
	return math.Exp(-0.5 * d * d)
}

// autocorrelate computes the raw (biased) autocorrelation of x up to
// maxLag, normalized so that lag zero equals 1. The biased form decays
// with lag, which further discourages long-lag octave peaks.
func autocorrelate(x []float64, maxLag int) []float64 {
	if maxLag > len(x) {
		maxLag = len(x)
	}
	if maxLag <= 0 {
		return []float64{}
	}

	ac := make([]float64, maxLag)
	for lag := 0; lag < maxLag; lag++ {
		sum := 0.0
		for i := 0; i < len(x)-lag; i++ {
			sum += x[i] * x[i+lag]
		}
		ac[lag] = sum
	}

	if ac[0] > 0 {
		for i := range ac {
			ac[i] /= ac[0]
		}
	}

	return ac
}

package analysis

import (
	"fmt"

	"github.com/tempokey/tempokey/algorithms/chroma"
	"github.com/tempokey/tempokey/algorithms/spectral"
	"github.com/tempokey/tempokey/algorithms/windowing"
)

// FrontendResult holds the frame-level representations every estimator
// consumes. All matrices and series share the same framing; row t of
// Chroma, row t of MFCC and element t of the per-frame series describe
// the same slice of time.
type FrontendResult struct {
	Spectrogram *spectral.STFTResult // Magnitude STFT the rest derives from
	Chroma      [][]float64          // Time x 12 pitch-class energy
	MFCC        [][]float64          // Time x coefficient cepstral matrix
	Centroid    []float64            // Spectral centroid (Hz) per frame
	Rolloff     []float64            // Spectral rolloff (Hz) per frame
	ZCR         []float64            // Normalized zero-crossing rate per frame
	TimeFrames  int
}

// computeFrontend turns a raw sample buffer into the spectral, chroma and
// cepstral representations. Any failure here fails the whole analysis; no
// partial frontend results are returned.
func (a *Analyzer) computeFrontend(samples []float64, sampleRate int) (*FrontendResult, error) {
	window := windowing.NewHann(a.cfg.WindowSize, false)

	stft := spectral.NewSTFT()
	stftResult, err := stft.Compute(samples, a.cfg.WindowSize, a.cfg.HopSize, sampleRate, window)
	if err != nil {
		return nil, fmt.Errorf("magnitude STFT: %w", err)
	}

	chromagram := chroma.NewChromaSTFT(sampleRate, a.cfg.TuningFreq).FromSpectrogram(stftResult)

	mfcc := spectral.NewMFCCWithParams(sampleRate, spectral.MFCCParams{
		NumCoefficients: a.cfg.MFCCCoefficients,
		NumMelFilters:   a.cfg.MelFilters,
	})
	mfccFrames, err := mfcc.ComputeFrames(stftResult.Magnitude)
	if err != nil {
		return nil, fmt.Errorf("MFCC: %w", err)
	}

	centroid := spectral.NewSpectralCentroid(sampleRate).ComputeFrames(stftResult.Magnitude)
	rolloff := spectral.NewSpectralRolloff(sampleRate).ComputeFrames(stftResult.Magnitude, a.cfg.RolloffThreshold)
	zcr := spectral.NewZeroCrossingRate(a.cfg.WindowSize, a.cfg.HopSize).ComputeFrames(samples)

	return &FrontendResult{
		Spectrogram: stftResult,
		Chroma:      chromagram,
		MFCC:        mfccFrames,
		Centroid:    centroid,
		Rolloff:     rolloff,
		ZCR:         zcr,
		TimeFrames:  stftResult.TimeFrames,
	}, nil
}

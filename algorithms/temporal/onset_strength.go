package temporal

import (
	"fmt"

	"github.com/tempokey/tempokey/algorithms/spectral"
	"github.com/tempokey/tempokey/algorithms/windowing"
)

// OnsetStrength derives an onset strength envelope from the half-wave
// rectified spectral flux of a magnitude STFT. A large value at a frame
// means a new sound event likely begins there.
type OnsetStrength struct {
	stft       *spectral.STFT
	flux       *spectral.SpectralFlux
	windowSize int
	hopSize    int
}

// NewOnsetStrength creates an onset strength extractor with the given framing
func NewOnsetStrength(windowSize, hopSize int) *OnsetStrength {
	return &OnsetStrength{
		stft:       spectral.NewSTFT(),
		flux:       spectral.NewSpectralFlux(),
		windowSize: windowSize,
		hopSize:    hopSize,
	}
}

// Compute returns the onset strength envelope of signal and the envelope's
// frame rate in frames per second.
func (os *OnsetStrength) Compute(signal []float64, sampleRate int) ([]float64, float64, error) {
	window := windowing.NewHann(os.windowSize, false)

	stftResult, err := os.stft.Compute(signal, os.windowSize, os.hopSize, sampleRate, window)
	if err != nil {
		return nil, 0, fmt.Errorf("onset strength: %w", err)
	}

	envelope := os.flux.Compute(stftResult.Magnitude)
	return envelope, stftResult.FrameRate, nil
}

// FromSpectrogram derives the envelope from an existing magnitude STFT
func (os *OnsetStrength) FromSpectrogram(stftResult *spectral.STFTResult) ([]float64, float64) {
	return os.flux.Compute(stftResult.Magnitude), stftResult.FrameRate
}

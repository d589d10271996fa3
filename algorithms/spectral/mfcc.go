package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients, the timbral summary
// used for genre and content discrimination.
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64

	melScale    *MelScale
	filterBank  [][]float64
	dctMatrix   [][]float64
	initialized bool
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients (default: 13)
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters (default: 26)
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
}

// NewMFCC creates a new MFCC computer with default band limits
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	return NewMFCCWithParams(sampleRate, MFCCParams{
		NumCoefficients: numCoefficients,
	})
}

// NewMFCCWithParams creates a new MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate int, params MFCCParams) *MFCC {
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 13
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 26
	}
	if params.HighFreq <= 0 {
		params.HighFreq = float64(sampleRate) / 2.0
	}

	return &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		melScale:        NewMelScale(),
	}
}

// Initialize prepares the filter bank and DCT matrix for the given FFT size
func (m *MFCC) Initialize(fftSize int) error {
	if fftSize <= 0 {
		return fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	m.filterBank = m.melScale.CreateFilterBank(
		m.numMelFilters,
		fftSize,
		m.sampleRate,
		m.lowFreq,
		m.highFreq,
	)
	if len(m.filterBank) == 0 {
		return fmt.Errorf("failed to create mel filter bank")
	}

	m.createDCTMatrix()
	m.initialized = true
	return nil
}

// Compute calculates MFCC coefficients from a single magnitude spectrum
func (m *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	if !m.initialized {
		fftSize := (len(magnitudeSpectrum) - 1) * 2
		if err := m.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	melSpectrum := m.melScale.ApplyFilterBank(powerSpectrum, m.filterBank)

	// Log with floor to avoid log(0)
	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, mel := range melSpectrum {
		if mel > 0 {
			logMelSpectrum[i] = math.Log(mel)
		} else {
			logMelSpectrum[i] = math.Log(1e-10)
		}
	}

	return m.applyDCT(logMelSpectrum), nil
}

// ComputeFrames processes every frame of a magnitude spectrogram, returning
// a time x coefficient matrix.
func (m *MFCC) ComputeFrames(spectrogram [][]float64) ([][]float64, error) {
	if len(spectrogram) == 0 {
		return nil, fmt.Errorf("empty spectrogram")
	}

	mfccFrames := make([][]float64, len(spectrogram))
	for t, magnitudeSpectrum := range spectrogram {
		coeffs, err := m.Compute(magnitudeSpectrum)
		if err != nil {
			return nil, fmt.Errorf("failed to compute MFCC for frame %d: %w", t, err)
		}
		mfccFrames[t] = coeffs
	}

	return mfccFrames, nil
}

// createDCTMatrix creates the orthonormal DCT-II matrix
func (m *MFCC) createDCTMatrix() {
	m.dctMatrix = make([][]float64, m.numCoefficients)

	for k := 0; k < m.numCoefficients; k++ {
		m.dctMatrix[k] = make([]float64, m.numMelFilters)

		for n := 0; n < m.numMelFilters; n++ {
			m.dctMatrix[k][n] = math.Cos(math.Pi * float64(k) * (float64(n) + 0.5) / float64(m.numMelFilters))

			if k == 0 {
				m.dctMatrix[k][n] *= math.Sqrt(1.0 / float64(m.numMelFilters))
			} else {
				m.dctMatrix[k][n] *= math.Sqrt(2.0 / float64(m.numMelFilters))
			}
		}
	}
}

func (m *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	coeffs := make([]float64, m.numCoefficients)

	for k := 0; k < m.numCoefficients; k++ {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(m.dctMatrix[k]); n++ {
			sum += logMelSpectrum[n] * m.dctMatrix[k][n]
		}
		coeffs[k] = sum
	}

	return coeffs
}

// NumCoefficients returns the number of coefficients produced per frame
func (m *MFCC) NumCoefficients() int {
	return m.numCoefficients
}

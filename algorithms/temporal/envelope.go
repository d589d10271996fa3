package temporal

import (
	"math"
)

// Envelope provides amplitude envelope extraction
type Envelope struct{}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// ComputeRMS computes the RMS energy envelope with the given frame and hop
// sizes. Used as the coarse periodicity signal for the alternate tempo
// estimate.
func (e *Envelope) ComputeRMS(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) < frameSize || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		end := start + frameSize

		sumSquares := 0.0
		for j := start; j < end; j++ {
			sumSquares += signal[j] * signal[j]
		}
		envelope[i] = math.Sqrt(sumSquares / float64(frameSize))
	}

	return envelope
}

// ComputePeak computes the peak envelope (maximum absolute value per frame)
func (e *Envelope) ComputePeak(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) < frameSize || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		end := start + frameSize

		peak := 0.0
		for j := start; j < end; j++ {
			abs := math.Abs(signal[j])
			if abs > peak {
				peak = abs
			}
		}
		envelope[i] = peak
	}

	return envelope
}

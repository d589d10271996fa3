package chroma

import (
	"fmt"
	"math"

	"github.com/tempokey/tempokey/algorithms/spectral"
)

// PitchClassNames are the 12 chroma bin labels, C through B.
var PitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NumBins is the number of pitch classes in an octave-folded chromagram.
const NumBins = 12

// ChromaSTFT computes an octave-folded chromagram from a magnitude STFT.
// Each FFT bin is mapped to the nearest equal-tempered pitch class relative
// to the tuning reference; bin energies accumulate per pitch class and each
// frame is normalized to unit sum.
type ChromaSTFT struct {
	sampleRate int
	stft       *spectral.STFT
	tuningFreq float64 // A4 reference (default 440 Hz)
	minFreq    float64 // Lowest frequency folded into the chromagram
	maxFreq    float64 // Highest frequency folded into the chromagram
}

// NewChromaSTFT creates a chromagram calculator with a custom tuning reference
func NewChromaSTFT(sampleRate int, tuningFreq float64) *ChromaSTFT {
	return &ChromaSTFT{
		sampleRate: sampleRate,
		stft:       spectral.NewSTFT(),
		tuningFreq: tuningFreq,
		minFreq:    80.0,   // Below this the bin-to-pitch mapping is too coarse
		maxFreq:    8000.0, // High enough to include meaningful harmonics
	}
}

// NewChromaSTFTDefault creates a chromagram calculator with A4=440Hz tuning
func NewChromaSTFTDefault(sampleRate int) *ChromaSTFT {
	return NewChromaSTFT(sampleRate, 440.0)
}

// Compute computes the chromagram of signal as a time x 12 matrix.
func (cs *ChromaSTFT) Compute(signal []float64, windowSize, hopSize int, window spectral.Window) ([][]float64, error) {
	stftResult, err := cs.stft.Compute(signal, windowSize, hopSize, cs.sampleRate, window)
	if err != nil {
		return nil, fmt.Errorf("chroma STFT: %w", err)
	}

	return cs.FromSpectrogram(stftResult), nil
}

// FromSpectrogram folds an existing magnitude STFT into a chromagram,
// avoiding a second transform when the caller already has one.
func (cs *ChromaSTFT) FromSpectrogram(stftResult *spectral.STFTResult) [][]float64 {
	chromagram := make([][]float64, stftResult.TimeFrames)
	mapping := cs.binMapping(stftResult.FreqBins, stftResult.FreqResolution)

	for t := 0; t < stftResult.TimeFrames; t++ {
		chromagram[t] = make([]float64, NumBins)

		for f := 0; f < stftResult.FreqBins; f++ {
			bin := mapping[f]
			if bin < 0 {
				continue
			}
			mag := stftResult.Magnitude[t][f]
			chromagram[t][bin] += mag * mag
		}

		normalizeFrame(chromagram[t])
	}

	return chromagram
}

// MeanProfile averages a chromagram across time into a 12-element
// pitch-class profile.
func MeanProfile(chromagram [][]float64) []float64 {
	profile := make([]float64, NumBins)
	if len(chromagram) == 0 {
		return profile
	}

	for t := range chromagram {
		for bin := range chromagram[t] {
			profile[bin] += chromagram[t][bin]
		}
	}
	for bin := range profile {
		profile[bin] /= float64(len(chromagram))
	}

	return profile
}

// binMapping maps each FFT bin to a pitch class, or -1 outside the band
func (cs *ChromaSTFT) binMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := 0; f < freqBins; f++ {
		frequency := float64(f) * freqResolution

		if frequency < cs.minFreq || frequency > cs.maxFreq {
			mapping[f] = -1
			continue
		}

		midiNote := 69.0 + 12.0*math.Log2(frequency/cs.tuningFreq)
		mapping[f] = ((int(math.Round(midiNote)) % NumBins) + NumBins) % NumBins
	}

	return mapping
}

func normalizeFrame(frame []float64) {
	total := 0.0
	for _, energy := range frame {
		total += energy
	}
	if total > 1e-10 {
		for i := range frame {
			frame[i] /= total
		}
	}
}

package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"
)

// STFT provides Short-Time Fourier Transform analysis over sliding,
// overlapping frames. Only the magnitude spectrogram is retained; the
// downstream chroma, cepstral and tempo stages never need phase.
type STFT struct {
	fft *FFT
}

// STFTResult holds the magnitude spectrogram and the framing it was
// computed with.
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	FrameRate      float64     `json:"frame_rate"`      // Frames per second
}

// Window is a windowing function that can be applied to a frame in place.
type Window interface {
	ApplyInPlace(signal []float64) error
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// Compute computes the magnitude STFT of signal. Frames are processed in
// parallel; each worker writes to disjoint rows of the output matrix, so
// the result is deterministic.
func (s *STFT) Compute(signal []float64, windowSize, hopSize, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}
	if len(signal) < windowSize {
		return nil, fmt.Errorf("signal too short: %d samples, need at least one window of %d", len(signal), windowSize)
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		magnitude[i] = make([]float64, freqBins)
	}

	numWorkers := workerCount(numFrames)
	frames := make(chan int, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Per-worker frame buffer, reused across frames
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range frames {
				start := frameIdx * hopSize
				copy(frameBuffer, signal[start:start+windowSize])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						continue
					}
				}

				spectrum := s.fft.Compute(frameBuffer)
				for i := 0; i < freqBins; i++ {
					magnitude[frameIdx][i] = cmplx.Abs(spectrum[i])
				}
			}
		}()
	}

	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		frames <- frameIdx
	}
	close(frames)
	wg.Wait()

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		FrameRate:      float64(sampleRate) / float64(hopSize),
	}, nil
}

// workerCount sizes the worker pool to the workload
func workerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}

package spectral

// ZeroCrossingRate calculates the rate of waveform sign changes. High
// values indicate noisy or percussive content, low values tonal content.
// This operates on the raw waveform, not the spectrum; it lives here
// because it is framed with the same window and hop as the spectral
// features.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossingRate creates a calculator with the given framing
func NewZeroCrossingRate(frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// Compute calculates the normalized ZCR (0-1) for a single frame: the
// fraction of sample transitions that change sign.
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame)-1)
}

// ComputeFrames calculates normalized ZCR over overlapping frames of a signal
func (zcr *ZeroCrossingRate) ComputeFrames(signal []float64) []float64 {
	if len(signal) < zcr.frameSize || zcr.frameSize <= 0 || zcr.hopSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-zcr.frameSize)/zcr.hopSize + 1
	zcrValues := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * zcr.hopSize
		zcrValues[i] = zcr.Compute(signal[start : start+zcr.frameSize])
	}

	return zcrValues
}

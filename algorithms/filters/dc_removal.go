package filters

import (
	"math"
)

// DCRemoval is a first-order DC blocking filter:
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// A DC offset in decoded PCM would otherwise leak a spurious 0 Hz
// component into every spectral frame and bias the zero-crossing rate.
type DCRemoval struct {
	poleLocation float64 // R parameter (0 < R < 1)

	x1 float64 // Previous input sample
	y1 float64 // Previous output sample
}

// NewDCRemoval creates a DC removal filter with a pole at 0.995, giving a
// cutoff of roughly 8 Hz at 44.1 kHz.
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{poleLocation: 0.995}
}

// NewDCRemovalWithCutoff creates a DC removal filter with the pole placed
// for the requested -3dB cutoff frequency.
func NewDCRemovalWithCutoff(sampleRate int, cutoffFreq float64) *DCRemoval {
	r := 1.0 - 2.0*math.Pi*cutoffFreq/float64(sampleRate)
	if r <= 0 || r >= 1 {
		r = 0.995
	}
	return &DCRemoval{poleLocation: r}
}

// Process filters a buffer, returning a new slice. Filter state carries
// across calls; use Reset between unrelated signals.
func (dc *DCRemoval) Process(signal []float64) []float64 {
	out := make([]float64, len(signal))

	for i, x := range signal {
		y := x - dc.x1 + dc.poleLocation*dc.y1
		dc.x1 = x
		dc.y1 = y
		out[i] = y
	}

	return out
}

// Reset clears the filter state
func (dc *DCRemoval) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

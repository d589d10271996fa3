package temporal

import (
	"math"
	"testing"
)

// makeClickTrack synthesizes decaying click transients at the given tempo
func makeClickTrack(bpm float64, sampleRate, numSamples int) []float64 {
	signal := make([]float64, numSamples)
	interval := int(60.0 / bpm * float64(sampleRate))

	for start := 0; start < numSamples; start += interval {
		for i := 0; i < 256 && start+i < numSamples; i++ {
			decay := math.Exp(-float64(i) / 32.0)
			signal[start+i] += decay * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
		}
	}

	return signal
}

func TestTempoEstimation_ClickTrack(t *testing.T) {
	sampleRate := 22050
	for _, bpm := range []float64{90.0, 120.0} {
		signal := makeClickTrack(bpm, sampleRate, 8*sampleRate)

		te := NewTempoEstimation()
		got, err := te.Estimate(signal, sampleRate)
		if err != nil {
			t.Fatalf("bpm %.0f: unexpected error: %v", bpm, err)
		}

		if math.Abs(got-bpm) > 8.0 {
			t.Errorf("expected ~%.0f BPM, got %.2f", bpm, got)
		}
		t.Logf("target %.0f BPM, estimated %.2f BPM", bpm, got)
	}
}

func TestTempoEstimation_ShortSignal(t *testing.T) {
	te := NewTempoEstimation()
	if _, err := te.Estimate(make([]float64, 100), 22050); err == nil {
		t.Error("expected error for signal shorter than one analysis window")
	}
}

func TestTempoEstimation_Silence(t *testing.T) {
	te := NewTempoEstimation()
	if _, err := te.Estimate(make([]float64, 4*22050), 22050); err == nil {
		t.Error("expected error for silent signal with no periodicity")
	}
}

func TestReconcile(t *testing.T) {
	te := NewTempoEstimation()

	// Close estimates: the primary wins
	if got := te.Reconcile(128, 132); got != 128 {
		t.Errorf("expected 128, got %v", got)
	}
	if got := te.Reconcile(100, 120); got != 100 {
		t.Errorf("difference of exactly 20 keeps the primary, got %v", got)
	}

	// Sharp disagreement: likely octave error, average the two
	if got := te.Reconcile(130, 100); got != 115 {
		t.Errorf("expected 115, got %v", got)
	}
	if got := te.Reconcile(60, 120); got != 90 {
		t.Errorf("expected 90, got %v", got)
	}
}

func TestTempoParams_Defaults(t *testing.T) {
	p := DefaultTempoParams()
	if p.WindowSize != 2048 || p.HopSize != 512 {
		t.Errorf("unexpected framing defaults: %d/%d", p.WindowSize, p.HopSize)
	}
	if p.MinBPM != 40 || p.MaxBPM != 240 {
		t.Errorf("unexpected BPM range: %.0f-%.0f", p.MinBPM, p.MaxBPM)
	}

	// Nonsense params fall back to defaults instead of failing
	te := NewTempoEstimationWithParams(TempoParams{MinBPM: -1, MaxBPM: -1})
	if te.minBPM != 40 || te.maxBPM != 240 {
		t.Errorf("expected default BPM range, got %.0f-%.0f", te.minBPM, te.maxBPM)
	}
}

func TestAutocorrelate(t *testing.T) {
	// Period-4 signal: autocorrelation peaks at lag 4
	x := make([]float64, 64)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(i) / 4.0)
	}

	ac := autocorrelate(x, 16)
	if len(ac) != 16 {
		t.Fatalf("expected 16 lags, got %d", len(ac))
	}
	if ac[0] != 1.0 {
		t.Errorf("expected lag 0 normalized to 1, got %v", ac[0])
	}
	if ac[4] < 0.8 {
		t.Errorf("expected strong correlation at lag 4, got %v", ac[4])
	}
	if ac[2] > 0 {
		t.Errorf("expected anticorrelation at half period, got %v", ac[2])
	}

	if got := autocorrelate(x, 0); len(got) != 0 {
		t.Errorf("expected empty result for zero maxLag, got %d", len(got))
	}
}

func TestEstimateEnergyBPM_ShortSignal(t *testing.T) {
	te := NewTempoEstimation()
	if got := te.EstimateEnergyBPM(make([]float64, 50), 22050); got != 0 {
		t.Errorf("expected 0 for too-short signal, got %v", got)
	}
}

package analysis

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// aMajorFreqs are the tones of one octave of the A major scale
var aMajorFreqs = []float64{440.00, 493.88, 554.37, 587.33, 659.26, 739.99, 830.61}

// makeTestTrack synthesizes an A major scale mixture with click transients
// at the given tempo. Tonal content pins the key, clicks pin the tempo.
func makeTestTrack(bpm float64, sampleRate, numSamples int) []float64 {
	signal := make([]float64, numSamples)

	for _, freq := range aMajorFreqs {
		amp := 0.1
		if freq == 440.00 {
			amp = 0.2 // tonic carries the most energy
		}
		for i := range signal {
			signal[i] += amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		}
	}

	interval := int(60.0 / bpm * float64(sampleRate))
	for start := 0; start < numSamples; start += interval {
		for i := 0; i < 256 && start+i < numSamples; i++ {
			decay := math.Exp(-float64(i) / 32.0)
			signal[start+i] += decay * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
		}
	}

	return signal
}

func TestAnalyze_EndToEnd(t *testing.T) {
	sampleRate := 22050
	signal := makeTestTrack(120, sampleRate, 5*sampleRate)

	result, err := New().Analyze(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.BPM-120) > 10 {
		t.Errorf("expected ~120 BPM, got %.2f", result.BPM)
	}
	if result.Key != "A" {
		t.Errorf("expected key A, got %s", result.Key)
	}

	// The label must agree with the classifier applied to the features
	expected := ClassifyGenre(result.Features.BPM, result.Features.SpectralCentroidMean, result.Features.ZCRMean)
	if result.Genre != expected {
		t.Errorf("genre %q inconsistent with features, expected %q", result.Genre, expected)
	}

	// Reported BPM is rounded to two decimals
	if math.Abs(result.BPM*100-math.Round(result.BPM*100)) > 1e-9 {
		t.Errorf("expected BPM rounded to two decimals, got %v", result.BPM)
	}

	if len(result.Features.MFCCMean) != 13 || len(result.Features.MFCCStd) != 13 {
		t.Errorf("expected 13 MFCC summary coefficients, got %d/%d",
			len(result.Features.MFCCMean), len(result.Features.MFCCStd))
	}
	if result.Features.SpectralCentroidMean <= 0 {
		t.Errorf("expected positive centroid mean, got %v", result.Features.SpectralCentroidMean)
	}
	if result.Features.ZCRMean <= 0 || result.Features.ZCRMean >= 1 {
		t.Errorf("expected ZCR mean in (0,1), got %v", result.Features.ZCRMean)
	}
	if result.Features.Key != result.Key || result.Features.BPM <= 0 {
		t.Error("feature vector should carry the detected key and tempo")
	}

	t.Logf("bpm=%.2f key=%s genre=%s centroid=%.0f", result.BPM, result.Key, result.Genre, result.Features.SpectralCentroidMean)
}

func TestAnalyze_Deterministic(t *testing.T) {
	sampleRate := 22050
	signal := makeTestTrack(100, sampleRate, 4*sampleRate)

	analyzer := New()
	first, err := analyzer.Analyze(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := analyzer.Analyze(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis of the same buffer produced different results")
	}
}

func TestAnalyze_InputErrors(t *testing.T) {
	analyzer := New()

	_, err := analyzer.Analyze(nil, 22050)
	if kind, ok := KindOf(err); !ok || kind != KindInput {
		t.Errorf("expected input error for empty buffer, got %v", err)
	}

	_, err = analyzer.Analyze(make([]float64, 1000), 0)
	if kind, ok := KindOf(err); !ok || kind != KindInput {
		t.Errorf("expected input error for invalid sample rate, got %v", err)
	}
}

func TestAnalyze_ShortBuffer(t *testing.T) {
	// Shorter than one analysis window: the frontend cannot run
	_, err := New().Analyze(make([]float64, 1000), 22050)
	if kind, ok := KindOf(err); !ok || kind != KindTransform {
		t.Errorf("expected transform error for short buffer, got %v", err)
	}

	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatal("expected a typed analysis error")
	}
	if ae.Stage != StageFrontend {
		t.Errorf("expected stage %q, got %q", StageFrontend, ae.Stage)
	}
	if ae.Unwrap() == nil {
		t.Error("expected a wrapped cause")
	}
}

func TestAnalyze_Silence(t *testing.T) {
	// Silence has no periodicity to estimate a tempo from
	_, err := New().Analyze(make([]float64, 3*22050), 22050)
	if kind, ok := KindOf(err); !ok || kind != KindEstimation {
		t.Errorf("expected estimation error for silence, got %v", err)
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	if _, ok := KindOf(errors.New("unrelated")); ok {
		t.Error("expected false for a non-pipeline error")
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	def := DefaultConfig()

	if !reflect.DeepEqual(cfg, def) {
		t.Errorf("zero config should fill to defaults: %+v vs %+v", cfg, def)
	}
	if def.WindowSize != 2048 || def.HopSize != 512 || def.MFCCCoefficients != 13 {
		t.Errorf("unexpected defaults: %+v", def)
	}
}

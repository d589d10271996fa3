package spectral

import (
	"math"
	"testing"

	"github.com/tempokey/tempokey/algorithms/windowing"
)

func TestMelScale_Roundtrip(t *testing.T) {
	ms := NewMelScale()

	for _, hz := range []float64{0, 100, 440, 1000, 8000, 22050} {
		back := ms.MelToHz(ms.HzToMel(hz))
		if math.Abs(back-hz) > 1e-6 {
			t.Errorf("roundtrip of %.1f Hz gave %.6f Hz", hz, back)
		}
	}

	// 1000 Hz is the classic ~1000 mel anchor point
	if mel := ms.HzToMel(1000); math.Abs(mel-999.99) > 1.0 {
		t.Errorf("expected ~1000 mel for 1000 Hz, got %.2f", mel)
	}
}

func TestMelScale_FilterBank(t *testing.T) {
	ms := NewMelScale()
	numFilters := 26
	fftSize := 2048
	sampleRate := 44100

	bank := ms.CreateFilterBank(numFilters, fftSize, sampleRate, 0, float64(sampleRate)/2)
	if len(bank) != numFilters {
		t.Fatalf("expected %d filters, got %d", numFilters, len(bank))
	}
	for i, filter := range bank {
		if len(filter) != fftSize/2+1 {
			t.Fatalf("filter %d: expected %d taps, got %d", i, fftSize/2+1, len(filter))
		}
		for k, v := range filter {
			if v < 0 || v > 1 {
				t.Fatalf("filter %d tap %d out of [0,1]: %v", i, k, v)
			}
		}
	}

	if got := ms.CreateFilterBank(0, fftSize, sampleRate, 0, 22050); got != nil {
		t.Error("expected nil bank for zero filters")
	}
}

func TestMFCC_ComputeFrames(t *testing.T) {
	sampleRate := 22050
	signal := makeNoise(sampleRate, 3)

	stft := NewSTFT()
	result, err := stft.Compute(signal, 2048, 512, sampleRate, windowing.NewHann(2048, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mfcc := NewMFCC(sampleRate, 13)
	frames, err := mfcc.ComputeFrames(result.Magnitude)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(frames) != result.TimeFrames {
		t.Errorf("expected %d frames, got %d", result.TimeFrames, len(frames))
	}
	for i, coeffs := range frames {
		if len(coeffs) != 13 {
			t.Fatalf("frame %d: expected 13 coefficients, got %d", i, len(coeffs))
		}
		for k, c := range coeffs {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				t.Fatalf("frame %d coefficient %d is not finite: %v", i, k, c)
			}
		}
	}

	if mfcc.NumCoefficients() != 13 {
		t.Errorf("expected 13 coefficients, got %d", mfcc.NumCoefficients())
	}
}

func TestMFCC_Defaults(t *testing.T) {
	m := NewMFCCWithParams(44100, MFCCParams{})
	if m.NumCoefficients() != 13 {
		t.Errorf("expected default of 13 coefficients, got %d", m.NumCoefficients())
	}
}

func TestMFCC_InvalidInput(t *testing.T) {
	mfcc := NewMFCC(44100, 13)

	if _, err := mfcc.Compute(nil); err == nil {
		t.Error("expected error for empty spectrum")
	}
	if _, err := mfcc.ComputeFrames(nil); err == nil {
		t.Error("expected error for empty spectrogram")
	}
	if err := mfcc.Initialize(0); err == nil {
		t.Error("expected error for invalid FFT size")
	}
}

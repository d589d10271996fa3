package windowing

import (
	"math"
	"testing"
)

func TestHann_Periodic(t *testing.T) {
	h := NewHann(8, false)

	coeffs := h.Coefficients()
	if len(coeffs) != 8 {
		t.Fatalf("expected 8 coefficients, got %d", len(coeffs))
	}

	// Periodic form: w[0] = 0, and the implicit w[N] would wrap back to 0.
	// The midpoint hits the full raised cosine.
	if coeffs[0] != 0 {
		t.Errorf("expected w[0] = 0, got %v", coeffs[0])
	}
	if math.Abs(coeffs[4]-1.0) > 1e-12 {
		t.Errorf("expected w[N/2] = 1, got %v", coeffs[4])
	}
	if math.Abs(coeffs[7]) < 1e-12 {
		t.Errorf("periodic window should not end at zero, got %v", coeffs[7])
	}
}

func TestHann_Symmetric(t *testing.T) {
	h := NewHann(9, true)
	coeffs := h.Coefficients()

	if coeffs[0] != 0 || math.Abs(coeffs[8]) > 1e-12 {
		t.Errorf("symmetric window should be zero at both ends, got %v and %v", coeffs[0], coeffs[8])
	}
	for i := 0; i < 4; i++ {
		if math.Abs(coeffs[i]-coeffs[8-i]) > 1e-12 {
			t.Errorf("symmetry broken at index %d: %v vs %v", i, coeffs[i], coeffs[8-i])
		}
	}
}

func TestHann_ApplyInPlace(t *testing.T) {
	h := NewHann(4, false)

	signal := []float64{1, 1, 1, 1}
	if err := h.ApplyInPlace(signal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := h.Coefficients()
	for i := range signal {
		if math.Abs(signal[i]-expected[i]) > 1e-12 {
			t.Errorf("index %d: expected %v, got %v", i, expected[i], signal[i])
		}
	}

	if err := h.ApplyInPlace([]float64{1, 2}); err == nil {
		t.Error("expected error for mismatched signal length")
	}
}

func TestHann_CoefficientsCopy(t *testing.T) {
	h := NewHann(16, false)

	coeffs := h.Coefficients()
	coeffs[3] = 99.0

	if h.Coefficients()[3] == 99.0 {
		t.Error("Coefficients should return a copy, not the internal slice")
	}
}

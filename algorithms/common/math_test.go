package common

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

func TestPopStdDev(t *testing.T) {
	// Population std of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := PopStdDev(data); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected 2.0, got %v", got)
	}

	// Short inputs reduce to zero spread, never NaN
	if got := PopStdDev([]float64{3.7}); got != 0 {
		t.Errorf("expected 0 for single element, got %v", got)
	}
	if got := PopStdDev(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	if got := Correlation(x, x); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("self correlation should be 1, got %v", got)
	}

	inverted := []float64{5, 4, 3, 2, 1}
	if got := Correlation(x, inverted); math.Abs(got+1.0) > 1e-12 {
		t.Errorf("inverted correlation should be -1, got %v", got)
	}

	// Degenerate inputs: length mismatch and constant series
	if got := Correlation(x, []float64{1, 2}); got != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %v", got)
	}
	if got := Correlation(x, []float64{7, 7, 7, 7, 7}); got != 0 {
		t.Errorf("expected 0 for constant series, got %v", got)
	}
}

func TestRemoveMean(t *testing.T) {
	data := []float64{1, 2, 3}
	out := RemoveMean(data)

	if math.Abs(Mean(out)) > 1e-12 {
		t.Errorf("mean after removal should be 0, got %v", Mean(out))
	}
	if data[0] != 1 {
		t.Error("RemoveMean must not mutate its input")
	}
}

func TestParabolicPeak(t *testing.T) {
	// Symmetric peak: no offset
	if got := ParabolicPeak([]float64{1, 3, 1}, 1); got != 0 {
		t.Errorf("expected 0 offset for symmetric peak, got %v", got)
	}

	// Right neighbor higher: true peak lies right of the index
	if got := ParabolicPeak([]float64{1, 3, 2}, 1); got <= 0 || got > 0.5 {
		t.Errorf("expected offset in (0, 0.5], got %v", got)
	}

	// Edge indices cannot be refined
	if got := ParabolicPeak([]float64{3, 1, 1}, 0); got != 0 {
		t.Errorf("expected 0 at edge, got %v", got)
	}
	if got := ParabolicPeak([]float64{1, 1, 3}, 2); got != 0 {
		t.Errorf("expected 0 at edge, got %v", got)
	}
}

func TestMaxAbs(t *testing.T) {
	if got := MaxAbs([]float64{0.5, -2.5, 1.0}); got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
	if got := MaxAbs(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := Clamp(0.3, 0, 1); got != 0.3 {
		t.Errorf("expected 0.3, got %v", got)
	}
}

package temporal

import (
	"math"
	"testing"
)

func TestEnvelope_ComputeRMS(t *testing.T) {
	e := NewEnvelope()

	// A full-scale square wave has RMS 1 in every frame
	signal := make([]float64, 1000)
	for i := range signal {
		if i%2 == 0 {
			signal[i] = 1
		} else {
			signal[i] = -1
		}
	}

	envelope := e.ComputeRMS(signal, 100, 50)
	expectedFrames := (len(signal)-100)/50 + 1
	if len(envelope) != expectedFrames {
		t.Fatalf("expected %d frames, got %d", expectedFrames, len(envelope))
	}
	for i, v := range envelope {
		if math.Abs(v-1.0) > 1e-12 {
			t.Errorf("frame %d: expected RMS 1, got %v", i, v)
		}
	}

	if got := e.ComputeRMS(make([]float64, 10), 100, 50); len(got) != 0 {
		t.Errorf("expected no frames for short signal, got %d", len(got))
	}
}

func TestEnvelope_ComputePeak(t *testing.T) {
	e := NewEnvelope()

	signal := make([]float64, 200)
	signal[50] = -0.8
	signal[150] = 0.3

	envelope := e.ComputePeak(signal, 100, 100)
	if len(envelope) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(envelope))
	}
	if envelope[0] != 0.8 {
		t.Errorf("expected peak 0.8 in first frame, got %v", envelope[0])
	}
	if envelope[1] != 0.3 {
		t.Errorf("expected peak 0.3 in second frame, got %v", envelope[1])
	}
}

func TestOnsetStrength_ClickTrack(t *testing.T) {
	sampleRate := 22050
	signal := makeClickTrack(120, sampleRate, 4*sampleRate)

	os := NewOnsetStrength(2048, 512)
	envelope, frameRate, err := os.Compute(signal, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(frameRate-float64(sampleRate)/512.0) > 1e-9 {
		t.Errorf("unexpected frame rate %v", frameRate)
	}
	if len(envelope) == 0 {
		t.Fatal("expected a non-empty envelope")
	}

	// The envelope must spike: its max should dwarf its mean
	maxVal := 0.0
	for _, v := range envelope {
		if v > maxVal {
			maxVal = v
		}
	}
	mean := 0.0
	for _, v := range envelope {
		mean += v
	}
	mean /= float64(len(envelope))

	if maxVal < 4*mean {
		t.Errorf("expected peaky onset envelope, max %v vs mean %v", maxVal, mean)
	}
}

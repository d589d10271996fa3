package tonal

import (
	"fmt"

	"github.com/tempokey/tempokey/algorithms/chroma"
	"github.com/tempokey/tempokey/algorithms/common"
)

// majorProfile marks the diatonic scale degrees of C major. Rotating it by
// n semitones yields the profile of the major key n semitones above C.
var majorProfile = []float64{1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1}

// keyTemplates holds one rotated profile per candidate root, built once at
// process start and treated as read-only.
var keyTemplates = buildKeyTemplates()

func buildKeyTemplates() [][]float64 {
	templates := make([][]float64, chroma.NumBins)
	for root := 0; root < chroma.NumBins; root++ {
		template := make([]float64, chroma.NumBins)
		for i := range template {
			template[i] = majorProfile[((i-root)%chroma.NumBins+chroma.NumBins)%chroma.NumBins]
		}
		templates[root] = template
	}
	return templates
}

// KeyEstimator estimates the musical key of a chromagram by correlating
// its averaged pitch-class profile against the 12 rotations of the major
// diatonic template. Only major keys are modeled; a minor key resolves to
// its best-matching major, usually the relative major. That limitation is
// intentional and should not be papered over with extra templates.
type KeyEstimator struct {
	templates [][]float64
}

// NewKeyEstimator creates a key estimator sharing the process-wide
// rotation templates.
func NewKeyEstimator() *KeyEstimator {
	return &KeyEstimator{templates: keyTemplates}
}

// Estimate returns the pitch-class name of the best-matching major key for
// a time x 12 chromagram.
func (ke *KeyEstimator) Estimate(chromagram [][]float64) (string, error) {
	if len(chromagram) == 0 {
		return "", fmt.Errorf("empty chromagram")
	}

	profile := chroma.MeanProfile(chromagram)
	root, err := ke.EstimateProfile(profile)
	if err != nil {
		return "", err
	}

	return chroma.PitchClassNames[root], nil
}

// EstimateProfile returns the rotation index (0=C .. 11=B) whose template
// best correlates with a 12-element pitch-class profile. Exact correlation
// ties resolve to the lowest rotation index; the scan uses a strict
// greater-than so the result is deterministic.
func (ke *KeyEstimator) EstimateProfile(profile []float64) (int, error) {
	if len(profile) != chroma.NumBins {
		return 0, fmt.Errorf("profile must have %d bins, got %d", chroma.NumBins, len(profile))
	}

	bestRoot := 0
	bestCorr := common.Correlation(profile, ke.templates[0])

	for root := 1; root < chroma.NumBins; root++ {
		corr := common.Correlation(profile, ke.templates[root])
		if corr > bestCorr {
			bestRoot = root
			bestCorr = corr
		}
	}

	return bestRoot, nil
}

// CorrelationScores returns the correlation of a profile with each of the
// 12 key templates, indexed by rotation.
func (ke *KeyEstimator) CorrelationScores(profile []float64) ([]float64, error) {
	if len(profile) != chroma.NumBins {
		return nil, fmt.Errorf("profile must have %d bins, got %d", chroma.NumBins, len(profile))
	}

	scores := make([]float64, chroma.NumBins)
	for root := range ke.templates {
		scores[root] = common.Correlation(profile, ke.templates[root])
	}

	return scores, nil
}

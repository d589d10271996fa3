package analysis

import (
	"fmt"

	"github.com/tempokey/tempokey/algorithms/common"
)

// FeatureVector is the fixed-size summary of an analyzed clip. Field
// names in JSON match the feature dictionary the result consumers expect.
// Immutable once built; BPM here keeps full precision while Result.BPM is
// rounded for display.
type FeatureVector struct {
	BPM                  float64   `json:"bpm"`
	Key                  string    `json:"key"`
	MFCCMean             []float64 `json:"mfcc_mean"`
	MFCCStd              []float64 `json:"mfcc_std"`
	SpectralCentroidMean float64   `json:"spectral_centroid_mean"`
	SpectralCentroidStd  float64   `json:"spectral_centroid_std"`
	ZCRMean              float64   `json:"zcr_mean"`
	ZCRStd               float64   `json:"zcr_std"`
	RolloffMean          float64   `json:"rolloff_mean"`
	RolloffStd           float64   `json:"rolloff_std"`
}

// aggregate reduces the frontend's frame-level matrices to summary
// statistics: elementwise mean and population standard deviation across
// the time axis. Pure reduction, no other failure mode than empty input.
func aggregate(frontend *FrontendResult) (FeatureVector, error) {
	if frontend == nil || frontend.TimeFrames == 0 {
		return FeatureVector{}, fmt.Errorf("no frames to aggregate")
	}
	if len(frontend.MFCC) == 0 || len(frontend.MFCC[0]) == 0 {
		return FeatureVector{}, fmt.Errorf("empty MFCC matrix")
	}

	numCoeffs := len(frontend.MFCC[0])
	mfccMean := make([]float64, numCoeffs)
	mfccStd := make([]float64, numCoeffs)

	column := make([]float64, len(frontend.MFCC))
	for c := 0; c < numCoeffs; c++ {
		for t := range frontend.MFCC {
			column[t] = frontend.MFCC[t][c]
		}
		mfccMean[c] = common.Mean(column)
		mfccStd[c] = common.PopStdDev(column)
	}

	return FeatureVector{
		MFCCMean:             mfccMean,
		MFCCStd:              mfccStd,
		SpectralCentroidMean: common.Mean(frontend.Centroid),
		SpectralCentroidStd:  common.PopStdDev(frontend.Centroid),
		ZCRMean:              common.Mean(frontend.ZCR),
		ZCRStd:               common.PopStdDev(frontend.ZCR),
		RolloffMean:          common.Mean(frontend.Rolloff),
		RolloffStd:           common.PopStdDev(frontend.Rolloff),
	}, nil
}

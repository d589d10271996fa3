package analysis

// Result is the outcome of one successful analysis call. BPM is rounded
// to two decimal places for display; Features.BPM keeps full precision.
// Results are created once per call and never retained by the pipeline.
type Result struct {
	Key      string        `json:"key"`
	BPM      float64       `json:"bpm"`
	Genre    string        `json:"genre"`
	Features FeatureVector `json:"features"`
}

package analysis

// Config holds the analysis parameters. Every frame-level representation
// shares the same window and hop so the derived matrices line up in time.
type Config struct {
	WindowSize       int     `json:"window_size"`       // STFT window size in samples
	HopSize          int     `json:"hop_size"`          // Hop between frames in samples
	MFCCCoefficients int     `json:"mfcc_coefficients"` // Cepstral coefficients per frame
	MelFilters       int     `json:"mel_filters"`       // Mel filter bank size
	RolloffThreshold float64 `json:"rolloff_threshold"` // Energy fraction for spectral rolloff
	TuningFreq       float64 `json:"tuning_freq"`       // A4 reference for chroma folding
	MinBPM           float64 `json:"min_bpm"`           // Lower tempo search bound
	MaxBPM           float64 `json:"max_bpm"`           // Upper tempo search bound
}

// DefaultConfig returns the standard analysis configuration
func DefaultConfig() Config {
	return Config{
		WindowSize:       2048,
		HopSize:          512,
		MFCCCoefficients: 13,
		MelFilters:       26,
		RolloffThreshold: 0.85,
		TuningFreq:       440.0,
		MinBPM:           40.0,
		MaxBPM:           240.0,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.HopSize <= 0 {
		c.HopSize = d.HopSize
	}
	if c.MFCCCoefficients <= 0 {
		c.MFCCCoefficients = d.MFCCCoefficients
	}
	if c.MelFilters <= 0 {
		c.MelFilters = d.MelFilters
	}
	if c.RolloffThreshold <= 0 || c.RolloffThreshold > 1 {
		c.RolloffThreshold = d.RolloffThreshold
	}
	if c.TuningFreq <= 0 {
		c.TuningFreq = d.TuningFreq
	}
	if c.MinBPM <= 0 {
		c.MinBPM = d.MinBPM
	}
	if c.MaxBPM <= c.MinBPM {
		c.MaxBPM = d.MaxBPM
	}
	return c
}

package screening

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Record is the per-recording analysis result: whole-signal scalar
// statistics plus the flat cepstral feature set, stamped at analysis
// time. Records are immutable once produced and are the only input the
// classifier reads.
type Record struct {
	Duration         float64   `json:"duration"`           // Recording length in seconds
	RMS              float64   `json:"rms"`                // Root-mean-square energy
	ZeroCrossingRate float64   `json:"zero_crossing_rate"` // Sign-change fraction in [0, 1]
	SpectralCentroid float64   `json:"spectral_centroid"`  // Whole-signal centroid in Hz
	MFCC             []float64 `json:"mfcc"`               // Flat feature set, frame-major
	NumFrames        int       `json:"num_frames"`         // Frames in the feature set
	NumCoefficients  int       `json:"num_coefficients"`   // Coefficients per frame
	SampleRate       int       `json:"sample_rate"`        // Source sample rate in Hz
	Timestamp        time.Time `json:"timestamp"`          // When the analysis ran
}

// CoefficientStat summarizes one cepstral coefficient across all frames.
type CoefficientStat struct {
	Coefficient int     `json:"coefficient"`
	Mean        float64 `json:"mean"`
	Variance    float64 `json:"variance"`
}

// CoefficientStats returns the per-coefficient mean and sample variance
// across frames, or nil when the record holds no frames. Single-frame
// records report zero variance.
func (r *Record) CoefficientStats() []CoefficientStat {
	if r == nil || r.NumFrames == 0 || r.NumCoefficients == 0 {
		return nil
	}

	stats := make([]CoefficientStat, r.NumCoefficients)
	values := make([]float64, r.NumFrames)

	for c := 0; c < r.NumCoefficients; c++ {
		for f := 0; f < r.NumFrames; f++ {
			values[f] = r.MFCC[f*r.NumCoefficients+c]
		}

		variance := 0.0
		if r.NumFrames > 1 {
			variance = stat.Variance(values, nil)
		}

		stats[c] = CoefficientStat{
			Coefficient: c,
			Mean:        stat.Mean(values, nil),
			Variance:    variance,
		}
	}

	return stats
}

package temporal

import (
	"math"
)

// RMS computes root-mean-square energy over a whole signal.
type RMS struct {
	// No state needed - stateless calculation
}

// NewRMS creates a new RMS calculator
func NewRMS() *RMS {
	return &RMS{}
}

// Compute returns sqrt(mean(x²)) for the signal, or 0 for an empty signal
func (r *RMS) Compute(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, sample := range signal {
		sumSquares += sample * sample
	}

	return math.Sqrt(sumSquares / float64(len(signal)))
}

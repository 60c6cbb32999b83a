package filters

import (
	"fmt"
)

// DefaultPreEmphasisCoefficient is the standard speech-processing value.
const DefaultPreEmphasisCoefficient = 0.97

// PreEmphasis implements the first-order high-pass filter applied ahead
// of spectral feature extraction:
//
//	y[n] = x[n] - coefficient*x[n-1]
//
// A fresh (or Reset) filter treats x[-1] as 0, so the first output
// sample passes through unchanged.
type PreEmphasis struct {
	coefficient float64 // Filter coefficient, strictly between 0 and 1
	lastSample  float64 // Previous input sample x[n-1]
}

// NewPreEmphasis creates a pre-emphasis filter with the given coefficient
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient <= 0.0 || coefficient >= 1.0 {
		return nil, fmt.Errorf("pre-emphasis coefficient must be between 0 and 1, got %f", coefficient)
	}

	return &PreEmphasis{coefficient: coefficient}, nil
}

// NewPreEmphasisDefault creates a pre-emphasis filter with the standard
// coefficient (0.97)
func NewPreEmphasisDefault() *PreEmphasis {
	return &PreEmphasis{coefficient: DefaultPreEmphasisCoefficient}
}

// Process applies pre-emphasis filtering to a single sample
func (pe *PreEmphasis) Process(input float64) float64 {
	output := input - pe.coefficient*pe.lastSample
	pe.lastSample = input
	return output
}

// ProcessBuffer applies pre-emphasis to an entire buffer of samples
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

// Reset clears the filter state. Call this between discontinuous
// audio segments.
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0.0
}

// GetCoefficient returns the filter coefficient
func (pe *PreEmphasis) GetCoefficient() float64 {
	return pe.coefficient
}

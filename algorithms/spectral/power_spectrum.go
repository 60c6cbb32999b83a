package spectral

import (
	"math"
)

// PowerSpectrum derives per-bin power and magnitude values from the
// interleaved spectrum produced by DFT.Transform. Real input carries
// all of its information in the first half of the bins, so both
// computations keep bins [0, N/2) for an N-sample signal.
type PowerSpectrum struct {
	// No state needed - stateless calculation
}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute computes per-bin power (re² + im²) from an interleaved spectrum
func (ps *PowerSpectrum) Compute(spectrum []float64) []float64 {
	// len/2 complex bins, of which the first half carry information
	numBins := len(spectrum) / 4
	if numBins == 0 {
		return []float64{}
	}

	power := make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		re := spectrum[2*i]
		im := spectrum[2*i+1]
		power[i] = re*re + im*im
	}

	return power
}

// ComputeMagnitude computes per-bin magnitude (sqrt(re² + im²)) from an
// interleaved spectrum
func (ps *PowerSpectrum) ComputeMagnitude(spectrum []float64) []float64 {
	numBins := len(spectrum) / 4
	if numBins == 0 {
		return []float64{}
	}

	magnitude := make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		re := spectrum[2*i]
		im := spectrum[2*i+1]
		magnitude[i] = math.Sqrt(re*re + im*im)
	}

	return magnitude
}

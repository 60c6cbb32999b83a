package spectral

// SpectralCentroid computes the magnitude-weighted average frequency of
// a signal's spectrum. The whole signal is transformed in one shot, with
// no framing, so the centroid reflects the complete recording.
type SpectralCentroid struct {
	sampleRate int
	dft        *DFT
	power      *PowerSpectrum
	freqBins   []float64 // Pre-calculated frequency bins for efficiency
}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid(sampleRate int) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate: sampleRate,
		dft:        NewDFT(),
		power:      NewPowerSpectrum(),
	}
}

// Compute calculates the spectral centroid of a whole signal in Hz
func (sc *SpectralCentroid) Compute(signal []float64) (float64, error) {
	spectrum, err := sc.dft.Transform(signal)
	if err != nil {
		return 0, err
	}

	return sc.ComputeFromMagnitude(sc.power.ComputeMagnitude(spectrum)), nil
}

// ComputeFromMagnitude calculates the centroid over precomputed
// magnitude bins, where bin i of M covers frequency i*sampleRate/(2*M).
// A spectrum with zero total magnitude has no center of mass and
// returns 0.
func (sc *SpectralCentroid) ComputeFromMagnitude(magnitudes []float64) float64 {
	if len(magnitudes) == 0 {
		return 0.0
	}

	if len(sc.freqBins) != len(magnitudes) {
		sc.initializeFreqBins(len(magnitudes))
	}

	weightedSum := 0.0
	magnitudeSum := 0.0

	for i, magnitude := range magnitudes {
		weightedSum += sc.freqBins[i] * magnitude
		magnitudeSum += magnitude
	}

	if magnitudeSum == 0 {
		return 0.0
	}

	return weightedSum / magnitudeSum
}

// initializeFreqBins pre-calculates frequency bins
func (sc *SpectralCentroid) initializeFreqBins(numBins int) {
	sc.freqBins = make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		sc.freqBins[i] = float64(i) * float64(sc.sampleRate) / float64(2*numBins)
	}
}

package spectral

// ZeroCrossingRate calculates the rate of sign changes across a whole
// signal. High ZCR indicates noisy or fricative content, low ZCR
// indicates voiced or tonal content.
type ZeroCrossingRate struct {
	// No state needed - stateless calculation
}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{}
}

// Compute returns the fraction of adjacent sample pairs whose sign
// differs, with zero counted as positive. The crossing count is
// normalized by the total sample count, so the result is in [0, 1).
func (zcr *ZeroCrossingRate) Compute(signal []float64) float64 {
	if len(signal) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(signal); i++ {
		if (signal[i-1] >= 0 && signal[i] < 0) || (signal[i-1] < 0 && signal[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(signal))
}

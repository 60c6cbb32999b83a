package screening

import (
	"fmt"
)

// Waveform is a decoded single-channel recording: float64 samples in a
// nominal [-1, 1] range plus the rate they were captured at. A waveform
// is treated as immutable once decoded; the analyzer only reads it.
type Waveform struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// NewWaveform bundles samples and a sample rate after validating both
func NewWaveform(samples []float64, sampleRate int) (*Waveform, error) {
	w := &Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate reports whether the waveform can be analyzed
func (w *Waveform) Validate() error {
	if w == nil || len(w.Samples) == 0 {
		return fmt.Errorf("%w: empty waveform", ErrInvalidInput)
	}
	if w.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, w.SampleRate)
	}
	return nil
}

// Duration returns the length of the recording in seconds
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0.0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

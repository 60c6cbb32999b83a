package screening

import (
	"fmt"
	"time"

	"github.com/SaminMaharjan/coughai/algorithms/spectral"
	"github.com/SaminMaharjan/coughai/algorithms/temporal"
	"github.com/SaminMaharjan/coughai/logging"
)

// AnalyzerConfig holds configuration for the analysis pipeline
type AnalyzerConfig struct {
	MFCC spectral.MFCCParams `json:"mfcc"`
}

// DefaultAnalyzerConfig returns the fixed parameters the classifier's
// rule thresholds were tuned against
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		MFCC: spectral.DefaultMFCCParams(),
	}
}

// Analyzer turns a decoded waveform into one analysis Record: RMS
// energy, zero-crossing rate, and spectral centroid over the whole
// signal, plus the per-frame cepstral feature set.
type Analyzer struct {
	config *AnalyzerConfig
	mfcc   *spectral.MFCC
	rms    *temporal.RMS
	zcr    *spectral.ZeroCrossingRate
	logger logging.Logger
}

// NewAnalyzer creates an analyzer with the given configuration.
// Pass nil to use defaults.
func NewAnalyzer(config *AnalyzerConfig) (*Analyzer, error) {
	if config == nil {
		config = DefaultAnalyzerConfig()
	}

	mfcc, err := spectral.NewMFCCWithParams(config.MFCC)
	if err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}

	return &Analyzer{
		config: config,
		mfcc:   mfcc,
		rms:    temporal.NewRMS(),
		zcr:    spectral.NewZeroCrossingRate(),
		logger: logging.WithFields(logging.Fields{
			"component": "audio_analyzer",
		}),
	}, nil
}

// Analyze computes one Record for a decoded waveform. A malformed
// waveform fails fast with ErrInvalidInput before any computation runs.
func (a *Analyzer) Analyze(w *Waveform) (*Record, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	logger := a.logger.WithFields(logging.Fields{
		"function":    "Analyze",
		"sample_rate": w.SampleRate,
		"samples":     len(w.Samples),
	})

	logger.Debug("Starting audio analysis")

	// The centroid transforms the entire waveform in one shot, so it
	// dominates analysis time on long recordings
	centroid, err := spectral.NewSpectralCentroid(w.SampleRate).Compute(w.Samples)
	if err != nil {
		logger.Error(err, "Failed to compute spectral centroid")
		return nil, err
	}

	features, err := a.mfcc.Compute(w.Samples)
	if err != nil {
		logger.Error(err, "Failed to extract cepstral features")
		return nil, err
	}

	record := &Record{
		Duration:         w.Duration(),
		RMS:              a.rms.Compute(w.Samples),
		ZeroCrossingRate: a.zcr.Compute(w.Samples),
		SpectralCentroid: centroid,
		MFCC:             features.Features,
		NumFrames:        features.NumFrames,
		NumCoefficients:  features.NumCoefficients,
		SampleRate:       w.SampleRate,
		Timestamp:        time.Now(),
	}

	logger.Debug("Audio analysis completed", logging.Fields{
		"duration":          record.Duration,
		"rms":               record.RMS,
		"zero_crossing":     record.ZeroCrossingRate,
		"spectral_centroid": record.SpectralCentroid,
		"num_frames":        record.NumFrames,
	})

	return record, nil
}

// GetConfig returns the analyzer configuration
func (a *Analyzer) GetConfig() *AnalyzerConfig {
	return a.config
}

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreEmphasisValidation(t *testing.T) {
	tests := []struct {
		coefficient float64
		wantErr     bool
	}{
		{0.97, false},
		{0.5, false},
		{0.0, true},
		{1.0, true},
		{-0.3, true},
		{1.5, true},
	}

	for _, tt := range tests {
		_, err := NewPreEmphasis(tt.coefficient)
		if tt.wantErr {
			assert.Error(t, err, "coefficient %f", tt.coefficient)
		} else {
			assert.NoError(t, err, "coefficient %f", tt.coefficient)
		}
	}
}

func TestPreEmphasisProcessBuffer(t *testing.T) {
	pe := NewPreEmphasisDefault()

	output := pe.ProcessBuffer([]float64{1.0, 2.0, 3.0})

	require.Len(t, output, 3)
	// First sample passes through (x[-1] is 0)
	assert.InDelta(t, 1.0, output[0], 1e-12)
	assert.InDelta(t, 2.0-0.97*1.0, output[1], 1e-12)
	assert.InDelta(t, 3.0-0.97*2.0, output[2], 1e-12)
}

func TestPreEmphasisReset(t *testing.T) {
	pe := NewPreEmphasisDefault()

	first := pe.ProcessBuffer([]float64{0.5, -0.25, 0.75})
	pe.Reset()
	second := pe.ProcessBuffer([]float64{0.5, -0.25, 0.75})

	assert.Equal(t, first, second)
}

func TestPreEmphasisStateCarriesAcrossBuffers(t *testing.T) {
	signal := []float64{0.1, 0.4, -0.2, 0.9, -0.5, 0.3}

	whole := NewPreEmphasisDefault().ProcessBuffer(signal)

	split := NewPreEmphasisDefault()
	combined := append(split.ProcessBuffer(signal[:3]), split.ProcessBuffer(signal[3:])...)

	assert.Equal(t, whole, combined)
}

func TestPreEmphasisGetCoefficient(t *testing.T) {
	pe, err := NewPreEmphasis(0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, pe.GetCoefficient(), 1e-12)

	assert.InDelta(t, DefaultPreEmphasisCoefficient, NewPreEmphasisDefault().GetCoefficient(), 1e-12)
}

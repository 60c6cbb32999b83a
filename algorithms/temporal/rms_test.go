package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRMSCompute(t *testing.T) {
	rms := NewRMS()

	tests := []struct {
		name     string
		signal   []float64
		expected float64
	}{
		{name: "empty", signal: nil, expected: 0.0},
		{name: "all zero", signal: make([]float64, 100), expected: 0.0},
		{name: "constant one", signal: []float64{1, 1, 1, 1}, expected: 1.0},
		{name: "known values", signal: []float64{3, 4}, expected: math.Sqrt(12.5)},
		{name: "sign independent", signal: []float64{-2, 2, -2, 2}, expected: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, rms.Compute(tt.signal), 1e-12)
		})
	}
}

func TestRMSSine(t *testing.T) {
	// Whole cycles of a unit sine settle at 1/sqrt(2)
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 10 * float64(i) / 1000)
	}

	assert.InDelta(t, 1/math.Sqrt2, NewRMS().Compute(signal), 1e-3)
}

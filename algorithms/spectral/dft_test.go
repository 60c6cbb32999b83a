package spectral

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDFTTransformMatchesFFT(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// Mix of power-of-two and awkward sizes, spanning the sequential
	// and parallel paths
	sizes := []int{1, 2, 3, 16, 100, 256, 500, 1024}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			signal := make([]float64, size)
			for i := range signal {
				signal[i] = rng.Float64()*2 - 1
			}

			spectrum, err := NewDFT().Transform(signal)
			require.NoError(t, err)
			require.Len(t, spectrum, 2*size)

			oracle := fft.FFTReal(signal)
			for k, want := range oracle {
				assert.InDelta(t, real(want), spectrum[2*k], 1e-6, "re bin %d", k)
				assert.InDelta(t, imag(want), spectrum[2*k+1], 1e-6, "im bin %d", k)
			}
		})
	}
}

func TestDFTTransformImpulse(t *testing.T) {
	signal := make([]float64, 64)
	signal[0] = 1.0

	spectrum, err := NewDFT().Transform(signal)
	require.NoError(t, err)

	// An impulse at n=0 is flat: every bin is exactly 1+0i
	for k := 0; k < 64; k++ {
		assert.InDelta(t, 1.0, spectrum[2*k], 1e-12, "re bin %d", k)
		assert.InDelta(t, 0.0, spectrum[2*k+1], 1e-12, "im bin %d", k)
	}
}

func TestDFTTransformConstantSignal(t *testing.T) {
	n := 32
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 1.0
	}

	spectrum, err := NewDFT().Transform(signal)
	require.NoError(t, err)

	// All energy lands in bin 0
	assert.InDelta(t, float64(n), spectrum[0], 1e-9)
	assert.InDelta(t, 0.0, spectrum[1], 1e-9)
	for k := 1; k < n; k++ {
		assert.InDelta(t, 0.0, spectrum[2*k], 1e-9, "re bin %d", k)
		assert.InDelta(t, 0.0, spectrum[2*k+1], 1e-9, "im bin %d", k)
	}
}

func TestDFTTransformEmptySignal(t *testing.T) {
	_, err := NewDFT().Transform(nil)
	assert.Error(t, err)

	_, err = NewDFT().Transform([]float64{})
	assert.Error(t, err)
}

func TestDFTParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// Large enough that Transform fans out across workers
	signal := make([]float64, 600)
	for i := range signal {
		signal[i] = rng.Float64()*2 - 1
	}

	dft := NewDFT()

	parallel, err := dft.Transform(signal)
	require.NoError(t, err)

	sequential := make([]float64, 2*len(signal))
	dft.transformBins(signal, sequential, 0, len(signal))

	// Workers compute disjoint bins with identical arithmetic, so the
	// outputs must match bit for bit
	assert.Equal(t, sequential, parallel)
}

package spectral

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// DFT computes the discrete Fourier transform of a real-valued signal by
// direct evaluation of the transform sum. The direct form is O(N²) but
// places no power-of-two constraint on the input length and produces
// bit-stable results for any worker count. It is meant for the short
// fixed frames and one-shot whole-signal spectra this library works
// with, not for bulk streaming.
type DFT struct{}

// NewDFT creates a new DFT calculator
func NewDFT() *DFT {
	return &DFT{}
}

// Transform computes the spectrum of a real signal as interleaved
// real/imaginary pairs [re0, im0, re1, im1, ...] of length 2*len(signal).
// For output bin k over N samples:
//
//	re[k] = Σ x[n]*cos(-2π*k*n/N)
//	im[k] = Σ x[n]*sin(-2π*k*n/N)
//
// Output bins are split across workers; every worker writes disjoint
// slots, so the result is identical to a sequential evaluation.
func (d *DFT) Transform(signal []float64) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, fmt.Errorf("cannot transform empty signal")
	}

	spectrum := make([]float64, 2*n)

	numWorkers := d.getOptimalWorkerCount(n)
	if numWorkers <= 1 {
		d.transformBins(signal, spectrum, 0, n)
		return spectrum, nil
	}

	chunkSize := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			d.transformBins(signal, spectrum, start, end)
		}(start, end)
	}
	wg.Wait()

	return spectrum, nil
}

// transformBins evaluates output bins [start, end) into spectrum
func (d *DFT) transformBins(signal, spectrum []float64, start, end int) {
	n := len(signal)
	for k := start; k < end; k++ {
		realPart := 0.0
		imagPart := 0.0
		for i := 0; i < n; i++ {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			realPart += signal[i] * math.Cos(angle)
			imagPart += signal[i] * math.Sin(angle)
		}
		spectrum[2*k] = realPart
		spectrum[2*k+1] = imagPart
	}
}

// getOptimalWorkerCount determines the number of workers for a signal size
func (d *DFT) getOptimalWorkerCount(numBins int) int {
	numCPU := runtime.NumCPU()

	// Small signals are cheaper to compute than to fan out
	if numBins < 256 {
		return 1
	}

	if numBins < 2048 {
		return min(numCPU/2, numBins)
	}

	return numCPU
}

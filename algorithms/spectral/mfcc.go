package spectral

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/SaminMaharjan/coughai/algorithms/filters"
	"github.com/SaminMaharjan/coughai/algorithms/windowing"
)

// logPowerFloor keeps the log finite on silent bins.
const logPowerFloor = 1e-10

// MFCC extracts cepstral features from a mono signal.
//
// The extractor is deliberately simpler than a textbook MFCC front-end:
// after pre-emphasis, framing, and Hamming windowing, the cosine
// projection runs directly over the raw log power spectrum. There is no
// mel filter bank stage. Downstream scoring thresholds are tuned against
// this exact feature shape, so the projection must not be swapped for a
// mel-scaled variant.
type MFCC struct {
	params MFCCParams

	// Internal components
	window *windowing.Hamming
	dft    *DFT
	power  *PowerSpectrum
}

// MFCCParams contains parameters for MFCC extraction
type MFCCParams struct {
	WindowSize      int     `json:"window_size"`      // Frame length in samples (default: 2048)
	HopSize         int     `json:"hop_size"`         // Samples between frame starts (default: 512)
	NumCoefficients int     `json:"num_coefficients"` // Cepstral coefficients per frame (default: 13)
	PreEmphasis     float64 `json:"pre_emphasis"`     // Pre-emphasis coefficient (default: 0.97)
}

// DefaultMFCCParams returns the fixed parameter set the screening
// rule thresholds were tuned against
func DefaultMFCCParams() MFCCParams {
	return MFCCParams{
		WindowSize:      2048,
		HopSize:         512,
		NumCoefficients: 13,
		PreEmphasis:     0.97,
	}
}

// Validate checks that the parameters describe a usable extractor
func (p MFCCParams) Validate() error {
	if p.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", p.WindowSize)
	}
	if p.HopSize <= 0 {
		return fmt.Errorf("hop size must be positive, got %d", p.HopSize)
	}
	if p.NumCoefficients <= 0 {
		return fmt.Errorf("number of coefficients must be positive, got %d", p.NumCoefficients)
	}
	if p.PreEmphasis <= 0.0 || p.PreEmphasis >= 1.0 {
		return fmt.Errorf("pre-emphasis coefficient must be between 0 and 1, got %f", p.PreEmphasis)
	}
	return nil
}

// MFCCResult contains MFCC extraction results
type MFCCResult struct {
	Features        []float64 `json:"features"`         // Flat feature set, frame-major
	NumFrames       int       `json:"num_frames"`       // Frames extracted
	NumCoefficients int       `json:"num_coefficients"` // Coefficients per frame
}

// NewMFCC creates a new MFCC extractor with default parameters
func NewMFCC() *MFCC {
	mfcc, _ := NewMFCCWithParams(DefaultMFCCParams())
	return mfcc
}

// NewMFCCWithParams creates a new MFCC extractor with custom parameters
func NewMFCCWithParams(params MFCCParams) (*MFCC, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &MFCC{
		params: params,
		window: windowing.NewHamming(params.WindowSize),
		dft:    NewDFT(),
		power:  NewPowerSpectrum(),
	}, nil
}

// FrameCount returns the number of whole frames the extractor produces
// for a signal of n samples. Trailing samples that do not fill a
// complete frame are dropped; signals shorter than one window yield 0.
func (mfcc *MFCC) FrameCount(n int) int {
	if n < mfcc.params.WindowSize {
		return 0
	}
	return (n-mfcc.params.WindowSize)/mfcc.params.HopSize + 1
}

// Compute extracts the full feature set for a mono signal: one
// NumCoefficients-length vector per frame, concatenated in frame order.
// The signal is pre-emphasized once as a whole, so frame boundaries see
// the same filter state they would in a single continuous pass.
//
// Frames are distributed over a worker pool. Workers write disjoint
// slots of the output, which keeps the result identical to sequential
// extraction.
func (mfcc *MFCC) Compute(signal []float64) (*MFCCResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("cannot extract features from empty signal")
	}

	preEmphasis, err := filters.NewPreEmphasis(mfcc.params.PreEmphasis)
	if err != nil {
		return nil, err
	}
	emphasized := preEmphasis.ProcessBuffer(signal)

	numFrames := mfcc.FrameCount(len(signal))
	result := &MFCCResult{
		Features:        make([]float64, numFrames*mfcc.params.NumCoefficients),
		NumFrames:       numFrames,
		NumCoefficients: mfcc.params.NumCoefficients,
	}
	if numFrames == 0 {
		return result, nil
	}

	numWorkers := min(mfcc.getOptimalWorkerCount(numFrames), numFrames)
	jobs := make(chan int, numFrames)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		frameErr error
	)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reused per-worker buffers
			frameBuffer := make([]float64, mfcc.params.WindowSize)
			spectrum := make([]float64, 2*mfcc.params.WindowSize)

			for frameIdx := range jobs {
				startIdx := frameIdx * mfcc.params.HopSize
				copy(frameBuffer, emphasized[startIdx:startIdx+mfcc.params.WindowSize])

				if err := mfcc.window.ApplyInPlace(frameBuffer); err != nil {
					errOnce.Do(func() { frameErr = fmt.Errorf("frame %d: %w", frameIdx, err) })
					continue
				}

				// Each frame's transform runs sequentially; the
				// parallelism here comes from the frame fan-out
				mfcc.dft.transformBins(frameBuffer, spectrum, 0, len(frameBuffer))

				coefficients := mfcc.project(mfcc.power.Compute(spectrum))
				copy(result.Features[frameIdx*mfcc.params.NumCoefficients:], coefficients)
			}
		}()
	}

	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		jobs <- frameIdx
	}
	close(jobs)

	wg.Wait()

	if frameErr != nil {
		return nil, frameErr
	}

	return result, nil
}

// ComputeFrame extracts one cepstral vector from a single frame of
// exactly WindowSize samples. The frame is expected to be
// pre-emphasized already; Compute handles that for whole signals.
func (mfcc *MFCC) ComputeFrame(frame []float64) ([]float64, error) {
	windowed := mfcc.window.Apply(frame)
	if windowed == nil {
		return nil, fmt.Errorf("frame length (%d) doesn't match window size (%d)", len(frame), mfcc.params.WindowSize)
	}

	spectrum, err := mfcc.dft.Transform(windowed)
	if err != nil {
		return nil, err
	}

	return mfcc.project(mfcc.power.Compute(spectrum)), nil
}

// project applies the cosine projection over the raw log power
// spectrum. For coefficient c over M power bins:
//
//	coefficient[c] = Σ_j log(power[j] + 1e-10) * cos(π*c*(j+0.5)/M)
func (mfcc *MFCC) project(power []float64) []float64 {
	numBins := len(power)
	coefficients := make([]float64, mfcc.params.NumCoefficients)

	logPower := make([]float64, numBins)
	for j, p := range power {
		logPower[j] = math.Log(p + logPowerFloor)
	}

	for c := range coefficients {
		sum := 0.0
		for j := 0; j < numBins; j++ {
			sum += logPower[j] * math.Cos(math.Pi*float64(c)*(float64(j)+0.5)/float64(numBins))
		}
		coefficients[c] = sum
	}

	return coefficients
}

// GetParams returns the extractor parameters
func (mfcc *MFCC) GetParams() MFCCParams {
	return mfcc.params
}

// getOptimalWorkerCount determines the number of workers for a frame count
func (mfcc *MFCC) getOptimalWorkerCount(numFrames int) int {
	// Every frame is a full O(W²) transform, so even a handful of
	// frames is worth fanning out
	if numFrames < 2 {
		return 1
	}
	return runtime.NumCPU()
}

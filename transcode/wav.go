package transcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/SaminMaharjan/coughai/logging"
	"github.com/SaminMaharjan/coughai/screening"
)

// Decoder errors distinguish malformed containers from well-formed data
// in an encoding the decoder does not handle.
var (
	// ErrInvalidWAV flags bytes that are not a well-formed RIFF/WAVE container.
	ErrInvalidWAV = errors.New("invalid wav data")

	// ErrUnsupportedFormat flags a WAV encoding outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported wav format")
)

// Format tags from the fmt chunk.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MaxDuration time.Duration `json:"max_duration"` // Reject longer recordings; 0 disables the limit
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
	}
}

// Decoder parses RIFF/WAVE data into a screening.Waveform. It supports
// PCM 8/16/24/32-bit integer and IEEE float 32/64-bit encodings, and
// averages multi-channel audio down to the single channel the analysis
// pipeline expects.
//
// TODO: handle WAVE_FORMAT_EXTENSIBLE (0xFFFE) by reading the sub-format
// GUID instead of rejecting the tag outright.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new WAV decoder.
// Pass nil to use defaults.
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}

	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "wav_decoder",
		}),
	}
}

// DecodeFile decodes a WAV file into a waveform
func (d *Decoder) DecodeFile(filename string) (*screening.Waveform, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	waveform, err := d.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	return waveform, nil
}

// Decode decodes WAV data from a reader
func (d *Decoder) Decode(r io.Reader) (*screening.Waveform, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav data: %w", err)
	}

	return d.DecodeBytes(data)
}

// DecodeBytes decodes in-memory WAV data
func (d *Decoder) DecodeBytes(data []byte) (*screening.Waveform, error) {
	format, payload, err := parseRIFF(data)
	if err != nil {
		return nil, err
	}

	samples, err := decodeSamples(format, payload)
	if err != nil {
		return nil, err
	}

	mono := downmixToMono(samples, int(format.numChannels))

	duration := time.Duration(float64(len(mono)) / float64(format.sampleRate) * float64(time.Second))
	if d.config.MaxDuration > 0 && duration > d.config.MaxDuration {
		return nil, fmt.Errorf("recording is %s, longer than the configured maximum %s", duration, d.config.MaxDuration)
	}

	d.logger.Debug("Decoded wav data", logging.Fields{
		"format_tag":      int(format.audioFormat),
		"bits_per_sample": int(format.bitsPerSample),
		"channels":        int(format.numChannels),
		"sample_rate":     int(format.sampleRate),
		"samples":         len(mono),
		"duration":        duration.Seconds(),
	})

	return screening.NewWaveform(mono, int(format.sampleRate))
}

// wavFormat mirrors the fmt chunk fields this decoder reads
type wavFormat struct {
	audioFormat   uint16
	numChannels   uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// parseRIFF walks the chunk list and returns the format description
// plus the raw data payload
func parseRIFF(data []byte) (*wavFormat, []byte, error) {
	if len(data) < 12 {
		return nil, nil, fmt.Errorf("%w: %d bytes is too short for a RIFF header", ErrInvalidWAV, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, nil, fmt.Errorf("%w: missing RIFF/WAVE marker", ErrInvalidWAV)
	}

	var (
		format  *wavFormat
		payload []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if body+chunkSize > len(data) {
			return nil, nil, fmt.Errorf("%w: chunk %q of %d bytes overruns the file", ErrInvalidWAV, chunkID, chunkSize)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, nil, fmt.Errorf("%w: fmt chunk is %d bytes, need at least 16", ErrInvalidWAV, chunkSize)
			}
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(data[body : body+2]),
				numChannels:   binary.LittleEndian.Uint16(data[body+2 : body+4]),
				sampleRate:    binary.LittleEndian.Uint32(data[body+4 : body+8]),
				bitsPerSample: binary.LittleEndian.Uint16(data[body+14 : body+16]),
			}
		case "data":
			payload = data[body : body+chunkSize]
		}

		// Chunks are word-aligned; odd sizes carry a pad byte
		offset = body + chunkSize + chunkSize%2
	}

	if format == nil {
		return nil, nil, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
	}
	if payload == nil {
		return nil, nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
	}
	if format.numChannels == 0 {
		return nil, nil, fmt.Errorf("%w: zero channels", ErrInvalidWAV)
	}
	if format.sampleRate == 0 {
		return nil, nil, fmt.Errorf("%w: zero sample rate", ErrInvalidWAV)
	}

	return format, payload, nil
}

// decodeSamples converts the raw data payload to interleaved float64
// samples scaled to [-1, 1]
func decodeSamples(format *wavFormat, payload []byte) ([]float64, error) {
	switch format.audioFormat {
	case formatPCM:
		switch format.bitsPerSample {
		case 8:
			return decodePCM8(payload), nil
		case 16:
			return decodePCM16(payload)
		case 24:
			return decodePCM24(payload)
		case 32:
			return decodePCM32(payload)
		default:
			return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedFormat, format.bitsPerSample)
		}
	case formatIEEEFloat:
		switch format.bitsPerSample {
		case 32:
			return decodeFloat32(payload)
		case 64:
			return decodeFloat64(payload)
		default:
			return nil, fmt.Errorf("%w: %d-bit IEEE float", ErrUnsupportedFormat, format.bitsPerSample)
		}
	default:
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, format.audioFormat)
	}
}

// decodePCM8 decodes unsigned 8-bit samples
func decodePCM8(payload []byte) []float64 {
	samples := make([]float64, len(payload))
	for i, b := range payload {
		samples[i] = (float64(b) - 128) / 128
	}
	return samples
}

// decodePCM16 decodes signed little-endian 16-bit samples
func decodePCM16(payload []byte) ([]float64, error) {
	if err := checkSampleAlignment(payload, 2); err != nil {
		return nil, err
	}

	samples := make([]float64, len(payload)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(payload[i*2:]))
		samples[i] = float64(v) / 32768
	}
	return samples, nil
}

// decodePCM24 decodes signed little-endian 24-bit samples
func decodePCM24(payload []byte) ([]float64, error) {
	if err := checkSampleAlignment(payload, 3); err != nil {
		return nil, err
	}

	samples := make([]float64, len(payload)/3)
	for i := range samples {
		v := int32(payload[i*3]) | int32(payload[i*3+1])<<8 | int32(payload[i*3+2])<<16
		if v >= 1<<23 {
			v -= 1 << 24
		}
		samples[i] = float64(v) / 8388608
	}
	return samples, nil
}

// decodePCM32 decodes signed little-endian 32-bit samples
func decodePCM32(payload []byte) ([]float64, error) {
	if err := checkSampleAlignment(payload, 4); err != nil {
		return nil, err
	}

	samples := make([]float64, len(payload)/4)
	for i := range samples {
		v := int32(binary.LittleEndian.Uint32(payload[i*4:]))
		samples[i] = float64(v) / 2147483648
	}
	return samples, nil
}

// decodeFloat32 decodes little-endian IEEE 32-bit float samples
func decodeFloat32(payload []byte) ([]float64, error) {
	if err := checkSampleAlignment(payload, 4); err != nil {
		return nil, err
	}

	samples := make([]float64, len(payload)/4)
	for i := range samples {
		samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:])))
	}
	return samples, nil
}

// decodeFloat64 decodes little-endian IEEE 64-bit float samples
func decodeFloat64(payload []byte) ([]float64, error) {
	if err := checkSampleAlignment(payload, 8); err != nil {
		return nil, err
	}

	samples := make([]float64, len(payload)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
	}
	return samples, nil
}

// checkSampleAlignment rejects payloads holding a partial final sample
func checkSampleAlignment(payload []byte, sampleSize int) error {
	if len(payload)%sampleSize != 0 {
		return fmt.Errorf("%w: data length %d is not a multiple of the %d-byte sample size",
			ErrInvalidWAV, len(payload), sampleSize)
	}
	return nil
}

// downmixToMono averages interleaved channels into one
func downmixToMono(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += samples[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

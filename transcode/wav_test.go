package transcode

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaminMaharjan/coughai/screening"
)

// buildWAV assembles a minimal RIFF/WAVE file around the given payload.
func buildWAV(audioFormat, channels, sampleRate, bitsPerSample int, payload []byte) []byte {
	var buf bytes.Buffer

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(payload)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(audioFormat))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	return buf.Bytes()
}

func pcm16Payload(values ...int16) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func TestDecodePCM16Mono(t *testing.T) {
	data := buildWAV(1, 1, 44100, 16, pcm16Payload(0, 16384, -16384, 32767, -32768))

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	assert.Equal(t, 44100, waveform.SampleRate)
	require.Len(t, waveform.Samples, 5)

	assert.InDelta(t, 0.0, waveform.Samples[0], 1e-9)
	assert.InDelta(t, 0.5, waveform.Samples[1], 1e-9)
	assert.InDelta(t, -0.5, waveform.Samples[2], 1e-9)
	assert.InDelta(t, 32767.0/32768.0, waveform.Samples[3], 1e-9)
	assert.InDelta(t, -1.0, waveform.Samples[4], 1e-9)
}

func TestDecodePCM16StereoDownmix(t *testing.T) {
	// Interleaved L/R pairs average to mono
	data := buildWAV(1, 2, 8000, 16, pcm16Payload(16384, -16384, 8192, 8192))

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 2)
	assert.InDelta(t, 0.0, waveform.Samples[0], 1e-9)
	assert.InDelta(t, 0.25, waveform.Samples[1], 1e-9)
}

func TestDecodePCM8(t *testing.T) {
	data := buildWAV(1, 1, 8000, 8, []byte{128, 255, 0, 192})

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 4)
	assert.InDelta(t, 0.0, waveform.Samples[0], 1e-9)
	assert.InDelta(t, 127.0/128.0, waveform.Samples[1], 1e-9)
	assert.InDelta(t, -1.0, waveform.Samples[2], 1e-9)
	assert.InDelta(t, 0.5, waveform.Samples[3], 1e-9)
}

func TestDecodePCM24(t *testing.T) {
	payload := []byte{
		0xFF, 0xFF, 0x7F, // 8388607, max positive
		0x00, 0x00, 0x80, // -8388608, min negative
		0x00, 0x00, 0x00, // 0
	}
	data := buildWAV(1, 1, 8000, 24, payload)

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 3)
	assert.InDelta(t, 8388607.0/8388608.0, waveform.Samples[0], 1e-9)
	assert.InDelta(t, -1.0, waveform.Samples[1], 1e-9)
	assert.InDelta(t, 0.0, waveform.Samples[2], 1e-9)
}

func TestDecodePCM32(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(1<<30))
	binary.Write(&buf, binary.LittleEndian, int32(-(1 << 30)))
	data := buildWAV(1, 1, 8000, 32, buf.Bytes())

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 2)
	assert.InDelta(t, 0.5, waveform.Samples[0], 1e-9)
	assert.InDelta(t, -0.5, waveform.Samples[1], 1e-9)
}

func TestDecodeFloat32(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []float32{-1.0, 0.5, 0.25, 0.0} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	data := buildWAV(3, 1, 16000, 32, buf.Bytes())

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 4)
	assert.InDelta(t, -1.0, waveform.Samples[0], 1e-7)
	assert.InDelta(t, 0.5, waveform.Samples[1], 1e-7)
	assert.InDelta(t, 0.25, waveform.Samples[2], 1e-7)
	assert.InDelta(t, 0.0, waveform.Samples[3], 1e-7)
}

func TestDecodeFloat64(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []float64{0.123456789, -0.987654321} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	data := buildWAV(3, 1, 16000, 64, buf.Bytes())

	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 2)
	assert.Equal(t, 0.123456789, waveform.Samples[0])
	assert.Equal(t, -0.987654321, waveform.Samples[1])
}

func TestDecodeSkipsForeignChunks(t *testing.T) {
	payload := pcm16Payload(1000, -1000)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+24+14+8+len(payload)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	// Odd-sized metadata chunk between fmt and data exercises the
	// word-alignment pad byte
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(5))
	buf.Write([]byte{'I', 'N', 'F', 'O', 'x', 0})

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	waveform, err := NewDecoder(nil).DecodeBytes(buf.Bytes())
	require.NoError(t, err)

	require.Len(t, waveform.Samples, 2)
	assert.InDelta(t, 1000.0/32768.0, waveform.Samples[0], 1e-9)
	assert.InDelta(t, -1000.0/32768.0, waveform.Samples[1], 1e-9)
}

func TestDecodeErrors(t *testing.T) {
	decoder := NewDecoder(nil)

	t.Run("empty input", func(t *testing.T) {
		_, err := decoder.DecodeBytes(nil)
		assert.ErrorIs(t, err, ErrInvalidWAV)
	})

	t.Run("wrong magic", func(t *testing.T) {
		_, err := decoder.DecodeBytes([]byte("RIFX....WAVE"))
		assert.ErrorIs(t, err, ErrInvalidWAV)
	})

	t.Run("missing data chunk", func(t *testing.T) {
		data := buildWAV(1, 1, 8000, 16, nil)
		_, err := decoder.DecodeBytes(data[:len(data)-8])
		assert.ErrorIs(t, err, ErrInvalidWAV)
	})

	t.Run("truncated data chunk", func(t *testing.T) {
		data := buildWAV(1, 1, 8000, 16, pcm16Payload(1, 2, 3))
		_, err := decoder.DecodeBytes(data[:len(data)-2])
		assert.ErrorIs(t, err, ErrInvalidWAV)
	})

	t.Run("partial final sample", func(t *testing.T) {
		data := buildWAV(1, 1, 8000, 16, []byte{0x01, 0x02, 0x03})
		_, err := decoder.DecodeBytes(data)
		assert.ErrorIs(t, err, ErrInvalidWAV)
	})

	t.Run("zero channels", func(t *testing.T) {
		data := buildWAV(1, 0, 8000, 16, pcm16Payload(1))
		_, err := decoder.DecodeBytes(data)
		assert.ErrorIs(t, err, ErrInvalidWAV)
	})

	t.Run("unsupported format tag", func(t *testing.T) {
		// ADPCM
		data := buildWAV(2, 1, 8000, 16, pcm16Payload(1))
		_, err := decoder.DecodeBytes(data)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("unsupported bit depth", func(t *testing.T) {
		data := buildWAV(1, 1, 8000, 12, []byte{0x01, 0x02})
		_, err := decoder.DecodeBytes(data)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("empty payload", func(t *testing.T) {
		data := buildWAV(1, 1, 8000, 16, nil)
		_, err := decoder.DecodeBytes(data)
		assert.ErrorIs(t, err, screening.ErrInvalidInput)
	})
}

func TestDecodeMaxDuration(t *testing.T) {
	// 1s of audio at 8 kHz against a 500ms cap
	data := buildWAV(1, 1, 8000, 16, make([]byte, 8000*2))

	decoder := NewDecoder(&DecoderConfig{MaxDuration: 500 * time.Millisecond})
	_, err := decoder.DecodeBytes(data)
	assert.Error(t, err)

	// Decodes fine without the cap
	waveform, err := NewDecoder(nil).DecodeBytes(data)
	require.NoError(t, err)
	assert.Len(t, waveform.Samples, 8000)
}

func TestDecodeFile(t *testing.T) {
	data := buildWAV(1, 1, 8000, 16, pcm16Payload(100, -100))

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	waveform, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, waveform.Samples, 2)

	_, err = NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestDecodeReader(t *testing.T) {
	data := buildWAV(1, 1, 8000, 16, pcm16Payload(1, 2, 3, 4))

	waveform, err := NewDecoder(nil).Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, waveform.Samples, 4)
}

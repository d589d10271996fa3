package transcode

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Minimal RIFF/WAVE reader covering the encodings that matter in
// practice: 16-bit integer PCM and 32-bit IEEE float, any channel count.

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

func (d *Decoder) decodeWAV(path string) (*AudioData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Format: ".wav", Err: err}
	}

	audio, err := parseWAV(data)
	if err != nil {
		return nil, &DecodeError{Format: ".wav", Err: err}
	}

	return audio, nil
}

func parseWAV(data []byte) (*AudioData, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		format        uint16
		channels      int
		sampleRate    int
		bitsPerSample int
		pcmBytes      []byte
		haveFmt       bool
	)

	// Walk the chunk list; chunks are 2-byte aligned
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk too small: %d bytes", chunkSize)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcmBytes = data[body : body+chunkSize]
		}

		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if pcmBytes == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid format: %d channels, %d Hz", channels, sampleRate)
	}

	var samples []float64
	switch {
	case format == wavFormatPCM && bitsPerSample == 16:
		samples = decodePCM16(pcmBytes, channels)
	case format == wavFormatFloat && bitsPerSample == 32:
		samples = decodeFloat32(pcmBytes, channels)
	default:
		return nil, fmt.Errorf("unsupported WAV encoding: format %d, %d bits", format, bitsPerSample)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples")
	}

	return &AudioData{
		PCM:        samples,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   duration(len(samples), sampleRate),
	}, nil
}

// decodePCM16 converts 16-bit little-endian PCM to mono float64
func decodePCM16(pcm []byte, channels int) []float64 {
	bytesPerFrame := 2 * channels
	numFrames := len(pcm) / bytesPerFrame
	samples := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			offset := i*bytesPerFrame + ch*2
			v := int16(binary.LittleEndian.Uint16(pcm[offset:]))
			sum += float64(v) / 32768.0
		}
		samples[i] = sum / float64(channels)
	}

	return samples
}

// decodeFloat32 converts 32-bit little-endian IEEE float PCM to mono float64
func decodeFloat32(pcm []byte, channels int) []float64 {
	bytesPerFrame := 4 * channels
	numFrames := len(pcm) / bytesPerFrame
	samples := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			offset := i*bytesPerFrame + ch*4
			bits := binary.LittleEndian.Uint32(pcm[offset:])
			sum += float64(math.Float32frombits(bits))
		}
		samples[i] = sum / float64(channels)
	}

	return samples
}

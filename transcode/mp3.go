package transcode

import (
	"encoding/binary"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// decodeMP3 decodes an MP3 file with go-mp3, which always outputs 16-bit
// little-endian stereo regardless of the source channel layout.
func (d *Decoder) decodeMP3(path string) (*AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Format: ".mp3", Err: err}
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, &DecodeError{Format: ".mp3", Err: err}
	}

	sampleRate := decoder.SampleRate()

	pcmData, err := io.ReadAll(decoder)
	if err != nil {
		return nil, &DecodeError{Format: ".mp3", Err: err}
	}

	// 4 bytes per stereo frame: L and R as signed 16-bit
	numFrames := len(pcmData) / 4
	samples := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		offset := i * 4
		left := int16(binary.LittleEndian.Uint16(pcmData[offset:]))
		right := int16(binary.LittleEndian.Uint16(pcmData[offset+2:]))

		samples[i] = (float64(left) + float64(right)) / 2.0 / 32768.0
	}

	return &AudioData{
		PCM:        samples,
		SampleRate: sampleRate,
		Channels:   2,
		Duration:   duration(numFrames, sampleRate),
	}, nil
}

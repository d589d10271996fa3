// Package transcode decodes audio containers into the mono float PCM the
// analysis core consumes. Its single contract: produce samples at a known
// sample rate, or fail with a *DecodeError that the caller can tell apart
// from an analysis failure.
package transcode

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tempokey/tempokey/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono PCM in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source before downmix
	Duration   time.Duration `json:"duration"`
}

// DecodeError marks a decoding failure, as opposed to an analysis failure
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath       string        `json:"ffmpeg_path"`        // ffmpeg binary for the fallback path
	Timeout          time.Duration `json:"timeout"`            // Per-file ffmpeg timeout
	TargetSampleRate int           `json:"target_sample_rate"` // Resample rate for the ffmpeg path
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:       "ffmpeg", // Assume in PATH
		Timeout:          30 * time.Second,
		TargetSampleRate: 44100,
	}
}

// Decoder turns audio files into AudioData. WAV and MP3 decode natively;
// everything else goes through ffmpeg.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder with the given configuration
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{"component": "transcode"}),
	}
}

// SupportedExtensions lists the container formats DecodeFile accepts
func SupportedExtensions() []string {
	return []string{".wav", ".mp3", ".flac", ".m4a", ".ogg"}
}

// IsSupported reports whether a file extension is decodable
func IsSupported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".wav", ".mp3", ".flac", ".m4a", ".ogg":
		return true
	default:
		return false
	}
}

// DecodeFile decodes an audio file into mono float PCM
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioData, error) {
	ext := strings.ToLower(filepath.Ext(path))

	d.logger.Debug("decoding audio file", logging.Fields{"path": path, "format": ext})

	switch ext {
	case ".wav":
		return d.decodeWAV(path)
	case ".mp3":
		return d.decodeMP3(path)
	case ".flac", ".m4a", ".ogg":
		return d.decodeFFmpeg(ctx, path)
	default:
		return nil, &DecodeError{Format: ext, Err: fmt.Errorf("unsupported audio format")}
	}
}

// duration computes the clip length from sample count and rate
func duration(numSamples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(numSamples) / float64(sampleRate) * float64(time.Second))
}

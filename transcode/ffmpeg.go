package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strings"
)

// decodeFFmpeg shells out to ffmpeg for formats without a native decoder,
// piping mono f64le PCM at the configured target rate.
func (d *Decoder) decodeFFmpeg(ctx context.Context, path string) (*AudioData, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	sampleRate := d.config.TargetSampleRate
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &DecodeError{
			Format: ext,
			Err:    fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String())),
		}
	}

	raw := stdout.Bytes()
	numSamples := len(raw) / 8
	if numSamples == 0 {
		return nil, &DecodeError{Format: ext, Err: fmt.Errorf("ffmpeg produced no samples")}
	}

	samples := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		bits := binary.LittleEndian.Uint64(raw[i*8:])
		samples[i] = math.Float64frombits(bits)
	}

	return &AudioData{
		PCM:        samples,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   duration(numSamples, sampleRate),
	}, nil
}

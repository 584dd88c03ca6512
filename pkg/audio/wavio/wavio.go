// Package wavio loads WAV chunk files into the mono 16 kHz float buffers
// the diarization pipeline consumes. Arbitrary input rates and channel
// counts are converted: multi-channel audio is downmixed by averaging and
// off-rate audio is resampled.
package wavio

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/vocalapp/vocal/pkg/audio/pcm"
)

// TargetFormat is the analysis format every decoded clip is converted to.
const TargetFormat = pcm.L16Mono16K

// TargetRate is the analysis sample rate.
const TargetRate = 16000

// Clip is decoded mono audio.
type Clip struct {
	// Samples are float PCM in [-1, 1].
	Samples []float32

	// Format describes Samples; always TargetFormat after decoding.
	Format pcm.Format
}

// SampleRate returns the rate of Samples.
func (c Clip) SampleRate() int { return c.Format.SampleRate() }

// Duration returns the clip duration.
func (c Clip) Duration() time.Duration {
	return c.Format.Duration(len(c.Samples))
}

// DurationMs returns the clip duration in milliseconds.
func (c Clip) DurationMs() float64 {
	return float64(len(c.Samples)) / float64(c.Format.SampleRate()) * 1000
}

// LoadFile reads a WAV file and returns it as mono audio at TargetRate.
func LoadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	clip, err := Decode(f)
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: decode %s: %w", path, err)
	}
	return clip, nil
}

// Decode reads a WAV stream and returns it as mono audio at TargetRate.
func Decode(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("wavio: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: read pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return Clip{}, fmt.Errorf("wavio: missing format header")
	}

	samples := pcm.FloatsFromInts(buf.Data, int(dec.BitDepth))
	mono := downmix(samples, buf.Format.NumChannels)

	out, err := Resample(mono, buf.Format.SampleRate, TargetRate)
	if err != nil {
		return Clip{}, err
	}
	return Clip{Samples: out, Format: TargetFormat}, nil
}

// Resample converts mono samples from one rate to another. Same-rate input
// is returned as is.
func Resample(samples []float32, fromRate, toRate int) ([]float32, error) {
	if fromRate == toRate || len(samples) == 0 {
		return samples, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(fromRate),
		OutputRate: float64(toRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("wavio: create resampler: %w", err)
	}

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s)
	}
	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("wavio: resample %d to %d: %w", fromRate, toRate, err)
	}

	out := make([]float32, len(output))
	for i, s := range output {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = float32(s)
	}
	return out, nil
}

// downmix averages interleaved channels into mono. Mono input is returned
// as is.
func downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

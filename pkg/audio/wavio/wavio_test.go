package wavio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWav encodes int16-range samples to a temp WAV file.
func writeWav(t *testing.T, rate, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// sineInts generates int16-range sine samples, interleaved identically
// across channels.
func sineInts(freq float64, rate, channels, frames int) []int {
	out := make([]int, 0, frames*channels)
	for i := 0; i < frames; i++ {
		v := int(12000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
		for c := 0; c < channels; c++ {
			out = append(out, v)
		}
	}
	return out
}

func TestLoadFileMono16k(t *testing.T) {
	const frames = 16000
	path := writeWav(t, 16000, 1, sineInts(440, 16000, 1, frames))

	clip, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Format != TargetFormat {
		t.Fatalf("format = %v, want %v", clip.Format, TargetFormat)
	}
	if clip.SampleRate() != TargetRate {
		t.Fatalf("sample rate = %d, want %d", clip.SampleRate(), TargetRate)
	}
	if len(clip.Samples) != frames {
		t.Fatalf("samples = %d, want %d", len(clip.Samples), frames)
	}
	if clip.Duration() != time.Second {
		t.Errorf("duration = %v, want 1s", clip.Duration())
	}
	if math.Abs(clip.DurationMs()-1000) > 1 {
		t.Errorf("duration = %fms, want ~1000", clip.DurationMs())
	}
	var peak float32
	for _, s := range clip.Samples {
		if s > peak {
			peak = s
		}
	}
	if peak < 0.3 || peak > 0.4 {
		t.Errorf("peak = %f, want ~0.366", peak)
	}
}

func TestLoadFileStereoDownmix(t *testing.T) {
	const frames = 8000
	path := writeWav(t, 16000, 2, sineInts(440, 16000, 2, frames))

	clip, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Equal L and R average to the same mono signal, one sample per frame.
	if len(clip.Samples) != frames {
		t.Fatalf("samples = %d, want %d", len(clip.Samples), frames)
	}
}

func TestLoadFileResamples(t *testing.T) {
	const rate = 48000
	const frames = rate / 2 // 500ms
	path := writeWav(t, rate, 1, sineInts(440, rate, 1, frames))

	clip, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Format != TargetFormat {
		t.Fatalf("format = %v, want %v", clip.Format, TargetFormat)
	}
	// The resampler may trim a few edge samples; the duration must stay
	// close to 500ms.
	if math.Abs(clip.DurationMs()-500) > 20 {
		t.Errorf("duration = %fms, want ~500", clip.DurationMs())
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for non-wav input")
	}
}

func TestResampleSameRatePassthrough(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3}
	out, err := Resample(in, 16000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("passthrough changed length: %d", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("passthrough changed samples: %v", out)
		}
	}
}

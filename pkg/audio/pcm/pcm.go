package pcm

import (
	"time"
)

const (
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K Format = iota
	// L16Mono24K represents audio/L16; rate=24000; channels=1
	L16Mono24K
	// L16Mono44K1 represents audio/L16; rate=44100; channels=1
	L16Mono44K1
	// L16Mono48K represents audio/L16; rate=48000; channels=1
	L16Mono48K
)

// Format represents a mono 16-bit PCM audio format configuration.
//
// The diarization front-end operates at 16 kHz; the other formats exist so
// chunk files recorded at native device rates can be described before
// resampling.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Mono24K:
		return 24000
	case L16Mono44K1:
		return 44100
	case L16Mono48K:
		return 48000
	}
	panic("pcm: invalid audio format")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K, L16Mono24K, L16Mono44K1, L16Mono48K:
		return 1
	}
	panic("pcm: invalid audio format")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Mono16K, L16Mono24K, L16Mono44K1, L16Mono48K:
		return 16
	}
	panic("pcm: invalid audio format")
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int {
	return int(time.Duration(f.SampleRate()) * d / time.Second)
}

// Duration returns the duration of the given number of samples.
func (f Format) Duration(samples int) time.Duration {
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate())
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case L16Mono16K:
		return "audio/L16; rate=16000; channels=1"
	case L16Mono24K:
		return "audio/L16; rate=24000; channels=1"
	case L16Mono44K1:
		return "audio/L16; rate=44100; channels=1"
	case L16Mono48K:
		return "audio/L16; rate=48000; channels=1"
	}
	panic("pcm: invalid audio format")
}

// FloatsFromInts converts integer samples (as decoded from WAV containers)
// with the given bit depth into float32 samples in [-1, 1].
func FloatsFromInts(data []int, bitDepth int) []float32 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / scale
	}
	return out
}

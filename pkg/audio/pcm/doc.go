// Package pcm provides PCM audio format arithmetic and sample conversion
// helpers shared by the real-time preprocessing pipeline and the offline
// diarization pipeline.
//
// All analysis code in this repository works on mono float32 samples in the
// range [-1, 1]. This package owns the conversion from decoded integer
// samples into that representation, plus the duration/sample arithmetic for
// the supported formats.
//
// Key types:
//   - Format: audio format tag (sample rate, mono, 16-bit)
//   - AtomicFloat32: lock-free metric cell for cross-thread level readouts
//
// Example usage:
//
//	format := pcm.L16Mono16K
//	buffer := format.SamplesInDuration(20 * time.Millisecond)
//	samples := pcm.FloatsFromInts(decoded, 16)
package pcm

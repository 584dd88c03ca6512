// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM (Pulse Code Modulation) sample format handling
//   - wavio: WAV file ingestion and rate conversion
//   - preproc: the real-time capture preprocessing chain
//   - mfcc: MFCC feature extraction for speaker analysis
package audio

// Package mfcc computes mel-frequency cepstral coefficient features from PCM
// audio.
//
// This is the front-end for the offline diarization pipeline. Each analysis
// frame yields 13 cepstral coefficients plus delta and delta-delta
// trajectories and the frame RMS energy, which downstream stages use for
// speech-region detection, speaker-change scoring and segment embeddings.
//
// Default parameters follow the Kaldi convention for 16 kHz speech:
//
//	SampleRate:  16000
//	WindowSize:  400 (25 ms)
//	HopSize:     160 (10 ms)
//	FFTSize:     512
//	NumMels:     26
//	NumCoeffs:   13
//	LowFreq:     20
//	HighFreq:  7600
//	PreEmphasis: 0.97
//	DeltaWindow: 2
package mfcc

import (
	"math"
)

// Config controls MFCC extraction parameters.
type Config struct {
	SampleRate  int     // audio sample rate in Hz (default 16000)
	WindowSize  int     // window length in samples (default 400 = 25ms)
	HopSize     int     // hop length in samples (default 160 = 10ms)
	FFTSize     int     // FFT size (default 512)
	NumMels     int     // number of mel bins (default 26)
	NumCoeffs   int     // number of cepstral coefficients (default 13)
	LowFreq     float64 // lowest mel frequency (default 20)
	HighFreq    float64 // highest mel frequency (default 7600)
	PreEmphasis float64 // pre-emphasis coefficient (default 0.97)
	DeltaWindow int     // regression half-window for deltas (default 2)
}

// DefaultConfig returns the standard config for 16kHz speech.
func DefaultConfig() Config {
	return Config{
		SampleRate:  16000,
		WindowSize:  400,
		HopSize:     160,
		FFTSize:     512,
		NumMels:     26,
		NumCoeffs:   13,
		LowFreq:     20,
		HighFreq:    7600,
		PreEmphasis: 0.97,
		DeltaWindow: 2,
	}
}

// Frame is one analysis frame of MFCC features.
type Frame struct {
	// Coeffs holds NumCoeffs cepstral coefficients (c0..c12 by default).
	Coeffs []float64

	// Delta holds the first-order trajectory of Coeffs.
	Delta []float64

	// DeltaDelta holds the second-order trajectory of Coeffs.
	DeltaDelta []float64

	// Energy is the RMS energy of the raw frame samples.
	Energy float64

	// TimeMs is the frame start offset in milliseconds.
	TimeMs float64
}

// Extractor computes MFCC features from PCM samples.
type Extractor struct {
	cfg     Config
	window  []float64 // Hamming window
	melBank [][]float64
	dct     [][]float64 // NumCoeffs × NumMels DCT-II basis
}

// New creates a new Extractor with the given config.
func New(cfg Config) *Extractor {
	e := &Extractor{cfg: cfg}
	e.window = hammingWindow(cfg.WindowSize)
	e.melBank = melFilterBank(cfg.NumMels, cfg.FFTSize, cfg.SampleRate, cfg.LowFreq, cfg.HighFreq)
	e.dct = dctBasis(cfg.NumCoeffs, cfg.NumMels)
	return e
}

// Extract computes MFCC frames from PCM float32 samples in [-1, 1].
// Input shorter than one window yields nil, not an error.
func (e *Extractor) Extract(pcm []float32) []Frame {
	cfg := e.cfg
	n := len(pcm)
	if n < cfg.WindowSize {
		return nil
	}

	numFrames := (n-cfg.WindowSize)/cfg.HopSize + 1
	nfft := cfg.FFTSize
	halfFFT := nfft/2 + 1
	msPerSample := 1000.0 / float64(cfg.SampleRate)

	frames := make([]Frame, numFrames)

	// Working buffers reused across frames.
	frame := make([]float64, nfft)
	re := make([]float64, nfft)
	im := make([]float64, nfft)
	power := make([]float64, halfFFT)
	logMel := make([]float64, cfg.NumMels)

	for t := 0; t < numFrames; t++ {
		start := t * cfg.HopSize

		// RMS energy from the raw samples, before emphasis and windowing.
		var sumSq float64
		for i := 0; i < cfg.WindowSize; i++ {
			s := float64(pcm[start+i])
			sumSq += s * s
		}
		energy := math.Sqrt(sumSq / float64(cfg.WindowSize))

		// Pre-emphasis + windowing.
		for i := 0; i < cfg.WindowSize; i++ {
			s := float64(pcm[start+i])
			if i > 0 {
				s -= cfg.PreEmphasis * float64(pcm[start+i-1])
			}
			frame[i] = s * e.window[i]
		}
		for i := cfg.WindowSize; i < nfft; i++ {
			frame[i] = 0
		}

		// FFT.
		copy(re, frame)
		for i := range im {
			im[i] = 0
		}
		fft(re, im)

		// Power spectrum.
		for i := 0; i < halfFFT; i++ {
			power[i] = re[i]*re[i] + im[i]*im[i]
		}

		// Mel filterbank + log compression.
		for m := 0; m < cfg.NumMels; m++ {
			sum := 0.0
			for k, w := range e.melBank[m] {
				sum += w * power[k]
			}
			// Log with floor to avoid -inf
			if sum < 1e-10 {
				sum = 1e-10
			}
			logMel[m] = math.Log(sum)
		}

		// DCT-II to cepstral coefficients.
		coeffs := make([]float64, cfg.NumCoeffs)
		for c := 0; c < cfg.NumCoeffs; c++ {
			var acc float64
			for m := 0; m < cfg.NumMels; m++ {
				acc += e.dct[c][m] * logMel[m]
			}
			coeffs[c] = acc
		}

		frames[t] = Frame{
			Coeffs: coeffs,
			Energy: energy,
			TimeMs: float64(start) * msPerSample,
		}
	}

	appendDeltas(frames, cfg.DeltaWindow)
	return frames
}

// FrameDurationMs returns the hop duration in milliseconds.
func (e *Extractor) FrameDurationMs() float64 {
	return float64(e.cfg.HopSize) * 1000.0 / float64(e.cfg.SampleRate)
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config { return e.cfg }

// dctBasis precomputes an orthonormal DCT-II basis of numCoeffs × numMels.
func dctBasis(numCoeffs, numMels int) [][]float64 {
	basis := make([][]float64, numCoeffs)
	scale0 := math.Sqrt(1.0 / float64(numMels))
	scale := math.Sqrt(2.0 / float64(numMels))
	for c := range basis {
		row := make([]float64, numMels)
		s := scale
		if c == 0 {
			s = scale0
		}
		for m := 0; m < numMels; m++ {
			row[m] = s * math.Cos(math.Pi*float64(c)*(float64(m)+0.5)/float64(numMels))
		}
		basis[c] = row
	}
	return basis
}

package diar

import (
	"sort"
)

// EnergyVADConfig configures speech-region detection over per-frame RMS
// energies.
type EnergyVADConfig struct {
	// NoisePercentile is the fraction of lowest-energy frames treated as the
	// noise-floor population. Default: 0.3.
	NoisePercentile float64

	// ThresholdPosition places the adaptive threshold between the noise
	// floor and the signal level: 0 sits on the floor, 1 on the signal.
	// Default: 0.35.
	ThresholdPosition float64

	// KernelSize is the morphological close/open kernel in frames: gaps of
	// at most this size are filled, isolated bursts shorter than it are
	// removed. Default: 5 (50ms at a 10ms hop).
	KernelSize int
}

// DefaultEnergyVADConfig returns the tuned defaults for 10ms-hop frames.
func DefaultEnergyVADConfig() EnergyVADConfig {
	return EnergyVADConfig{
		NoisePercentile:   0.3,
		ThresholdPosition: 0.35,
		KernelSize:        5,
	}
}

// EnergyVAD detects contiguous speech regions from frame energies using an
// adaptive threshold between the estimated noise floor and signal level,
// followed by morphological smoothing of the speech mask.
type EnergyVAD struct {
	cfg EnergyVADConfig
}

// NewEnergyVAD creates an EnergyVAD with the given config.
func NewEnergyVAD(cfg EnergyVADConfig) *EnergyVAD {
	if cfg.NoisePercentile <= 0 || cfg.NoisePercentile >= 1 {
		cfg.NoisePercentile = 0.3
	}
	if cfg.ThresholdPosition <= 0 || cfg.ThresholdPosition >= 1 {
		cfg.ThresholdPosition = 0.35
	}
	if cfg.KernelSize <= 0 {
		cfg.KernelSize = 5
	}
	return &EnergyVAD{cfg: cfg}
}

// DetectRegions returns the speech regions of the energy sequence.
// All-silence input yields no regions; uniform high energy yields at most one.
func (v *EnergyVAD) DetectRegions(energies []float64) []Region {
	if len(energies) == 0 {
		return nil
	}

	threshold := v.threshold(energies)

	mask := make([]bool, len(energies))
	any := false
	for i, e := range energies {
		if e > threshold {
			mask[i] = true
			any = true
		}
	}
	if !any {
		return nil
	}

	k := v.cfg.KernelSize
	closeMask(mask, k)
	openMask(mask, k)

	return maskToRegions(mask)
}

// threshold computes the adaptive threshold from the percentile split. For
// non-trivial input (floor < peak) it lies strictly between them.
func (v *EnergyVAD) threshold(energies []float64) float64 {
	sorted := make([]float64, len(energies))
	copy(sorted, energies)
	sort.Float64s(sorted)

	noiseCount := int(float64(len(sorted)) * v.cfg.NoisePercentile)
	if noiseCount < 1 {
		noiseCount = 1
	}
	if noiseCount > len(sorted) {
		noiseCount = len(sorted)
	}

	var floor float64
	for _, e := range sorted[:noiseCount] {
		floor += e
	}
	floor /= float64(noiseCount)

	var signal float64
	signalCount := len(sorted) - noiseCount
	if signalCount > 0 {
		for _, e := range sorted[noiseCount:] {
			signal += e
		}
		signal /= float64(signalCount)
	} else {
		signal = floor
	}

	return floor + (signal-floor)*v.cfg.ThresholdPosition
}

// closeMask fills false gaps of at most k frames between true runs.
func closeMask(mask []bool, k int) {
	lastTrue := -1
	for i, m := range mask {
		if !m {
			continue
		}
		if lastTrue >= 0 && i-lastTrue-1 <= k && i-lastTrue-1 > 0 {
			for j := lastTrue + 1; j < i; j++ {
				mask[j] = true
			}
		}
		lastTrue = i
	}
}

// openMask removes true runs shorter than k frames.
func openMask(mask []bool, k int) {
	i := 0
	for i < len(mask) {
		if !mask[i] {
			i++
			continue
		}
		j := i
		for j < len(mask) && mask[j] {
			j++
		}
		if j-i < k {
			for p := i; p < j; p++ {
				mask[p] = false
			}
		}
		i = j
	}
}

// maskToRegions converts contiguous true runs into regions.
func maskToRegions(mask []bool) []Region {
	var regions []Region
	i := 0
	for i < len(mask) {
		if !mask[i] {
			i++
			continue
		}
		j := i
		for j < len(mask) && mask[j] {
			j++
		}
		regions = append(regions, Region{Start: i, End: j})
		i = j
	}
	return regions
}

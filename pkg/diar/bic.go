package diar

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vocalapp/vocal/pkg/audio/mfcc"
)

// BICSegmenterConfig configures speaker change-point detection.
type BICSegmenterConfig struct {
	// MinWindow is the minimum number of frames on each side of a candidate
	// split. Default: 100 (1s at a 10ms hop).
	MinWindow int

	// CandidateStep is the scan stride over candidate split frames.
	// Default: 10.
	CandidateStep int

	// PenaltyLambda scales the BIC model-complexity penalty. Higher values
	// demand stronger evidence before accepting a boundary. Default: 2.0.
	PenaltyLambda float64
}

// DefaultBICSegmenterConfig returns the tuned defaults.
func DefaultBICSegmenterConfig() BICSegmenterConfig {
	return BICSegmenterConfig{
		MinWindow:     100,
		CandidateStep: 10,
		PenaltyLambda: 2.0,
	}
}

// BICSegmenter finds likely speaker boundaries inside speech regions by
// comparing one-Gaussian vs two-Gaussian models of the MFCC frames under the
// Bayesian Information Criterion.
type BICSegmenter struct {
	cfg BICSegmenterConfig
}

// NewBICSegmenter creates a BICSegmenter with the given config.
func NewBICSegmenter(cfg BICSegmenterConfig) *BICSegmenter {
	if cfg.MinWindow <= 1 {
		cfg.MinWindow = 100
	}
	if cfg.CandidateStep <= 0 {
		cfg.CandidateStep = 10
	}
	if cfg.PenaltyLambda <= 0 {
		cfg.PenaltyLambda = 2.0
	}
	return &BICSegmenter{cfg: cfg}
}

// Segment returns the accepted change points inside the region, in ascending
// frame order. Regions shorter than twice the minimum window yield none.
func (b *BICSegmenter) Segment(frames []mfcc.Frame, region Region) []ChangePoint {
	var points []ChangePoint
	b.split(frames, region.Start, region.End, &points)

	// Recursion emits left-to-right already, but keep the contract explicit
	// against future edits.
	for i := 1; i < len(points); i++ {
		if points[i].Frame < points[i-1].Frame {
			sortChangePoints(points)
			break
		}
	}
	return points
}

// split recursively accepts the best positive ΔBIC boundary in [start, end).
func (b *BICSegmenter) split(frames []mfcc.Frame, start, end int, out *[]ChangePoint) {
	cp, ok := b.FindBestSplit(frames, start, end)
	if !ok || cp.DeltaBIC <= 0 {
		return
	}
	b.split(frames, start, cp.Frame, out)
	*out = append(*out, cp)
	b.split(frames, cp.Frame, end, out)
}

// FindBestSplit scans candidate boundaries in [start, end) keeping MinWindow
// frames on both sides and returns the split with maximal ΔBIC. ok is false
// when the window is too short to host any candidate.
//
// ΔBIC = n/2·log|Σ| − n₁/2·log|Σ₁| − n₂/2·log|Σ₂| − λ/2·(d + d(d+1)/2)·log n
//
// For perfectly homogeneous data the likelihood term vanishes, so the best
// score sits at (or below) the negated penalty and no boundary is accepted.
func (b *BICSegmenter) FindBestSplit(frames []mfcc.Frame, start, end int) (ChangePoint, bool) {
	n := end - start
	if n < 2*b.cfg.MinWindow {
		return ChangePoint{}, false
	}

	full := frameMatrix(frames, start, end)
	logDetFull := logDetCov(full)
	d := float64(full.RawMatrix().Cols)

	// Model complexity difference: one extra mean and covariance.
	penalty := b.cfg.PenaltyLambda * 0.5 * (d + d*(d+1)/2) * math.Log(float64(n))

	best := ChangePoint{DeltaBIC: math.Inf(-1)}
	for t := start + b.cfg.MinWindow; t <= end-b.cfg.MinWindow; t += b.cfg.CandidateStep {
		left := frameMatrix(frames, start, t)
		right := frameMatrix(frames, t, end)

		n1 := float64(t - start)
		n2 := float64(end - t)

		delta := float64(n)/2*logDetFull -
			n1/2*logDetCov(left) -
			n2/2*logDetCov(right) -
			penalty

		if delta > best.DeltaBIC {
			best = ChangePoint{Frame: t, DeltaBIC: delta}
		}
	}
	if math.IsInf(best.DeltaBIC, -1) {
		return ChangePoint{}, false
	}
	return best, true
}

// frameMatrix packs the cepstral coefficients of frames[start:end] into a
// row-per-frame matrix.
func frameMatrix(frames []mfcc.Frame, start, end int) *mat.Dense {
	rows := end - start
	cols := len(frames[start].Coeffs)
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		m.SetRow(i, frames[start+i].Coeffs)
	}
	return m
}

// logDetCov returns the log-determinant of the sample covariance of the rows
// of x, with diagonal shrinkage so degenerate (constant or near-constant)
// windows stay finite instead of producing -inf.
func logDetCov(x *mat.Dense) float64 {
	_, cols := x.Dims()
	cov := mat.NewSymDense(cols, nil)
	stat.CovarianceMatrix(cov, x, nil)

	const shrinkage = 1e-6
	for i := 0; i < cols; i++ {
		cov.SetSym(i, i, cov.At(i, i)+shrinkage)
	}

	var chol mat.Cholesky
	if !chol.Factorize(cov) {
		// Fall back to a heavier ridge; covariance is at least PSD, so this
		// always succeeds for any realistic frame window.
		for i := 0; i < cols; i++ {
			cov.SetSym(i, i, cov.At(i, i)+1e-3)
		}
		if !chol.Factorize(cov) {
			return float64(cols) * math.Log(1e-3)
		}
	}
	return chol.LogDet()
}

// sortChangePoints orders points by frame index (insertion sort; the lists
// are tiny).
func sortChangePoints(points []ChangePoint) {
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j].Frame < points[j-1].Frame; j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
}

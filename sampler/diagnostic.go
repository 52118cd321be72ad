package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/logitmc/buffer"
)

// ConvergenceZThreshold is the |z| above which a coefficient's split-window
// diagnostic is flagged.
const ConvergenceZThreshold = 3.0

// Convergence is the split-window diagnostic result for one coefficient.
type Convergence struct {
	Name string
	Z    float64
	OK   bool
}

// SplitZScore compares the means of the first and second halves of a full
// window with a two-sample z statistic. For a chain in its stationary
// regime the halves should agree, so a large |z| suggests the window is
// still drifting. Returns false if the window is not yet full.
func SplitZScore(w *buffer.CircularFloat) (float64, bool) {
	if w == nil || !w.Full() {
		return 0, false
	}

	m1, v1, n1 := halfMoments(w.FirstHalf())
	m2, v2, n2 := halfMoments(w.SecondHalf())

	denom := math.Sqrt(v1/n1 + v2/n2)
	if denom == 0 {
		// Constant halves: identical means converge trivially
		if m1 == m2 {
			return 0, true
		}
		return math.Inf(1), true
	}

	return (m2 - m1) / denom, true
}

func halfMoments(it *buffer.CircularFloatIterator) (mean, variance, n float64) {
	sum, sumSq := 0.0, 0.0
	for it.Next() {
		v := it.Value()
		sum += v
		sumSq += v * v
		n++
	}
	mean = sum / n
	variance = sumSq/n - mean*mean
	if variance < 0 {
		variance = 0 // rounding
	}
	return mean, variance, n
}

// CheckConvergence runs the split-window diagnostic over the most recent
// post-burn-in window of each coefficient in the trace. window is truncated
// to the retained length when it is larger.
func CheckConvergence(tr *Trace, burnIn int, window int) ([]Convergence, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, errors.New("cannot diagnose an empty trace")
	}
	if burnIn < 0 || burnIn >= tr.Len() {
		return nil, errors.Errorf("burn-in %d out of range for trace of length %d", burnIn, tr.Len())
	}

	retained := tr.Len() - burnIn
	if window > retained {
		window = retained
	}
	if window < 4 {
		return nil, errors.Errorf("window of %d draws is too small to split", window)
	}

	names := tr.Names()
	out := make([]Convergence, tr.NumCoef())

	for j := 0; j < tr.NumCoef(); j++ {
		xs, err := tr.Coefficient(j, burnIn)
		if err != nil {
			return nil, err
		}

		w := buffer.NewCircularFloat(window)
		for _, x := range xs {
			w.Add(x)
		}

		z, ok := SplitZScore(w)
		if !ok {
			return nil, errors.Errorf("window for %s never filled", names[j])
		}

		out[j] = Convergence{
			Name: names[j],
			Z:    z,
			OK:   math.Abs(z) < ConvergenceZThreshold,
		}
	}

	return out, nil
}

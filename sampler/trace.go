package sampler

import (
	"github.com/pkg/errors"
)

// Trace is the full ordered sequence of parameter vectors produced by a
// chain, burn-in included. Snapshots live in one flat arena (stride = number
// of coefficients) and the trace is append-only.
type Trace struct {
	names  []string
	stride int
	data   []float64
}

// NewTrace returns an empty trace for the named coefficients with capacity
// for iters snapshots.
func NewTrace(names []string, iters int) *Trace {
	return &Trace{
		names:  append([]string(nil), names...),
		stride: len(names),
		data:   make([]float64, 0, iters*len(names)),
	}
}

// Append records a snapshot of beta. The values are copied, so the caller
// may keep mutating its working vector.
func (tr *Trace) Append(beta []float64) {
	tr.data = append(tr.data, beta...)
}

// Len returns the number of snapshots recorded so far.
func (tr *Trace) Len() int {
	if tr.stride == 0 {
		return 0
	}
	return len(tr.data) / tr.stride
}

// NumCoef returns the parameter vector length.
func (tr *Trace) NumCoef() int {
	return tr.stride
}

// Names returns a copy of the coefficient names.
func (tr *Trace) Names() []string {
	return append([]string(nil), tr.names...)
}

// At returns snapshot i as a read-only view into the arena.
func (tr *Trace) At(i int) []float64 {
	return tr.data[i*tr.stride : (i+1)*tr.stride]
}

// Coefficient returns a copy of coefficient j's post-burn-in series.
func (tr *Trace) Coefficient(j int, burnIn int) ([]float64, error) {
	n := tr.Len()
	if j < 0 || j >= tr.stride {
		return nil, errors.Errorf("coefficient index %d out of range [0,%d)", j, tr.stride)
	}
	if burnIn < 0 || burnIn >= n {
		return nil, errors.Errorf("burn-in %d out of range for trace of length %d", burnIn, n)
	}

	out := make([]float64, 0, n-burnIn)
	for i := burnIn; i < n; i++ {
		out = append(out, tr.data[i*tr.stride+j])
	}
	return out, nil
}

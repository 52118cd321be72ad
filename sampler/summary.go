package sampler

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// CoefficientSummary holds the posterior point and interval estimates for a
// single coefficient.
type CoefficientSummary struct {
	Name   string
	Mean   float64
	StdDev float64
	Q025   float64
	Q975   float64
}

// Summary is the read-only posterior summary of a trace: per-coefficient
// mean, standard deviation, and the central 95% empirical interval over the
// post-burn-in draws. It is a pure function of its inputs.
type Summary struct {
	Coefficients []CoefficientSummary
	count        int
}

// NewSummary computes a posterior summary over the trace suffix after
// burnIn. The trace itself always includes burn-in; exclusion happens here.
func NewSummary(tr *Trace, burnIn int) (*Summary, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, errors.New("cannot summarize an empty trace")
	}
	if burnIn < 0 || burnIn >= tr.Len() {
		return nil, errors.Errorf("burn-in %d out of range for trace of length %d", burnIn, tr.Len())
	}

	s := &Summary{
		Coefficients: make([]CoefficientSummary, tr.NumCoef()),
		count:        tr.Len() - burnIn,
	}

	names := tr.Names()
	for j := 0; j < tr.NumCoef(); j++ {
		xs, err := tr.Coefficient(j, burnIn)
		if err != nil {
			return nil, err
		}

		mean, std := stat.MeanStdDev(xs, nil)
		sort.Float64s(xs) // Coefficient returns a copy, safe to sort

		s.Coefficients[j] = CoefficientSummary{
			Name:   names[j],
			Mean:   mean,
			StdDev: std,
			Q025:   stat.Quantile(0.025, stat.Empirical, xs, nil),
			Q975:   stat.Quantile(0.975, stat.Empirical, xs, nil),
		}
	}

	return s, nil
}

// Count returns the number of retained (post-burn-in) draws.
func (s *Summary) Count() int {
	return s.count
}

// ByName returns the summary row for the named coefficient.
func (s *Summary) ByName(name string) (CoefficientSummary, bool) {
	for _, c := range s.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return CoefficientSummary{}, false
}

// String renders the summary as a fixed-width table keyed by coefficient
// name, one row per coefficient.
func (s *Summary) String() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Posterior summary (%d retained draws)\n", s.count)
	fmt.Fprintf(&buf, "%-12s %10s %10s %10s %10s\n", "coef", "mean", "std", "2.5%", "97.5%")
	for _, c := range s.Coefficients {
		fmt.Fprintf(&buf, "%-12s %10.4f %10.4f %10.4f %10.4f\n",
			c.Name, c.Mean, c.StdDev, c.Q025, c.Q975)
	}

	return buf.String()
}

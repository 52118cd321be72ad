package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default prior variances. Indicator-style coefficients (brand and ad
// dummies) get a broad prior; scale-sensitive coefficients like price sit on
// a different numeric range and get a unit-scale prior.
const (
	DefaultIndicatorVariance = 25.0
	DefaultScaleVariance     = 1.0
)

// GaussianPrior is an independent zero-mean Gaussian prior over the
// parameter vector with a per-coefficient variance table.
type GaussianPrior struct {
	dists []distuv.Normal
}

// NewGaussianPrior builds a prior from the per-coefficient variance table.
// Every variance must be strictly positive.
func NewGaussianPrior(variances []float64) (*GaussianPrior, error) {
	if len(variances) == 0 {
		return nil, errors.New("prior needs at least one variance")
	}

	dists := make([]distuv.Normal, len(variances))
	for i, v := range variances {
		if v <= 0 {
			return nil, errors.Errorf("prior variance %d is %f, must be > 0", i, v)
		}
		dists[i] = distuv.Normal{Mu: 0, Sigma: math.Sqrt(v)}
	}

	return &GaussianPrior{dists: dists}, nil
}

// NumCoef returns the parameter vector length the prior expects.
func (p *GaussianPrior) NumCoef() int {
	return len(p.dists)
}

// LogPrior returns the log-density of beta, including normalizing constants
// (they cancel in acceptance ratios so keeping them is harmless and makes
// the value directly comparable across parameter vectors).
func (p *GaussianPrior) LogPrior(beta []float64) float64 {
	lp := 0.0
	for i, d := range p.dists {
		lp += d.LogProb(beta[i])
	}
	return lp
}

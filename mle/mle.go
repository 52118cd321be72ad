// Package mle fits the multinomial-logit model by maximum likelihood. It
// exists as the comparison collaborator for the Bayesian sampler: its point
// estimates and standard errors line up row-for-row with the posterior
// summary so the two can be reported side by side.
package mle

import (
	"bytes"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/CraigKelly/logitmc/model"
)

// Result holds the maximum-likelihood fit: point estimates, observed
// information standard errors, and the maximized log-likelihood.
type Result struct {
	Names   []string
	Coef    []float64
	StdErr  []float64
	LogLike float64
}

// Fit maximizes the multinomial-logit log-likelihood over the dataset.
// start may be nil for a zero start. Standard errors come from the inverted
// information matrix at the optimum.
func Fit(ds *model.ChoiceDataset, start []float64) (*Result, error) {
	if ds == nil {
		return nil, errors.New("a dataset is required")
	}

	nc := ds.NumCoef()
	if start == nil {
		start = make([]float64, nc)
	} else if len(start) != nc {
		return nil, errors.Errorf("start vector has %d coefficients, dataset has %d", len(start), nc)
	}

	um := model.NewUtilityModel(ds)

	problem := optimize.Problem{
		Func: func(beta []float64) float64 {
			return -um.LogLike(beta)
		},
		Grad: func(grad, beta []float64) {
			score(ds, um, beta, grad)
			floats.Scale(-1, grad)
		},
	}

	opt, err := optimize.Minimize(problem, start, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "MLE optimization failed")
	}
	if err := opt.Status.Err(); err != nil {
		return nil, errors.Wrap(err, "MLE optimization did not converge")
	}

	se, err := stdErr(ds, um, opt.X)
	if err != nil {
		return nil, err
	}

	return &Result{
		Names:   ds.Names(),
		Coef:    opt.X,
		StdErr:  se,
		LogLike: -opt.F,
	}, nil
}

// score fills grad with the log-likelihood gradient at beta:
// sum over tasks of (x_chosen - sum_j P_j x_j).
func score(ds *model.ChoiceDataset, um *model.UtilityModel, beta, grad []float64) {
	nc := ds.NumCoef()
	for i := range grad {
		grad[i] = 0
	}

	var probs []float64
	for t := 0; t < ds.NumTasks(); t++ {
		feats, chosen := ds.Task(t)
		probs = um.TaskProbs(beta, t, probs)

		floats.Add(grad, feats[chosen*nc:(chosen+1)*nc])
		for j, p := range probs {
			floats.AddScaled(grad, -p, feats[j*nc:(j+1)*nc])
		}
	}
}

// stdErr computes observed-information standard errors: the information
// matrix sum_t [sum_j P_j x_j x_j' - xbar xbar'] is inverted and the square
// roots of its diagonal are the standard errors.
func stdErr(ds *model.ChoiceDataset, um *model.UtilityModel, beta []float64) ([]float64, error) {
	nc := ds.NumCoef()
	info := mat.NewDense(nc, nc, nil)
	xbar := make([]float64, nc)

	var probs []float64
	for t := 0; t < ds.NumTasks(); t++ {
		feats, _ := ds.Task(t)
		probs = um.TaskProbs(beta, t, probs)

		for i := range xbar {
			xbar[i] = 0
		}
		for j, p := range probs {
			floats.AddScaled(xbar, p, feats[j*nc:(j+1)*nc])
		}

		for a := 0; a < nc; a++ {
			for b := 0; b < nc; b++ {
				v := info.At(a, b)
				for j, p := range probs {
					row := feats[j*nc : (j+1)*nc]
					v += p * row[a] * row[b]
				}
				v -= xbar[a] * xbar[b]
				info.Set(a, b, v)
			}
		}
	}

	var vcov mat.Dense
	if err := vcov.Inverse(info); err != nil {
		return nil, errors.Wrap(err, "information matrix is singular")
	}

	se := make([]float64, nc)
	for i := range se {
		se[i] = math.Sqrt(vcov.At(i, i))
	}
	return se, nil
}

// String renders the fit as a fixed-width table keyed by coefficient name.
func (r *Result) String() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MLE fit (log-likelihood %.4f)\n", r.LogLike)
	fmt.Fprintf(&buf, "%-12s %10s %10s\n", "coef", "estimate", "std err")
	for i, n := range r.Names {
		fmt.Fprintf(&buf, "%-12s %10.4f %10.4f\n", n, r.Coef[i], r.StdErr[i])
	}

	return buf.String()
}

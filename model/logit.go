package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// UtilityModel computes multinomial-logit choice probabilities and the total
// log-likelihood for a parameter vector over a ChoiceDataset. It carries a
// scratch buffer so the per-iteration likelihood evaluation does not
// allocate; a UtilityModel is therefore NOT safe for concurrent use (each
// chain should own its own).
type UtilityModel struct {
	ds   *ChoiceDataset
	util []float64 // scratch utilities for the current task
}

// NewUtilityModel returns a UtilityModel bound to the given dataset.
func NewUtilityModel(ds *ChoiceDataset) *UtilityModel {
	maxAlts := 0
	for t := 0; t < ds.NumTasks(); t++ {
		if n := ds.NumAlts(t); n > maxAlts {
			maxAlts = n
		}
	}

	return &UtilityModel{
		ds:   ds,
		util: make([]float64, maxAlts),
	}
}

// NumCoef returns the expected parameter vector length.
func (u *UtilityModel) NumCoef() int {
	return u.ds.NumCoef()
}

// Dataset returns the dataset the model is bound to.
func (u *UtilityModel) Dataset() *ChoiceDataset {
	return u.ds
}

// LogLike returns the total multinomial-logit log-likelihood of beta. The
// per-task softmax denominator is computed with a max-utility shift, so large
// utilities do not overflow. Returns -Inf (never NaN) when a chosen
// alternative's probability is not representable above zero, which the
// sampler treats as automatic rejection. len(beta) must equal NumCoef.
func (u *UtilityModel) LogLike(beta []float64) float64 {
	nc := u.ds.NumCoef()
	ll := 0.0

	for t := 0; t < u.ds.NumTasks(); t++ {
		feats, chosen := u.ds.Task(t)
		nAlts := len(feats) / nc

		// Linear utilities and their max, within this task only
		maxU := math.Inf(-1)
		for j := 0; j < nAlts; j++ {
			v := floats.Dot(feats[j*nc:(j+1)*nc], beta)
			u.util[j] = v
			if v > maxU {
				maxU = v
			}
		}

		// log P(chosen) = (v_c - max) - log sum_j exp(v_j - max)
		sum := 0.0
		for j := 0; j < nAlts; j++ {
			sum += math.Exp(u.util[j] - maxU)
		}
		ll += u.util[chosen] - maxU - math.Log(sum)
	}

	if math.IsNaN(ll) {
		return math.Inf(-1)
	}
	return ll
}

// TaskProbs fills dst with the choice probabilities for task t under beta and
// returns it. dst is grown if needed. Uses the same shift-stable reduction as
// LogLike.
func (u *UtilityModel) TaskProbs(beta []float64, t int, dst []float64) []float64 {
	nc := u.ds.NumCoef()
	feats, _ := u.ds.Task(t)
	nAlts := len(feats) / nc

	if cap(dst) < nAlts {
		dst = make([]float64, nAlts)
	}
	dst = dst[:nAlts]

	maxU := math.Inf(-1)
	for j := 0; j < nAlts; j++ {
		v := floats.Dot(feats[j*nc:(j+1)*nc], beta)
		dst[j] = v
		if v > maxU {
			maxU = v
		}
	}

	sum := 0.0
	for j := 0; j < nAlts; j++ {
		dst[j] = math.Exp(dst[j] - maxU)
		sum += dst[j]
	}
	floats.Scale(1/sum, dst)

	return dst
}

package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/CraigKelly/logitmc/rand"
)

// ConjointNames are the coefficient names of the streaming-service conjoint
// design produced by NewConjointDesign.
var ConjointNames = []string{"brand_n", "brand_p", "ad_yes", "price"}

// NewConjointDesign builds a synthetic conjoint design: nTasks tasks of three
// alternatives each, every alternative showing one of three brands (two
// dummies, third brand as reference), a random ad indicator, and a price
// drawn uniformly from [1, 9). All draws come from gen.
func NewConjointDesign(gen *rand.Generator, nTasks int) [][][]float64 {
	tasks := make([][][]float64, nTasks)

	for t := range tasks {
		alts := make([][]float64, 3)
		for j := range alts {
			brand := gen.Int63n(3)
			ad := float64(gen.Int63n(2))
			price := 1.0 + 8.0*gen.Float64()

			f := make([]float64, 4)
			if brand == 1 {
				f[0] = 1
			} else if brand == 2 {
				f[1] = 1
			}
			f[2] = ad
			f[3] = price
			alts[j] = f
		}
		tasks[t] = alts
	}

	return tasks
}

// SimulateChoices draws one chosen alternative per task from the exact
// multinomial-logit probabilities implied by beta, producing records ready
// for NewChoiceDataset. The softmax uses the same max-shift stabilization as
// the likelihood.
func SimulateChoices(gen *rand.Generator, tasks [][][]float64, beta []float64) ([]Record, error) {
	if len(tasks) == 0 {
		return nil, errors.New("no tasks to simulate")
	}

	var recs []Record
	for t, alts := range tasks {
		if len(alts) == 0 {
			return nil, errors.Errorf("task %d has no alternatives", t)
		}

		probs := make([]float64, len(alts))
		maxU := math.Inf(-1)
		for j, f := range alts {
			if len(f) != len(beta) {
				return nil, errors.Errorf("task %d alternative %d has %d features, beta has %d",
					t, j, len(f), len(beta))
			}
			v := floats.Dot(f, beta)
			probs[j] = v
			if v > maxU {
				maxU = v
			}
		}

		sum := 0.0
		for j := range probs {
			probs[j] = math.Exp(probs[j] - maxU)
			sum += probs[j]
		}

		// Inverse-CDF draw over the task's alternatives
		u := gen.Float64() * sum
		chosen := len(alts) - 1
		acc := 0.0
		for j, p := range probs {
			acc += p
			if u < acc {
				chosen = j
				break
			}
		}

		id := fmt.Sprintf("t%d", t)
		for j, f := range alts {
			recs = append(recs, Record{
				Task:     id,
				Features: append([]float64(nil), f...),
				Chosen:   j == chosen,
			})
		}
	}

	return recs, nil
}

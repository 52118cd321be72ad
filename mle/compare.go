package mle

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/CraigKelly/logitmc/sampler"
)

// Comparison joins an MLE fit with a posterior summary on coefficient name
// and renders a side-by-side table. Every MLE coefficient must be present in
// the summary.
func Comparison(r *Result, s *sampler.Summary) (string, error) {
	if r == nil || s == nil {
		return "", errors.New("both an MLE result and a posterior summary are required")
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%-12s %10s %10s %10s %10s %10s %10s\n",
		"coef", "mle", "mle se", "post mean", "post std", "2.5%", "97.5%")
	for i, n := range r.Names {
		c, ok := s.ByName(n)
		if !ok {
			return "", errors.Errorf("coefficient %s missing from posterior summary", n)
		}
		fmt.Fprintf(&buf, "%-12s %10.4f %10.4f %10.4f %10.4f %10.4f %10.4f\n",
			n, r.Coef[i], r.StdErr[i], c.Mean, c.StdDev, c.Q025, c.Q975)
	}

	return buf.String(), nil
}

package cmd

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/CraigKelly/logitmc/model"
	"github.com/CraigKelly/logitmc/sampler"
)

// runConfig is the file-level configuration surface for a sampling run. Any
// field left unset in the TOML file keeps its default; length/sign checking
// is the sampler's job at construction.
type runConfig struct {
	Iterations     int       `toml:"iterations"`
	BurnIn         int       `toml:"burnin"`
	Seed           int64     `toml:"seed"`
	Start          []float64 `toml:"start"`
	ProposalScales []float64 `toml:"proposal_scales"`
	PriorVariances []float64 `toml:"prior_variances"`
}

// scaleSensitive reports whether a coefficient name looks like a
// scale-valued covariate (price and friends) rather than an indicator.
// Those get tighter default priors and smaller default proposal scales.
func scaleSensitive(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "price") || strings.Contains(n, "cost")
}

// defaultRunConfig builds per-coefficient defaults keyed off the coefficient
// names: broad priors and ordinary proposal scales for indicators,
// unit-scale priors and a tenth of the proposal scale for price-like
// coefficients.
func defaultRunConfig(names []string) runConfig {
	base := sampler.DefaultConfig(len(names))

	rc := runConfig{
		Iterations:     base.Iterations,
		BurnIn:         base.BurnIn,
		Seed:           base.Seed,
		ProposalScales: base.ProposalScales,
		PriorVariances: make([]float64, len(names)),
	}

	for i, n := range names {
		if scaleSensitive(n) {
			rc.ProposalScales[i] = sampler.DefaultProposalScale / 10
			rc.PriorVariances[i] = model.DefaultScaleVariance
		} else {
			rc.PriorVariances[i] = model.DefaultIndicatorVariance
		}
	}

	return rc
}

// loadRunConfig layers a TOML file (if given) over the name-derived
// defaults.
func loadRunConfig(path string, names []string) (runConfig, error) {
	rc := defaultRunConfig(names)
	if path == "" {
		return rc, nil
	}

	meta, err := toml.DecodeFile(path, &rc)
	if err != nil {
		return rc, errors.Wrapf(err, "could not read config file %s", path)
	}
	if un := meta.Undecoded(); len(un) > 0 {
		return rc, errors.Errorf("unknown config keys in %s: %v", path, un)
	}

	return rc, nil
}

// samplerConfig converts the file-level config into the sampler's Config.
func (rc runConfig) samplerConfig() sampler.Config {
	return sampler.Config{
		Iterations:     rc.Iterations,
		BurnIn:         rc.BurnIn,
		Seed:           rc.Seed,
		Start:          rc.Start,
		ProposalScales: rc.ProposalScales,
	}
}

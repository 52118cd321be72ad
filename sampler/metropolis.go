package sampler

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/logitmc/model"
	"github.com/CraigKelly/logitmc/rand"
)

// ErrDegenerateStart is the cause of a Run failure when the starting
// parameter vector already has a non-finite log-posterior. No iterations run
// and no trace is returned.
var ErrDegenerateStart = errors.New("starting vector has non-finite log-posterior")

// Default chain lengths, matching the scale the model was tuned at.
const (
	DefaultIterations    = 11000
	DefaultBurnIn        = 1000
	DefaultSeed          = 4022
	DefaultProposalScale = 0.05
)

// Config is the full configuration surface of a Metropolis-Hastings run.
// Every stochastic draw comes from the single stream seeded with Seed, so a
// fixed Config reproduces the identical trace.
type Config struct {
	Iterations int
	BurnIn     int
	Seed       int64

	// Start is the initial parameter vector; nil means all zeros.
	Start []float64

	// ProposalScales are the per-coefficient standard deviations of the
	// random-walk proposal. A uniform scale under- or over-mixes whenever
	// coefficients sit on different numeric ranges (price vs indicators),
	// so these are configured per coefficient.
	ProposalScales []float64

	// OnIteration, if set, is called after each iteration with the
	// iteration index and whether the proposal was accepted. Used for
	// progress reporting; must be cheap.
	OnIteration func(iter int, accepted bool)
}

// DefaultConfig returns the standard run configuration for nCoef
// coefficients: 11000 iterations, 1000 burn-in, zero start, uniform small
// proposal scales, fixed seed.
func DefaultConfig(nCoef int) Config {
	scales := make([]float64, nCoef)
	for i := range scales {
		scales[i] = DefaultProposalScale
	}
	return Config{
		Iterations:     DefaultIterations,
		BurnIn:         DefaultBurnIn,
		Seed:           DefaultSeed,
		ProposalScales: scales,
	}
}

// Metropolis is a single-chain random-walk Metropolis-Hastings sampler over
// the posterior of a multinomial-logit model. It owns its PRNG stream, its
// working parameter vectors, and the trace it produces.
type Metropolis struct {
	util  *model.UtilityModel
	prior *model.GaussianPrior
	cfg   Config
	gen   *rand.Generator

	accepted int
	ran      bool
}

// NewMetropolis validates the configuration against the model dimensions and
// returns a ready sampler. All configuration errors surface here, never at
// first iteration.
func NewMetropolis(util *model.UtilityModel, prior *model.GaussianPrior, cfg Config) (*Metropolis, error) {
	if util == nil || prior == nil {
		return nil, errors.New("both a utility model and a prior are required")
	}

	nCoef := util.NumCoef()
	if prior.NumCoef() != nCoef {
		return nil, errors.Errorf("prior has %d coefficients, model has %d", prior.NumCoef(), nCoef)
	}
	if cfg.Iterations < 1 {
		return nil, errors.Errorf("iteration count %d must be positive", cfg.Iterations)
	}
	if cfg.BurnIn < 0 || cfg.BurnIn >= cfg.Iterations {
		return nil, errors.Errorf("burn-in %d must be in [0, %d)", cfg.BurnIn, cfg.Iterations)
	}
	if len(cfg.ProposalScales) != nCoef {
		return nil, errors.Errorf("%d proposal scales for %d coefficients", len(cfg.ProposalScales), nCoef)
	}
	for i, s := range cfg.ProposalScales {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, errors.Errorf("proposal scale %d is %f, must be finite and >= 0", i, s)
		}
	}
	if cfg.Start == nil {
		cfg.Start = make([]float64, nCoef)
	} else if len(cfg.Start) != nCoef {
		return nil, errors.Errorf("start vector has %d coefficients, model has %d", len(cfg.Start), nCoef)
	}

	return &Metropolis{
		util:  util,
		prior: prior,
		cfg:   cfg,
		gen:   rand.NewGenerator(cfg.Seed),
	}, nil
}

// logPosterior is the quantity compared between states: log-likelihood plus
// log-prior. Both pieces return -Inf rather than NaN in degenerate regions.
func (m *Metropolis) logPosterior(beta []float64) float64 {
	return m.util.LogLike(beta) + m.prior.LogPrior(beta)
}

// Run executes the full chain and returns the trace, burn-in included
// (discarding burn-in is the summary's job, so the raw chain stays
// inspectable). ctx is checked once per iteration for cooperative
// cancellation. Returns ErrDegenerateStart if the starting vector is
// degenerate; mid-chain, a non-finite proposal posterior is an automatic
// rejection, never an error.
func (m *Metropolis) Run(ctx context.Context) (*Trace, error) {
	if m.ran {
		return nil, errors.New("chain already run; construct a new sampler")
	}
	m.ran = true

	nCoef := m.util.NumCoef()
	cur := append([]float64(nil), m.cfg.Start...)
	prop := make([]float64, nCoef)

	lpCur := m.logPosterior(cur)
	if math.IsInf(lpCur, 0) || math.IsNaN(lpCur) {
		return nil, errors.Wrapf(ErrDegenerateStart, "log-posterior at start is %f", lpCur)
	}

	trace := NewTrace(m.util.Dataset().Names(), m.cfg.Iterations)

	for i := 0; i < m.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "sampling canceled at iteration %d", i)
		}

		// Random-walk proposal with per-coefficient scales
		for k := 0; k < nCoef; k++ {
			prop[k] = cur[k] + m.cfg.ProposalScales[k]*m.gen.NormFloat64()
		}

		lpProp := m.logPosterior(prop)
		r := lpProp - lpCur
		if math.IsNaN(r) {
			r = math.Inf(-1) // non-finite proposal: auto-reject
		}

		accepted := math.Log(m.gen.Float64()) < r
		if accepted {
			copy(cur, prop)
			lpCur = lpProp
			m.accepted++
		}

		trace.Append(cur)

		if m.cfg.OnIteration != nil {
			m.cfg.OnIteration(i, accepted)
		}
	}

	return trace, nil
}

// Accepted returns the number of accepted proposals so far.
func (m *Metropolis) Accepted() int {
	return m.accepted
}

// AcceptanceRate returns the fraction of proposals accepted over the
// configured iteration count. Only meaningful after Run completes.
func (m *Metropolis) AcceptanceRate() float64 {
	return float64(m.accepted) / float64(m.cfg.Iterations)
}

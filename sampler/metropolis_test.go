package sampler

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/CraigKelly/logitmc/model"
	"github.com/CraigKelly/logitmc/rand"
)

// conjointFixture simulates a streaming-service conjoint from a known beta
// and returns the dataset-bound models.
func conjointFixture(t *testing.T, nTasks int, beta []float64) (*model.UtilityModel, *model.GaussianPrior) {
	t.Helper()
	assert := assert.New(t)

	gen := rand.NewGenerator(1848)
	tasks := model.NewConjointDesign(gen, nTasks)
	recs, err := model.SimulateChoices(gen, tasks, beta)
	assert.NoError(err)

	ds, err := model.NewChoiceDataset(recs, model.ConjointNames)
	assert.NoError(err)

	prior, err := model.NewGaussianPrior([]float64{25, 25, 25, 1})
	assert.NoError(err)

	return model.NewUtilityModel(ds), prior
}

var trueBeta = []float64{1.0, 0.5, -0.8, -0.1}

func TestMetropolisDeterminism(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 50, trueBeta)

	cfg := DefaultConfig(4)
	cfg.Iterations = 500
	cfg.BurnIn = 100

	run := func() *Trace {
		// Fresh sampler per run; chains are never restarted in place
		m, err := NewMetropolis(um, prior, cfg)
		assert.NoError(err)
		tr, err := m.Run(context.Background())
		assert.NoError(err)
		return tr
	}

	tr1 := run()
	tr2 := run()

	assert.Equal(tr1.Len(), tr2.Len())
	for i := 0; i < tr1.Len(); i++ {
		assert.Equal(tr1.At(i), tr2.At(i))
	}

	// A different seed must (in practice) give a different trace
	cfg.Seed++
	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)
	tr3, err := m.Run(context.Background())
	assert.NoError(err)
	assert.NotEqual(tr1.At(tr1.Len()-1), tr3.At(tr3.Len()-1))
}

func TestMetropolisAcceptanceRateLimits(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 100, trueBeta)

	// Zero-scale proposals never move, so r=0 and everything is accepted
	cfg := DefaultConfig(4)
	cfg.Iterations = 300
	cfg.BurnIn = 0
	cfg.ProposalScales = []float64{0, 0, 0, 0}

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)
	_, err = m.Run(context.Background())
	assert.NoError(err)
	assert.Equal(1.0, m.AcceptanceRate())

	// Huge proposals almost always land in low-density regions
	cfg.ProposalScales = []float64{100, 100, 100, 100}
	m, err = NewMetropolis(um, prior, cfg)
	assert.NoError(err)
	_, err = m.Run(context.Background())
	assert.NoError(err)
	assert.True(m.AcceptanceRate() < 0.05, "acceptance rate %f", m.AcceptanceRate())
}

func TestMetropolisBurnInRetainedInTrace(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 20, trueBeta)

	cfg := DefaultConfig(4)
	cfg.Iterations = 200
	cfg.BurnIn = 50

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)
	tr, err := m.Run(context.Background())
	assert.NoError(err)

	// The sampler does not discard burn-in; the summary does
	assert.Equal(200, tr.Len())

	s, err := NewSummary(tr, cfg.BurnIn)
	assert.NoError(err)
	assert.Equal(150, s.Count())
}

func TestMetropolisDegenerateStart(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 20, trueBeta)

	cfg := DefaultConfig(4)
	cfg.Iterations = 100
	cfg.BurnIn = 10
	// Infinite utilities at the start: log-posterior is non-finite
	cfg.Start = []float64{math.MaxFloat64, 0, 0, 0}

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)

	tr, err := m.Run(context.Background())
	assert.Error(err)
	assert.Equal(ErrDegenerateStart, errors.Cause(err))
	assert.Nil(tr) // no partial trace on a fatal init error
}

func TestMetropolisConfigValidation(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 10, trueBeta)
	otherPrior, err := model.NewGaussianPrior([]float64{1, 1})
	assert.NoError(err)

	good := DefaultConfig(4)

	cases := []struct {
		name string
		mod  func(c *Config) (*model.UtilityModel, *model.GaussianPrior)
	}{
		{"zero-iterations", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			c.Iterations = 0
			return um, prior
		}},
		{"burnin-too-long", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			c.BurnIn = c.Iterations
			return um, prior
		}},
		{"negative-burnin", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			c.BurnIn = -1
			return um, prior
		}},
		{"scale-length", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			c.ProposalScales = []float64{0.1, 0.1}
			return um, prior
		}},
		{"negative-scale", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			c.ProposalScales = []float64{0.1, 0.1, 0.1, -0.1}
			return um, prior
		}},
		{"start-length", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			c.Start = []float64{0}
			return um, prior
		}},
		{"prior-mismatch", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			return um, otherPrior
		}},
		{"nil-model", func(c *Config) (*model.UtilityModel, *model.GaussianPrior) {
			return nil, prior
		}},
	}

	for _, c := range cases {
		cfg := good
		u, p := c.mod(&cfg)
		_, err := NewMetropolis(u, p, cfg)
		assert.Error(err, c.name)
	}
}

func TestMetropolisRunOnce(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 10, trueBeta)

	cfg := DefaultConfig(4)
	cfg.Iterations = 50
	cfg.BurnIn = 0

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)

	_, err = m.Run(context.Background())
	assert.NoError(err)

	_, err = m.Run(context.Background())
	assert.Error(err)
}

func TestMetropolisCancellation(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 10, trueBeta)

	cfg := DefaultConfig(4)
	stop := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	cfg.OnIteration = func(iter int, accepted bool) {
		if iter == 10 {
			cancel()
			close(stop)
		}
	}

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)

	_, err = m.Run(ctx)
	<-stop
	assert.Error(err)
	assert.Equal(context.Canceled, errors.Cause(err))
}

func TestMetropolisOnIterationHook(t *testing.T) {
	assert := assert.New(t)

	um, prior := conjointFixture(t, 10, trueBeta)

	cfg := DefaultConfig(4)
	cfg.Iterations = 77
	cfg.BurnIn = 0

	calls := 0
	acc := 0
	cfg.OnIteration = func(iter int, accepted bool) {
		assert.Equal(calls, iter)
		calls++
		if accepted {
			acc++
		}
	}

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)
	_, err = m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(77, calls)
	assert.Equal(m.Accepted(), acc)
}

// Full convergence sanity run: simulate from a known beta and recover it
// within three posterior standard deviations per coefficient.
func TestMetropolisRecoversTruth(t *testing.T) {
	if testing.Short() {
		t.Skip("full-length chain")
	}
	assert := assert.New(t)

	um, prior := conjointFixture(t, 1000, trueBeta)

	cfg := DefaultConfig(4)
	cfg.ProposalScales = []float64{0.05, 0.05, 0.05, 0.005}

	m, err := NewMetropolis(um, prior, cfg)
	assert.NoError(err)
	tr, err := m.Run(context.Background())
	assert.NoError(err)
	assert.Equal(DefaultIterations, tr.Len())

	// The chain should neither freeze nor thrash
	assert.True(m.AcceptanceRate() > 0.05, "acceptance rate %f", m.AcceptanceRate())
	assert.True(m.AcceptanceRate() < 0.95, "acceptance rate %f", m.AcceptanceRate())

	s, err := NewSummary(tr, cfg.BurnIn)
	assert.NoError(err)
	assert.Equal(DefaultIterations-DefaultBurnIn, s.Count())

	for j, c := range s.Coefficients {
		assert.True(c.StdDev > 0, "coefficient %s has zero posterior spread", c.Name)
		assert.InDelta(trueBeta[j], c.Mean, 3*c.StdDev,
			"coefficient %s: posterior mean %f vs truth %f (std %f)",
			c.Name, c.Mean, trueBeta[j], c.StdDev)
		assert.True(c.Q025 < c.Q975)
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CraigKelly/logitmc/model"
	"github.com/CraigKelly/logitmc/sampler"
)

func TestDefaultRunConfig(t *testing.T) {
	assert := assert.New(t)

	rc := defaultRunConfig([]string{"brand_n", "brand_p", "ad_yes", "price"})

	assert.Equal(sampler.DefaultIterations, rc.Iterations)
	assert.Equal(sampler.DefaultBurnIn, rc.BurnIn)
	assert.Equal(int64(sampler.DefaultSeed), rc.Seed)
	assert.Nil(rc.Start)

	// Indicators get the broad defaults, price-like names the tight ones
	assert.Equal(model.DefaultIndicatorVariance, rc.PriorVariances[0])
	assert.Equal(model.DefaultScaleVariance, rc.PriorVariances[3])
	assert.Equal(sampler.DefaultProposalScale, rc.ProposalScales[0])
	assert.Equal(sampler.DefaultProposalScale/10, rc.ProposalScales[3])
}

func TestLoadRunConfigFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "run.toml")
	body := `
iterations = 500
burnin = 50
seed = 7
proposal_scales = [0.1, 0.1, 0.1, 0.01]
`
	assert.NoError(os.WriteFile(path, []byte(body), 0o644))

	rc, err := loadRunConfig(path, []string{"brand_n", "brand_p", "ad_yes", "price"})
	assert.NoError(err)

	assert.Equal(500, rc.Iterations)
	assert.Equal(50, rc.BurnIn)
	assert.Equal(int64(7), rc.Seed)
	assert.Equal([]float64{0.1, 0.1, 0.1, 0.01}, rc.ProposalScales)

	// Unset keys keep their name-derived defaults
	assert.Equal(model.DefaultScaleVariance, rc.PriorVariances[3])
}

func TestLoadRunConfigErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := loadRunConfig("no-such-file.toml", []string{"a"})
	assert.Error(err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	assert.NoError(os.WriteFile(path, []byte("mystery_knob = 12\n"), 0o644))
	_, err = loadRunConfig(path, []string{"a"})
	assert.Error(err)
}

func TestScaleSensitive(t *testing.T) {
	assert := assert.New(t)

	assert.True(scaleSensitive("price"))
	assert.True(scaleSensitive("unit_cost"))
	assert.False(scaleSensitive("brand_n"))
	assert.False(scaleSensitive("ad_yes"))
}

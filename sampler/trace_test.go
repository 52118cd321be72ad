package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceAppendAndViews(t *testing.T) {
	assert := assert.New(t)

	tr := NewTrace([]string{"a", "b"}, 4)
	assert.Equal(0, tr.Len())
	assert.Equal(2, tr.NumCoef())

	beta := []float64{1, 2}
	tr.Append(beta)
	beta[0] = 99 // snapshots are copies
	tr.Append(beta)
	tr.Append([]float64{5, 6})

	assert.Equal(3, tr.Len())
	assert.Equal([]float64{1, 2}, tr.At(0))
	assert.Equal([]float64{99, 2}, tr.At(1))
	assert.Equal([]float64{5, 6}, tr.At(2))
}

func TestTraceCoefficient(t *testing.T) {
	assert := assert.New(t)

	tr := NewTrace([]string{"a", "b"}, 4)
	tr.Append([]float64{1, 10})
	tr.Append([]float64{2, 20})
	tr.Append([]float64{3, 30})
	tr.Append([]float64{4, 40})

	xs, err := tr.Coefficient(1, 0)
	assert.NoError(err)
	assert.Equal([]float64{10, 20, 30, 40}, xs)

	xs, err = tr.Coefficient(0, 2)
	assert.NoError(err)
	assert.Equal([]float64{3, 4}, xs)

	_, err = tr.Coefficient(2, 0)
	assert.Error(err)
	_, err = tr.Coefficient(0, 4)
	assert.Error(err)
	_, err = tr.Coefficient(0, -1)
	assert.Error(err)
}

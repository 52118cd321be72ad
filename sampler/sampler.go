package sampler

import "context"

// A Sampler produces a posterior trace over the parameters of a
// dataset-bound model. Run may be called once per instance; a fresh run
// needs a fresh Sampler.
type Sampler interface {
	Run(ctx context.Context) (*Trace, error)
}

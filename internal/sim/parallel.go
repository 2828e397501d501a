package sim

import (
	"context"
	"sync"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Build creates an independent registry and stepper for one seed.
type Build func(seed int64) (*physics.Registry, Stepper, error)

// Ensemble runs the same scenario for consecutive seeds concurrently.
// Each run gets its own registry, stepper and metrics from the factories.
type Ensemble struct {
	build     Build
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Build, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			reg, stepper, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(stepper)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, reg, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

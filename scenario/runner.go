// Package scenario fans a payoff engine out over batches of hypothetical
// price histories and aggregates the outcomes.
package scenario

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banachtech/phoenix/payoff"
	"github.com/banachtech/phoenix/product"
)

// Engine is the evaluation contract the runner depends on. Both payoff
// engines satisfy it.
type Engine interface {
	Calculate(prices product.PriceSet) (*payoff.Result, error)
}

// Scenario names one hypothetical price history.
type Scenario struct {
	Name        string
	Description string
	Prices      product.PriceSet
}

// Outcome pairs a scenario with its evaluation. Err is set when that
// scenario alone failed; the rest of the batch is unaffected.
type Outcome struct {
	Name        string
	Description string
	Result      *payoff.Result
	Err         error
}

// Runner evaluates scenario batches with bounded parallelism. Engines hold
// no per-call state, so one instance is shared across goroutines.
type Runner struct {
	engine      Engine
	parallelism int
}

type Option func(*Runner)

// WithParallelism bounds the number of concurrent evaluations.
func WithParallelism(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

func New(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:      engine,
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates every scenario and returns outcomes in input order. It
// stops early only when the context is cancelled.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]Outcome, error) {
	out := make([]Outcome, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.engine.Calculate(sc.Prices)
			out[i] = Outcome{
				Name:        sc.Name,
				Description: sc.Description,
				Result:      res,
				Err:         err,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

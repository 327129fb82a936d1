// Package runner provides the outer-parallelism worker pool: many
// independent (taskset, policy) simulations run as parallel workers with no
// shared mutable state, communicating via a work queue and a result queue,
// admission bounded by a semaphore. Every setup is independent, so a plain
// job fan-out with a bounded semaphore is all the coordination required.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/go-foundations/dpsim/sim"
)

// Config holds the Pool's tunables.
type Config struct {
	NumWorkers int
	BufferSize int
	Timeout    time.Duration
}

// DefaultConfig returns the Pool's defaults: four workers, a 100-deep job
// buffer, and no overall timeout.
func DefaultConfig() Config {
	return Config{NumWorkers: 4, BufferSize: 100, Timeout: 0}
}

// Option configures a Pool via functional options applied over DefaultConfig.
type Option func(*Config)

// WithWorkers sets the number of concurrent workers (bounded admission via
// an internal semaphore of this size).
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.NumWorkers = n
		}
	}
}

// WithBufferSize sets the work/result queue buffer size.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}

// WithTimeout bounds the overall pool run; zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// Job is one unit of outer-parallel work: a single simulation setup plus an
// index so results can be correlated back to their input.
type Job struct {
	Index int
	Setup sim.SimulationSetup
}

// Outcome pairs a Job's index with its simulation result.
type Outcome struct {
	Index  int
	Result sim.SimulationResult
	Err    error
}

// Pool runs many independent simulations concurrently. Each worker pulls a
// setup off the work queue, runs it start to finish with no shared state,
// and pushes the outcome onto the result queue; a semaphore bounds how many
// setups are in flight at once.
type Pool struct {
	config Config
}

// New builds a Pool from opts applied over DefaultConfig.
func New(opts ...Option) *Pool {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Pool{config: cfg}
}

// Run submits every setup to the pool and returns outcomes in the same
// order as setups, regardless of completion order.
func (p *Pool) Run(ctx context.Context, setups []sim.SimulationSetup) []Outcome {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	jobs := make(chan Job, p.config.BufferSize)
	outcomes := make([]Outcome, len(setups))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.config.NumWorkers)

	for w := 0; w < p.config.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					outcomes[job.Index] = Outcome{Index: job.Index, Err: ctx.Err()}
					continue
				case sem <- struct{}{}:
				}
				result, err := sim.Run(job.Setup)
				<-sem
				outcomes[job.Index] = Outcome{Index: job.Index, Result: result, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, s := range setups {
			select {
			case <-ctx.Done():
				return
			case jobs <- Job{Index: i, Setup: s}:
			}
		}
	}()

	wg.Wait()
	return outcomes
}

// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sweep solves a family of linear programs indexed by a parameter value, such as a
// sensitivity analysis on one constraint bound.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	log "github.com/golang/glog"
	"github.com/samirsaci/raw-materials/lpmodel"
	"golang.org/x/sync/errgroup"
)

// BuildFunc builds the model for one parameter value. It may be called concurrently.
type BuildFunc func(value float64) (*lpmodel.Model, error)

// Point is the outcome of one parameter value.
type Point struct {
	Value    float64
	Solution *lpmodel.Solution
	// Err is set when the model could not be built or the solve failed, for example with
	// lpmodel.ErrIterationLimit. Solution is nil in that case.
	Err error
}

// Optimal reports whether the point was solved to optimality.
func (p Point) Optimal() bool {
	return p.Err == nil && p.Solution != nil && p.Solution.IsOptimal()
}

// Status returns the solve status, or lpmodel.Unspecified when the point failed.
func (p Point) Status() lpmodel.Status {
	if p.Solution == nil {
		return lpmodel.Unspecified
	}
	return p.Solution.Status
}

type options struct {
	params      *lpmodel.Parameters
	concurrency int
}

// Option configures Run.
type Option func(*options)

// WithParameters sets the solver parameters of every point.
func WithParameters(p *lpmodel.Parameters) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithConcurrency sets the number of points solved at the same time. The default is 1. A
// value of zero or less uses GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
	}
}

// Run builds and solves one model per value and returns the points in the order of
// `values`. A failing point is recorded in Point.Err and does not stop the sweep. Run
// returns an error only when `ctx` is done before every point is solved; solves in progress
// are interrupted between pivots.
func Run(ctx context.Context, build BuildFunc, values []float64, opts ...Option) ([]Point, error) {
	o := &options{concurrency: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.params != nil {
		if err := o.params.Validate(); err != nil {
			return nil, err
		}
	}

	points := make([]Point, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := solvePoint(gctx, build, v, o.params)
			if err != nil {
				return err
			}
			points[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// solvePoint returns an error only when the solve was interrupted by `ctx`.
func solvePoint(ctx context.Context, build BuildFunc, v float64, params *lpmodel.Parameters) (Point, error) {
	p := Point{Value: v}
	m, err := build(v)
	if err != nil {
		p.Err = fmt.Errorf("building model for %v: %w", v, err)
		log.Warningf("sweep: %v", p.Err)
		return p, nil
	}
	sol, err := lpmodel.SolveInterruptibleWithParameters(m, params, ctx.Done())
	switch {
	case errors.Is(err, lpmodel.ErrInterrupted) && ctx.Err() != nil:
		return p, ctx.Err()
	case err != nil:
		p.Err = fmt.Errorf("solving model for %v: %w", v, err)
		log.Warningf("sweep: %v", p.Err)
		return p, nil
	}
	p.Solution = sol
	if log.V(1) {
		log.Infof("sweep: value %v: %v, objective %g", v, sol.Status, sol.Objective)
	}
	return p, nil
}

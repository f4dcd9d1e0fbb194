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

package lpmodel

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

var (
	// ErrIterationLimit is returned when a simplex phase needs more pivots than
	// Parameters.MaxIterations. It means the solver could not decide within budget, not
	// that the model is infeasible or unbounded.
	ErrIterationLimit = errors.New("iteration limit exceeded")
	// ErrInterrupted is returned when the interrupt channel fires during a solve.
	ErrInterrupted = errors.New("solve interrupted")
	// ErrInvalidParameters is returned for negative or NaN parameter values.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrNumerical is returned when round-off leads the simplex into a state that cannot
	// occur in exact arithmetic.
	ErrNumerical = errors.New("numerical failure")
)

const (
	// DefaultTolerance is the absolute tolerance used when Parameters.Tolerance is zero.
	DefaultTolerance = 1e-7
	// DefaultMaxIterations is the per-phase pivot cap used when Parameters.MaxIterations
	// is zero.
	DefaultMaxIterations = 10000
	// DefaultDegeneratePivotLimit is the number of consecutive pivots without objective
	// progress after which Bland's rule takes over.
	DefaultDegeneratePivotLimit = 50
)

// Parameters configures a single solve. Zero fields take their default value.
type Parameters struct {
	// Tolerance is the absolute epsilon for every "is zero" or "is negative" decision.
	Tolerance float64
	// MaxIterations caps the number of pivots of each phase.
	MaxIterations int
	// DegeneratePivotLimit is the number of consecutive pivots without objective progress
	// after which pivoting switches to Bland's rule for the rest of the phase.
	DegeneratePivotLimit int
}

// DefaultParameters returns the parameters used by Solve.
func DefaultParameters() *Parameters {
	return &Parameters{
		Tolerance:            DefaultTolerance,
		MaxIterations:        DefaultMaxIterations,
		DegeneratePivotLimit: DefaultDegeneratePivotLimit,
	}
}

// Validate returns an error wrapping ErrInvalidParameters if a field is negative or NaN.
func (p *Parameters) Validate() error {
	switch {
	case math.IsNaN(p.Tolerance) || p.Tolerance < 0 || math.IsInf(p.Tolerance, 1):
		return fmt.Errorf("tolerance %v: %w", p.Tolerance, ErrInvalidParameters)
	case p.MaxIterations < 0:
		return fmt.Errorf("max iterations %d: %w", p.MaxIterations, ErrInvalidParameters)
	case p.DegeneratePivotLimit < 0:
		return fmt.Errorf("degenerate pivot limit %d: %w", p.DegeneratePivotLimit, ErrInvalidParameters)
	}
	return nil
}

// withDefaults returns a copy of `p` where zero fields are replaced by defaults.
func (p *Parameters) withDefaults() *Parameters {
	res := DefaultParameters()
	if p == nil {
		return res
	}
	if p.Tolerance != 0 {
		res.Tolerance = p.Tolerance
	}
	if p.MaxIterations != 0 {
		res.MaxIterations = p.MaxIterations
	}
	if p.DegeneratePivotLimit != 0 {
		res.DegeneratePivotLimit = p.DegeneratePivotLimit
	}
	return res
}

// Solve solves the model with the default parameters.
func Solve(m *Model) (*Solution, error) {
	return SolveWithParameters(m, nil)
}

// SolveWithParameters solves the model with the given parameters. A nil `params` uses the
// defaults.
//
// Infeasible and unbounded models are reported through Solution.Status. An error is only
// returned for invalid parameters, for ErrIterationLimit and for ErrNumerical.
func SolveWithParameters(m *Model, params *Parameters) (*Solution, error) {
	return SolveInterruptibleWithParameters(m, params, nil)
}

// SolveInterruptibleWithParameters solves the model with the given parameters. The solve
// stops with ErrInterrupted at the next pivot once `interrupt` is closed or receives a
// value. A nil channel never interrupts.
func SolveInterruptibleWithParameters(m *Model, params *Parameters, interrupt <-chan struct{}) (*Solution, error) {
	if m == nil {
		return nil, ErrEmptyModel
	}
	if params != nil {
		if err := params.Validate(); err != nil {
			return nil, err
		}
	}
	p := params.withDefaults()

	cf := canonicalize(m)
	if log.V(1) {
		log.Infof("lpmodel: solving %d variables, %d constraints as %d rows x %d columns (%d artificial)",
			len(m.names), len(m.rows), cf.m, cf.n, cf.numArtificial())
	}

	s := newSimplex(cf, p, interrupt)
	state, err := s.run()
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		Phase1Iterations: s.iterations[0],
		Phase2Iterations: s.iterations[1],
		names:            append([]string(nil), m.names...),
		index:            make(map[string]int, len(m.names)),
	}
	for i, name := range m.names {
		sol.index[name] = i
	}

	switch state {
	case stateInfeasible:
		sol.Status = Infeasible
	case stateUnbounded:
		sol.Status = Unbounded
	case stateOptimal:
		sol.Status = Optimal
		sol.values = cf.recover(s.primalValues())
		for j, b := range m.bounds {
			sol.values[j] = snapToBounds(sol.values[j], b, p.Tolerance)
		}
		sol.activities = make([]float64, len(m.rows))
		for r := range m.rows {
			sol.activities[r] = m.rowActivity(r, sol.values)
		}
		sol.Objective = s.objectiveValue()
		if m.maximize {
			sol.Objective = -sol.Objective
		}
	}

	if log.V(1) {
		log.Infof("lpmodel: %v after %d+%d iterations, objective %g",
			sol.Status, sol.Phase1Iterations, sol.Phase2Iterations, sol.Objective)
	}
	return sol, nil
}

// snapToBounds removes round-off that puts `v` marginally outside `b`.
func snapToBounds(v float64, b Bounds, tol float64) float64 {
	switch {
	case v < b.Lower && v >= b.Lower-tol:
		return b.Lower
	case v > b.Upper && v <= b.Upper+tol:
		return b.Upper
	}
	return v
}

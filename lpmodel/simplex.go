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
	"fmt"
	"math"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

type simplexState int

const (
	phase1Setup simplexState = iota
	phase1Iterating
	phase1Done
	phase2Setup
	phase2Iterating
	stateOptimal
	stateUnbounded
	stateInfeasible
)

func (s simplexState) String() string {
	switch s {
	case phase1Setup:
		return "Phase1Setup"
	case phase1Iterating:
		return "Phase1Iterating"
	case phase1Done:
		return "Phase1Done"
	case phase2Setup:
		return "Phase2Setup"
	case phase2Iterating:
		return "Phase2Iterating"
	case stateOptimal:
		return "Optimal"
	case stateUnbounded:
		return "Unbounded"
	case stateInfeasible:
		return "Infeasible"
	}
	return fmt.Sprintf("simplexState(%d)", int(s))
}

func (s simplexState) terminal() bool {
	return s == stateOptimal || s == stateUnbounded || s == stateInfeasible
}

// iterationResult is how a pivoting loop ended.
type iterationResult int

const (
	reachedOptimum iterationResult = iota
	foundUnboundedRay
)

// simplex runs the two-phase primal simplex method on a canonical form. The tableau is
// modified in place.
type simplex struct {
	cf        *canonicalForm
	params    *Parameters
	interrupt <-chan struct{}

	// banned columns never enter the basis. Artificial columns are banned in phase 2.
	banned     []bool
	bland      bool
	iterations [2]int
}

func newSimplex(cf *canonicalForm, params *Parameters, interrupt <-chan struct{}) *simplex {
	return &simplex{
		cf:        cf,
		params:    params,
		interrupt: interrupt,
		banned:    make([]bool, cf.n),
	}
}

// run drives the state machine from Phase1Setup to a terminal state.
func (s *simplex) run() (simplexState, error) {
	state := phase1Setup
	for !state.terminal() {
		next, err := s.step(state)
		if err != nil {
			return state, err
		}
		if log.V(2) {
			log.Infof("lpmodel: simplex %v -> %v", state, next)
		}
		state = next
	}
	return state, nil
}

func (s *simplex) step(state simplexState) (simplexState, error) {
	switch state {
	case phase1Setup:
		if s.cf.numArtificial() == 0 {
			return phase2Setup, nil
		}
		s.installPhase1Costs()
		return phase1Iterating, nil

	case phase1Iterating:
		res, err := s.iterate(0)
		if err != nil {
			return state, err
		}
		if res == foundUnboundedRay {
			// The sum of artificial variables is bounded below by zero.
			return state, fmt.Errorf("phase 1 found an unbounded ray: %w", ErrNumerical)
		}
		return phase1Done, nil

	case phase1Done:
		infeasibility := -s.cf.tab.At(s.cf.m, s.cf.n)
		if infeasibility > s.params.Tolerance {
			if log.V(1) {
				log.Infof("lpmodel: phase 1 ended with infeasibility %g", infeasibility)
			}
			return stateInfeasible, nil
		}
		s.dropArtificials()
		return phase2Setup, nil

	case phase2Setup:
		s.installPhase2Costs()
		return phase2Iterating, nil

	case phase2Iterating:
		res, err := s.iterate(1)
		if err != nil {
			return state, err
		}
		if res == foundUnboundedRay {
			return stateUnbounded, nil
		}
		return stateOptimal, nil
	}
	return state, fmt.Errorf("unexpected simplex state %v", state)
}

// installPhase1Costs sets the objective row to the sum of the artificial variables, priced
// out against the initial basis.
func (s *simplex) installPhase1Costs() {
	cf := s.cf
	obj := cf.tab.RawRowView(cf.m)
	for j := range obj {
		obj[j] = 0
	}
	for j, k := range cf.kinds {
		if k == artificialColumn {
			obj[j] = 1
		}
	}
	for i, bj := range cf.basis {
		if cf.kinds[bj] == artificialColumn {
			floats.AddScaled(obj, -1, cf.tab.RawRowView(i))
		}
	}
	s.bland = false
}

// dropArtificials pivots the remaining zero-valued artificial variables out of the basis
// and bans every artificial column from entering again. Rows whose artificial variable
// cannot leave are redundant; they are zeroed and kept out of every ratio test.
func (s *simplex) dropArtificials() {
	cf := s.cf
	tol := s.params.Tolerance
	for j, k := range cf.kinds {
		if k == artificialColumn {
			s.banned[j] = true
		}
	}
	for i, bj := range cf.basis {
		if cf.kinds[bj] != artificialColumn {
			continue
		}
		r := cf.tab.RawRowView(i)
		entering := -1
		for j := 0; j < cf.n; j++ {
			if !s.banned[j] && math.Abs(r[j]) > tol {
				entering = j
				break
			}
		}
		if entering >= 0 {
			s.pivot(i, entering)
			continue
		}
		if log.V(2) {
			log.Infof("lpmodel: row %d is redundant", i)
		}
		for j := 0; j < cf.n; j++ {
			if !s.banned[j] {
				r[j] = 0
			}
		}
		r[cf.n] = 0
	}
}

// installPhase2Costs sets the objective row to the real costs priced out against the
// feasible basis found in phase 1.
func (s *simplex) installPhase2Costs() {
	cf := s.cf
	obj := cf.tab.RawRowView(cf.m)
	copy(obj, cf.c)
	obj[cf.n] = 0
	for i, bj := range cf.basis {
		if cb := cf.c[bj]; cb != 0 {
			floats.AddScaled(obj, -cb, cf.tab.RawRowView(i))
		}
	}
	for _, bj := range cf.basis {
		obj[bj] = 0
	}
	s.bland = false
}

// iterate pivots until no reduced cost is negative or an unbounded ray is found.
func (s *simplex) iterate(phase int) (iterationResult, error) {
	cf := s.cf
	degenerate := 0
	for {
		entering := s.entering()
		if entering < 0 {
			return reachedOptimum, nil
		}
		leaving := s.leaving(entering)
		if leaving < 0 {
			if log.V(1) {
				log.Infof("lpmodel: phase %d: column %d has no positive entry", phase+1, entering)
			}
			return foundUnboundedRay, nil
		}
		if s.iterations[phase] >= s.params.MaxIterations {
			return reachedOptimum, fmt.Errorf("phase %d exceeded %d iterations: %w", phase+1, s.params.MaxIterations, ErrIterationLimit)
		}
		if s.interrupted() {
			return reachedOptimum, fmt.Errorf("phase %d after %d iterations: %w", phase+1, s.iterations[phase], ErrInterrupted)
		}

		before := cf.tab.At(cf.m, cf.n)
		s.pivot(leaving, entering)
		s.iterations[phase]++

		// The objective row holds -z, so progress increases it.
		if cf.tab.At(cf.m, cf.n)-before > s.params.Tolerance {
			degenerate = 0
			continue
		}
		degenerate++
		if !s.bland && degenerate > s.params.DegeneratePivotLimit {
			s.bland = true
			if log.V(2) {
				log.Infof("lpmodel: phase %d: %d degenerate pivots, switching to Bland's rule", phase+1, degenerate)
			}
		}
	}
}

// entering returns the column with the most negative reduced cost, or under Bland's rule
// the first column with a negative reduced cost. Ties go to the lowest column index. It
// returns -1 when the basis is optimal.
func (s *simplex) entering() int {
	cf := s.cf
	obj := cf.tab.RawRowView(cf.m)
	best := -s.params.Tolerance
	entering := -1
	for j := 0; j < cf.n; j++ {
		if s.banned[j] || obj[j] >= best {
			continue
		}
		if s.bland {
			return j
		}
		best = obj[j]
		entering = j
	}
	return entering
}

// leaving runs the ratio test on column `col` over the rows with a positive entry. Ties go
// to the lowest row index, or under Bland's rule to the lowest basic column index. It
// returns -1 when the column has no positive entry.
func (s *simplex) leaving(col int) int {
	cf := s.cf
	tol := s.params.Tolerance
	leaving := -1
	minRatio := math.Inf(1)
	for i := 0; i < cf.m; i++ {
		a := cf.tab.At(i, col)
		if a <= tol {
			continue
		}
		ratio := cf.tab.At(i, cf.n) / a
		switch {
		case leaving < 0 || ratio < minRatio-tol:
			leaving, minRatio = i, ratio
		case s.bland && ratio <= minRatio+tol && cf.basis[i] < cf.basis[leaving]:
			leaving = i
			minRatio = math.Min(minRatio, ratio)
		}
	}
	return leaving
}

// pivot makes column `col` basic in row `r` by Gauss-Jordan elimination.
func (s *simplex) pivot(r, col int) {
	cf := s.cf
	pr := cf.tab.RawRowView(r)
	floats.Scale(1/pr[col], pr)
	pr[col] = 1
	if pr[cf.n] < 0 && pr[cf.n] > -s.params.Tolerance {
		pr[cf.n] = 0
	}
	for i := 0; i <= cf.m; i++ {
		if i == r {
			continue
		}
		ri := cf.tab.RawRowView(i)
		f := ri[col]
		if f == 0 {
			continue
		}
		floats.AddScaled(ri, -f, pr)
		ri[col] = 0
		// Clear round-off that would otherwise turn a feasible basis infeasible.
		if i < cf.m && ri[cf.n] < 0 && ri[cf.n] > -s.params.Tolerance {
			ri[cf.n] = 0
		}
	}
	cf.basis[r] = col
}

func (s *simplex) interrupted() bool {
	if s.interrupt == nil {
		return false
	}
	select {
	case <-s.interrupt:
		return true
	default:
		return false
	}
}

// primalValues returns the value of every canonical column for the current basis.
func (s *simplex) primalValues() []float64 {
	cf := s.cf
	y := make([]float64, cf.n)
	for i, bj := range cf.basis {
		y[bj] = cf.tab.At(i, cf.n)
	}
	return y
}

// objectiveValue returns the minimized objective accumulated in the cost row.
func (s *simplex) objectiveValue() float64 {
	return -s.cf.tab.At(s.cf.m, s.cf.n) + s.cf.offset
}

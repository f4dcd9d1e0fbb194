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

import "fmt"

// Status is the outcome of a solve.
type Status int

const (
	// Unspecified is the zero value and is never returned by a solve.
	Unspecified Status = iota
	// Optimal means an optimal basic feasible solution was found.
	Optimal
	// Infeasible means no assignment satisfies all constraints and bounds.
	Infeasible
	// Unbounded means the objective can decrease without limit.
	Unbounded
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case Unspecified:
		return "Unspecified"
	case Optimal:
		return "Optimal"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Solution contains the results of solving a Model. It shares no state with the Model
// and is never modified after the solve returns.
type Solution struct {
	// Status indicates the outcome of the solve.
	Status Status

	// Objective is the value of the objective function at the solution, in the sense the
	// model was built with. Only meaningful when Status is Optimal.
	Objective float64

	// Phase1Iterations and Phase2Iterations count the simplex pivots of each phase.
	Phase1Iterations int
	Phase2Iterations int

	names      []string
	index      map[string]int
	values     []float64
	activities []float64
}

// IsOptimal returns true if the solution is optimal.
func (s *Solution) IsOptimal() bool {
	return s.Status == Optimal
}

// IsInfeasible returns true if the model is infeasible.
func (s *Solution) IsInfeasible() bool {
	return s.Status == Infeasible
}

// IsUnbounded returns true if the model is unbounded.
func (s *Solution) IsUnbounded() bool {
	return s.Status == Unbounded
}

// HasSolution returns true if the solution contains variable values.
func (s *Solution) HasSolution() bool {
	return s.Status == Optimal && s.values != nil
}

// Value returns the value of the named variable. It returns 0 if the solution has no values
// or the name is unknown.
func (s *Solution) Value(name string) float64 {
	v, _ := s.LookupValue(name)
	return v
}

// LookupValue returns the value of the named variable, and false if the solution has no
// values or the name is unknown.
func (s *Solution) LookupValue(name string) (float64, bool) {
	if !s.HasSolution() {
		return 0, false
	}
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.values[i], true
}

// Values returns a copy of the variable values keyed by name, or nil if the solution has no
// values.
func (s *Solution) Values() map[string]float64 {
	if !s.HasSolution() {
		return nil
	}
	values := make(map[string]float64, len(s.names))
	for i, name := range s.names {
		values[name] = s.values[i]
	}
	return values
}

// VariableValues returns a copy of the variable values in declaration order, or nil if the
// solution has no values.
func (s *Solution) VariableValues() []float64 {
	if !s.HasSolution() {
		return nil
	}
	return append([]float64(nil), s.values...)
}

// VariableNames returns the variable names in declaration order.
func (s *Solution) VariableNames() []string {
	return append([]string(nil), s.names...)
}

// ConstraintActivities returns the left-hand side value of every constraint, in insertion
// order, or nil if the solution has no values.
func (s *Solution) ConstraintActivities() []float64 {
	if !s.HasSolution() {
		return nil
	}
	return append([]float64(nil), s.activities...)
}

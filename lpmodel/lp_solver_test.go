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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const testTolerance = 1e-6

var approx = cmpopts.EquateApprox(0, testTolerance)

// gohighsModel builds the LP
//
//	min/max x0 + x1 + 3
//	s.t.    x1 <= 7
//	        5 <= x0 + 2x1 <= 15
//	        3x0 + 2x1 >= 6
//	        0 <= x0 <= 4, 1 <= x1
func gohighsModel(t *testing.T, maximize bool) *Model {
	t.Helper()
	model := NewModelBuilder()
	x0, err := model.AddVariableWithBounds("x0", Bounds{Lower: 0, Upper: 4})
	if err != nil {
		t.Fatalf("AddVariableWithBounds(x0) returned with unexpected error %v", err)
	}
	x1, err := model.AddVariableWithBounds("x1", Bounds{Lower: 1, Upper: Inf()})
	if err != nil {
		t.Fatalf("AddVariableWithBounds(x1) returned with unexpected error %v", err)
	}
	obj := NewLinearExpr().AddSum(x0, x1).AddConstant(3)
	if maximize {
		model.Maximize(obj)
	} else {
		model.Minimize(obj)
	}
	model.AddLessOrEqual(x1, 7)
	model.AddGreaterOrEqual(NewLinearExpr().Add(x0).AddTerm(x1, 2), 5)
	model.AddLessOrEqual(NewLinearExpr().Add(x0).AddTerm(x1, 2), 15)
	model.AddGreaterOrEqual(NewLinearExpr().AddTerm(x0, 3).AddTerm(x1, 2), 6)
	m, err := model.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	return m
}

func buildModel(t *testing.T, build func(b *Builder)) *Model {
	t.Helper()
	b := NewModelBuilder()
	build(b)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	return m
}

func TestSolve(t *testing.T) {
	testCases := []struct {
		name       string
		model      func(t *testing.T) *Model
		wantStatus Status
		wantObj    float64
		wantValues map[string]float64
	}{
		{
			name: "SingleLowerBound",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					b.Minimize(x)
					b.AddGreaterOrEqual(x, 5)
				})
			},
			wantStatus: Optimal,
			wantObj:    5,
			wantValues: map[string]float64{"x": 5},
		},
		{
			name: "EqualityWithBound",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					a, _ := b.AddVariable("a")
					c, _ := b.AddVariable("b")
					b.Minimize(NewLinearExpr().AddTerm(a, 2).AddTerm(c, 3))
					b.AddEquality(NewLinearExpr().AddSum(a, c), 10)
					b.AddGreaterOrEqual(a, 4)
				})
			},
			wantStatus: Optimal,
			wantObj:    20,
			wantValues: map[string]float64{"a": 10, "b": 0},
		},
		{
			name: "Infeasible",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					b.Minimize(x)
					b.AddLessOrEqual(x, -1)
				})
			},
			wantStatus: Infeasible,
		},
		{
			name: "InfeasibleEqualities",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					y, _ := b.AddVariable("y")
					b.Minimize(NewLinearExpr().AddSum(x, y))
					b.AddEquality(NewLinearExpr().AddSum(x, y), 2)
					b.AddEquality(NewLinearExpr().AddSum(x, y), 3)
				})
			},
			wantStatus: Infeasible,
		},
		{
			name: "UnboundedWithoutConstraints",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					b.Minimize(NewLinearExpr().AddTerm(x, -1))
				})
			},
			wantStatus: Unbounded,
		},
		{
			name: "UnboundedMaximize",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					y, _ := b.AddVariable("y")
					b.Maximize(NewLinearExpr().AddSum(x, y))
					b.AddLessOrEqual(NewLinearExpr().Add(x).AddTerm(y, -1), 1)
				})
			},
			wantStatus: Unbounded,
		},
		{
			name: "ZeroObjective",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					b.Minimize(NewConstant(0))
					b.AddLessOrEqual(x, 3)
				})
			},
			wantStatus: Optimal,
			wantObj:    0,
			wantValues: map[string]float64{"x": 0},
		},
		{
			name: "RedundantEqualities",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariable("x")
					y, _ := b.AddVariable("y")
					b.Minimize(x)
					b.AddEquality(NewLinearExpr().AddSum(x, y), 2)
					b.AddEquality(NewLinearExpr().AddTerm(x, 2).AddTerm(y, 2), 4)
				})
			},
			wantStatus: Optimal,
			wantObj:    0,
			wantValues: map[string]float64{"x": 0, "y": 2},
		},
		{
			name: "FreeVariable",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariableWithBounds("x", Free())
					b.Minimize(x)
					b.AddGreaterOrEqual(x, -3)
				})
			},
			wantStatus: Optimal,
			wantObj:    -3,
			wantValues: map[string]float64{"x": -3},
		},
		{
			name: "NegativeLowerBound",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariableWithBounds("x", Bounds{Lower: -5, Upper: 10})
					b.Minimize(x)
				})
			},
			wantStatus: Optimal,
			wantObj:    -5,
			wantValues: map[string]float64{"x": -5},
		},
		{
			name: "UpperBoundOnly",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariableWithBounds("x", Bounds{Lower: NegInf(), Upper: 7})
					b.Maximize(x)
				})
			},
			wantStatus: Optimal,
			wantObj:    7,
			wantValues: map[string]float64{"x": 7},
		},
		{
			name: "FixedVariable",
			model: func(t *testing.T) *Model {
				return buildModel(t, func(b *Builder) {
					x, _ := b.AddVariableWithBounds("x", Bounds{Lower: 3, Upper: 3})
					y, _ := b.AddVariable("y")
					b.Minimize(NewLinearExpr().AddSum(x, y))
					b.AddGreaterOrEqual(NewLinearExpr().AddSum(x, y), 5)
				})
			},
			wantStatus: Optimal,
			wantObj:    5,
			wantValues: map[string]float64{"x": 3, "y": 2},
		},
		{
			name: "GohighsMinimize",
			model: func(t *testing.T) *Model {
				return gohighsModel(t, false)
			},
			wantStatus: Optimal,
			wantObj:    5.75,
			wantValues: map[string]float64{"x0": 0.5, "x1": 2.25},
		},
		{
			name: "GohighsMaximize",
			model: func(t *testing.T) *Model {
				return gohighsModel(t, true)
			},
			wantStatus: Optimal,
			wantObj:    12.5,
			wantValues: map[string]float64{"x0": 4, "x1": 5.5},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			m := test.model(t)
			sol, err := Solve(m)
			if err != nil {
				t.Fatalf("Solve() returned with unexpected error %v", err)
			}
			if sol.Status != test.wantStatus {
				t.Fatalf("Solve() status = %v, want %v", sol.Status, test.wantStatus)
			}
			if test.wantStatus != Optimal {
				if sol.HasSolution() || sol.Values() != nil || sol.ConstraintActivities() != nil {
					t.Errorf("Solve() returned values for a %v model", sol.Status)
				}
				return
			}
			if diff := cmp.Diff(test.wantObj, sol.Objective, approx); diff != "" {
				t.Errorf("Solve() objective returned with unexpected diff (-want+got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantValues, sol.Values(), approx); diff != "" {
				t.Errorf("Solve() values returned with unexpected diff (-want+got):\n%s", diff)
			}
			checkFeasible(t, m, sol)
		})
	}
}

// checkFeasible verifies that an optimal solution satisfies every bound and constraint.
func checkFeasible(t *testing.T, m *Model, sol *Solution) {
	t.Helper()
	values := sol.VariableValues()
	for j, b := range m.bounds {
		if !b.Contains(values[j], testTolerance) {
			t.Errorf("variable %q = %v violates bounds %v", m.names[j], values[j], b)
		}
	}
	activities := sol.ConstraintActivities()
	for i, r := range m.rows {
		act := activities[i]
		var ok bool
		switch r.op {
		case LessOrEqual:
			ok = act <= r.rhs+testTolerance
		case GreaterOrEqual:
			ok = act >= r.rhs-testTolerance
		case Equal:
			ok = math.Abs(act-r.rhs) <= testTolerance
		}
		if !ok {
			t.Errorf("constraint %q: activity %v %v %v is violated", r.name, act, r.op, r.rhs)
		}
	}
}

func TestSolve_ConstraintActivities(t *testing.T) {
	sol, err := Solve(gohighsModel(t, false))
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	want := []float64{2.25, 5, 5, 6}
	if diff := cmp.Diff(want, sol.ConstraintActivities(), approx); diff != "" {
		t.Errorf("ConstraintActivities() returned with unexpected diff (-want+got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x0", "x1"}, sol.VariableNames()); diff != "" {
		t.Errorf("VariableNames() returned with unexpected diff (-want+got):\n%s", diff)
	}
	if v, ok := sol.LookupValue("missing"); ok || v != 0 {
		t.Errorf("LookupValue(missing) = (%v, %v), want (0, false)", v, ok)
	}
}

func TestSolve_IterationLimit(t *testing.T) {
	m := buildModel(t, func(b *Builder) {
		a, _ := b.AddVariable("a")
		c, _ := b.AddVariable("b")
		b.Minimize(NewLinearExpr().AddTerm(a, 2).AddTerm(c, 3))
		b.AddEquality(NewLinearExpr().AddSum(a, c), 10)
		b.AddGreaterOrEqual(a, 4)
	})

	_, err := SolveWithParameters(m, &Parameters{MaxIterations: 1})
	if !errors.Is(err, ErrIterationLimit) {
		t.Errorf("SolveWithParameters(MaxIterations: 1) returned %v, want %v", err, ErrIterationLimit)
	}

	sol, err := SolveWithParameters(m, &Parameters{MaxIterations: 2})
	if err != nil {
		t.Fatalf("SolveWithParameters(MaxIterations: 2) returned with unexpected error %v", err)
	}
	if got, want := sol.Phase1Iterations, 2; got != want {
		t.Errorf("Phase1Iterations = %v, want %v", got, want)
	}
	if diff := cmp.Diff(20.0, sol.Objective, approx); diff != "" {
		t.Errorf("Solve() objective returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestSolve_Interrupt(t *testing.T) {
	m := buildModel(t, func(b *Builder) {
		x, _ := b.AddVariable("x")
		b.Minimize(x)
		b.AddGreaterOrEqual(x, 5)
	})

	interrupt := make(chan struct{})
	close(interrupt)
	if _, err := SolveInterruptibleWithParameters(m, nil, interrupt); !errors.Is(err, ErrInterrupted) {
		t.Errorf("SolveInterruptibleWithParameters() with closed channel returned %v, want %v", err, ErrInterrupted)
	}

	// A channel that never fires has no effect.
	sol, err := SolveInterruptibleWithParameters(m, nil, make(chan struct{}))
	if err != nil {
		t.Fatalf("SolveInterruptibleWithParameters() returned with unexpected error %v", err)
	}
	if !sol.IsOptimal() {
		t.Errorf("SolveInterruptibleWithParameters() status = %v, want %v", sol.Status, Optimal)
	}
}

func TestSolve_InvalidParameters(t *testing.T) {
	m := buildModel(t, func(b *Builder) {
		x, _ := b.AddVariable("x")
		b.Minimize(x)
	})
	testCases := []struct {
		name   string
		params *Parameters
	}{
		{name: "NegativeTolerance", params: &Parameters{Tolerance: -1}},
		{name: "NaNTolerance", params: &Parameters{Tolerance: math.NaN()}},
		{name: "NegativeMaxIterations", params: &Parameters{MaxIterations: -1}},
		{name: "NegativeDegeneratePivotLimit", params: &Parameters{DegeneratePivotLimit: -1}},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if _, err := SolveWithParameters(m, test.params); !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("SolveWithParameters(%+v) returned %v, want %v", test.params, err, ErrInvalidParameters)
			}
		})
	}

	if _, err := Solve(nil); !errors.Is(err, ErrEmptyModel) {
		t.Errorf("Solve(nil) returned %v, want %v", err, ErrEmptyModel)
	}
}

func TestParameters_WithDefaults(t *testing.T) {
	var nilParams *Parameters
	if diff := cmp.Diff(DefaultParameters(), nilParams.withDefaults()); diff != "" {
		t.Errorf("withDefaults() on nil returned with unexpected diff (-want+got):\n%s", diff)
	}
	got := (&Parameters{MaxIterations: 7}).withDefaults()
	want := &Parameters{Tolerance: DefaultTolerance, MaxIterations: 7, DegeneratePivotLimit: DefaultDegeneratePivotLimit}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("withDefaults() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

// bealeModel is the classic example on which Dantzig's rule with lowest-index tie-breaking
// cycles.
func bealeModel(t *testing.T) *Model {
	return buildModel(t, func(b *Builder) {
		x4, _ := b.AddVariable("x4")
		x5, _ := b.AddVariable("x5")
		x6, _ := b.AddVariable("x6")
		x7, _ := b.AddVariable("x7")
		vars := []LinearArgument{x4, x5, x6, x7}
		b.Minimize(NewLinearExpr().AddWeightedSum(vars, []float64{-0.75, 20, -0.5, 6}))
		b.AddLessOrEqual(NewLinearExpr().AddWeightedSum(vars, []float64{0.25, -8, -1, 9}), 0)
		b.AddLessOrEqual(NewLinearExpr().AddWeightedSum(vars, []float64{0.5, -12, -0.5, 3}), 0)
		b.AddLessOrEqual(x6, 1)
	})
}

func TestSolve_DegenerateCycling(t *testing.T) {
	m := bealeModel(t)
	for _, limit := range []int{1, 5, DefaultDegeneratePivotLimit} {
		sol, err := SolveWithParameters(m, &Parameters{DegeneratePivotLimit: limit})
		if err != nil {
			t.Fatalf("SolveWithParameters(DegeneratePivotLimit: %d) returned with unexpected error %v", limit, err)
		}
		if !sol.IsOptimal() {
			t.Fatalf("SolveWithParameters(DegeneratePivotLimit: %d) status = %v, want %v", limit, sol.Status, Optimal)
		}
		if diff := cmp.Diff(-1.25, sol.Objective, approx); diff != "" {
			t.Errorf("SolveWithParameters(DegeneratePivotLimit: %d) objective returned with unexpected diff (-want+got):\n%s", limit, diff)
		}
		want := map[string]float64{"x4": 1, "x5": 0, "x6": 1, "x7": 0}
		if diff := cmp.Diff(want, sol.Values(), approx); diff != "" {
			t.Errorf("SolveWithParameters(DegeneratePivotLimit: %d) values returned with unexpected diff (-want+got):\n%s", limit, diff)
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	m := gohighsModel(t, false)
	first, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	second, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Solution{})); diff != "" {
		t.Errorf("Solve() is not deterministic (-first+second):\n%s", diff)
	}
}

func TestSimplexState_String(t *testing.T) {
	want := []string{
		"Phase1Setup", "Phase1Iterating", "Phase1Done", "Phase2Setup", "Phase2Iterating",
		"Optimal", "Unbounded", "Infeasible",
	}
	for s := phase1Setup; s <= stateInfeasible; s++ {
		if got := s.String(); got != want[s] {
			t.Errorf("simplexState(%d).String() = %q, want %q", int(s), got, want[s])
		}
	}
}

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

// Package lpmodel offers an API to build and solve linear programs.
//
// The `Builder` struct collects named continuous variables, a linear objective and linear
// constraints, and `Build` turns them into an immutable `Model` snapshot in which names are
// resolved to dense indices.
// The `Variable` and `Constraint` structs are references to specific elements of a Builder.
// The `LinearExpr` struct provides helper methods for creating constraints and the objective
// from expressions with many variables and coefficients.
// `Solve` and its variants run a two-phase primal simplex on a snapshot and return a
// `Solution` whose status is Optimal, Infeasible or Unbounded.
package lpmodel

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

var (
	// ErrDuplicateVariable is returned when a variable name is declared twice.
	ErrDuplicateVariable = errors.New("duplicate variable")
	// ErrUnknownVariable is returned when an expression references an undeclared variable.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrEmptyModel is returned by Build when no variable has been declared.
	ErrEmptyModel = errors.New("model has no variables")
	// ErrMissingObjective is returned by Build when no objective has been set.
	ErrMissingObjective = errors.New("model has no objective")
	// ErrInvalidBounds is returned for NaN, inverted or otherwise unusable bounds.
	ErrInvalidBounds = errors.New("invalid bounds")
	// ErrInvalidName is returned when a variable is declared with an empty name.
	ErrInvalidName = errors.New("invalid name")
)

type (
	// VarIndex is the index of a variable in the model, in declaration order.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model, in insertion order.
	ConstrIndex int32
)

// Operator is the relation between the left-hand side expression of a constraint and its
// bound.
type Operator int

const (
	// LessOrEqual is `expr <= bound`.
	LessOrEqual Operator = iota
	// GreaterOrEqual is `expr >= bound`.
	GreaterOrEqual
	// Equal is `expr == bound`.
	Equal
)

// String returns the usual mathematical notation of the operator.
func (o Operator) String() string {
	switch o {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// ParseOperator parses "<=", ">=", "=" or "==".
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "<=":
		return LessOrEqual, nil
	case ">=":
		return GreaterOrEqual, nil
	case "=", "==":
		return Equal, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

func (o Operator) valid() bool {
	return o == LessOrEqual || o == GreaterOrEqual || o == Equal
}

// Variable is a reference to a continuous variable in a Builder.
type Variable struct {
	ind VarIndex
	lpb *Builder
}

// Name returns the name of the variable.
func (v Variable) Name() string {
	return v.lpb.vars[v.ind].name
}

// Index returns the index of the variable.
func (v Variable) Index() VarIndex {
	return v.ind
}

// Bounds returns the current bounds of the variable.
func (v Variable) Bounds() Bounds {
	return v.lpb.vars[v.ind].bounds
}

func (v Variable) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{name: v.Name(), coeff: c})
}

// Constraint is a reference to a constraint in a Builder.
type Constraint struct {
	ind ConstrIndex
	lpb *Builder
}

// WithName sets the name of the constraint.
func (c Constraint) WithName(s string) Constraint {
	c.lpb.constraints[c.ind].name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.lpb.constraints[c.ind].name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

type variable struct {
	name   string
	bounds Bounds
}

type constraint struct {
	name  string
	terms []varCoeff
	op    Operator
	rhs   float64
}

// Builder collects the variables, objective and constraints of a linear program. A Builder
// is not safe for concurrent use; finish construction and call Build before solving.
type Builder struct {
	vars        []variable
	index       map[string]VarIndex
	objective   []varCoeff
	objOffset   float64
	hasObj      bool
	maximize    bool
	constraints []constraint
}

// NewModelBuilder creates and returns a new Builder.
func NewModelBuilder() *Builder {
	return &Builder{index: make(map[string]VarIndex)}
}

// AddVariable declares a new variable with the default bounds `[0,+inf)`.
func (b *Builder) AddVariable(name string) (Variable, error) {
	return b.AddVariableWithBounds(name, NonNegative())
}

// AddVariableWithBounds declares a new variable with the given bounds. An error wrapping
// ErrDuplicateVariable is returned if `name` already exists.
func (b *Builder) AddVariableWithBounds(name string, bounds Bounds) (Variable, error) {
	if name == "" {
		return Variable{}, b.reject(fmt.Errorf("variable name must not be empty: %w", ErrInvalidName))
	}
	if _, ok := b.index[name]; ok {
		return Variable{}, b.reject(fmt.Errorf("variable %q: %w", name, ErrDuplicateVariable))
	}
	if err := bounds.validate(); err != nil {
		return Variable{}, b.reject(fmt.Errorf("variable %q: %w", name, err))
	}
	ind := VarIndex(len(b.vars))
	b.vars = append(b.vars, variable{name: name, bounds: bounds})
	b.index[name] = ind
	return Variable{ind: ind, lpb: b}, nil
}

// LookupVariable returns the variable with the given name, and false if not found.
func (b *Builder) LookupVariable(name string) (Variable, bool) {
	ind, ok := b.index[name]
	if !ok {
		return Variable{}, false
	}
	return Variable{ind: ind, lpb: b}, true
}

// SetVariableBounds replaces the bounds of an existing variable.
func (b *Builder) SetVariableBounds(name string, bounds Bounds) error {
	ind, ok := b.index[name]
	if !ok {
		return b.reject(fmt.Errorf("variable %q: %w", name, ErrUnknownVariable))
	}
	if err := bounds.validate(); err != nil {
		return b.reject(fmt.Errorf("variable %q: %w", name, err))
	}
	b.vars[ind].bounds = bounds
	return nil
}

// SetObjective replaces the objective with `minimize obj`.
func (b *Builder) SetObjective(obj LinearArgument) error {
	return b.setObjective(obj, false)
}

// Minimize is an alias of SetObjective.
func (b *Builder) Minimize(obj LinearArgument) error {
	return b.setObjective(obj, false)
}

// Maximize replaces the objective with `maximize obj`. It is stored as the minimization of
// the negated expression; the objective value of a solution is reported in the maximization
// sense.
func (b *Builder) Maximize(obj LinearArgument) error {
	return b.setObjective(obj, true)
}

func (b *Builder) setObjective(obj LinearArgument, maximize bool) error {
	e := asLinearExpr(obj)
	terms := e.simplified()
	if err := b.checkDeclared(terms, "objective"); err != nil {
		return err
	}
	offset := e.offset
	if maximize {
		for i := range terms {
			terms[i].coeff = -terms[i].coeff
		}
		offset = -offset
	}
	b.objective = terms
	b.objOffset = offset
	b.maximize = maximize
	b.hasObj = true
	return nil
}

// AddConstraint adds the linear constraint `expr op bound`. The constant offset of `expr` is
// moved to the right-hand side. An error wrapping ErrUnknownVariable is returned if `expr`
// references an undeclared variable.
func (b *Builder) AddConstraint(expr LinearArgument, op Operator, bound float64) (Constraint, error) {
	if !op.valid() {
		return Constraint{}, b.reject(fmt.Errorf("constraint %d: unsupported operator %v", len(b.constraints), op))
	}
	if math.IsNaN(bound) || math.IsInf(bound, 0) {
		return Constraint{}, b.reject(fmt.Errorf("constraint %d: bound %v is not finite: %w", len(b.constraints), bound, ErrInvalidBounds))
	}
	e := asLinearExpr(expr)
	terms := e.simplified()
	if err := b.checkDeclared(terms, fmt.Sprintf("constraint %d", len(b.constraints))); err != nil {
		return Constraint{}, err
	}
	ind := ConstrIndex(len(b.constraints))
	b.constraints = append(b.constraints, constraint{terms: terms, op: op, rhs: bound - e.offset})
	return Constraint{ind: ind, lpb: b}, nil
}

// AddLessOrEqual adds the linear constraint `expr <= bound`.
func (b *Builder) AddLessOrEqual(expr LinearArgument, bound float64) (Constraint, error) {
	return b.AddConstraint(expr, LessOrEqual, bound)
}

// AddGreaterOrEqual adds the linear constraint `expr >= bound`.
func (b *Builder) AddGreaterOrEqual(expr LinearArgument, bound float64) (Constraint, error) {
	return b.AddConstraint(expr, GreaterOrEqual, bound)
}

// AddEquality adds the linear constraint `expr == bound`.
func (b *Builder) AddEquality(expr LinearArgument, bound float64) (Constraint, error) {
	return b.AddConstraint(expr, Equal, bound)
}

func (b *Builder) checkDeclared(terms []varCoeff, where string) error {
	for _, vc := range terms {
		if _, ok := b.index[vc.name]; !ok {
			return b.reject(fmt.Errorf("%s references %q: %w", where, vc.name, ErrUnknownVariable))
		}
	}
	return nil
}

func (b *Builder) reject(err error) error {
	log.Errorf("lpmodel: %v", err)
	return err
}

// Build validates the builder and returns an immutable snapshot of it. Later changes to the
// Builder do not affect the returned Model.
func (b *Builder) Build() (*Model, error) {
	if len(b.vars) == 0 {
		return nil, b.reject(ErrEmptyModel)
	}
	if !b.hasObj {
		return nil, b.reject(ErrMissingObjective)
	}

	m := &Model{
		names:     make([]string, len(b.vars)),
		bounds:    make([]Bounds, len(b.vars)),
		index:     make(map[string]int, len(b.vars)),
		objective: make([]float64, len(b.vars)),
		objOffset: b.objOffset,
		maximize:  b.maximize,
		rows:      make([]row, len(b.constraints)),
	}
	for i, v := range b.vars {
		m.names[i] = v.name
		m.bounds[i] = v.bounds
		m.index[v.name] = i
	}
	for _, vc := range b.objective {
		m.objective[m.index[vc.name]] = vc.coeff
	}
	for i, ct := range b.constraints {
		r := row{name: ct.name, op: ct.op, rhs: ct.rhs}
		if r.name == "" {
			r.name = fmt.Sprintf("c%d", i)
		}
		for _, vc := range ct.terms {
			r.cols = append(r.cols, m.index[vc.name])
			r.coeffs = append(r.coeffs, vc.coeff)
		}
		m.rows[i] = r
	}
	return m, nil
}

type row struct {
	name   string
	cols   []int
	coeffs []float64
	op     Operator
	rhs    float64
}

// Model is an immutable linear program: minimize `objective · x + offset` subject to the
// constraint rows and the variable bounds. Names are resolved to dense indices in
// declaration order. A Model is safe for concurrent use by multiple solves.
type Model struct {
	names     []string
	bounds    []Bounds
	index     map[string]int
	objective []float64
	objOffset float64
	maximize  bool
	rows      []row
}

// NumVariables returns the number of variables.
func (m *Model) NumVariables() int {
	return len(m.names)
}

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int {
	return len(m.rows)
}

// VariableNames returns the variable names in declaration order.
func (m *Model) VariableNames() []string {
	return append([]string(nil), m.names...)
}

// ConstraintNames returns the constraint names in insertion order. Unnamed constraints are
// called `c<index>`.
func (m *Model) ConstraintNames() []string {
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.name
	}
	return names
}

// Bounds returns the bounds of the named variable, and false if not found.
func (m *Model) Bounds(name string) (Bounds, bool) {
	i, ok := m.index[name]
	if !ok {
		return Bounds{}, false
	}
	return m.bounds[i], true
}

// IsMaximization reports whether the model was built with Maximize.
func (m *Model) IsMaximization() bool {
	return m.maximize
}

// rowActivity returns the left-hand side value of row `r` for the dense assignment `x`.
func (m *Model) rowActivity(r int, x []float64) float64 {
	var sum float64
	for k, col := range m.rows[r].cols {
		sum += m.rows[r].coeffs[k] * x[col]
	}
	return sum
}

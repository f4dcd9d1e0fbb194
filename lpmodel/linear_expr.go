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
	log "github.com/golang/glog"
)

// LinearArgument provides an interface for Variable and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c float64)
}

// LinearExpr is a container for a linear expression: a list of (variable, coefficient)
// terms plus a constant offset. Terms naming the same variable are merged, and terms whose
// merged coefficient is zero are dropped, when the expression is simplified.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    float64
}

type varCoeff struct {
	name  string
	coeff float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff float64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddNamedTerm adds `coeff * name` to the LinearExpr and returns itself. The variable is
// resolved when the expression is handed to a Builder.
func (l *LinearExpr) AddNamedTerm(name string, coeff float64) *LinearExpr {
	l.varCoeffs = append(l.varCoeffs, varCoeff{name: name, coeff: coeff})
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients to the LinearExpr
// and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

// Scale multiplies every coefficient and the offset by `c` and returns itself.
func (l *LinearExpr) Scale(c float64) *LinearExpr {
	for i := range l.varCoeffs {
		l.varCoeffs[i].coeff *= c
	}
	l.offset *= c
	return l
}

// Offset returns the constant term of the expression.
func (l *LinearExpr) Offset() float64 {
	return l.offset
}

// Coefficients returns the simplified coefficients keyed by variable name. Variables whose
// coefficients cancel out are absent from the map.
func (l *LinearExpr) Coefficients() map[string]float64 {
	terms := l.simplified()
	coeffs := make(map[string]float64, len(terms))
	for _, vc := range terms {
		coeffs[vc.name] = vc.coeff
	}
	return coeffs
}

// Evaluate returns the value of the expression for the given assignment. Variables missing
// from `values` evaluate to zero.
func (l *LinearExpr) Evaluate(values map[string]float64) float64 {
	result := l.offset
	for _, vc := range l.simplified() {
		result += vc.coeff * values[vc.name]
	}
	return result
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c float64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{name: vc.name, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

// simplified merges the terms by variable in order of first appearance and removes zero
// coefficients.
func (l *LinearExpr) simplified() []varCoeff {
	pos := make(map[string]int, len(l.varCoeffs))
	var merged []varCoeff
	for _, vc := range l.varCoeffs {
		if i, ok := pos[vc.name]; ok {
			merged[i].coeff += vc.coeff
			continue
		}
		pos[vc.name] = len(merged)
		merged = append(merged, vc)
	}
	result := merged[:0]
	for _, vc := range merged {
		if vc.coeff != 0 {
			result = append(result, vc)
		}
	}
	return result
}

func asLinearExpr(la LinearArgument) *LinearExpr {
	return NewLinearExpr().Add(la)
}

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

	"gonum.org/v1/gonum/mat"
)

type columnKind int

const (
	structuralColumn columnKind = iota
	slackColumn
	surplusColumn
	artificialColumn
)

func (k columnKind) String() string {
	switch k {
	case structuralColumn:
		return "structural"
	case slackColumn:
		return "slack"
	case surplusColumn:
		return "surplus"
	case artificialColumn:
		return "artificial"
	}
	return fmt.Sprintf("columnKind(%d)", int(k))
}

// colTerm is one non-negative column contributing `sign * y[col]` to a model variable.
type colTerm struct {
	col  int
	sign float64
}

// varMap recovers a model variable from the canonical columns: x = shift + Σ sign*y[col].
type varMap struct {
	shift float64
	terms []colTerm
}

// canonicalForm is the standard-form program
//
//	minimize    c · y + offset
//	subject to  A y = b,  y >= 0,  b >= 0
//
// stored as a tableau with one row per constraint and a trailing objective row, and one
// column per canonical variable followed by the right-hand side. The objective row is left
// empty; each simplex phase installs its own costs.
type canonicalForm struct {
	tab    *mat.Dense
	m, n   int
	c      []float64
	offset float64
	kinds  []columnKind
	basis  []int
	vars   []varMap
}

// pendingRow is a constraint over the structural columns before auxiliary columns are
// assigned.
type pendingRow struct {
	coeffs []float64
	op     Operator
	rhs    float64
}

// canonicalize converts the snapshot into standard form. Variables with a finite lower
// bound are shifted to start at zero, variables with only a finite upper bound are
// mirrored, free variables are split into two non-negative parts and fixed variables are
// substituted by their value. Finite upper bounds become auxiliary `<=` rows.
func canonicalize(m *Model) *canonicalForm {
	cf := &canonicalForm{
		vars:   make([]varMap, len(m.names)),
		offset: m.objOffset,
	}

	var upperRows []pendingRow
	nStruct := 0
	newCol := func() int {
		cf.kinds = append(cf.kinds, structuralColumn)
		nStruct++
		return nStruct - 1
	}
	type upperBound struct {
		col   int
		limit float64
	}
	var uppers []upperBound
	for j, b := range m.bounds {
		switch {
		case b.IsFixed():
			cf.vars[j] = varMap{shift: b.Lower}
		case b.HasLower():
			col := newCol()
			cf.vars[j] = varMap{shift: b.Lower, terms: []colTerm{{col: col, sign: 1}}}
			if b.HasUpper() {
				uppers = append(uppers, upperBound{col: col, limit: b.Upper - b.Lower})
			}
		case b.HasUpper():
			col := newCol()
			cf.vars[j] = varMap{shift: b.Upper, terms: []colTerm{{col: col, sign: -1}}}
		default:
			pos, neg := newCol(), newCol()
			cf.vars[j] = varMap{terms: []colTerm{{col: pos, sign: 1}, {col: neg, sign: -1}}}
		}
	}

	cf.c = make([]float64, nStruct)
	for j, coeff := range m.objective {
		if coeff == 0 {
			continue
		}
		vm := cf.vars[j]
		cf.offset += coeff * vm.shift
		for _, t := range vm.terms {
			cf.c[t.col] += coeff * t.sign
		}
	}

	rows := make([]pendingRow, 0, len(m.rows)+len(uppers))
	for _, r := range m.rows {
		pr := pendingRow{coeffs: make([]float64, nStruct), op: r.op, rhs: r.rhs}
		for k, j := range r.cols {
			vm := cf.vars[j]
			pr.rhs -= r.coeffs[k] * vm.shift
			for _, t := range vm.terms {
				pr.coeffs[t.col] += r.coeffs[k] * t.sign
			}
		}
		rows = append(rows, pr)
	}
	for _, u := range uppers {
		pr := pendingRow{coeffs: make([]float64, nStruct), op: LessOrEqual, rhs: u.limit}
		pr.coeffs[u.col] = 1
		upperRows = append(upperRows, pr)
	}
	rows = append(rows, upperRows...)

	// Normalize so that every right-hand side is non-negative, then count the auxiliary
	// columns each row needs.
	nCols := nStruct
	for i := range rows {
		if rows[i].rhs < 0 {
			for k := range rows[i].coeffs {
				rows[i].coeffs[k] = -rows[i].coeffs[k]
			}
			rows[i].rhs = -rows[i].rhs
			switch rows[i].op {
			case LessOrEqual:
				rows[i].op = GreaterOrEqual
			case GreaterOrEqual:
				rows[i].op = LessOrEqual
			}
		}
		switch {
		case rows[i].op == GreaterOrEqual && rows[i].rhs > 0:
			nCols += 2
		default:
			nCols++
		}
	}

	cf.m = len(rows)
	cf.n = nCols
	cf.tab = mat.NewDense(cf.m+1, cf.n+1, nil)
	cf.basis = make([]int, cf.m)
	cf.c = append(cf.c, make([]float64, nCols-nStruct)...)

	next := nStruct
	addAux := func(kind columnKind) int {
		cf.kinds = append(cf.kinds, kind)
		next++
		return next - 1
	}
	for i, r := range rows {
		tr := cf.tab.RawRowView(i)
		copy(tr, r.coeffs)
		tr[cf.n] = r.rhs
		switch r.op {
		case LessOrEqual:
			col := addAux(slackColumn)
			tr[col] = 1
			cf.basis[i] = col
		case GreaterOrEqual:
			col := addAux(surplusColumn)
			if r.rhs > 0 {
				tr[col] = -1
				cf.basis[i] = addAux(artificialColumn)
				tr[cf.basis[i]] = 1
				continue
			}
			// The origin satisfies `expr >= 0`: negate the row so the surplus column can
			// start in the basis.
			for k := 0; k < nStruct; k++ {
				tr[k] = -tr[k]
			}
			tr[col] = 1
			cf.basis[i] = col
		case Equal:
			col := addAux(artificialColumn)
			tr[col] = 1
			cf.basis[i] = col
		}
	}
	return cf
}

// numArtificial returns the number of artificial columns.
func (cf *canonicalForm) numArtificial() int {
	count := 0
	for _, k := range cf.kinds {
		if k == artificialColumn {
			count++
		}
	}
	return count
}

// recover maps the canonical values `y` back to the model variables.
func (cf *canonicalForm) recover(y []float64) []float64 {
	x := make([]float64, len(cf.vars))
	for j, vm := range cf.vars {
		x[j] = vm.shift
		for _, t := range vm.terms {
			x[j] += t.sign * y[t.col]
		}
	}
	return x
}

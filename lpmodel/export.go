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
	"strconv"
	"strings"
	"unicode"

	"google.golang.org/protobuf/types/known/structpb"
)

// objectiveSign is the factor turning the stored minimization objective back into the
// sense the model was built with.
func (m *Model) objectiveSign() float64 {
	if m.maximize {
		return -1
	}
	return 1
}

// Proto returns the model as a `google.protobuf.Struct`, suitable for JSON export with
// protojson. Infinite bounds are omitted.
//
// The layout is:
//
//	maximize: bool
//	objective: {offset: number, terms: [{var: string, coeff: number}]}
//	variables: [{name: string, lower?: number, upper?: number}]
//	constraints: [{name: string, op: string, rhs: number, terms: [...]}]
func (m *Model) Proto() (*structpb.Struct, error) {
	sign := m.objectiveSign()
	var objTerms []any
	for j, c := range m.objective {
		if c != 0 {
			objTerms = append(objTerms, map[string]any{"var": m.names[j], "coeff": sign * c})
		}
	}

	vars := make([]any, len(m.names))
	for j, name := range m.names {
		v := map[string]any{"name": name}
		if b := m.bounds[j]; b.HasLower() {
			v["lower"] = b.Lower
		}
		if b := m.bounds[j]; b.HasUpper() {
			v["upper"] = b.Upper
		}
		vars[j] = v
	}

	cons := make([]any, len(m.rows))
	for i, r := range m.rows {
		terms := make([]any, len(r.cols))
		for k, col := range r.cols {
			terms[k] = map[string]any{"var": m.names[col], "coeff": r.coeffs[k]}
		}
		cons[i] = map[string]any{
			"name":  r.name,
			"op":    r.op.String(),
			"rhs":   r.rhs,
			"terms": terms,
		}
	}

	s, err := structpb.NewStruct(map[string]any{
		"maximize": m.maximize,
		"objective": map[string]any{
			"offset": sign * m.objOffset,
			"terms":  objTerms,
		},
		"variables":   vars,
		"constraints": cons,
	})
	if err != nil {
		return nil, fmt.Errorf("converting model to proto: %w", err)
	}
	return s, nil
}

// ExportModelAsLpFormat outputs the model as a string in CPLEX LP format. Whitespace in
// names is replaced by underscores.
func ExportModelAsLpFormat(m *Model) (string, error) {
	if m == nil || len(m.names) == 0 {
		return "", errors.New("cannot export an empty model as LP format")
	}
	var sb strings.Builder
	sign := m.objectiveSign()

	if m.maximize {
		sb.WriteString("Maximize\n")
	} else {
		sb.WriteString("Minimize\n")
	}
	sb.WriteString(" obj:")
	var objCols []int
	var objCoeffs []float64
	for j, c := range m.objective {
		if c != 0 {
			objCols = append(objCols, j)
			objCoeffs = append(objCoeffs, sign*c)
		}
	}
	writeTerms(&sb, m, objCols, objCoeffs)
	if off := sign * m.objOffset; off != 0 {
		writeNumber(&sb, off, len(objCols) == 0)
	} else if len(objCols) == 0 {
		sb.WriteString(" 0")
	}
	sb.WriteString("\n")

	sb.WriteString("Subject To\n")
	for _, r := range m.rows {
		fmt.Fprintf(&sb, " %s:", lpName(r.name))
		writeTerms(&sb, m, r.cols, r.coeffs)
		if len(r.cols) == 0 {
			sb.WriteString(" 0")
		}
		fmt.Fprintf(&sb, " %s %s\n", r.op, formatFloat(r.rhs))
	}

	sb.WriteString("Bounds\n")
	for j, b := range m.bounds {
		name := lpName(m.names[j])
		switch {
		case !b.HasLower() && !b.HasUpper():
			fmt.Fprintf(&sb, " %s free\n", name)
		case b.IsFixed():
			fmt.Fprintf(&sb, " %s = %s\n", name, formatFloat(b.Lower))
		case !b.HasLower():
			fmt.Fprintf(&sb, " -inf <= %s <= %s\n", name, formatFloat(b.Upper))
		case b.HasUpper():
			fmt.Fprintf(&sb, " %s <= %s <= %s\n", formatFloat(b.Lower), name, formatFloat(b.Upper))
		case b.Lower != 0:
			fmt.Fprintf(&sb, " %s >= %s\n", name, formatFloat(b.Lower))
		}
	}
	sb.WriteString("End\n")
	return sb.String(), nil
}

func writeTerms(sb *strings.Builder, m *Model, cols []int, coeffs []float64) {
	for k, col := range cols {
		writeNumber(sb, coeffs[k], k == 0)
		sb.WriteString(" ")
		sb.WriteString(lpName(m.names[col]))
	}
}

func writeNumber(sb *strings.Builder, v float64, first bool) {
	switch {
	case v < 0:
		fmt.Fprintf(sb, " - %s", formatFloat(-v))
	case first:
		fmt.Fprintf(sb, " %s", formatFloat(v))
	default:
		fmt.Fprintf(sb, " + %s", formatFloat(v))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func lpName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}

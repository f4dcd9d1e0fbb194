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

package lpmodel_test

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/samirsaci/raw-materials/lpmodel"
)

func Example() {
	model := lpmodel.NewModelBuilder()

	rabbits, err := model.AddVariable("rabbits")
	if err != nil {
		log.Fatalf("AddVariable returned with unexpected error %v", err)
	}
	pheasants, err := model.AddVariable("pheasants")
	if err != nil {
		log.Fatalf("AddVariable returned with unexpected error %v", err)
	}

	// 20 heads and 56 legs.
	model.AddEquality(lpmodel.NewLinearExpr().AddSum(rabbits, pheasants), 20)
	model.AddEquality(lpmodel.NewLinearExpr().AddTerm(rabbits, 4).AddTerm(pheasants, 2), 56)
	model.Minimize(lpmodel.NewConstant(0))

	m, err := model.Build()
	if err != nil {
		log.Fatalf("Build returned with unexpected error %v", err)
	}
	sol, err := lpmodel.Solve(m)
	if err != nil {
		log.Fatalf("Solve returned with unexpected error %v", err)
	}

	fmt.Println(sol.Status)
	fmt.Printf("%v rabbits and %v pheasants\n", fmtQty(sol.Value("rabbits")), fmtQty(sol.Value("pheasants")))

	// Output:
	// Optimal
	// 8.00 rabbits and 12.00 pheasants
}

func ExampleBuilder_Maximize() {
	model := lpmodel.NewModelBuilder()
	x, _ := model.AddVariableWithBounds("x", lpmodel.Bounds{Lower: 0, Upper: 4})
	y, _ := model.AddVariable("y")
	model.Maximize(lpmodel.NewLinearExpr().AddTerm(x, 3).AddTerm(y, 2))
	model.AddLessOrEqual(lpmodel.NewLinearExpr().AddSum(x, y), 5)

	m, err := model.Build()
	if err != nil {
		log.Fatalf("Build returned with unexpected error %v", err)
	}
	sol, err := lpmodel.Solve(m)
	if err != nil {
		log.Fatalf("Solve returned with unexpected error %v", err)
	}
	fmt.Printf("%v: objective %v at x=%v y=%v\n", sol.Status, fmtQty(sol.Objective), fmtQty(sol.Value("x")), fmtQty(sol.Value("y")))

	// Output:
	// Optimal: objective 14.00 at x=4.00 y=1.00
}

func fmtQty(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

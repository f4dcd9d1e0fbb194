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

package recipe

import (
	"fmt"

	"github.com/samirsaci/raw-materials/lpmodel"
)

// DefaultBarWeight is the weight of a bar in grams.
const DefaultBarWeight = 100

// Requirement bounds the total grams of one nutrient in the bar.
type Requirement struct {
	Nutrient string
	Op       lpmodel.Operator
	Limit    float64
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s %v %g", r.Nutrient, r.Op, r.Limit)
}

// DefaultRequirements returns the nutritional requirements of a 100 g bar.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Nutrient: "Protein", Op: lpmodel.GreaterOrEqual, Limit: 22},
		{Nutrient: "Fat", Op: lpmodel.LessOrEqual, Limit: 22},
		{Nutrient: "Fibre", Op: lpmodel.GreaterOrEqual, Limit: 6},
		{Nutrient: "Salt", Op: lpmodel.LessOrEqual, Limit: 3},
		{Nutrient: "Sugar", Op: lpmodel.LessOrEqual, Limit: 20},
	}
}

// ProteinLevels are the minimum protein contents explored by the sensitivity analysis.
var ProteinLevels = []float64{15, 18, 20, 22, 25, 28, 30}

// SensitivityRequirements returns the requirements of the sensitivity analysis for the
// given minimum protein content. Fat and fibre are looser than the defaults.
func SensitivityRequirements(protein float64) []Requirement {
	return []Requirement{
		{Nutrient: "Protein", Op: lpmodel.GreaterOrEqual, Limit: protein},
		{Nutrient: "Fat", Op: lpmodel.LessOrEqual, Limit: 25},
		{Nutrient: "Fibre", Op: lpmodel.GreaterOrEqual, Limit: 5},
		{Nutrient: "Salt", Op: lpmodel.LessOrEqual, Limit: 3},
		{Nutrient: "Sugar", Op: lpmodel.LessOrEqual, Limit: 20},
	}
}

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

	log "github.com/golang/glog"
	"github.com/samirsaci/raw-materials/lpmodel"
	"gonum.org/v1/gonum/floats"
)

// WeightConstraint is the name of the total weight equality.
const WeightConstraint = "weight"

// DisplayThreshold is the quantity in grams at or below which an ingredient is considered
// unused.
const DisplayThreshold = 0.01

// Formulate translates the table and requirements into a linear program with one variable
// per ingredient in grams. The objective is the total cost, the ingredients must weigh
// `barWeight` in total, and each requirement bounds the total content of its nutrient.
// Requirements on a nutrient missing from the table are skipped.
func Formulate(t *Table, barWeight float64, reqs []Requirement) (*lpmodel.Model, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if barWeight <= 0 {
		return nil, fmt.Errorf("bar weight %v must be positive", barWeight)
	}

	model := lpmodel.NewModelBuilder()
	qty := make([]lpmodel.LinearArgument, len(t.Ingredients))
	for i, ing := range t.Ingredients {
		v, err := model.AddVariable(ing.Name)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", ing.Name, err)
		}
		qty[i] = v
	}

	if err := model.Minimize(lpmodel.NewLinearExpr().AddWeightedSum(qty, t.Costs())); err != nil {
		return nil, err
	}
	weight, err := model.AddEquality(lpmodel.NewLinearExpr().AddSum(qty...), barWeight)
	if err != nil {
		return nil, err
	}
	weight.WithName(WeightConstraint)

	for _, r := range reqs {
		k, ok := t.NutrientIndex(r.Nutrient)
		if !ok {
			log.Warningf("recipe: skipping requirement %v: nutrient not in table", r)
			continue
		}
		content := lpmodel.NewLinearExpr().AddWeightedSum(qty, t.NutrientColumn(k))
		c, err := model.AddConstraint(content, r.Op, r.Limit)
		if err != nil {
			return nil, fmt.Errorf("requirement %v: %w", r, err)
		}
		c.WithName(r.Nutrient)
	}
	return model.Build()
}

// Line is the quantity of one ingredient in a recipe.
type Line struct {
	Ingredient string
	Quantity   float64
	Cost       float64
}

// NutrientAmount is the total grams of one nutrient in a recipe.
type NutrientAmount struct {
	Nutrient string
	Amount   float64
}

// Recipe is the result of optimizing a bar.
type Recipe struct {
	Status    lpmodel.Status
	BarWeight float64
	// Cost is the total cost of the bar. Only meaningful when Status is Optimal.
	Cost float64
	// Lines holds every ingredient in table order. Empty unless Status is Optimal.
	Lines []Line
	// Profile holds every nutrient of the table in order. Empty unless Status is Optimal.
	Profile []NutrientAmount
}

// Feasible reports whether an optimal recipe was found.
func (r *Recipe) Feasible() bool {
	return r.Status == lpmodel.Optimal
}

// Used returns the lines whose quantity exceeds DisplayThreshold.
func (r *Recipe) Used() []Line {
	var used []Line
	for _, l := range r.Lines {
		if l.Quantity > DisplayThreshold {
			used = append(used, l)
		}
	}
	return used
}

// TotalWeight returns the weight of the used lines.
func (r *Recipe) TotalWeight() float64 {
	total := 0.0
	for _, l := range r.Used() {
		total += l.Quantity
	}
	return total
}

// NewRecipe reads the recipe of a solution of a model built by Formulate with the same
// table.
func NewRecipe(t *Table, barWeight float64, sol *lpmodel.Solution) *Recipe {
	r := &Recipe{Status: sol.Status, BarWeight: barWeight}
	if !sol.HasSolution() {
		return r
	}
	r.Cost = sol.Objective

	quantities := make([]float64, len(t.Ingredients))
	for i, ing := range t.Ingredients {
		quantities[i] = sol.Value(ing.Name)
		r.Lines = append(r.Lines, Line{
			Ingredient: ing.Name,
			Quantity:   quantities[i],
			Cost:       quantities[i] * ing.Cost,
		})
	}
	for k, n := range t.Nutrients {
		r.Profile = append(r.Profile, NutrientAmount{
			Nutrient: n,
			Amount:   floats.Dot(quantities, t.NutrientColumn(k)),
		})
	}
	return r
}

// Optimize formulates and solves the bar. A nil `params` uses the solver defaults. An
// infeasible bar is not an error; its recipe has Status Infeasible.
func Optimize(t *Table, barWeight float64, reqs []Requirement, params *lpmodel.Parameters) (*Recipe, error) {
	m, err := Formulate(t, barWeight, reqs)
	if err != nil {
		return nil, fmt.Errorf("formulating recipe: %w", err)
	}
	sol, err := lpmodel.SolveWithParameters(m, params)
	if err != nil {
		return nil, fmt.Errorf("solving recipe: %w", err)
	}
	if log.V(1) {
		log.Infof("recipe: %d ingredients, %d requirements: %v, cost %g", len(t.Ingredients), len(reqs), sol.Status, sol.Objective)
	}
	return NewRecipe(t, barWeight, sol), nil
}

// ProteinSweep returns a function building the sensitivity analysis model for a given
// minimum protein content.
func ProteinSweep(t *Table, barWeight float64) func(protein float64) (*lpmodel.Model, error) {
	return func(protein float64) (*lpmodel.Model, error) {
		return Formulate(t, barWeight, SensitivityRequirements(protein))
	}
}

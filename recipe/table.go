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

// Package recipe formulates and solves the meal bar blend problem: choose the grams of each
// ingredient that minimize cost for a bar of fixed weight whose nutrient content meets a set
// of requirements.
package recipe

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTable is returned when an ingredient table is inconsistent.
var ErrInvalidTable = errors.New("invalid ingredient table")

// Ingredient is a raw material with its cost and nutrient content, both per gram.
type Ingredient struct {
	Name string `mapstructure:"name"`
	// Cost is the price of one gram.
	Cost float64 `mapstructure:"cost"`
	// Content holds the grams of each nutrient in one gram of ingredient, in the order of
	// Table.Nutrients.
	Content []float64 `mapstructure:"content"`
}

// Table is the nutrition facts and costs of the available ingredients.
type Table struct {
	Nutrients   []string     `mapstructure:"nutrients"`
	Ingredients []Ingredient `mapstructure:"ingredients"`
}

// Validate checks that names are unique and non-empty, that every ingredient has one
// content value per nutrient, and that all numbers are finite and non-negative.
func (t *Table) Validate() error {
	if len(t.Ingredients) == 0 {
		return fmt.Errorf("no ingredients: %w", ErrInvalidTable)
	}
	seen := make(map[string]bool)
	for _, n := range t.Nutrients {
		if n == "" || seen[n] {
			return fmt.Errorf("nutrient %q is empty or duplicated: %w", n, ErrInvalidTable)
		}
		seen[n] = true
	}
	seen = make(map[string]bool)
	for _, ing := range t.Ingredients {
		if ing.Name == "" || seen[ing.Name] {
			return fmt.Errorf("ingredient %q is empty or duplicated: %w", ing.Name, ErrInvalidTable)
		}
		seen[ing.Name] = true
		if !validAmount(ing.Cost) {
			return fmt.Errorf("ingredient %q has cost %v: %w", ing.Name, ing.Cost, ErrInvalidTable)
		}
		if len(ing.Content) != len(t.Nutrients) {
			return fmt.Errorf("ingredient %q has %d content values for %d nutrients: %w",
				ing.Name, len(ing.Content), len(t.Nutrients), ErrInvalidTable)
		}
		for k, v := range ing.Content {
			if !validAmount(v) {
				return fmt.Errorf("ingredient %q has %v of %s: %w", ing.Name, v, t.Nutrients[k], ErrInvalidTable)
			}
		}
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// IngredientNames returns the ingredient names in table order.
func (t *Table) IngredientNames() []string {
	names := make([]string, len(t.Ingredients))
	for i, ing := range t.Ingredients {
		names[i] = ing.Name
	}
	return names
}

// Costs returns the cost per gram of every ingredient in table order.
func (t *Table) Costs() []float64 {
	costs := make([]float64, len(t.Ingredients))
	for i, ing := range t.Ingredients {
		costs[i] = ing.Cost
	}
	return costs
}

// NutrientIndex returns the column of the named nutrient, and false if the table does not
// list it.
func (t *Table) NutrientIndex(nutrient string) (int, bool) {
	for k, n := range t.Nutrients {
		if n == nutrient {
			return k, true
		}
	}
	return 0, false
}

// NutrientColumn returns the content of the k-th nutrient for every ingredient in table
// order.
func (t *Table) NutrientColumn(k int) []float64 {
	col := make([]float64, len(t.Ingredients))
	for i, ing := range t.Ingredients {
		col[i] = ing.Content[k]
	}
	return col
}

// SampleTable returns the built-in table of seven ingredients and five nutrients used when
// no data is supplied.
func SampleTable() *Table {
	return &Table{
		Nutrients: []string{"Protein", "Fat", "Fibre", "Salt", "Sugar"},
		Ingredients: []Ingredient{
			{Name: "Chicken", Cost: 0.095, Content: []float64{0.10, 0.08, 0.001, 0.002, 0.000}},
			{Name: "Beef", Cost: 0.150, Content: []float64{0.20, 0.10, 0.005, 0.005, 0.000}},
			{Name: "Mutton", Cost: 0.100, Content: []float64{0.15, 0.11, 0.003, 0.007, 0.000}},
			{Name: "Rice", Cost: 0.002, Content: []float64{0.00, 0.01, 0.10, 0.002, 0.000}},
			{Name: "Wheat bran", Cost: 0.005, Content: []float64{0.04, 0.01, 0.15, 0.008, 0.000}},
			{Name: "Corn", Cost: 0.012, Content: []float64{0.033, 0.013, 0.028, 0.000, 0.045}},
			{Name: "Peanuts", Cost: 0.013, Content: []float64{0.258, 0.492, 0.085, 0.001, 0.047}},
		},
	}
}

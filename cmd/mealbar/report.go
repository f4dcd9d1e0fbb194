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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samirsaci/raw-materials/recipe"
	"github.com/samirsaci/raw-materials/sweep"
)

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
	shortRule = strings.Repeat("-", 40)
)

func printTable(w io.Writer, t *recipe.Table) {
	fmt.Fprintln(w, "\n--- NUTRITION FACTS (per gram) ---")
	fmt.Fprintf(w, "%-15s", "")
	for _, n := range t.Nutrients {
		fmt.Fprintf(w, " %8s", n)
	}
	fmt.Fprintln(w)
	for _, ing := range t.Ingredients {
		fmt.Fprintf(w, "%-15s", ing.Name)
		for _, v := range ing.Content {
			fmt.Fprintf(w, " %8.3f", v)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "\n--- INGREDIENT COSTS ($/gram) ---")
	for _, ing := range t.Ingredients {
		fmt.Fprintf(w, "  %s: $%.3f\n", ing.Name, ing.Cost)
	}
}

func printRecipe(w io.Writer, r *recipe.Recipe) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w, "MEAL BAR RECIPE OPTIMIZATION")
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "\nStatus: %v\n", r.Status)

	if !r.Feasible() {
		fmt.Fprintln(w, "No feasible solution found. Try relaxing constraints.")
		return
	}
	fmt.Fprintf(w, "Cost per Bar (%gg): $%.2f\n", r.BarWeight, r.Cost)

	fmt.Fprintf(w, "\n%s\nOPTIMAL RECIPE\n%s\n", lightRule, lightRule)
	fmt.Fprintf(w, "%-15s %-15s %-10s\n", "Ingredient", "Quantity (g)", "Cost ($)")
	fmt.Fprintln(w, shortRule)
	for _, l := range r.Used() {
		fmt.Fprintf(w, "%-15s %-15.2f %-10.4f\n", l.Ingredient, l.Quantity, l.Cost)
	}
	fmt.Fprintln(w, shortRule)
	fmt.Fprintf(w, "%-15s %-15.2f %-10.4f\n", "Total", r.TotalWeight(), r.Cost)

	fmt.Fprintf(w, "\n%s\nNUTRITIONAL PROFILE\n%s\n", lightRule, lightRule)
	for _, n := range r.Profile {
		fmt.Fprintf(w, "%s: %.2fg\n", n.Nutrient, n.Amount)
	}
}

func printSensitivity(w io.Writer, points []sweep.Point) {
	fmt.Fprintf(w, "\n%s\nSENSITIVITY ANALYSIS: Protein Requirement\n%s\n", heavyRule, heavyRule)
	fmt.Fprintf(w, "%-15s %-15s %-15s\n", "Protein (g)", "Cost ($)", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 45))
	for _, p := range points {
		cost := "inf"
		if p.Optimal() {
			cost = fmt.Sprintf("%.2f", p.Solution.Objective)
		}
		status := p.Status().String()
		if p.Err != nil {
			status = "Error: " + p.Err.Error()
		}
		fmt.Fprintf(w, "%-15g $%-14s %-15s\n", p.Value, cost, status)
	}
}

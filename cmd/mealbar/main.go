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

// The mealbar command finds the cheapest meal bar recipe meeting nutritional requirements
// and shows how its cost depends on the protein requirement.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	log "github.com/golang/glog"
	"github.com/samirsaci/raw-materials/lpmodel"
	"github.com/samirsaci/raw-materials/recipe"
	"github.com/samirsaci/raw-materials/sweep"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mealbar",
		Short:         "Optimize the raw materials of a meal bar",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// glog reads its flags from the standard flag set.
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	registerFlags(cmd.Flags())
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

func run(ctx context.Context, w io.Writer, cfg *config) error {
	reqs, err := cfg.requirements()
	if err != nil {
		return err
	}
	if cfg.Export != "" {
		return export(w, cfg, reqs)
	}

	printTable(w, cfg.Table)
	fmt.Fprintln(w)

	r, err := recipe.Optimize(cfg.Table, cfg.BarWeight, reqs, cfg.params())
	if err != nil {
		return err
	}
	printRecipe(w, r)

	points, err := sweep.Run(ctx, recipe.ProteinSweep(cfg.Table, cfg.BarWeight), cfg.ProteinLevels,
		sweep.WithParameters(cfg.params()),
		sweep.WithConcurrency(cfg.Concurrency))
	if err != nil {
		return fmt.Errorf("sensitivity analysis: %w", err)
	}
	printSensitivity(w, points)
	return nil
}

func export(w io.Writer, cfg *config, reqs []recipe.Requirement) error {
	m, err := recipe.Formulate(cfg.Table, cfg.BarWeight, reqs)
	if err != nil {
		return err
	}
	switch cfg.Export {
	case "lp":
		s, err := lpmodel.ExportModelAsLpFormat(m)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	case "json":
		pb, err := m.Proto()
		if err != nil {
			return err
		}
		b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(pb)
		if err != nil {
			return fmt.Errorf("marshaling model: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	return fmt.Errorf("unknown export format %q", cfg.Export)
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Exitf("mealbar returned with error: %v", err)
	}
}

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
	"strings"

	log "github.com/golang/glog"
	"github.com/samirsaci/raw-materials/lpmodel"
	"github.com/samirsaci/raw-materials/recipe"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MEALBAR"

// requirementConfig is a nutrient requirement as written in a config file.
type requirementConfig struct {
	Nutrient string  `mapstructure:"nutrient"`
	Op       string  `mapstructure:"op"`
	Limit    float64 `mapstructure:"limit"`
}

// config holds everything the command reads from flags, environment and config file.
type config struct {
	BarWeight     float64             `mapstructure:"bar_weight"`
	ProteinLevels []float64           `mapstructure:"protein_levels"`
	Concurrency   int                 `mapstructure:"concurrency"`
	Export        string              `mapstructure:"export"`
	Tolerance     float64             `mapstructure:"tolerance"`
	MaxIterations int                 `mapstructure:"max_iterations"`
	Table         *recipe.Table       `mapstructure:"table"`
	Requirements  []requirementConfig `mapstructure:"requirements"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"bar-weight":     "bar_weight",
	"concurrency":    "concurrency",
	"export":         "export",
	"tolerance":      "tolerance",
	"max-iterations": "max_iterations",
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML, JSON or TOML file with the ingredient table, requirements and options")
	fs.Float64("bar-weight", recipe.DefaultBarWeight, "weight of a bar in grams")
	fs.Float64Slice("protein-levels", recipe.ProteinLevels, "minimum protein contents of the sensitivity analysis")
	fs.Int("concurrency", 1, "number of sensitivity points solved at the same time, 0 for GOMAXPROCS")
	fs.String("export", "", "print the model of the default recipe in the given format (lp or json) and exit")
	fs.Float64("tolerance", lpmodel.DefaultTolerance, "absolute tolerance of the simplex solver")
	fs.Int("max-iterations", lpmodel.DefaultMaxIterations, "maximum number of pivots per simplex phase")
}

// loadConfig merges, by decreasing priority, the flags set on the command line, the
// environment, the config file and the built-in defaults.
func loadConfig(fs *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("binding flag %q: %w", name, err)
		}
	}
	v.SetDefault("protein_levels", recipe.ProteinLevels)

	path, err := fs.GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Infof("mealbar: using config file %s", v.ConfigFileUsed())
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if fs.Changed("protein-levels") {
		if cfg.ProteinLevels, err = fs.GetFloat64Slice("protein-levels"); err != nil {
			return nil, err
		}
	}
	if cfg.Table == nil {
		cfg.Table = recipe.SampleTable()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.BarWeight <= 0 {
		return fmt.Errorf("bar weight %v must be positive", c.BarWeight)
	}
	switch c.Export {
	case "", "lp", "json":
	default:
		return fmt.Errorf("unknown export format %q, want lp or json", c.Export)
	}
	if err := c.params().Validate(); err != nil {
		return err
	}
	if _, err := c.requirements(); err != nil {
		return err
	}
	return c.Table.Validate()
}

// requirements returns the configured requirements, or the defaults when none are set.
func (c *config) requirements() ([]recipe.Requirement, error) {
	if len(c.Requirements) == 0 {
		return recipe.DefaultRequirements(), nil
	}
	reqs := make([]recipe.Requirement, len(c.Requirements))
	for i, rc := range c.Requirements {
		op, err := lpmodel.ParseOperator(rc.Op)
		if err != nil {
			return nil, fmt.Errorf("requirement on %s: %w", rc.Nutrient, err)
		}
		reqs[i] = recipe.Requirement{Nutrient: rc.Nutrient, Op: op, Limit: rc.Limit}
	}
	return reqs, nil
}

func (c *config) params() *lpmodel.Parameters {
	return &lpmodel.Parameters{
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
}

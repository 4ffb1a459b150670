// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package classifiers

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/google/distcheck/pkg/act/cli"
	"github.com/google/distcheck/pkg/classifier"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the classifiers command.
type Config struct {
	Classifiers string
	Deprecated  bool
	Format      cli.Format
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	return c.Format.Validate()
}

// Deps holds dependencies for the command.
type Deps struct {
	IO cli.IO
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{}, nil
}

// Output is the listed part of the taxonomy.
type Output struct {
	Classifiers []string            `json:"classifiers,omitempty" yaml:"classifiers,omitempty" toml:"classifiers,omitempty"`
	Deprecated  map[string][]string `json:"deprecated,omitempty" yaml:"deprecated,omitempty" toml:"deprecated,omitempty"`
}

// Handler lists the valid classifiers, or the deprecated ones with their replacements.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Output, error) {
	tax, err := classifier.LoadFileOrDefault(cfg.Classifiers)
	if err != nil {
		return nil, err
	}
	if cfg.Classifiers != "" {
		log.New(deps.IO.Err, "", log.LstdFlags).Printf("Using classifiers from %s", cfg.Classifiers)
	}
	if !cfg.Deprecated {
		return &Output{Classifiers: tax.Classifiers()}, nil
	}
	out := &Output{Deprecated: map[string][]string{}}
	for _, c := range tax.DeprecatedClassifiers() {
		repl, _ := tax.Deprecated(c)
		if repl == nil {
			repl = []string{}
		}
		out.Deprecated[c] = repl
	}
	return out, nil
}

// Render writes the listing, one classifier per line in text format.
func Render(w io.Writer, cfg Config, out *Output) error {
	if cfg.Format != cli.Text {
		return cli.Encode(w, cfg.Format, out)
	}
	for _, c := range out.Classifiers {
		fmt.Fprintln(w, c)
	}
	for _, c := range slices.Sorted(maps.Keys(out.Deprecated)) {
		if repl := out.Deprecated[c]; len(repl) > 0 {
			fmt.Fprintf(w, "%s -> %s\n", c, strings.Join(repl, "; "))
		} else {
			fmt.Fprintf(w, "%s (no replacement)\n", c)
		}
	}
	return nil
}

// Command creates a new classifiers command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "classifiers [--deprecated] [--classifiers FILE] [--format=text|json|yaml|toml]",
		Short: "List the trove classifiers accepted by check",
		Args:  cobra.NoArgs,
		RunE: cli.RunE(
			&cfg,
			cli.SkipArgs[Config],
			InitDeps,
			Handler,
			Render,
		),
	}
	cmd.Flags().AddGoFlagSet(flagSet(cmd.Name(), &cfg))
	return cmd
}

// flagSet returns the command-line flags for the Config struct.
func flagSet(name string, cfg *Config) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Classifiers, "classifiers", "", "YAML classifier taxonomy to use instead of the built-in one")
	set.BoolVar(&cfg.Deprecated, "deprecated", false, "list deprecated classifiers and their replacements")
	cli.FormatVar(set, &cfg.Format, cli.Text)
	return set
}

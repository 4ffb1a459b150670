// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cli builds cobra commands from act components.
package cli

import (
	"io"

	"github.com/google/distcheck/pkg/act"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// IO provides input/output streams for CLI commands.
type IO struct {
	In  io.Reader // stdin
	Out io.Writer // stdout
	Err io.Writer // stderr
}

// Deps is implemented by dependency containers that accept the command streams.
type Deps interface {
	SetIO(IO)
}

// ParseArgs populates an Input from positional arguments.
type ParseArgs[I act.Input] func(in *I, args []string) error

// SkipArgs is a ParseArgs that sets no arguments.
func SkipArgs[I act.Input](cfg *I, args []string) error {
	return nil
}

// RunE constructs a cobra.Command.RunE from act components.
// It parses positional arguments into the Input, validates it, initializes
// dependencies, runs the action and renders its output to stdout.
func RunE[I act.Input, O any, D Deps](
	cfg *I,
	parseArgs ParseArgs[I],
	initDeps act.InitDeps[D],
	action act.Action[I, O, D],
	render act.Render[I, O],
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := parseArgs(cfg, args); err != nil {
			return err
		}
		if err := (*cfg).Validate(); err != nil {
			return err
		}
		deps, err := initDeps(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "initializing dependencies")
		}
		deps.SetIO(IO{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		})
		out, err := action(cmd.Context(), *cfg, deps)
		if err != nil {
			return err
		}
		if render == nil {
			return nil
		}
		return render(cmd.OutOrStdout(), *cfg, out)
	}
}

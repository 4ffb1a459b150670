// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/google/distcheck/internal/command/check"
	"github.com/google/distcheck/internal/command/classifiers"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "distcheck [subcommand]",
	Short: "Validate Python distribution metadata before upload",
	// Errors are printed by main.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(check.Command())
	rootCmd.AddCommand(classifiers.Command())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

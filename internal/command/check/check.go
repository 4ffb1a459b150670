// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/distcheck/pkg/act/cli"
	"github.com/google/distcheck/pkg/classifier"
	"github.com/google/distcheck/pkg/dist"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the check command.
type Config struct {
	Files       []string
	Signature   string
	Comment     string
	Format      cli.Format
	Classifiers string
	AutoSign    bool
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if len(c.Files) == 0 {
		return errors.New("at least one distribution file is required")
	}
	if c.Signature != "" && len(c.Files) != 1 {
		return errors.New("--signature requires exactly one distribution file")
	}
	if c.Signature != "" && c.AutoSign {
		return errors.New("--signature and --auto-sign are mutually exclusive")
	}
	return c.Format.Validate()
}

// Deps holds dependencies for the command.
type Deps struct {
	IO        cli.IO
	Extractor dist.Extractor
}

func (d *Deps) SetIO(cio cli.IO) { d.IO = cio }

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{Extractor: dist.ArchiveExtractor{}}, nil
}

func parseArgs(cfg *Config, args []string) error {
	cfg.Files = args
	return nil
}

// Result is the outcome of checking one file.
type Result struct {
	Package *dist.Package
	// Signature is set when an attached signature could be decoded.
	Signature *dist.SignatureInfo
}

// Output holds the results in argument order.
type Output struct {
	Results []Result
}

// Handler validates each distribution, stopping at the first rejection.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Output, error) {
	tax, err := classifier.LoadFileOrDefault(cfg.Classifiers)
	if err != nil {
		return nil, err
	}
	opts := dist.Opts{Comment: cfg.Comment, Extractor: deps.Extractor, Taxonomy: tax}
	logger := log.New(deps.IO.Err, "", log.LstdFlags)
	out := &Output{}
	for _, path := range cfg.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Printf("Checking %s", path)
		p, err := dist.New(path, opts)
		if err != nil {
			return nil, errors.Wrap(err, filepath.Base(path))
		}
		switch {
		case cfg.Signature != "":
			err = p.AttachSignature(cfg.Signature)
		case cfg.AutoSign:
			var attached bool
			attached, err = p.AttachDefaultSignature()
			if err == nil && !attached {
				logger.Printf("No signature found at %s", p.SignedPath)
			}
		}
		if err != nil {
			return nil, errors.Wrap(err, filepath.Base(path))
		}
		r := Result{Package: p}
		if sig := p.Signature(); sig != nil {
			if r.Signature, err = sig.Inspect(); err != nil {
				logger.Printf("Unable to decode signature %s: %v", sig.Name, err)
			}
		}
		out.Results = append(out.Results, r)
	}
	return out, nil
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Render writes the results. Structured formats emit the upload form of each
// file keyed by its base name.
func Render(w io.Writer, cfg Config, out *Output) error {
	if cfg.Format != cli.Text {
		forms := make(map[string]map[string]any, len(out.Results))
		for _, r := range out.Results {
			forms[filepath.Base(r.Package.Path)] = r.Package.MetadataDictionary()
		}
		return cli.Encode(w, cfg.Format, forms)
	}
	for _, r := range out.Results {
		p := r.Package
		fmt.Fprintf(w, "%s %s\n", green("PASSED"), filepath.Base(p.Path))
		fmt.Fprintf(w, "  %s %s (%s, python %s, metadata %s)\n", p.Name, p.Version, p.Kind, pythonVersion(p), p.MetadataVersion)
		fmt.Fprintf(w, "  sha256 %s\n", p.Digests.SHA256)
		switch {
		case r.Signature != nil:
			fmt.Fprintf(w, "  %s\n", r.Signature)
		case p.Signature() != nil:
			fmt.Fprintf(w, "  %s %s\n", yellow("signature attached but not decodable:"), p.Signature().Name)
		}
	}
	return nil
}

func pythonVersion(p *dist.Package) string {
	if p.PythonVersion == "" {
		return "source"
	}
	return p.PythonVersion
}

// Command creates a new check command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "check [--format=text|json|yaml|toml] [--signature PATH | --auto-sign] <file>...",
		Short: "Validate distribution files and print their upload metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: cli.RunE(
			&cfg,
			parseArgs,
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
	set.StringVar(&cfg.Signature, "signature", "", "detached signature to attach (single file only)")
	set.StringVar(&cfg.Comment, "comment", "", "upload comment to include in the metadata")
	set.StringVar(&cfg.Classifiers, "classifiers", "", "YAML classifier taxonomy to use instead of the built-in one")
	set.BoolVar(&cfg.AutoSign, "auto-sign", false, "attach <file>.asc when it exists")
	cli.FormatVar(set, &cfg.Format, cli.Text)
	return set
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding for command results.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Formats lists the supported output formats.
var Formats = []Format{Text, JSON, YAML, TOML}

// Validate returns an error for an unsupported format.
func (f Format) Validate() error {
	if !slices.Contains(Formats, f) {
		return errors.Errorf("unknown --format type: %s", f)
	}
	return nil
}

// FormatVar binds a --format flag with the given default to f.
func FormatVar(set *flag.FlagSet, f *Format, def Format) {
	*f = def
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	set.Func("format", fmt.Sprintf("output format (%s)", strings.Join(names, ", ")), func(s string) error {
		*f = Format(s)
		return f.Validate()
	})
}

// Encode writes v to w in the given format.
//
// Text output uses v's String method when it has one. A map with string keys
// is written as sorted "key: value" lines. Anything else is printed with %v.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding json")
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case TOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encoding toml")
	case Text:
		return encodeText(w, v)
	default:
		return f.Validate()
	}
}

func encodeText(w io.Writer, v any) error {
	var err error
	switch v := v.(type) {
	case fmt.Stringer:
		_, err = fmt.Fprintln(w, v.String())
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if _, err = fmt.Fprintf(w, "%s: %v\n", k, v[k]); err != nil {
				break
			}
		}
	default:
		_, err = fmt.Fprintf(w, "%v\n", v)
	}
	return errors.Wrap(err, "writing text")
}

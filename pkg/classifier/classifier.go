// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package classifier provides the trove classifier taxonomy accepted by a
// package index, along with the table of deprecated classifiers.
package classifier

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed classifiers.yaml
var classifiersYAML []byte

// Taxonomy is a read-only view of the valid and deprecated classifiers.
type Taxonomy struct {
	valid      map[string]struct{}
	deprecated map[string][]string
}

// document is the on-disk YAML layout.
type document struct {
	Classifiers []string            `yaml:"classifiers"`
	Deprecated  map[string][]string `yaml:"deprecated"`
}

// Load parses a taxonomy from YAML.
func Load(r io.Reader) (*Taxonomy, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding taxonomy")
	}
	if len(doc.Classifiers) == 0 {
		return nil, errors.New("taxonomy has no classifiers")
	}
	t := &Taxonomy{
		valid:      make(map[string]struct{}, len(doc.Classifiers)),
		deprecated: make(map[string][]string, len(doc.Deprecated)),
	}
	for _, c := range doc.Classifiers {
		t.valid[c] = struct{}{}
	}
	for c, repl := range doc.Deprecated {
		if _, ok := t.valid[c]; ok {
			return nil, errors.Errorf("classifier %q is both valid and deprecated", c)
		}
		for _, r := range repl {
			if _, ok := t.valid[r]; !ok {
				return nil, errors.Errorf("replacement %q for %q is not a valid classifier", r, c)
			}
		}
		t.deprecated[c] = slices.Clone(repl)
	}
	return t, nil
}

// LoadFile parses a taxonomy from the YAML file at path.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening taxonomy")
	}
	defer f.Close()
	return Load(f)
}

// Default returns the taxonomy embedded in the binary.
var Default = sync.OnceValues(func() (*Taxonomy, error) {
	return Load(bytes.NewReader(classifiersYAML))
})

// LoadFileOrDefault loads the taxonomy at path, or returns Default when path is empty.
func LoadFileOrDefault(path string) (*Taxonomy, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Valid reports whether c is a current classifier.
func (t *Taxonomy) Valid(c string) bool {
	_, ok := t.valid[c]
	return ok
}

// Deprecated reports whether c is deprecated and returns its replacements.
// A deprecated classifier may have no replacement.
func (t *Taxonomy) Deprecated(c string) (replacements []string, ok bool) {
	repl, ok := t.deprecated[c]
	if !ok {
		return nil, false
	}
	return slices.Clone(repl), true
}

// Classifiers returns the valid classifiers in sorted order.
func (t *Taxonomy) Classifiers() []string {
	out := make([]string, 0, len(t.valid))
	for c := range t.valid {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// DeprecatedClassifiers returns the deprecated classifiers in sorted order.
func (t *Taxonomy) DeprecatedClassifiers() []string {
	out := make([]string, 0, len(t.deprecated))
	for c := range t.deprecated {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

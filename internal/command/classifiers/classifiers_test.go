// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package classifiers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/distcheck/pkg/act/cli"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const taxonomy = `classifiers:
  - 'B :: Two'
  - 'A :: One'
deprecated:
  'Old :: One': ['A :: One']
  'Old :: Gone': []
`

func writeTaxonomy(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classifiers.yaml")
	if err := os.WriteFile(path, []byte(taxonomy), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--classifiers", writeTaxonomy(t)}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("classifiers error = %v", err)
	}
	return out.String()
}

func TestClassifiersText(t *testing.T) {
	if got, want := run(t), "A :: One\nB :: Two\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	want := "Old :: Gone (no replacement)\nOld :: One -> A :: One\n"
	if got := run(t, "--deprecated"); got != want {
		t.Errorf("--deprecated output = %q, want %q", got, want)
	}
}

func TestClassifiersYAML(t *testing.T) {
	var got Output
	if err := yaml.Unmarshal([]byte(run(t, "--deprecated", "--format=yaml")), &got); err != nil {
		t.Fatal(err)
	}
	want := Output{Deprecated: map[string][]string{
		"Old :: One":  {"A :: One"},
		"Old :: Gone": {},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifiersDefault(t *testing.T) {
	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("classifiers error = %v", err)
	}
	if !strings.Contains(out.String(), "Programming Language :: Python :: 3\n") {
		t.Error("default taxonomy should list Programming Language :: Python :: 3")
	}
}

func TestClassifiersLogsOverride(t *testing.T) {
	path := writeTaxonomy(t)
	var stderr bytes.Buffer
	if _, err := Handler(t.Context(), Config{Classifiers: path}, &Deps{IO: cli.IO{Err: &stderr}}); err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if want := "Using classifiers from " + path; !strings.Contains(stderr.String(), want) {
		t.Errorf("stderr = %q, want it to contain %q", stderr.String(), want)
	}
	stderr.Reset()
	if _, err := Handler(t.Context(), Config{}, &Deps{IO: cli.IO{Err: &stderr}}); err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty for the built-in taxonomy", stderr.String())
	}
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	tax, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	for _, c := range []string{
		"Development Status :: 5 - Production/Stable",
		"License :: OSI Approved :: MIT License",
		"Natural Language :: Ukrainian",
		"Programming Language :: Python :: 3",
		"Environment :: Handhelds/PDA's",
	} {
		if !tax.Valid(c) {
			t.Errorf("Valid(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "Natural Language :: Ukranian", "Programming Language :: Python :: 3 "} {
		if tax.Valid(c) {
			t.Errorf("Valid(%q) = true, want false", c)
		}
	}
	repl, ok := tax.Deprecated("Natural Language :: Ukranian")
	if !ok {
		t.Fatal("Deprecated(Ukranian) not found")
	}
	if diff := cmp.Diff([]string{"Natural Language :: Ukrainian"}, repl); diff != "" {
		t.Errorf("Deprecated(Ukranian) diff (-want +got):\n%s", diff)
	}
	if repl, ok := tax.Deprecated("Framework :: Buffet"); !ok || len(repl) != 0 {
		t.Errorf("Deprecated(Buffet) = %v, %v; want [], true", repl, ok)
	}
	if _, ok := tax.Deprecated("License :: OSI Approved :: MIT License"); ok {
		t.Error("Deprecated(MIT) = true, want false")
	}
	if got := tax.Classifiers(); !slices.IsSorted(got) {
		t.Error("Classifiers() not sorted")
	}
}

func TestDefaultIsShared(t *testing.T) {
	a, _ := Default()
	b, _ := Default()
	if a != b {
		t.Error("Default() returned distinct taxonomies")
	}
}

func TestDeprecatedReturnsCopy(t *testing.T) {
	tax, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	repl, _ := tax.Deprecated("Natural Language :: Ukranian")
	repl[0] = "mutated"
	again, _ := tax.Deprecated("Natural Language :: Ukranian")
	if again[0] != "Natural Language :: Ukrainian" {
		t.Errorf("Deprecated() exposed internal state: %q", again[0])
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		want    []string
		wantDep []string
	}{
		{
			name:    "valid",
			yaml:    "classifiers:\n  - 'B :: 2'\n  - 'A :: 1'\ndeprecated:\n  'A :: 0': ['A :: 1']\n",
			want:    []string{"A :: 1", "B :: 2"},
			wantDep: []string{"A :: 0"},
		},
		{
			name:    "empty",
			yaml:    "deprecated: {}\n",
			wantErr: "taxonomy has no classifiers",
		},
		{
			name:    "overlap",
			yaml:    "classifiers: ['A']\ndeprecated:\n  'A': []\n",
			wantErr: `classifier "A" is both valid and deprecated`,
		},
		{
			name:    "unknown replacement",
			yaml:    "classifiers: ['A']\ndeprecated:\n  'B': ['C']\n",
			wantErr: `replacement "C" for "B" is not a valid classifier`,
		},
		{
			name:    "malformed",
			yaml:    "classifiers: {",
			wantErr: "decoding taxonomy",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tax, err := Load(strings.NewReader(tc.yaml))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("Load() error = %v, want containing %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if diff := cmp.Diff(tc.want, tax.Classifiers()); diff != "" {
				t.Errorf("Classifiers() diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantDep, tax.DeprecatedClassifiers()); diff != "" {
				t.Errorf("DeprecatedClassifiers() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifiers.yaml")
	if err := os.WriteFile(path, []byte("classifiers: ['Custom :: One']\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tax, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !tax.Valid("Custom :: One") {
		t.Error("Valid(Custom :: One) = false")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile(missing) succeeded")
	}
}

func TestLoadFileOrDefault(t *testing.T) {
	def, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	got, err := LoadFileOrDefault("")
	if err != nil {
		t.Fatalf("LoadFileOrDefault(\"\") error: %v", err)
	}
	if got != def {
		t.Error("LoadFileOrDefault(\"\") should return the embedded taxonomy")
	}
	if _, err := LoadFileOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFileOrDefault(missing) succeeded")
	}
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestParseRequirement(t *testing.T) {
	testCases := []struct {
		input   string
		want    *Requirement
		wantErr bool
	}{
		{
			input: "requests",
			want:  &Requirement{Name: "requests"},
		},
		{
			input: "requests[security,socks] >= 2.8.1, == 2.8.* ; python_version < \"2.7\"",
			want: &Requirement{
				Name:      "requests",
				Extras:    []string{"security", "socks"},
				Specifier: SpecifierSet{{GreaterEqual, "2.8.1"}, {Equal, "2.8.*"}},
				Marker:    `python_version < "2.7"`,
			},
		},
		{
			input: "zope.interface (>=3.5.0)",
			want: &Requirement{
				Name:      "zope.interface",
				Specifier: SpecifierSet{{GreaterEqual, "3.5.0"}},
			},
		},
		{
			input: "pip @ https://github.com/pypa/pip/archive/1.3.1.zip#sha1=da9234ee9982d4bbb3c72346a6de940a148ea686",
			want: &Requirement{
				Name: "pip",
				URL:  "https://github.com/pypa/pip/archive/1.3.1.zip#sha1=da9234ee9982d4bbb3c72346a6de940a148ea686",
			},
		},
		{
			input: "name @ file:///tmp/name.whl ; os_name == 'posix'",
			want: &Requirement{
				Name:   "name",
				URL:    "file:///tmp/name.whl",
				Marker: "os_name == 'posix'",
			},
		},
		{
			input: "pywin32 ; sys_platform == 'win32' and (platform_machine == 'x86' or extra == \"dev\")",
			want: &Requirement{
				Name:   "pywin32",
				Marker: "sys_platform == 'win32' and (platform_machine == 'x86' or extra == \"dev\")",
			},
		},
		{
			input: "pkg[]",
			want:  &Requirement{Name: "pkg"},
		},
		{input: "", wantErr: true},
		{input: "-pkg", wantErr: true},
		{input: "pkg (1.0)", wantErr: true},
		{input: "pkg >=1.0,", wantErr: true},
		{input: "pkg[extra", wantErr: true},
		{input: "pkg @", wantErr: true},
		{input: "pkg ; python_version", wantErr: true},
		{input: "pkg ; unknown_var == '1'", wantErr: true},
		{input: "pkg ; (python_version < '3'", wantErr: true},
		{input: "pkg (>=1.0) extra", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseRequirement(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRequirement) {
					t.Fatalf("ParseRequirement(%q) error = %v, want ErrInvalidRequirement", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequirement(%q) unexpected error: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseRequirement(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestValidateMarker(t *testing.T) {
	for _, marker := range []string{
		`python_version >= "3.8"`,
		`'linux' in sys_platform`,
		`os.name not in "nt posix"`,
		`(python_version<'3') or (python_version>='3.6' and implementation_name=="cpython")`,
	} {
		if err := ValidateMarker(marker); err != nil {
			t.Errorf("ValidateMarker(%q) = %v", marker, err)
		}
	}
	for _, marker := range []string{"", "and", `python_version >=`, `python_version == "3" or`, `"a" == "b")`} {
		if err := ValidateMarker(marker); !errors.Is(err, ErrInvalidMarker) {
			t.Errorf("ValidateMarker(%q) = %v, want ErrInvalidMarker", marker, err)
		}
	}
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

var valueCmp = cmp.AllowUnexported(Value{})

type stringer struct{}

func (stringer) String() string { return "from-stringer" }

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name    string
		shape   Shape
		input   Value
		want    Value
		wantErr error
	}{
		{
			name:    "required absent",
			shape:   RequiredScalar,
			input:   Absent(),
			wantErr: ErrMissingField,
		},
		{
			name:  "optional absent",
			shape: OptionalScalar,
			input: Absent(),
			want:  Absent(),
		},
		{
			name:  "list absent",
			shape: OptionalList,
			input: Absent(),
			want:  Absent(),
		},
		{
			name:  "first of list",
			shape: RequiredScalar,
			input: Strings("a", "b"),
			want:  Scalar("a"),
		},
		{
			name:  "empty list to optional scalar",
			shape: OptionalScalar,
			input: List(),
			want:  Absent(),
		},
		{
			name:    "empty list to required scalar",
			shape:   RequiredScalar,
			input:   List(),
			wantErr: ErrMissingField,
		},
		{
			name:  "scalar to list",
			shape: OptionalList,
			input: Scalar("x"),
			want:  Strings("x"),
		},
		{
			name:  "empty list kept",
			shape: OptionalList,
			input: List(),
			want:  Strings(),
		},
		{
			name:  "unknown placeholder",
			shape: OptionalScalar,
			input: Scalar("  UNKNOWN \n"),
			want:  Absent(),
		},
		{
			name:    "unknown placeholder required",
			shape:   RequiredScalar,
			input:   Scalar("UNKNOWN"),
			wantErr: ErrMissingField,
		},
		{
			name:  "unknown kept in lists",
			shape: OptionalList,
			input: Strings("UNKNOWN"),
			want:  Strings("UNKNOWN"),
		},
		{
			name:  "nul escaped",
			shape: OptionalScalar,
			input: Scalar("a\x00b"),
			want:  Scalar(`a\x00b`),
		},
		{
			name:  "nul escaped in list",
			shape: OptionalList,
			input: Strings("\x00", "ok"),
			want:  Strings(`\x00`, "ok"),
		},
		{
			name:  "int",
			shape: RequiredScalar,
			input: Scalar(42),
			want:  Scalar("42"),
		},
		{
			name:  "float keeps fraction",
			shape: RequiredScalar,
			input: Scalar(2.0),
			want:  Scalar("2.0"),
		},
		{
			name:  "float",
			shape: RequiredScalar,
			input: Scalar(2.1),
			want:  Scalar("2.1"),
		},
		{
			name:  "bytes",
			shape: OptionalScalar,
			input: Scalar([]byte("raw")),
			want:  Scalar("raw"),
		},
		{
			name:  "stringer",
			shape: OptionalScalar,
			input: Scalar(stringer{}),
			want:  Scalar("from-stringer"),
		},
		{
			name:  "mixed list",
			shape: OptionalList,
			input: List("a", 1, true),
			want:  Strings("a", "1", "true"),
		},
		{
			name:    "invalid utf8",
			shape:   OptionalScalar,
			input:   Scalar([]byte{0xff, 0xfe}),
			wantErr: ErrTypeCoercion,
		},
		{
			name:    "unsupported type",
			shape:   OptionalScalar,
			input:   Scalar(map[string]string{}),
			wantErr: ErrTypeCoercion,
		},
		{
			name:    "unsupported list element",
			shape:   OptionalList,
			input:   List("a", struct{}{}),
			wantErr: ErrTypeCoercion,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Sanitize(tc.shape, tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Sanitize() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got, valueCmp); diff != "" {
				t.Errorf("Sanitize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, shape := range []Shape{RequiredScalar, OptionalScalar, OptionalList} {
		for _, in := range []Value{Scalar("mypkg"), Strings("a\x00", "b"), Scalar(1.5)} {
			once, err := Sanitize(shape, in)
			if err != nil {
				t.Fatalf("Sanitize(%v, %v) error = %v", shape, in, err)
			}
			twice, err := Sanitize(shape, once)
			if err != nil {
				t.Fatalf("Sanitize(%v, %v) second pass error = %v", shape, once, err)
			}
			if diff := cmp.Diff(once, twice, valueCmp); diff != "" {
				t.Errorf("Sanitize(%v, %v) not idempotent (-once +twice):\n%s", shape, in, diff)
			}
		}
	}
}

func TestValueAccessors(t *testing.T) {
	if !Absent().IsAbsent() || (Value{}).IsList() {
		t.Error("zero Value should be absent")
	}
	if got := Scalar("x").Text(); got != "x" {
		t.Errorf("Text() = %q, want x", got)
	}
	if got := Strings("x").Text(); got != "" {
		t.Errorf("list Text() = %q, want empty", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, Strings("a", "b").Texts()); diff != "" {
		t.Errorf("Texts() mismatch (-want +got):\n%s", diff)
	}
	if got := Scalar("x").Texts(); got != nil {
		t.Errorf("scalar Texts() = %v, want nil", got)
	}
}

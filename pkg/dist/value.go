// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import "fmt"

type valueKind int

const (
	absentKind valueKind = iota
	scalarKind
	listKind
)

// Value is a metadata value as produced by an Extractor: absent, a single
// scalar, or a list of scalars. The zero Value is absent.
//
// After Sanitize, scalars hold a string and lists hold only strings.
type Value struct {
	kind   valueKind
	scalar any
	list   []any
}

// RawMetadata maps metadata attribute names (e.g. "name", "requires_dist")
// to their extracted values. A missing key is equivalent to an absent value.
type RawMetadata map[string]Value

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Scalar returns a single-valued Value.
func Scalar(v any) Value { return Value{kind: scalarKind, scalar: v} }

// List returns a multi-valued Value. List() is present but empty.
func List(vs ...any) Value {
	return Value{kind: listKind, list: append([]any{}, vs...)}
}

// Strings returns a multi-valued Value of strings.
func Strings(ss ...string) Value {
	v := Value{kind: listKind, list: make([]any, len(ss))}
	for i, s := range ss {
		v.list[i] = s
	}
	return v
}

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool { return v.kind == absentKind }

// IsList reports whether v is multi-valued.
func (v Value) IsList() bool { return v.kind == listKind }

// Text returns the string held by a sanitized scalar, or "" otherwise.
func (v Value) Text() string {
	if v.kind != scalarKind {
		return ""
	}
	s, _ := v.scalar.(string)
	return s
}

// Texts returns the strings held by a sanitized list, or nil otherwise.
func (v Value) Texts() []string {
	if v.kind != listKind {
		return nil
	}
	out := make([]string, 0, len(v.list))
	for _, e := range v.list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (v Value) String() string {
	switch v.kind {
	case scalarKind:
		return fmt.Sprintf("%v", v.scalar)
	case listKind:
		return fmt.Sprintf("%v", v.list)
	default:
		return "<absent>"
	}
}

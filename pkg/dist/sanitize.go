// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Shape is the form a field takes once sanitized.
type Shape int

const (
	// RequiredScalar must be present and is reduced to a single string.
	RequiredScalar Shape = iota
	// OptionalScalar is reduced to a single string or absent.
	OptionalScalar
	// OptionalList is a list of strings or absent.
	OptionalList
)

// unknownPlaceholder is the value setuptools writes for unset fields.
const unknownPlaceholder = "UNKNOWN"

// Sanitize coerces v into shape.
//
// A list given for a scalar shape is reduced to its first element, or absent
// when empty. Present values are converted to strings. Scalars equal to
// "UNKNOWN" after trimming are dropped, and NUL bytes are escaped as `\x00`.
func Sanitize(shape Shape, v Value) (Value, error) {
	if v.kind == listKind && shape != OptionalList {
		if len(v.list) == 0 {
			v = Absent()
		} else {
			v = Scalar(v.list[0])
		}
	}
	if v.kind == absentKind {
		if shape == RequiredScalar {
			return Value{}, ErrMissingField
		}
		return v, nil
	}
	if shape == OptionalList {
		items := v.list
		if v.kind == scalarKind {
			items = []any{v.scalar}
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			s, err := coerce(item)
			if err != nil {
				return Value{}, err
			}
			out = append(out, escapeNUL(s))
		}
		return Value{kind: listKind, list: out}, nil
	}
	s, err := coerce(v.scalar)
	if err != nil {
		return Value{}, err
	}
	if strings.TrimSpace(s) == unknownPlaceholder {
		if shape == RequiredScalar {
			return Value{}, ErrMissingField
		}
		return Absent(), nil
	}
	return Scalar(escapeNUL(s)), nil
}

func coerce(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		if !utf8.Valid(t) {
			return "", errors.Wrap(ErrTypeCoercion, "invalid UTF-8")
		}
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.FormatInt(int64(t), 10), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return formatFloat(float64(t), 32), nil
	case float64:
		return formatFloat(t, 64), nil
	default:
		return "", errors.Wrapf(ErrTypeCoercion, "unsupported type %T", v)
	}
}

// formatFloat keeps a fractional part on integral values so that a metadata
// version decoded as 2.0 is rendered "2.0" rather than "2".
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.IndexAny(s, ".eEnN") < 0 {
		s += ".0"
	}
	return s
}

func escapeNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", `\x00`)
}

// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidSpecifier is returned for version clauses outside the PEP 440 grammar.
var ErrInvalidSpecifier = errors.New("invalid specifier")

// Operator is a version comparison operator.
type Operator string

// Operators ordered so that no operator is a prefix of a later one.
const (
	ArbitraryEqual Operator = "==="
	Compatible     Operator = "~="
	Equal          Operator = "=="
	NotEqual       Operator = "!="
	LessEqual      Operator = "<="
	GreaterEqual   Operator = ">="
	Less           Operator = "<"
	Greater        Operator = ">"
)

var operators = []Operator{ArbitraryEqual, Compatible, Equal, NotEqual, LessEqual, GreaterEqual, Less, Greater}

const (
	specEpoch   = `(?:[0-9]+!)?`
	specRelease = `[0-9]+(?:\.[0-9]+)*`
	specPre     = `(?:[-_\.]?(?:alpha|beta|preview|pre|a|b|c|rc)[-_\.]?[0-9]*)?`
	specPost    = `(?:(?:-[0-9]+)|(?:[-_\.]?(?:post|rev|r)[-_\.]?[0-9]*))?`
	specDev     = `(?:[-_\.]?dev[-_\.]?[0-9]*)?`
	specLocal   = `(?:\+[a-z0-9]+(?:[-_\.][a-z0-9]+)*)?`
)

var (
	// == and != permit a trailing wildcard directly after the release or a local segment.
	equalityRE = regexp.MustCompile(`(?i)^v?` + specEpoch + specRelease + `(?:\.\*|` + specPre + specPost + specDev + specLocal + `)$`)
	// ~= requires at least two release segments.
	compatibleRE = regexp.MustCompile(`(?i)^v?` + specEpoch + `[0-9]+(?:\.[0-9]+)+` + specPre + specPost + specDev + `$`)
	orderedRE    = regexp.MustCompile(`(?i)^v?` + specEpoch + specRelease + specPre + specPost + specDev + `$`)
	arbitraryRE  = regexp.MustCompile(`^[^\s;)]*$`)
)

// Specifier is a single version clause such as ">=1.0".
type Specifier struct {
	Operator Operator
	Version  string
}

func (s Specifier) String() string {
	return string(s.Operator) + s.Version
}

// ParseSpecifier parses a single version clause.
func ParseSpecifier(s string) (Specifier, error) {
	clause := strings.TrimSpace(s)
	for _, op := range operators {
		rest, ok := strings.CutPrefix(clause, string(op))
		if !ok {
			continue
		}
		version := strings.TrimSpace(rest)
		var re *regexp.Regexp
		switch op {
		case ArbitraryEqual:
			re = arbitraryRE
		case Equal, NotEqual:
			re = equalityRE
		case Compatible:
			re = compatibleRE
		default:
			re = orderedRE
		}
		if !re.MatchString(version) {
			break
		}
		return Specifier{Operator: op, Version: version}, nil
	}
	return Specifier{}, errors.Wrapf(ErrInvalidSpecifier, "%q", s)
}

// SpecifierSet is a conjunction of version clauses.
type SpecifierSet []Specifier

// ParseSpecifierSet parses a comma-separated list of version clauses.
//
// Empty clauses are ignored, so the empty string is a valid (unconstrained) set.
func ParseSpecifierSet(s string) (SpecifierSet, error) {
	var set SpecifierSet
	for _, clause := range strings.Split(s, ",") {
		if strings.TrimSpace(clause) == "" {
			continue
		}
		spec, err := ParseSpecifier(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

func (ss SpecifierSet) String() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
